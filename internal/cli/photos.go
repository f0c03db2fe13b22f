package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photobook/pkg/cache"
	"github.com/matzehuels/photobook/pkg/httputil"
	"github.com/matzehuels/photobook/pkg/photo"
	"github.com/matzehuels/photobook/pkg/pipeline"
)

const defaultAPIURL = "http://localhost:8000"

type photosOpts struct {
	api     string
	compose string // write a starter compose file here
	cache   cacheFlags
}

// photosCommand creates the photos command for browsing a user's catalog.
func (c *CLI) photosCommand() *cobra.Command {
	var po photosOpts

	cmd := &cobra.Command{
		Use:   "photos <username>",
		Short: "List a user's photos by event",
		Long: `List the photos the catalog holds for a user, grouped by event.

Events are listed in natural order (Event_2 before Event_10), followed by
the extras that belong to no event.

With --compose, a starter compose file is written that puts each event on
its own run of pages.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPhotos(cmd.Context(), args[0], po)
		},
	}

	api := os.Getenv("PHOTOBOOK_API_URL")
	if api == "" {
		api = defaultAPIURL
	}
	cmd.Flags().StringVar(&po.api, "api", api, "photo catalog API base URL")
	cmd.Flags().StringVar(&po.compose, "compose", "", "write a starter compose file (TOML)")
	po.cache.register(cmd)

	return cmd
}

func (c *CLI) runPhotos(ctx context.Context, username string, po photosOpts) error {
	store, err := newCache(ctx, po.cache)
	if err != nil {
		return err
	}
	defer store.Close()

	client := photo.NewClient(po.api, httputil.NewClient(store, cache.TTLCatalog, nil))

	spinner := newSpinner(ctx, fmt.Sprintf("Fetching photos for %s...", username))
	spinner.Start()
	col, err := client.Photos(ctx, username)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return err
	}
	spinner.Stop()

	if col.Len() == 0 {
		printInfo("No photos for %s", StyleHighlight.Render(username))
		return nil
	}

	printSuccess("%s for %s", plural(col.Len(), "photo"), StyleHighlight.Render(username))
	printNewline()
	fmt.Println(collectionSummary(col))

	if po.compose != "" {
		if err := writeStarter(col, po.compose); err != nil {
			return err
		}
		printNewline()
		printFile(po.compose)
		printNextStep("Render it", fmt.Sprintf("photobook render %s -f pdf", po.compose))
	}
	return nil
}

// collectionSummary lists the events with their photo counts, then the
// extras with any face counts the catalog reported.
func collectionSummary(col *photo.Collection) string {
	nameStyle := lipgloss.NewStyle().Foreground(colorCyan).Width(16)
	countStyle := lipgloss.NewStyle().Foreground(colorGray)

	var lines []string
	for _, event := range col.Events() {
		lines = append(lines, nameStyle.Render(event)+countStyle.Render(plural(len(col.Clusters[event]), "photo")))
	}
	if len(col.Extras) > 0 {
		lines = append(lines, nameStyle.Render("extras")+countStyle.Render(plural(len(col.Extras), "photo")))
		for i := range col.Extras {
			info, ok := col.Info(i)
			if !ok || info.FaceCount == 0 {
				continue
			}
			lines = append(lines, "  "+StyleDim.Render(fmt.Sprintf("%s %s", info.Filename, plural(info.FaceCount, "face"))))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func writeStarter(col *photo.Collection, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := pipeline.StarterCompose(col).Encode(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
