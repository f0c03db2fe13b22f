package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/photobook/pkg/pipeline"
)

// layoutsCommand creates the layouts command for browsing page templates.
func (c *CLI) layoutsCommand() *cobra.Command {
	var (
		templates string
		pick      bool
	)

	cmd := &cobra.Command{
		Use:   "layouts",
		Short: "List page templates",
		Long: `List the page templates available to compose files.

Built-in templates are always available. Templates from a TOML file given
with --templates are added to them, replacing built-ins with the same key.

With --pick, templates are shown in an interactive list with a preview of
their zones, and the chosen key is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayouts(templates, pick)
		},
	}

	cmd.Flags().StringVar(&templates, "templates", "", "TOML file with additional templates")
	cmd.Flags().BoolVar(&pick, "pick", false, "choose a template interactively")

	return cmd
}

func (c *CLI) runLayouts(templates string, pick bool) error {
	catalog, err := pipeline.LoadCatalog(templates)
	if err != nil {
		return err
	}

	if !pick {
		fmt.Println(layoutsTable(catalog.Templates()))
		printDetail("%d templates", catalog.Len())
		return nil
	}

	final, err := tea.NewProgram(NewLayoutListModel(catalog.Templates())).Run()
	if err != nil {
		return fmt.Errorf("layout picker: %w", err)
	}
	m, ok := final.(LayoutListModel)
	if !ok || m.Selected == nil {
		printInfo("No layout selected")
		return nil
	}
	printSuccess("Selected %s", StyleHighlight.Render(m.Selected.Key))
	printKeyValue("name", m.Selected.Name)
	printKeyValue("zones", fmt.Sprint(m.Selected.Len()))
	printNewline()
	printNextStep("Use it in a compose file", fmt.Sprintf("layout = %q", m.Selected.Key))
	return nil
}
