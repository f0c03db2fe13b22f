package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/photobook/pkg/pipeline"
)

const defaultRenderTimeout = 5 * time.Minute

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string        // output file (single artifact) or directory
	formats string        // comma separated: png, pdf
	timeout time.Duration // whole-run deadline including photo downloads
	cache   cacheFlags
}

// renderCommand creates the render command for exporting compose files.
func (c *CLI) renderCommand() *cobra.Command {
	var ro renderOpts
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [compose.toml]",
		Short: "Render a compose file to PNG pages or a PDF",
		Long: `Render a compose file to PNG pages or a multi-page PDF.

The compose file (TOML, or JSON with a .json extension) lists the pages of
the book with their layout, photos, background, texts and stickers. Photo
references are http(s) URLs or file paths relative to the compose file.

Photos that cannot be loaded are drawn as placeholders and reported as
warnings; they do not fail the export.

Downloaded photos and rendered pages are cached locally for faster
subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats, err := pipeline.ParseFormats(ro.formats)
			if err != nil {
				return err
			}
			opts.Formats = formats
			return c.runRender(cmd.Context(), args[0], opts, ro)
		},
	}

	cmd.Flags().StringVarP(&ro.output, "output", "o", "", "output file (single artifact) or directory (default: current directory)")
	cmd.Flags().StringVarP(&ro.formats, "format", "f", pipeline.FormatPNG, "output format(s): png, pdf (comma-separated)")
	cmd.Flags().DurationVar(&ro.timeout, "timeout", defaultRenderTimeout, "abort the render after this long")
	ro.cache.register(cmd)

	cmd.Flags().Float64Var(&opts.Width, "width", pipeline.DefaultWidth, "page width in pixels")
	cmd.Flags().Float64Var(&opts.Height, "height", pipeline.DefaultHeight, "page height in pixels")
	cmd.Flags().Float64Var(&opts.Scale, "scale", pipeline.DefaultScale, "raster multiplier")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", pipeline.DefaultConcurrency, "pages rendered in parallel")
	cmd.Flags().StringVar(&opts.Templates, "templates", "", "TOML file with additional templates")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached photos and pages")

	return cmd
}

// runRender loads the compose file, runs the pipeline, and writes artifacts.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, ro renderOpts) error {
	compose, err := pipeline.LoadCompose(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, ro.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.BaseDir = filepath.Dir(input)
	opts.Timeout = ro.timeout

	prog := newProgress(c.Logger)
	spinner := newSpinner(ctx, fmt.Sprintf("Rendering %d pages...", len(compose.Pages)))
	spinner.Start()

	result, err := runner.Execute(ctx, compose, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := writeArtifacts(result.Artifacts, ro.output)
	if err != nil {
		return err
	}

	printSuccess("Rendered %s in %s", plural(result.Stats.Pages, "page"), prog.elapsed())
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats.Pages, result.Stats.Photos, result.Stats.Elements,
		result.CacheInfo.ArtifactHit || (result.CacheInfo.PageHits > 0 && result.CacheInfo.PageHits == result.Stats.Pages))
	if n := len(result.Warnings); n > 0 {
		printNewline()
		printWarning("%s could not be drawn and were replaced by placeholders", plural(n, "image"))
		for _, w := range result.Warnings {
			printDetail("%s", w.Error())
		}
	}
	return nil
}

// writeArtifacts writes artifacts and returns their paths. A single
// artifact is written to output when output is not an existing directory;
// otherwise every artifact goes into output (or the working directory)
// under its own filename.
func writeArtifacts(artifacts []pipeline.Artifact, output string) ([]string, error) {
	dir := output
	single := ""
	if len(artifacts) == 1 && output != "" && !isDir(output) && !strings.HasSuffix(output, string(os.PathSeparator)) {
		dir, single = filepath.Dir(output), output
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := single
		if path == "" {
			path = filepath.Join(dir, a.Filename)
		}
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
