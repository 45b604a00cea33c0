package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	apperr "github.com/matzehuels/flowplan/pkg/errors"
	"github.com/matzehuels/flowplan/pkg/pipeline"
)

// renderFlags holds the flags for the render command.
type renderFlags struct {
	opts     pipeline.Options
	formats  string
	output   string
	noRoutes bool
	noCache  bool
}

// renderCommand creates the render command for drawing the network and plans.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Draw the valve network with the planned routes",
		Long: `Render plans a valve network and writes it as a Graphviz drawing.

Opened valves are annotated with their opening order and minute, colored per
agent. With --compressed only the start and the valves worth opening are drawn,
joined by their shortest distances.`,
		Example: `  # SVG next to the input (input.svg)
  flowplan render input.txt

  # Several formats with a common base name
  flowplan render input.txt -f dot,svg,pdf -o out/plan

  # DOT on stdout
  flowplan render input.txt -f dot -o -`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.opts.Input = args[0]
			}
			return c.runRender(cmd.Context(), flags)
		},
	}

	addPlanFlags(cmd, &flags.opts)
	cmd.Flags().StringVarP(&flags.formats, "format", "f", "", "output formats: json, dot, svg, png, pdf (default svg)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path or base name; - writes a single format to stdout")
	cmd.Flags().BoolVar(&flags.opts.Compressed, "compressed", false, "draw only openable valves and their distances")
	cmd.Flags().BoolVar(&flags.noRoutes, "no-routes", false, "draw the network without plan annotations")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable the result cache")
	registerCompletions(cmd)

	return cmd
}

// runRender executes the full pipeline and writes each artifact.
func (c *CLI) runRender(ctx context.Context, flags renderFlags) error {
	opts, err := c.resolveOptions(flags.opts)
	if err != nil {
		return err
	}
	if err := requireInput(opts); err != nil {
		return err
	}
	if flags.noCache {
		opts.CacheBackend = pipeline.CacheNone
	}
	opts.Formats = parseFormats(flags.formats, opts.Formats...)
	if len(opts.Formats) == 0 {
		opts.Formats = []string{pipeline.FormatSVG}
	}
	opts.Routes = !flags.noRoutes
	if flags.output == "-" && len(opts.Formats) != 1 {
		return apperr.New(apperr.ErrCodeInvalidFormat, "stdout output needs exactly one format, got %d", len(opts.Formats))
	}

	var paths []string
	if flags.output != "-" {
		base := basePath(flags.output, opts.Input)
		for _, format := range opts.Formats {
			path := outputPath(flags.output, base, format, len(opts.Formats))
			if filepath.Clean(path) == filepath.Clean(opts.Input) {
				return apperr.New(apperr.ErrCodeInvalidPath, "output %s would overwrite the input", path)
			}
			paths = append(paths, path)
		}
	}

	res, err := c.execute(ctx, opts, "Rendering plan...")
	if err != nil {
		return err
	}

	if flags.output == "-" {
		_, err := os.Stdout.Write(res.Artifacts[opts.Formats[0]])
		return err
	}

	printSuccess("Rendered %s", opts.Input)
	printStats(res.Valves, res.Openable, res.CacheInfo.PlanHit)
	for i, format := range opts.Formats {
		if err := writeArtifact(paths[i], res.Artifacts[format]); err != nil {
			return err
		}
		printFile(paths[i])
	}
	return nil
}

// basePath returns the path that artifacts are named after: the output flag
// without extension, or else the input path without extension.
func basePath(output, input string) string {
	if output != "" {
		return strings.TrimSuffix(output, filepath.Ext(output))
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// outputPath names the artifact for format. A single format written to an
// explicit output path keeps that path as given.
func outputPath(output, base, format string, count int) string {
	if output != "" && count == 1 && filepath.Ext(output) != "" {
		return output
	}
	return base + "." + format
}

// writeArtifact writes data to path, creating parent directories.
func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
