package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lamina/pkg/pipeline"
)

// dotOpts holds the flags of the dot command.
type dotOpts struct {
	format string
	output string
}

// dotCommand creates the dot command.
func (c *CLI) dotCommand() *cobra.Command {
	opts := dotOpts{}

	cmd := &cobra.Command{
		Use:   "dot <surface.toml> [lamination]",
		Short: "Export the dual graph of a triangulation",
		Long: `Dot writes the dual graph of the surface's triangulation as Graphviz DOT
or rendered SVG. Edges of the dual tree are solid, the rest dashed. With a
lamination, edges are labelled with its weights.`,
		Example: `  lamina dot torus.toml > torus.dot
  lamina dot torus.toml a -f svg -o torus.svg`,
		Args:              cobra.RangeArgs(1, 2),
		ValidArgsFunction: completeSurfaceArgs(argLamination),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 2 {
				ref = args[1]
			}
			return c.runDot(cmd.Context(), args[0], ref, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", pipeline.DefaultFormat, "output format (dot, svg)")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

func (c *CLI) runDot(ctx context.Context, surface, ref string, opts dotOpts) error {
	if err := pipeline.ValidateFormat(opts.format); err != nil {
		return err
	}
	popts, err := c.surfaceOptions(surface, false)
	if err != nil {
		return err
	}
	popts.Lamination = ref
	popts.Format = opts.format

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, err := runner.Dot(ctx, popts)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.output, err)
	}
	printSuccess("Exported dual graph")
	printFile(opts.output)
	return nil
}
