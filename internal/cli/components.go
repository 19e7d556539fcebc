package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lamina/pkg/pipeline"
)

// componentsCommand creates the components command.
func (c *CLI) componentsCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "components <surface.toml> <lamination>",
		Short: "Split a lamination into its components",
		Long: `Components lists the distinct curves and arcs making up a lamination,
each with its multiplicity.`,
		Example:           `  lamina components torus.toml "[2,-1,2]"`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeSurfaceArgs(argLamination),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runComponents(cmd.Context(), args[0], args[1], refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if the result is cached")

	return cmd
}

func (c *CLI) runComponents(ctx context.Context, surface, ref string, refresh bool) error {
	opts, err := c.surfaceOptions(surface, refresh)
	if err != nil {
		return err
	}
	opts.Lamination = ref

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	var res *pipeline.ComponentsResult
	err = c.withSpinner(ctx, "Splitting "+ref+"...", func() error {
		res, err = runner.Components(ctx, opts)
		return err
	})
	if err != nil {
		return err
	}

	printSuccess("%s %s has %d components", res.Kind, StyleHighlight.Render(pipeline.FormatWeights(res.Lamination)), len(res.Components))
	for _, comp := range res.Components {
		printKeyValue(fmt.Sprintf("%d x %s", comp.Multiplicity, comp.Kind), pipeline.FormatWeights(comp.Weights))
	}
	printRunStats(res.Run)
	return nil
}
