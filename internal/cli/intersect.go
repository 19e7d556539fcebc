package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lamina/pkg/pipeline"
)

// intersectCommand creates the intersect command.
func (c *CLI) intersectCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:               "intersect <surface.toml> <a> <b>",
		Short:             "Compute the geometric intersection number of two laminations",
		Example:           `  lamina intersect torus.toml a b`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeSurfaceArgs(argLamination, argLamination),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runIntersect(cmd.Context(), args[0], args[1], args[2], refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if the result is cached")

	return cmd
}

func (c *CLI) runIntersect(ctx context.Context, surface, a, b string, refresh bool) error {
	opts, err := c.surfaceOptions(surface, refresh)
	if err != nil {
		return err
	}
	opts.Lamination = a
	opts.Other = b

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	var res *pipeline.IntersectResult
	err = c.withSpinner(ctx, "Intersecting...", func() error {
		res, err = runner.Intersect(ctx, opts)
		return err
	})
	if err != nil {
		return err
	}

	printSuccess("i(%s, %s) = %s", pipeline.FormatWeights(res.A), pipeline.FormatWeights(res.B), StyleNumber.Render(strconv.Itoa(res.Number)))
	printRunStats(res.Run)
	return nil
}
