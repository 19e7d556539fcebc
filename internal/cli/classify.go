package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lamina/pkg/pipeline"
)

// classifyCommand creates the classify command.
func (c *CLI) classifyCommand() *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "classify <surface.toml> <word>",
		Short: "Compute the Nielsen-Thurston type of a mapping class",
		Long: `Classify evaluates a mapping class word and reports whether it is
periodic, reducible or pseudo-Anosov, together with its order.`,
		Example: `  lamina classify torus.toml "a B"
  lamina classify torus.toml anosov`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeSurfaceArgs(argWord),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runClassify(cmd.Context(), args[0], args[1], refresh)
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even if the result is cached")

	return cmd
}

func (c *CLI) runClassify(ctx context.Context, surface, word string, refresh bool) error {
	opts, err := c.surfaceOptions(surface, refresh)
	if err != nil {
		return err
	}
	opts.Word = word

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	var res *pipeline.ClassifyResult
	err = c.withSpinner(ctx, "Classifying "+word+"...", func() error {
		res, err = runner.Classify(ctx, opts)
		return err
	})
	if err != nil {
		return err
	}

	printSuccess("%s is %s", StyleHighlight.Render(res.Word), res.Type)
	order := "infinite"
	if res.Order > 0 {
		order = strconv.Itoa(res.Order)
	}
	printKeyValue("order", order)
	printRunStats(res.Run, strconv.Itoa(res.Moves)+" moves")
	return nil
}
