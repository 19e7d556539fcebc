package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lamina/pkg/pipeline"
)

// twistCommand creates the twist command.
func (c *CLI) twistCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "twist <surface.toml> <word> <lamination>",
		Short: "Apply a mapping class word to a lamination",
		Long: `Twist evaluates a mapping class word and applies it to a lamination.

Words compose like functions, so the rightmost term acts first. A curve name
stands for the Dehn twist about it and its upper-case form for the inverse.
"h.x" is the half twist about arc x, "^k" takes a power.`,
		Example: `  lamina twist torus.toml "a B" b
  lamina twist torus.toml "a^3" "[1,1,0]"`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: completeSurfaceArgs(argWord, argLamination),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runTwist(cmd.Context(), args[0], args[1], args[2])
		},
	}
	return cmd
}

func (c *CLI) runTwist(ctx context.Context, surface, word, ref string) error {
	opts, err := c.surfaceOptions(surface, false)
	if err != nil {
		return err
	}
	opts.Word = word
	opts.Lamination = ref

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := runner.Twist(ctx, opts)
	if err != nil {
		return err
	}

	printSuccess("%s applied to %s", StyleHighlight.Render(res.Word), ref)
	printKeyValue("image", pipeline.FormatWeights(res.Image))
	printKeyValue("kind", res.Kind)
	printRunStats(res.Run)
	return nil
}
