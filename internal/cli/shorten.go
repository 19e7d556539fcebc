package cli

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"

	lio "github.com/matzehuels/lamina/pkg/io"
	"github.com/matzehuels/lamina/pkg/pipeline"
)

// shortenOpts holds the flags of the shorten command.
type shortenOpts struct {
	refresh bool
	export  string
}

// shortenCommand creates the shorten command.
func (c *CLI) shortenCommand() *cobra.Command {
	opts := shortenOpts{}

	cmd := &cobra.Command{
		Use:   "shorten <surface.toml> <lamination>",
		Short: "Shorten a lamination to its canonical form",
		Long: `Shorten flips and twists until the lamination has minimal weight.

The lamination is a name from the surface file or a weight vector such as
"[6,1,5]". The result is the short lamination, the triangulation it lives on,
and the number of moves in the conjugating encoding.`,
		Example: `  lamina shorten torus.toml "[6,1,5]"
  lamina shorten torus.toml gamma --export conj.json`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: completeSurfaceArgs(argLamination),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runShorten(cmd.Context(), args[0], args[1], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "recompute even if the result is cached")
	cmd.Flags().StringVarP(&opts.export, "export", "e", "", "write the conjugating encoding to this JSON file")

	return cmd
}

func (c *CLI) runShorten(ctx context.Context, surface, ref string, opts shortenOpts) error {
	popts, err := c.surfaceOptions(surface, opts.refresh)
	if err != nil {
		return err
	}
	popts.Lamination = ref

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	var res *pipeline.ShortenResult
	err = c.withSpinner(ctx, "Shortening "+ref+"...", func() error {
		res, err = runner.Shorten(ctx, popts)
		return err
	})
	if err != nil {
		return err
	}

	printSuccess("Shortened %s %s", res.Kind, StyleHighlight.Render(pipeline.FormatWeights(res.Lamination)))
	printKeyValue("short", pipeline.FormatWeights(res.Short))
	printKeyValue("target", res.Target)
	printKeyValue("moves", strconv.Itoa(len(res.Moves)))
	printRunStats(res.Run, "weight "+strconv.Itoa(weightOf(res.Lamination))+" "+iconArrow+" "+strconv.Itoa(weightOf(res.Short)))

	if opts.export != "" {
		conj, err := res.Conjugator(popts.Surface.Triangulation)
		if err != nil {
			return err
		}
		if err := lio.ExportEncoding(conj, opts.export); err != nil {
			return err
		}
		printFile(opts.export)
		return nil
	}
	printNextStep("Save the conjugator", "lamina shorten "+surface+" '"+ref+"' --export conj.json")
	return nil
}

// weightOf sums the positive weights, matching kernel.Lamination.Weight.
func weightOf(weights []int) int {
	n := 0
	for _, w := range weights {
		n += max(w, 0)
	}
	return n
}
