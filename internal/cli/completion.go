package cli

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	lio "github.com/matzehuels/lamina/pkg/io"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for lamina.

Completions know the lamina and mapping class names of the surface file
given as the first argument.

To load completions:

Bash:
  $ source <(lamina completion bash)

Zsh:
  $ lamina completion zsh > "${fpath[1]}/_lamina"

Fish:
  $ lamina completion fish | source

PowerShell:
  PS> lamina completion powershell | Out-String | Invoke-Expression
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// argKind says what a positional argument after the surface file holds.
type argKind int

const (
	argLamination argKind = iota
	argWord
)

// completeSurfaceArgs completes a surface file first, then names from that
// file according to kinds.
func completeSurfaceArgs(kinds ...argKind) cobra.CompletionFunc {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt
		}
		i := len(args) - 1
		if i >= len(kinds) {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		s, err := lio.LoadSurface(args[0])
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		return surfaceNames(s, kinds[i], toComplete), cobra.ShellCompDirectiveNoFileComp
	}
}

// surfaceNames lists the names in s usable as an argument of kind k.
func surfaceNames(s *lio.Surface, k argKind, prefix string) []string {
	names := s.LaminationNames()
	if k == argWord {
		for name := range s.MappingClasses {
			names = append(names, name)
		}
		slices.Sort(names)
	}
	out := names[:0]
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
