package cli

import (
	"slices"
	"testing"

	"github.com/spf13/cobra"
)

const completionSurface = `triangulation = "(0,1,2),(~0,~1,~2)"

[laminations]
a = [1, 0, 1]
b = [1, 1, 0]

[mapping_classes]
anosov = "a B"
`

func TestCompleteSurfaceArgs(t *testing.T) {
	surface := writeSurfaceText(t, completionSurface)
	tests := []struct {
		name       string
		kinds      []argKind
		args       []string
		toComplete string
		want       []string
		directive  cobra.ShellCompDirective
	}{
		{"surface file", []argKind{argLamination}, nil, "", []string{"toml"}, cobra.ShellCompDirectiveFilterFileExt},
		{"laminations", []argKind{argLamination}, []string{surface}, "", []string{"a", "b"}, cobra.ShellCompDirectiveNoFileComp},
		{"words", []argKind{argWord}, []string{surface}, "", []string{"a", "anosov", "b"}, cobra.ShellCompDirectiveNoFileComp},
		{"prefix", []argKind{argWord}, []string{surface}, "an", []string{"anosov"}, cobra.ShellCompDirectiveNoFileComp},
		{"second position", []argKind{argWord, argLamination}, []string{surface, "anosov"}, "", []string{"a", "b"}, cobra.ShellCompDirectiveNoFileComp},
		{"too many", []argKind{argLamination}, []string{surface, "a"}, "", nil, cobra.ShellCompDirectiveNoFileComp},
		{"missing surface", []argKind{argLamination}, []string{"/nonexistent.toml"}, "", nil, cobra.ShellCompDirectiveNoFileComp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dir := completeSurfaceArgs(tt.kinds...)(&cobra.Command{}, tt.args, tt.toComplete)
			if !slices.Equal(got, tt.want) {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
			if dir != tt.directive {
				t.Errorf("directive = %v, want %v", dir, tt.directive)
			}
		})
	}
}
