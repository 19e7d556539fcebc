package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/lamina/pkg/buildinfo"
)

func TestSetVersion(t *testing.T) {
	oldV, oldC, oldD := buildinfo.Version, buildinfo.Commit, buildinfo.Date
	defer func() { buildinfo.Version, buildinfo.Commit, buildinfo.Date = oldV, oldC, oldD }()

	SetVersion("1.0.0", "abc123", "2024-01-01")

	if buildinfo.Version != "1.0.0" {
		t.Errorf("Version = %q, want %q", buildinfo.Version, "1.0.0")
	}
	if buildinfo.Commit != "abc123" {
		t.Errorf("Commit = %q, want %q", buildinfo.Commit, "abc123")
	}
	if buildinfo.Date != "2024-01-01" {
		t.Errorf("Date = %q, want %q", buildinfo.Date, "2024-01-01")
	}

	SetVersion("", "", "")
	if buildinfo.Version != "1.0.0" {
		t.Errorf("SetVersion(\"\") changed Version to %q", buildinfo.Version)
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	for _, name := range []string{"shorten", "components", "twist", "classify", "intersect", "dot", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("Find(%q) = %v, %v", name, cmd, err)
		}
	}
	for _, flag := range []string{"verbose", "no-cache", "redis", "badger", "metrics"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("missing persistent flag --%s", flag)
		}
	}
}

const torusSurface = `name = "torus"
triangulation = "(0,1,2),(~0,~1,~2)"

[laminations]
a = [1, 0, 1]
b = [1, 1, 0]
`

// execute runs the root command with args against a fresh CLI.
func execute(t *testing.T, args ...string) error {
	t.Helper()
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.ExecuteContext(context.Background())
}

func writeSurface(t *testing.T) string {
	t.Helper()
	return writeSurfaceText(t, torusSurface)
}

func writeSurfaceText(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "torus.toml")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExecute_Commands(t *testing.T) {
	surface := writeSurface(t)
	badger := filepath.Join(t.TempDir(), "badger")
	tests := []struct {
		name string
		args []string
	}{
		{"shorten", []string{"-v", "--no-cache", "shorten", surface, "[6,1,5]"}},
		{"shorten badger", []string{"-v", "--badger", badger, "shorten", surface, "[6,1,5]"}},
		{"components", []string{"-v", "--no-cache", "components", surface, "[2,-1,2]"}},
		{"twist", []string{"-v", "--no-cache", "twist", surface, "a", "b"}},
		{"classify", []string{"-v", "--no-cache", "classify", surface, "a B"}},
		{"intersect", []string{"-v", "--no-cache", "intersect", surface, "a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err != nil {
				t.Errorf("%v: %v", tt.args, err)
			}
		})
	}
}

func TestExecute_ShortenExport(t *testing.T) {
	surface := writeSurface(t)
	out := filepath.Join(t.TempDir(), "conj.json")
	if err := execute(t, "-v", "--no-cache", "shorten", surface, "[6,1,5]", "--export", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "moves") {
		t.Errorf("exported encoding = %s, want a moves list", data)
	}
}

func TestExecute_DotToFile(t *testing.T) {
	surface := writeSurface(t)
	out := filepath.Join(t.TempDir(), "torus.dot")
	if err := execute(t, "--no-cache", "dot", surface, "a", "-o", out); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "graph G {") {
		t.Errorf("dot output = %q, want a graph", data)
	}
}

func TestExecute_Errors(t *testing.T) {
	surface := writeSurface(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing surface", []string{"--no-cache", "shorten", filepath.Join(t.TempDir(), "none.toml"), "a"}},
		{"unknown lamination", []string{"--no-cache", "shorten", surface, "zz"}},
		{"bad format", []string{"--no-cache", "dot", surface, "-f", "png"}},
		{"bad redis addr", []string{"--redis", "redis://x", "shorten", surface, "a"}},
		{"exclusive cache flags", []string{"--no-cache", "--badger", t.TempDir(), "shorten", surface, "a"}},
		{"wrong arity", []string{"--no-cache", "intersect", surface, "a"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := execute(t, tt.args...); err == nil {
				t.Errorf("%v succeeded, want error", tt.args)
			}
		})
	}
}
