package config

import (
	"go/ast"
	"go/parser"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sirkon/throws/internal/rewrite"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
runtime:
  - github.com/sirkon/throws
  - github.com/acme/throws
directive: fallible
cache_dir: .cache/throws
workers: 3
min_go: "1.25"
abandon:
  - '"github.com/acme/app/fatal".Exit'
`)

	cfg, err := ParseConfig(data, "/work/throws.yaml")
	require.NoError(t, err)

	require.Equal(t, &Config{
		Runtime:   []string{"github.com/sirkon/throws", "github.com/acme/throws"},
		Directive: "fallible",
		CacheDir:  filepath.Join("/work", ".cache/throws"),
		Workers:   3,
		MinGo:     "1.25",
		Abandon: []Reference{
			{Package: "github.com/acme/app/fatal", Name: "Exit"},
		},
	}, cfg)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"), "")
	require.NoError(t, err)

	require.Equal(t, []string{rewrite.RuntimePath}, cfg.Runtime)
	require.Equal(t, "throws", cfg.Directive)
	require.Equal(t, DefaultMinGo, cfg.MinGo)
	require.NotEmpty(t, cfg.CacheDir)
	require.Positive(t, cfg.Workers)
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{
			name: "malformed yaml",
			data: "runtime: [",
		},
		{
			name: "bad directive",
			data: "directive: 'no way'",
		},
		{
			name: "negative workers",
			data: "workers: -1",
		},
		{
			name: "bad go version",
			data: "min_go: latest",
		},
		{
			name: "bad runtime path",
			data: "runtime: ['']",
		},
		{
			name: "unquoted abandon package",
			data: "abandon: [os.Exit]",
		},
		{
			name: "abandon method",
			data: `abandon: ['"os".File.Close']`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data), "throws.yaml")
			require.Error(t, err)
		})
	}
}

func TestFindConfig(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindConfig(nested)
	require.NoError(t, err)
	if path != "" {
		// Some parent of the temporary directory has a config, nothing to check.
		t.Skipf("unexpected config %s", path)
	}

	want := filepath.Join(root, "throws.yml")
	require.NoError(t, os.WriteFile(want, []byte("workers: 2\n"), 0o644))

	path, err = FindConfig(nested)
	require.NoError(t, err)
	require.Equal(t, want, path)

	cfg, path, err := Load(nested)
	require.NoError(t, err)
	require.Equal(t, want, path)
	require.Equal(t, 2, cfg.Workers)
}

func TestReferenceText(t *testing.T) {
	var ref Reference
	require.NoError(t, ref.UnmarshalText([]byte(` "log/slog".Exit `)))
	require.Equal(t, Reference{Package: "log/slog", Name: "Exit"}, ref)

	text, err := ref.MarshalText()
	require.NoError(t, err)
	require.Equal(t, `"log/slog".Exit`, string(text))

	require.Equal(t, rewrite.PackagedFunc{PkgPath: "log/slog", Name: "Exit"}, ref.Func())
}

func TestAbandonFuncs(t *testing.T) {
	cfg := Default()
	cfg.Abandon = []Reference{{Package: "github.com/acme/app/fatal", Name: "Exit"}}

	abandon := cfg.AbandonFuncs()
	imports := map[string]string{
		"fatal": "github.com/acme/app/fatal",
		"os":    "os",
	}

	for src, want := range map[string]bool{
		"fatal.Exit(1)":  true,
		"os.Exit(1)":     true,
		"panic(err)":     true,
		"fatal.Print(1)": false,
		"other.Exit(1)":  false,
	} {
		e, err := parser.ParseExpr(src)
		require.NoError(t, err)
		require.Equal(t, want, abandon.Is(e.(*ast.CallExpr), imports), src)
	}
}
