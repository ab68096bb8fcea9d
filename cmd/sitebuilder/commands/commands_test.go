package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		env     string
		want    slog.Level
	}{
		{"verbose wins", true, "error", slog.LevelDebug},
		{"env debug", false, "debug", slog.LevelDebug},
		{"env warning", false, " WARNING ", slog.LevelWarn},
		{"env error", false, "error", slog.LevelError},
		{"unset", false, "", slog.LevelInfo},
		{"unknown", false, "chatty", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("SITEBUILDER_LOG_LEVEL", tt.env)
			if got := parseLogLevel(tt.verbose); got != tt.want {
				t.Errorf("parseLogLevel(%v) with %q = %v, want %v", tt.verbose, tt.env, got, tt.want)
			}
		})
	}
}

func newParser(t *testing.T, cli *CLI) *kong.Kong {
	t.Helper()
	parser, err := kong.New(cli,
		kong.Name("sitebuilder"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	return parser
}

func TestCLIParsing(t *testing.T) {
	t.Run("build flags", func(t *testing.T) {
		var cli CLI
		ctx, err := newParser(t, &cli).Parse([]string{"-c", "site.yaml", "build", "-t", "sub-path", "-o", "out"})
		require.NoError(t, err)
		assert.Equal(t, "build", ctx.Command())
		assert.Equal(t, "site.yaml", cli.Config)
		assert.Equal(t, "sub-path", cli.Build.Target)
		assert.Equal(t, "out", cli.Build.Output)
	})

	t.Run("target shortcuts", func(t *testing.T) {
		for _, cmd := range []string{"build-cloudflare", "build-static", "build-github"} {
			var cli CLI
			ctx, err := newParser(t, &cli).Parse([]string{cmd})
			require.NoError(t, err, cmd)
			assert.Equal(t, cmd, ctx.Command())
			assert.Equal(t, "sitebuilder.yaml", cli.Config)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		var cli CLI
		_, err := newParser(t, &cli).Parse([]string{"history"})
		require.NoError(t, err)
		assert.Equal(t, 10, cli.History.Limit)

		_, err = newParser(t, &cli).Parse([]string{"publish", "--no-build"})
		require.NoError(t, err)
		assert.True(t, cli.Publish.NoBuild)
		assert.Equal(t, "sub-path", cli.Publish.Target)
	})

	t.Run("unknown command", func(t *testing.T) {
		var cli CLI
		_, err := newParser(t, &cli).Parse([]string{"deploy"})
		require.Error(t, err)
	})
}

// writeProject lays out a buildable project under a temp dir and returns the config path.
func writeProject(t *testing.T, projects string) (cfgPath, out string) {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"content/projects.json":     projects,
		"content/services.json":     `{"services":[{"title":"Audits"}]}`,
		"public/css/style.css":      "body{}",
		"public/css/components.css": ".card{}",
		"public/js/main.js":         "console.log('main')",
		"public/js/components.js":   "console.log('components')",
		"public/images/favicon.ico": "ico",
	}
	for rel, body := range files {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	}
	out = filepath.Join(root, "dist")
	cfg := strings.Join([]string{
		"site:",
		"  title: Test Portfolio",
		"paths:",
		"  content: " + filepath.Join(root, "content"),
		"  templates: " + filepath.Join(root, "templates"),
		"  assets: " + filepath.Join(root, "public"),
		"  output: " + out,
		"build:",
		"  target: root-domain",
		"",
	}, "\n")
	cfgPath = filepath.Join(root, "sitebuilder.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))
	return cfgPath, out
}

func run(t *testing.T, args ...string) error {
	t.Helper()
	var cli CLI
	ctx, err := newParser(t, &cli).Parse(args)
	require.NoError(t, err)
	return ctx.Run(&Global{Logger: slog.Default()}, &cli)
}

func TestBuildCommandWritesSite(t *testing.T) {
	cfgPath, out := writeProject(t, `{"projects":[{"id":"p1","title":"Kernel Tools","category":"linux"}]}`)

	require.NoError(t, run(t, "-c", cfgPath, "build-static"))

	index, err := os.ReadFile(filepath.Join(out, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(index), "Kernel Tools")
	assert.Contains(t, string(index), "Test Portfolio")
}

func TestValidateCommand(t *testing.T) {
	t.Run("valid content", func(t *testing.T) {
		cfgPath, _ := writeProject(t, `{"projects":[{"title":"Kernel Tools"}]}`)
		require.NoError(t, run(t, "-c", cfgPath, "validate"))
	})

	t.Run("schema violation", func(t *testing.T) {
		cfgPath, _ := writeProject(t, `{"projects":[{"id":"p1"}]}`)
		err := run(t, "-c", cfgPath, "validate", "--skip-templates")
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
	})

	t.Run("unparsable document", func(t *testing.T) {
		cfgPath, _ := writeProject(t, `{"projects":[`)
		err := run(t, "-c", cfgPath, "validate")
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryContent))
	})
}

func TestHistoryRequiresEventStore(t *testing.T) {
	cfgPath, _ := writeProject(t, `{"projects":[]}`)
	err := run(t, "-c", cfgPath, "history")
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestHistoryListsBuilds(t *testing.T) {
	cfgPath, _ := writeProject(t, `{"projects":[]}`)
	store := filepath.Join(filepath.Dir(cfgPath), "events.db")
	f, err := os.OpenFile(cfgPath, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, err = f.WriteString("state:\n  eventstore_path: " + store + "\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, run(t, "-c", cfgPath, "build"))
	require.NoError(t, run(t, "-c", cfgPath, "history", "-n", "5"))
	_, err = os.Stat(store)
	require.NoError(t, err)
}

func TestInitWritesConfigAndTemplates(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sitebuilder.yaml")

	require.NoError(t, run(t, "-c", cfgPath, "init"))
	_, err := os.Stat(cfgPath)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "templates", "layout.html"))
	require.NoError(t, err)

	err = run(t, "-c", cfgPath, "init", "--no-templates")
	require.Error(t, err, "existing config without --force")
	require.NoError(t, run(t, "-c", cfgPath, "init", "--force", "--no-templates"))
}
