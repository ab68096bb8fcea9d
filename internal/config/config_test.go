package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/target"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "content", cfg.Paths.Content)
	assert.Equal(t, "templates", cfg.Paths.Templates)
	assert.Equal(t, "public", cfg.Paths.Assets)
	assert.Equal(t, "dist", cfg.Paths.Output)
	assert.Equal(t, "root-domain", cfg.Build.Target)
	assert.True(t, cfg.Build.VerifyAssetsEnabled())
	assert.Equal(t, ":3000", cfg.Server.Addr)
	assert.Equal(t, TransportNone, cfg.Contact.Transport)
	assert.Equal(t, "gh-pages", cfg.Publish.Branch)
}

func TestParse_DefaultExtraFiles(t *testing.T) {
	cfg, err := Parse([]byte(""))
	require.NoError(t, err)
	assert.Equal(t, []string{"robots.txt", "sitemap.xml", "favicon.ico"}, cfg.Build.ExtraFiles)

	cfg, err = Parse([]byte("build:\n  extra_files: [humans.txt]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"humans.txt"}, cfg.Build.ExtraFiles)
}

func TestLoad_ExpandsEnvAndEnvFile(t *testing.T) {
	path := writeConfig(t, `
site:
  title: ${SITE_TITLE}
contact:
  transport: smtp
  smtp:
    host: smtp.example.com
    username: me@example.com
    password: ${SMTP_PASSWORD}
`)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), ".env"),
		[]byte("SMTP_PASSWORD=from-dotenv\nSITE_TITLE=ignored\n"), 0o600))
	t.Setenv("SITE_TITLE", "From Env")
	t.Setenv("SMTP_PASSWORD", "")
	require.NoError(t, os.Unsetenv("SMTP_PASSWORD"))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "From Env", cfg.Site.Title, "existing env wins over .env")
	assert.Equal(t, "from-dotenv", cfg.Contact.SMTP.Password)
	assert.Equal(t, 587, cfg.Contact.SMTP.Port)
	assert.Equal(t, "me@example.com", cfg.Contact.SMTP.From)
	assert.Equal(t, "me@example.com", cfg.Contact.SMTP.To)
}

func TestLoad_RejectsUnknownKeys(t *testing.T) {
	_, err := Load(writeConfig(t, "sitee:\n  title: typo\n"))
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		ok   bool
	}{
		{"empty", "", true},
		{"alias target", "build:\n  target: github\n", true},
		{"unknown target", "build:\n  target: netlify\n", false},
		{"bad exclude", "assets:\n  exclude: ['[x']\n", false},
		{"short interval", "server:\n  rebuild_interval: 10s\n", false},
		{"valid interval", "server:\n  rebuild_interval: 15m\n", true},
		{"bad interval", "server:\n  rebuild_interval: soon\n", false},
		{"smtp without host", "contact:\n  transport: smtp\n  smtp:\n    from: a@b.c\n", false},
		{"worker url", "contact:\n  transport: worker\n  worker:\n    url: https://mail.example.workers.dev\n", true},
		{"worker bad scheme", "contact:\n  transport: worker\n  worker:\n    url: ftp://x\n", false},
		{"unknown transport", "contact:\n  transport: pigeon\n", false},
		{"nats url", "events:\n  nats_url: nats://localhost:4222\n", true},
		{"bad nats url", "events:\n  nats_url: localhost\n", false},
		{"target override", "targets:\n  static:\n    content_layout: flat\n", true},
		{"bad layout", "targets:\n  static:\n    content_layout: deep\n", false},
		{"bad target key", "targets:\n  netlify: {}\n", false},
		{"bad marker", "targets:\n  sub-path:\n    markers:\n      - name: a/b\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestBuildOptions(t *testing.T) {
	cfg, err := Parse([]byte(`
site:
  title: Me
paths:
  output: out
build:
  target: sub-path
  verify_assets: false
  report: true
content:
  strict_schema: true
targets:
  github:
    markers:
      - name: CNAME
        content: me.example.com
  static:
    content_layout: flat
`))
	require.NoError(t, err)

	opts, err := cfg.BuildOptions("")
	require.NoError(t, err)
	assert.Equal(t, target.SubPath, opts.Profile.Name)
	assert.Equal(t, "out", opts.OutputDir)
	assert.False(t, opts.VerifyAssets)
	assert.True(t, opts.PersistReport)
	assert.True(t, opts.StrictSchema)
	assert.Equal(t, "Me", opts.Site.Title)
	require.Len(t, opts.Profile.Markers, 2)
	assert.Equal(t, ".nojekyll", opts.Profile.Markers[0].Name)
	assert.Equal(t, "CNAME", opts.Profile.Markers[1].Name)

	static, err := cfg.BuildOptions("generic-static")
	require.NoError(t, err)
	assert.Equal(t, target.LayoutFlat, static.Profile.ContentLayout)
	assert.Equal(t, ".", static.Profile.ContentDir())

	root, err := cfg.BuildOptions("cloudflare")
	require.NoError(t, err)
	assert.False(t, root.Profile.RewritePaths)

	_, err = cfg.BuildOptions("netlify")
	assert.Error(t, err)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFile)
	require.NoError(t, Init(path, false))

	err := Init(path, false)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	require.NoError(t, Init(path, true))

	t.Setenv("SMTP_USERNAME", "me@example.com")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "My Portfolio", cfg.Site.Title)
	assert.Equal(t, TransportSMTP, cfg.Contact.Transport)
	assert.Equal(t, "me@example.com", cfg.Contact.SMTP.Username)
}
