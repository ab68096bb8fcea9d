package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// Example returns the configuration written by Init.
func Example() *Config {
	verify := true
	return &Config{
		Site: SiteConfig{
			Title:       "My Portfolio",
			Description: "Projects, services and writing",
			Keywords:    "portfolio, software, security",
			Author:      "Your Name",
			BaseURL:     "https://example.com",
		},
		Paths: PathsConfig{Content: "content", Templates: "templates", Assets: "public", Output: "dist"},
		Build: BuildConfig{
			Target:       "root-domain",
			VerifyAssets: &verify,
			ExtraFiles:   []string{"robots.txt"},
		},
		Assets: AssetsConfig{Exclude: []string{"**/.DS_Store", "**/*.map"}},
		Targets: map[string]TargetConfig{
			"sub-path": {Markers: []MarkerConfig{{Name: "CNAME", Content: "example.com\n"}}},
		},
		Server: ServerConfig{Addr: ":3000", CORSOrigin: "https://example.com"},
		Contact: ContactConfig{
			Transport: TransportSMTP,
			SMTP: SMTPConfig{
				Host:     "smtp.gmail.com",
				Port:     587,
				Username: "${SMTP_USERNAME}",
				Password: "${SMTP_PASSWORD}",
				From:     "me@example.com",
				To:       "me@example.com",
			},
			InboxPath: "contact.db",
		},
		Publish: PublishConfig{
			Branch:    "gh-pages",
			RemoteURL: "https://github.com/you/you.github.io.git",
			Token:     "${GITHUB_TOKEN}",
		},
	}
}

// Init writes the example configuration to path.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ConfigError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).
			WithContext("file", path).
			Build()
	}
	data, err := yaml.Marshal(Example())
	if err != nil {
		return ferrors.InternalError("failed to marshal example config").WithCause(err).Build()
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return ferrors.FileSystemError("failed to write config file").
			WithCause(err).
			WithContext("file", path).
			Build()
	}
	return nil
}
