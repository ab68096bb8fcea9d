package config

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// Load reads the configuration at path. A missing file is not an error: the
// defaults are used. Env files next to the config are loaded first, then
// ${VAR} references in the YAML are expanded. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}
	for _, f := range loadEnvFiles(filepath.Dir(path)) {
		slog.Debug("Loaded environment file", "file", f)
	}

	cfg := &Config{}
	data, err := os.ReadFile(filepath.Clean(path))
	switch {
	case errors.Is(err, os.ErrNotExist):
		slog.Debug("No configuration file, using defaults", "file", path)
	case err != nil:
		return nil, ferrors.ConfigError("failed to read config file").
			WithCause(err).
			WithContext("file", path).
			Build()
	default:
		if err := decode(data, cfg); err != nil {
			return nil, ferrors.ConfigError("failed to parse config file").
				WithCause(err).
				WithContext("file", path).
				Build()
		}
	}

	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML bytes without touching the filesystem or env files.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := decode(data, cfg); err != nil {
		return nil, ferrors.ConfigError("failed to parse config").WithCause(err).Build()
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	expanded := os.ExpandEnv(string(data))
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
