package config

import (
	"fmt"
	"net/mail"
	"net/url"
	"time"

	"github.com/glitchidea/sitebuilder/internal/assemble"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/target"
)

// MinRebuildInterval bounds server.rebuild_interval from below.
const MinRebuildInterval = time.Minute

// Validate checks a configuration after defaults have been applied.
func Validate(cfg *Config) error {
	return newConfigurationValidator(cfg).validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(cfg *Config) *configurationValidator {
	return &configurationValidator{config: cfg}
}

func (cv *configurationValidator) validate() error {
	for _, check := range []func() error{
		cv.validatePaths,
		cv.validateBuild,
		cv.validateTargets,
		cv.validateAssets,
		cv.validateServer,
		cv.validateContact,
		cv.validateEvents,
	} {
		if err := check(); err != nil {
			return err
		}
	}
	return nil
}

func (cv *configurationValidator) validatePaths() error {
	p := cv.config.Paths
	for field, v := range map[string]string{
		"paths.content":   p.Content,
		"paths.templates": p.Templates,
		"paths.assets":    p.Assets,
		"paths.output":    p.Output,
	} {
		if v == "" {
			return invalid(field, "must not be empty")
		}
	}
	return nil
}

func (cv *configurationValidator) validateBuild() error {
	if _, err := target.Parse(cv.config.Build.Target); err != nil {
		return invalidCause("build.target", err)
	}
	return nil
}

func (cv *configurationValidator) validateTargets() error {
	for key, tc := range cv.config.Targets {
		name, err := target.Parse(key)
		if err != nil {
			return invalidCause("targets."+key, err)
		}
		if _, err := target.Resolve(name, tc.override()); err != nil {
			return invalidCause("targets."+key, err)
		}
	}
	return nil
}

func (cv *configurationValidator) validateAssets() error {
	if err := assemble.ValidatePatterns(cv.config.Assets.Exclude); err != nil {
		return invalidCause("assets.exclude", err)
	}
	return nil
}

func (cv *configurationValidator) validateServer() error {
	s := cv.config.Server
	if s.RebuildInterval == "" {
		return nil
	}
	d, err := time.ParseDuration(s.RebuildInterval)
	if err != nil {
		return invalidCause("server.rebuild_interval", err)
	}
	if d < MinRebuildInterval {
		return invalid("server.rebuild_interval", fmt.Sprintf("must be at least %s", MinRebuildInterval))
	}
	return nil
}

func (cv *configurationValidator) validateContact() error {
	c := cv.config.Contact
	switch c.Transport {
	case TransportNone:
	case TransportSMTP:
		if c.SMTP.Host == "" {
			return invalid("contact.smtp.host", "required for smtp transport")
		}
		if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
			return invalid("contact.smtp.port", "must be between 1 and 65535")
		}
		if _, err := mail.ParseAddress(c.SMTP.From); err != nil {
			return invalidCause("contact.smtp.from", err)
		}
		if _, err := mail.ParseAddress(c.SMTP.To); err != nil {
			return invalidCause("contact.smtp.to", err)
		}
	case TransportWorker:
		if err := requireURL(c.Worker.URL, "http", "https"); err != nil {
			return invalidCause("contact.worker.url", err)
		}
	default:
		return invalid("contact.transport", fmt.Sprintf("unknown transport %q (valid: none, smtp, worker)", c.Transport))
	}
	return nil
}

func (cv *configurationValidator) validateEvents() error {
	if cv.config.Events.NATSURL == "" {
		return nil
	}
	if err := requireURL(cv.config.Events.NATSURL, "nats", "tls", "ws", "wss"); err != nil {
		return invalidCause("events.nats_url", err)
	}
	return nil
}

func requireURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Host == "" {
		return fmt.Errorf("url %q has no host", raw)
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("url %q must use one of %v", raw, schemes)
}

func invalid(field, msg string) error {
	return ferrors.ConfigError(fmt.Sprintf("%s: %s", field, msg)).
		WithContext("field", field).
		Build()
}

func invalidCause(field string, cause error) error {
	return ferrors.ConfigError(fmt.Sprintf("%s: %v", field, cause)).
		WithCause(cause).
		WithContext("field", field).
		Build()
}
