package config

// DefaultApplier applies defaults for one configuration section.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config)
	Domain() string
}

type pathsDefaults struct{}

func (pathsDefaults) Domain() string { return "paths" }

func (pathsDefaults) ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Paths.Content, "content")
	setDefault(&cfg.Paths.Templates, "templates")
	setDefault(&cfg.Paths.Assets, "public")
	setDefault(&cfg.Paths.Output, "dist")
}

type siteDefaults struct{}

func (siteDefaults) Domain() string { return "site" }

func (siteDefaults) ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Site.Title, "Portfolio")
}

type buildDefaults struct{}

func (buildDefaults) Domain() string { return "build" }

func (buildDefaults) ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Build.Target, "root-domain")
	if cfg.Build.ExtraFiles == nil {
		cfg.Build.ExtraFiles = []string{"robots.txt", "sitemap.xml", "favicon.ico"}
	}
}

type serverDefaults struct{}

func (serverDefaults) Domain() string { return "server" }

func (serverDefaults) ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Server.Addr, ":3000")
	setDefault(&cfg.Server.CORSOrigin, "*")
}

type contactDefaults struct{}

func (contactDefaults) Domain() string { return "contact" }

func (contactDefaults) ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Contact.Transport, TransportNone)
	if cfg.Contact.SMTP.Port == 0 {
		cfg.Contact.SMTP.Port = 587
	}
	setDefault(&cfg.Contact.SMTP.From, cfg.Contact.SMTP.Username)
	setDefault(&cfg.Contact.SMTP.To, cfg.Contact.SMTP.From)
}

type eventsDefaults struct{}

func (eventsDefaults) Domain() string { return "events" }

func (eventsDefaults) ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Events.Subject, "sitebuilder.builds")
}

type publishDefaults struct{}

func (publishDefaults) Domain() string { return "publish" }

func (publishDefaults) ApplyDefaults(cfg *Config) {
	setDefault(&cfg.Publish.Branch, "gh-pages")
	setDefault(&cfg.Publish.AuthorName, "sitebuilder")
	setDefault(&cfg.Publish.AuthorEmail, "sitebuilder@localhost")
}

// appliers runs in order; contact reads SMTP fields set earlier in the same pass.
var appliers = []DefaultApplier{
	pathsDefaults{},
	siteDefaults{},
	buildDefaults{},
	serverDefaults{},
	contactDefaults{},
	eventsDefaults{},
	publishDefaults{},
}

// ApplyDefaults fills every unset field with its default.
func ApplyDefaults(cfg *Config) {
	for _, a := range appliers {
		a.ApplyDefaults(cfg)
	}
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}
