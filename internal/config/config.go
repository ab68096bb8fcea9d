// Package config loads the sitebuilder project configuration.
package config

// DefaultFile is the configuration file looked up when none is given.
const DefaultFile = "sitebuilder.yaml"

// Config is the project configuration. Every section is optional.
type Config struct {
	Site    SiteConfig              `yaml:"site"`
	Paths   PathsConfig             `yaml:"paths"`
	Build   BuildConfig             `yaml:"build"`
	Assets  AssetsConfig            `yaml:"assets,omitempty"`
	Content ContentConfig           `yaml:"content,omitempty"`
	Targets map[string]TargetConfig `yaml:"targets,omitempty"`
	Server  ServerConfig            `yaml:"server"`
	Contact ContactConfig           `yaml:"contact"`
	Events  EventsConfig            `yaml:"events,omitempty"`
	State   StateConfig             `yaml:"state,omitempty"`
	Publish PublishConfig           `yaml:"publish,omitempty"`
	Metrics MetricsConfig           `yaml:"metrics,omitempty"`
}

// SiteConfig holds page metadata injected into the layout.
type SiteConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description,omitempty"`
	Keywords    string `yaml:"keywords,omitempty"`
	Author      string `yaml:"author,omitempty"`
	BaseURL     string `yaml:"base_url,omitempty"`
}

// PathsConfig names the input trees and the output directory.
type PathsConfig struct {
	Content   string `yaml:"content"`
	Templates string `yaml:"templates"`
	Assets    string `yaml:"assets"`
	Output    string `yaml:"output"`
}

// BuildConfig controls a single build.
type BuildConfig struct {
	Target string `yaml:"target"`
	// VerifyAssets enables the post-write asset reference check. Defaults to true.
	VerifyAssets *bool    `yaml:"verify_assets,omitempty"`
	Report       bool     `yaml:"report,omitempty"`
	ExtraFiles   []string `yaml:"extra_files,omitempty"`
}

// VerifyAssetsEnabled resolves the verify_assets default.
func (b BuildConfig) VerifyAssetsEnabled() bool {
	return b.VerifyAssets == nil || *b.VerifyAssets
}

// AssetsConfig filters the copied asset tree.
type AssetsConfig struct {
	Exclude []string `yaml:"exclude,omitempty"` // doublestar globs relative to the asset root
}

// ContentConfig controls content validation.
type ContentConfig struct {
	StrictSchema bool `yaml:"strict_schema,omitempty"`
}

// TargetConfig adjusts one built-in target profile.
type TargetConfig struct {
	ContentLayout string         `yaml:"content_layout,omitempty"` // nested|flat
	RewritePaths  *bool          `yaml:"rewrite_paths,omitempty"`
	Markers       []MarkerConfig `yaml:"markers,omitempty"`
}

// MarkerConfig is an extra marker file written to the output root.
type MarkerConfig struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content,omitempty"`
}

// ServerConfig configures `sitebuilder serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
	// RebuildInterval, when set, rebuilds the site periodically (Go duration, e.g. "15m").
	RebuildInterval string `yaml:"rebuild_interval,omitempty"`
	CORSOrigin      string `yaml:"cors_origin,omitempty"`
}

// Contact transports.
const (
	TransportNone   = "none"
	TransportSMTP   = "smtp"
	TransportWorker = "worker"
)

// ContactConfig configures the contact relay.
type ContactConfig struct {
	Transport string       `yaml:"transport"`
	SMTP      SMTPConfig   `yaml:"smtp,omitempty"`
	Worker    WorkerConfig `yaml:"worker,omitempty"`
	// InboxPath is an optional SQLite database that keeps every accepted submission.
	InboxPath string `yaml:"inbox_path,omitempty"`
}

// SMTPConfig describes the SMTP relay.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
	From     string `yaml:"from"`
	To       string `yaml:"to"`
}

// WorkerConfig describes an HTTP mail worker endpoint.
type WorkerConfig struct {
	URL   string `yaml:"url"`
	Token string `yaml:"token,omitempty"`
}

// EventsConfig enables NATS build events when NATSURL is set.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// StateConfig enables the SQLite build event log when EventStorePath is set.
type StateConfig struct {
	EventStorePath string `yaml:"eventstore_path,omitempty"`
}

// PublishConfig configures `sitebuilder publish`.
type PublishConfig struct {
	Branch      string `yaml:"branch,omitempty"`
	RemoteURL   string `yaml:"remote_url,omitempty"`
	Token       string `yaml:"token,omitempty"`
	AuthorName  string `yaml:"author_name,omitempty"`
	AuthorEmail string `yaml:"author_email,omitempty"`
}

// MetricsConfig enables the Prometheus recorder and /metrics endpoint.
type MetricsConfig struct {
	Enabled bool `yaml:"enabled,omitempty"`
}
