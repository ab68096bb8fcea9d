package config

import (
	"time"

	"github.com/glitchidea/sitebuilder/internal/build"
	"github.com/glitchidea/sitebuilder/internal/render"
	"github.com/glitchidea/sitebuilder/internal/target"
)

func (tc TargetConfig) override() target.Override {
	o := target.Override{
		ContentLayout: target.ContentLayout(tc.ContentLayout),
		RewritePaths:  tc.RewritePaths,
	}
	for _, m := range tc.Markers {
		o.Markers = append(o.Markers, target.MarkerFile{Name: m.Name, Content: m.Content})
	}
	return o
}

// Profile resolves the named target (aliases accepted) with any configured override.
func (c *Config) Profile(name string) (target.Profile, error) {
	n, err := target.Parse(name)
	if err != nil {
		return target.Profile{}, invalidCause("target", err)
	}
	for key, tc := range c.Targets {
		if k, err := target.Parse(key); err == nil && k == n {
			p, err := target.Resolve(n, tc.override())
			if err != nil {
				return target.Profile{}, invalidCause("targets."+key, err)
			}
			return p, nil
		}
	}
	return target.Default(n)
}

// BuildOptions maps the configuration to build options for targetName.
// An empty targetName uses build.target.
func (c *Config) BuildOptions(targetName string) (build.Options, error) {
	if targetName == "" {
		targetName = c.Build.Target
	}
	p, err := c.Profile(targetName)
	if err != nil {
		return build.Options{}, err
	}
	return build.Options{
		ContentDir:  c.Paths.Content,
		TemplateDir: c.Paths.Templates,
		AssetDir:    c.Paths.Assets,
		OutputDir:   c.Paths.Output,
		Profile:     p,
		Site: render.Site{
			Title:       c.Site.Title,
			Description: c.Site.Description,
			Keywords:    c.Site.Keywords,
			Author:      c.Site.Author,
			BaseURL:     c.Site.BaseURL,
		},
		AssetExclude:  c.Assets.Exclude,
		ExtraFiles:    c.Build.ExtraFiles,
		StrictSchema:  c.Content.StrictSchema,
		VerifyAssets:  c.Build.VerifyAssetsEnabled(),
		PersistReport: c.Build.Report,
	}, nil
}

// RebuildEvery returns the parsed rebuild interval, zero when unset.
// Validate has already rejected unparsable values.
func (s ServerConfig) RebuildEvery() time.Duration {
	if s.RebuildInterval == "" {
		return 0
	}
	d, err := time.ParseDuration(s.RebuildInterval)
	if err != nil {
		return 0
	}
	return d
}
