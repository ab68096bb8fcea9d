package render

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/logfields"
)

//go:embed defaults
var defaultFS embed.FS

// Source records where a template was resolved from.
type Source string

const (
	SourceFile     Source = "file"
	SourceEmbedded Source = "embedded"
)

// Renderer holds the parsed fragments and the raw layout for one build.
// It is immutable after New.
type Renderer struct {
	fragments map[Fragment]*template.Template
	layout    string
	sources   map[string]Source
}

// New resolves and parses every fragment and the layout. A file under dir wins
// over the embedded default; an empty dir uses the embedded set only.
// Parse failures are fatal template errors naming the fragment.
func New(dir string) (*Renderer, error) {
	r := &Renderer{
		fragments: make(map[Fragment]*template.Template),
		sources:   make(map[string]Source),
	}
	for _, f := range AllFragments() {
		text, src, err := resolve(dir, f.RelPath())
		if err != nil {
			return nil, err
		}
		tpl, err := template.New(string(f)).Funcs(funcMap()).Option("missingkey=zero").Parse(text)
		if err != nil {
			return nil, ferrors.TemplateError("parse fragment template").
				WithCause(err).
				WithContext("fragment", string(f)).
				WithContext("source", string(src)).
				Build()
		}
		r.fragments[f] = tpl
		r.sources[string(f)] = src
		slog.Debug("Resolved fragment template", logfields.Fragment(string(f)), logfields.Source(string(src)))
	}
	layout, src, err := resolve(dir, LayoutFile)
	if err != nil {
		return nil, err
	}
	r.layout = layout
	r.sources["layout"] = src
	return r, nil
}

func resolve(dir, rel string) (string, Source, error) {
	if dir != "" {
		p := filepath.Join(dir, filepath.FromSlash(rel))
		b, err := os.ReadFile(p) // #nosec G304 -- fixed template names under the configured directory
		switch {
		case err == nil:
			return string(b), SourceFile, nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", "", ferrors.FileSystemError("read template").
				WithCause(err).
				WithContext("path", p).
				Build()
		}
	}
	b, err := fs.ReadFile(defaultFS, "defaults/"+rel)
	if err != nil {
		return "", "", ferrors.InternalError("embedded template missing").
			WithCause(err).
			WithContext("path", rel).
			Build()
	}
	return string(b), SourceEmbedded, nil
}

// Render executes one fragment against ctx.
func (r *Renderer) Render(name Fragment, ctx Context) (string, error) {
	tpl, ok := r.fragments[name]
	if !ok {
		return "", ferrors.TemplateError("unknown fragment").
			WithContext("fragment", string(name)).
			Build()
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, ctx); err != nil {
		return "", ferrors.TemplateError("render fragment").
			WithCause(err).
			WithContext("fragment", string(name)).
			Build()
	}
	return buf.String(), nil
}

// RenderBody renders the body fragments in canonical order and concatenates them.
func (r *Renderer) RenderBody(ctx Context) (string, error) {
	var sb strings.Builder
	for _, f := range BodyOrder() {
		html, err := r.Render(f, ctx)
		if err != nil {
			return "", err
		}
		sb.WriteString(html)
	}
	return sb.String(), nil
}

// Layout returns the raw layout text. It is not a Go template.
func (r *Renderer) Layout() string { return r.layout }

// Sources reports, per fragment name plus "layout", whether a file or the embedded default was used.
func (r *Renderer) Sources() map[string]Source {
	return maps.Clone(r.sources)
}

// WriteDefaults copies the embedded template set into dir without overwriting existing files.
// It returns the relative paths it wrote.
func WriteDefaults(dir string) ([]string, error) {
	var written []string
	err := fs.WalkDir(defaultFS, "defaults", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		rel := strings.TrimPrefix(p, "defaults/")
		dst := filepath.Join(dir, filepath.FromSlash(rel))
		if _, statErr := os.Stat(dst); statErr == nil {
			return nil
		}
		b, err := fs.ReadFile(defaultFS, p)
		if err != nil {
			return err
		}
		if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
			return err
		}
		if err := os.WriteFile(dst, b, 0o600); err != nil {
			return err
		}
		written = append(written, rel)
		return nil
	})
	return written, err
}
