package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// funcMap returns the helper functions available to every fragment.
// Each call builds fresh helpers so renderers share no state.
func funcMap() template.FuncMap {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	caser := cases.Title(language.Und)
	return template.FuncMap{
		"markdown": func(s string) (template.HTML, error) {
			var buf bytes.Buffer
			if err := md.Convert([]byte(s), &buf); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil // #nosec G203 -- goldmark escapes raw HTML by default
		},
		"title":     func(s string) string { return caser.String(s) },
		"join":      func(sep string, items []string) string { return strings.Join(items, sep) },
		"lower":     strings.ToLower,
		"hasPrefix": strings.HasPrefix,
	}
}
