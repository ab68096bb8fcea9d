// Package rewrite converts root-absolute local asset references into relative ones.
//
// Only references rooted at /css/, /js/, /images/ or /fonts/ inside href=, src=
// or url() are touched. Anything else (https://, protocol-relative //, mailto:,
// other root paths) is left alone, and an already relative reference never
// matches, so rewriting is idempotent.
package rewrite

import (
	"path"
	"regexp"
	"strings"
)

// AssetDirs are the output directories whose references are rewritten.
var AssetDirs = []string{"css", "js", "images", "fonts"}

var (
	attrRe = regexp.MustCompile(`((?i:href|src)\s*=\s*["'])/(css|js|images|fonts)/`)
	urlRe  = regexp.MustCompile(`((?i:url)\(\s*["']?)/(css|js|images|fonts)/`)
)

// Rewrite rewrites asset references for a page in the output root. When enabled
// is false the input is returned unchanged.
func Rewrite(html string, enabled bool) string {
	if !enabled {
		return html
	}
	return RewriteFor(html, ".")
}

// RewriteFor rewrites asset references for a page written at relDir below the
// output root ("." for the root itself).
func RewriteFor(html, relDir string) string {
	prefix := Prefix(relDir)
	repl := "${1}" + prefix + "${2}/"
	html = attrRe.ReplaceAllString(html, repl)
	return urlRe.ReplaceAllString(html, repl)
}

// Prefix returns the relative prefix that reaches the output root from relDir:
// "./" for the root, "../" per directory level otherwise.
func Prefix(relDir string) string {
	clean := path.Clean(strings.ReplaceAll(relDir, "\\", "/"))
	clean = strings.Trim(clean, "/")
	if clean == "." || clean == "" {
		return "./"
	}
	depth := strings.Count(clean, "/") + 1
	return strings.Repeat("../", depth)
}
