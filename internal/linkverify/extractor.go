// Package linkverify checks that local asset references in generated HTML
// resolve to files in the build output.
package linkverify

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// assetDirs are the top-level output folders whose references are checked.
var assetDirs = map[string]bool{"css": true, "js": true, "images": true, "fonts": true}

// AssetRef is one local asset reference found in a document.
type AssetRef struct {
	Ref       string // attribute value as written
	Tag       string // element name (link, script, img, ...)
	Attribute string // href or src
}

// linkAttrs lists, per element, the attribute that may point at an asset.
var linkAttrs = map[string]string{
	"link":   "href",
	"script": "src",
	"img":    "src",
	"source": "src",
	"video":  "src",
	"audio":  "src",
	"a":      "href",
}

// ExtractAssetRefs parses r and returns references into the asset folders,
// in document order. External URLs, anchors and data URIs are ignored.
func ExtractAssetRefs(r io.Reader) ([]AssetRef, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryValidation, "failed to parse HTML").Build()
	}
	var refs []AssetRef
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if attr, ok := linkAttrs[n.Data]; ok {
				if v := getAttr(n, attr); IsAssetRef(v) {
					refs = append(refs, AssetRef{Ref: v, Tag: n.Data, Attribute: attr})
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return refs, nil
}

// IsAssetRef reports whether ref is a local path into one of the asset folders.
func IsAssetRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	if ref == "" || strings.HasPrefix(ref, "#") || strings.HasPrefix(ref, "//") {
		return false
	}
	u, err := url.Parse(ref)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return false
	}
	p := strings.TrimPrefix(u.Path, "/")
	for strings.HasPrefix(p, "./") || strings.HasPrefix(p, "../") {
		p = strings.TrimPrefix(strings.TrimPrefix(p, "./"), "../")
	}
	first, _, _ := strings.Cut(p, "/")
	return assetDirs[first]
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
