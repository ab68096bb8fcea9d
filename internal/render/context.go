package render

import "github.com/glitchidea/sitebuilder/internal/content"

// Site is read-only page metadata taken from configuration.
type Site struct {
	Title       string
	Description string
	Keywords    string
	Author      string
	BaseURL     string
}

// Context is the data every fragment is rendered against. It is passed by
// value; Content must not be modified by templates or callers during a build.
type Context struct {
	Content *content.Store
	Site    Site
}

// NewContext builds a Context, substituting an empty store for nil.
func NewContext(store *content.Store, site Site) Context {
	if store == nil {
		store = &content.Store{}
	}
	return Context{Content: store, Site: site}
}
