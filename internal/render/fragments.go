package render

import "path"

// Fragment names a renderable template fragment.
type Fragment string

const (
	Header   Fragment = "header"
	Footer   Fragment = "footer"
	Hero     Fragment = "hero"
	About    Fragment = "about"
	Services Fragment = "services"
	Projects Fragment = "projects"
	Blog     Fragment = "blog"
	Contact  Fragment = "contact"
)

// LayoutFile is the template-directory-relative path of the page shell.
const LayoutFile = "layout.html"

// BodyOrder is the canonical order in which body fragments are concatenated.
func BodyOrder() []Fragment {
	return []Fragment{Hero, About, Services, Projects, Blog, Contact}
}

// AllFragments returns header, footer and the body fragments.
func AllFragments() []Fragment {
	return append([]Fragment{Header, Footer}, BodyOrder()...)
}

// RelPath is the template-directory-relative file of the fragment.
func (f Fragment) RelPath() string {
	switch f {
	case Header, Footer:
		return path.Join("partials", string(f)+".html")
	}
	return path.Join("components", string(f)+".html")
}

// Valid reports whether f is a known fragment.
func (f Fragment) Valid() bool {
	for _, k := range AllFragments() {
		if k == f {
			return true
		}
	}
	return false
}
