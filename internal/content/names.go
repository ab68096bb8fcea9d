package content

import "fmt"

// Name identifies one of the fixed content documents.
type Name string

const (
	Projects Name = "projects"
	Services Name = "services"
	Blog     Name = "blog"
	Social   Name = "social"
	Work     Name = "work"
)

// primaryFields maps each document to its collection-valued top-level field.
var primaryFields = map[Name]string{
	Projects: "projects",
	Services: "services",
	Blog:     "posts",
	Social:   "social_links",
	Work:     "work_experience",
}

// All returns the expected document names in load order.
func All() []Name {
	return []Name{Projects, Services, Blog, Social, Work}
}

// FileName returns the file the document is read from.
func (n Name) FileName() string { return string(n) + ".json" }

// PrimaryField returns the collection field holding the document's entities.
func (n Name) PrimaryField() string { return primaryFields[n] }

// Valid reports whether n is one of the known documents.
func (n Name) Valid() bool {
	_, ok := primaryFields[n]
	return ok
}

// DefaultBytes returns the documented empty default for the document, e.g. {"projects":[]}.
func (n Name) DefaultBytes() []byte {
	return fmt.Appendf(nil, "{%q:[]}", n.PrimaryField())
}
