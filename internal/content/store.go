package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/logfields"
)

// Document is one loaded content document.
type Document struct {
	Name Name
	// Raw holds the file bytes exactly as read. Nil when the document was missing.
	Raw []byte
	// Present is false when the file did not exist and the empty default was used.
	Present bool
}

// Bytes returns the raw document, or its empty default when the file was missing.
func (d Document) Bytes() []byte {
	if !d.Present {
		return d.Name.DefaultBytes()
	}
	return d.Raw
}

// Store is the in-memory union of all content documents for one build.
// The typed collections are exposed to templates; they are never mutated after Load.
type Store struct {
	Projects []Project
	Services []Service
	Posts    []BlogPost
	Social   []SocialLink
	Work     []WorkExperience

	docs  map[Name]Document
	order []Name
	// mismatches records fields whose JSON kind did not fit the typed model.
	mismatches []SchemaViolation
}

// Load reads every named document from dir.
//
// A missing document is replaced by its empty-collection default and logged.
// A document that exists but is not well-formed JSON is a fatal content error
// naming the document. A well-formed document whose fields have the wrong JSON
// kind still loads: offending fields stay at their zero value and Validate
// reports them as schema violations.
func Load(dir string, names []Name) (*Store, error) {
	s := &Store{docs: make(map[Name]Document, len(names))}
	for _, n := range names {
		if !n.Valid() {
			return nil, ferrors.ContentError("unknown content document").
				WithContext("document", string(n)).
				Build()
		}
		path := filepath.Join(dir, n.FileName())
		raw, err := os.ReadFile(path) // #nosec G304 -- path is built from a fixed document name
		switch {
		case errors.Is(err, fs.ErrNotExist):
			slog.Warn("Content document missing, using empty default",
				logfields.Document(string(n)),
				logfields.Path(path))
			s.docs[n] = Document{Name: n}
		case err != nil:
			return nil, ferrors.FileSystemError("read content document").
				WithCause(err).
				WithContext("document", string(n)).
				WithContext("path", path).
				Build()
		default:
			if err := s.decode(n, raw); err != nil {
				return nil, ferrors.ContentError("malformed content document").
					WithCause(err).
					WithContext("document", string(n)).
					Build()
			}
			s.docs[n] = Document{Name: n, Raw: raw, Present: true}
		}
		s.order = append(s.order, n)
	}
	return s, nil
}

// LoadAll is Load with every known document.
func LoadAll(dir string) (*Store, error) {
	return Load(dir, All())
}

func (s *Store) decode(n Name, raw []byte) error {
	var err error
	switch n {
	case Projects:
		var d projectsDoc
		err = json.Unmarshal(raw, &d)
		s.Projects = d.Projects
	case Services:
		var d servicesDoc
		err = json.Unmarshal(raw, &d)
		s.Services = d.Services
	case Blog:
		var d blogDoc
		err = json.Unmarshal(raw, &d)
		s.Posts = d.Posts
	case Social:
		var d socialDoc
		err = json.Unmarshal(raw, &d)
		s.Social = d.SocialLinks
	case Work:
		var d workDoc
		err = json.Unmarshal(raw, &d)
		s.Work = d.WorkExperience
	default:
		return fmt.Errorf("no decoder for %s", n)
	}

	// json.Unmarshal keeps decoding past a kind mismatch and reports the first one.
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "(root)"
		}
		slog.Warn("Content document field has the wrong type",
			logfields.Document(string(n)),
			slog.String("field", field),
			slog.String("got", typeErr.Value))
		s.mismatches = append(s.mismatches, SchemaViolation{
			Document: n,
			Field:    field,
			Message:  fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
		})
		return nil
	}
	return err
}

// Document returns the named document as loaded.
func (s *Store) Document(n Name) (Document, bool) {
	d, ok := s.docs[n]
	return d, ok
}

// Documents returns the loaded documents in load order.
func (s *Store) Documents() []Document {
	out := make([]Document, 0, len(s.order))
	for _, n := range s.order {
		out = append(out, s.docs[n])
	}
	return out
}

// Missing lists documents that were absent and replaced by their default.
func (s *Store) Missing() []Name {
	var out []Name
	for _, n := range s.order {
		if !s.docs[n].Present {
			out = append(out, n)
		}
	}
	return out
}
