// Package layout composes the rendered fragments into the final page shell.
//
// The shell is plain HTML with comment placeholders:
//
//	<!-- slot:header -->  <!-- slot:body -->  <!-- slot:footer -->
//	<!-- meta:title -->   <!-- meta:description -->  <!-- meta:keywords -->
//
// Every slot must appear exactly once. Meta placeholders are optional and may repeat.
// All placeholders are validated before anything is substituted, and substitution
// is a single left-to-right pass so inserted text is never rescanned.
package layout

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// Slot names a required placeholder.
type Slot string

const (
	SlotHeader Slot = "header"
	SlotFooter Slot = "footer"
	SlotBody   Slot = "body"
)

// Slots returns the required slots in reporting order.
func Slots() []Slot { return []Slot{SlotHeader, SlotFooter, SlotBody} }

// Placeholder returns the literal marker for s.
func (s Slot) Placeholder() string { return "<!-- slot:" + string(s) + " -->" }

// Parts are the pre-rendered strings inserted into the slots.
type Parts struct {
	Header string
	Footer string
	Body   string
}

// Meta holds the optional page metadata. Values are HTML-escaped on insertion.
type Meta struct {
	Title       string
	Description string
	Keywords    string
}

// MissingPlaceholderError reports a required slot absent from the layout.
type MissingPlaceholderError struct {
	Slot Slot
}

func (e *MissingPlaceholderError) Error() string {
	return fmt.Sprintf("layout is missing required placeholder %s", e.Slot.Placeholder())
}

// DuplicatePlaceholderError reports a slot that appears more than once.
type DuplicatePlaceholderError struct {
	Slot  Slot
	Count int
}

func (e *DuplicatePlaceholderError) Error() string {
	return fmt.Sprintf("layout placeholder %s appears %d times, want exactly once", e.Slot.Placeholder(), e.Count)
}

// UnknownPlaceholderError reports a slot or meta marker with an unrecognized name.
type UnknownPlaceholderError struct {
	Marker string
}

func (e *UnknownPlaceholderError) Error() string {
	return fmt.Sprintf("layout contains unknown placeholder %s", e.Marker)
}

var markerRe = regexp.MustCompile(`<!--\s*(slot|meta):([a-zA-Z0-9_-]+)\s*-->`)

var metaKeys = map[string]bool{"title": true, "description": true, "keywords": true}

type marker struct {
	start, end int
	kind, name string
}

func scan(layout string) []marker {
	idx := markerRe.FindAllStringSubmatchIndex(layout, -1)
	out := make([]marker, 0, len(idx))
	for _, m := range idx {
		out = append(out, marker{
			start: m[0],
			end:   m[1],
			kind:  layout[m[2]:m[3]],
			name:  layout[m[4]:m[5]],
		})
	}
	return out
}

// Validate checks that every required slot appears exactly once and that no
// unknown placeholders are present. The error is a TemplateMalformed classified
// error wrapping one of the typed placeholder errors.
func Validate(layout string) error {
	_, err := validate(layout)
	return err
}

func validate(layout string) ([]marker, error) {
	markers := scan(layout)
	counts := make(map[Slot]int, 3)
	for _, m := range markers {
		switch m.kind {
		case "slot":
			s := Slot(m.name)
			if s != SlotHeader && s != SlotFooter && s != SlotBody {
				return nil, malformed(&UnknownPlaceholderError{Marker: layout[m.start:m.end]}, m.name)
			}
			counts[s]++
		case "meta":
			if !metaKeys[m.name] {
				return nil, malformed(&UnknownPlaceholderError{Marker: layout[m.start:m.end]}, m.name)
			}
		}
	}
	for _, s := range Slots() {
		switch n := counts[s]; {
		case n == 0:
			return nil, malformed(&MissingPlaceholderError{Slot: s}, string(s))
		case n > 1:
			return nil, malformed(&DuplicatePlaceholderError{Slot: s, Count: n}, string(s))
		}
	}
	return markers, nil
}

func malformed(cause error, placeholder string) error {
	return ferrors.TemplateError("malformed layout template").
		WithCause(cause).
		WithContext("placeholder", placeholder).
		Build()
}

// Compose validates layout and substitutes each slot exactly once with parts,
// and each meta marker with the escaped metadata.
func Compose(layout string, parts Parts, meta Meta) (string, error) {
	markers, err := validate(layout)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	sb.Grow(len(layout) + len(parts.Header) + len(parts.Footer) + len(parts.Body))
	last := 0
	for _, m := range markers {
		sb.WriteString(layout[last:m.start])
		sb.WriteString(replacement(m, parts, meta))
		last = m.end
	}
	sb.WriteString(layout[last:])
	return sb.String(), nil
}

func replacement(m marker, parts Parts, meta Meta) string {
	if m.kind == "slot" {
		switch Slot(m.name) {
		case SlotHeader:
			return parts.Header
		case SlotFooter:
			return parts.Footer
		default:
			return parts.Body
		}
	}
	switch m.name {
	case "title":
		return html.EscapeString(meta.Title)
	case "description":
		return html.EscapeString(meta.Description)
	default:
		return html.EscapeString(meta.Keywords)
	}
}
