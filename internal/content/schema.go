package content

import (
	"embed"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// SchemaViolation is one field-level schema failure in a content document.
type SchemaViolation struct {
	Document Name
	Field    string
	Message  string
}

func (v SchemaViolation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Document, v.Field, v.Message)
}

// SchemaError aggregates schema violations across documents.
type SchemaError struct {
	Violations []SchemaViolation
}

func (e *SchemaError) Error() string {
	var sb strings.Builder
	sb.WriteString("content schema validation failed:\n")
	for i, v := range e.Violations {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, v)
	}
	return sb.String()
}

// Schema returns the embedded JSON Schema for a document.
func Schema(n Name) ([]byte, error) {
	return schemaFS.ReadFile("schemas/" + string(n) + ".schema.json")
}

// Validate checks every present document in the store against its schema.
// Missing documents are skipped since their default always conforms.
// Kind mismatches found while decoding are reported for documents the schema
// alone does not reject.
// It returns nil when everything conforms, or a *SchemaError listing all violations.
func Validate(s *Store) error {
	var violations []SchemaViolation
	for _, doc := range s.Documents() {
		if !doc.Present {
			continue
		}
		vs, err := validateDocument(doc.Name, doc.Raw)
		if err != nil {
			return err
		}
		if len(vs) == 0 {
			vs = s.mismatchesFor(doc.Name)
		}
		violations = append(violations, vs...)
	}
	if len(violations) == 0 {
		return nil
	}
	return &SchemaError{Violations: violations}
}

func (s *Store) mismatchesFor(n Name) []SchemaViolation {
	var out []SchemaViolation
	for _, v := range s.mismatches {
		if v.Document == n {
			out = append(out, v)
		}
	}
	return out
}

func validateDocument(n Name, raw []byte) ([]SchemaViolation, error) {
	schema, err := Schema(n)
	if err != nil {
		return nil, fmt.Errorf("load schema for %s: %w", n, err)
	}
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schema), gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", n, err)
	}
	if result.Valid() {
		return nil, nil
	}
	out := make([]SchemaViolation, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		out = append(out, SchemaViolation{Document: n, Field: field, Message: desc.Description()})
	}
	return out, nil
}
