// Package contact validates contact form submissions, records them in an
// inbox and relays them by SMTP or an HTTP mail worker.
package contact

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// Request is the JSON body accepted by POST /api/contact.
type Request struct {
	Subject     string `json:"subject" validate:"required,max=200"`
	Message     string `json:"message" validate:"required,max=10000"`
	SenderEmail string `json:"senderEmail" validate:"required,email,max=254"`
}

var validate = validator.New()

// Normalize trims surrounding whitespace from every field.
func (r Request) Normalize() Request {
	return Request{
		Subject:     strings.TrimSpace(r.Subject),
		Message:     strings.TrimSpace(r.Message),
		SenderEmail: strings.TrimSpace(r.SenderEmail),
	}
}

// Validate reports the first invalid field as a validation error.
func (r Request) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) || len(ves) == 0 {
		return ferrors.ValidationError("invalid contact request").WithCause(err).Build()
	}
	fe := ves[0]
	return ferrors.ValidationError(fieldMessage(fe)).
		WithContext("field", jsonField(fe.Field())).
		WithContext("rule", fe.Tag()).
		Build()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "all fields are required"
	case "email":
		return "a valid email address is required"
	case "max":
		return jsonField(fe.Field()) + " is too long"
	default:
		return "invalid " + jsonField(fe.Field())
	}
}

func jsonField(name string) string {
	switch name {
	case "SenderEmail":
		return "senderEmail"
	default:
		return strings.ToLower(name)
	}
}
