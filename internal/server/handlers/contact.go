package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/glitchidea/sitebuilder/internal/contact"
	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
	"github.com/glitchidea/sitebuilder/internal/metrics"
	"github.com/glitchidea/sitebuilder/internal/server/responses"
)

// maxContactBody caps the accepted request body.
const maxContactBody = 64 << 10

// ContactHandlers serves POST /api/contact.
type ContactHandlers struct {
	relay        *contact.Relay
	recorder     metrics.Recorder
	errorAdapter *ferrors.HTTPErrorAdapter
}

// NewContactHandlers creates contact handlers. A nil relay answers 503.
func NewContactHandlers(relay *contact.Relay, recorder metrics.Recorder) *ContactHandlers {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &ContactHandlers{
		relay:        relay,
		recorder:     recorder,
		errorAdapter: ferrors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleSubmit validates and relays one submission.
func (h *ContactHandlers) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var req contact.Request
	dec := json.NewDecoder(io.LimitReader(r.Body, maxContactBody))
	if err := dec.Decode(&req); err != nil {
		h.recorder.IncContactSubmission("invalid")
		h.errorAdapter.WriteErrorResponse(w, r,
			ferrors.ValidationError("request body must be a JSON object").WithCause(err).Build())
		return
	}

	m, err := h.relay.Submit(r.Context(), req, clientIP(r))
	if err != nil {
		h.recorder.IncContactSubmission(submissionResult(err))
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.recorder.IncContactSubmission("delivered")
	_ = writeJSON(w, http.StatusOK, responses.ContactResponse{
		Success:   true,
		Message:   "Your message has been sent.",
		ID:        m.ID,
		Timestamp: m.ReceivedAt,
	})
}

func submissionResult(err error) string {
	switch ferrors.GetCategory(err) {
	case ferrors.CategoryValidation:
		return "invalid"
	case ferrors.CategoryRuntime:
		return "disabled"
	default:
		return "failed"
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
