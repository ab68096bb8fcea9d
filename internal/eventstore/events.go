package eventstore

import (
	"encoding/json"
	"time"

	ferrors "github.com/glitchidea/sitebuilder/internal/foundation/errors"
)

// Event type names. They double as NATS subject suffixes.
const (
	TypeStageCompleted = "stage_completed"
	TypeBuildCompleted = "build_completed"
	TypeBrokenAsset    = "broken_asset"
)

// StageCompleted is the payload of a TypeStageCompleted event.
type StageCompleted struct {
	Stage      string `json:"stage"`
	Result     string `json:"result"`
	DurationMS int64  `json:"duration_ms"`
}

// BuildCompleted is the payload of a TypeBuildCompleted event.
type BuildCompleted struct {
	Target       string   `json:"target"`
	Outcome      string   `json:"outcome"`
	FinalState   string   `json:"final_state"`
	StartedAt    int64    `json:"started_at"` // unix milliseconds
	DurationMS   int64    `json:"duration_ms"`
	Errors       []string `json:"errors,omitempty"`
	Warnings     int      `json:"warnings"`
	AssetFiles   int      `json:"asset_files"`
	ContentFiles int      `json:"content_files"`
	BrokenAssets []string `json:"broken_assets,omitempty"`
	Version      string   `json:"version,omitempty"`
}

// BrokenAsset is the payload of a TypeBrokenAsset event.
type BrokenAsset struct {
	Target string `json:"target"`
	Ref    string `json:"ref"`
	File   string `json:"file"`
}

// NewEvent marshals payload into an event of the given type.
func NewEvent(buildID, eventType string, payload any) (*BaseEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, ferrors.InternalError("failed to marshal event payload").
			WithCause(err).
			WithContext("build_id", buildID).
			WithContext("event_type", eventType).
			Build()
	}
	return &BaseEvent{
		EventBuildID:   buildID,
		EventType:      eventType,
		EventTimestamp: time.Now(),
		EventPayload:   data,
	}, nil
}

// Decode unmarshals the payload of e into v.
func Decode(e Event, v any) error {
	if err := json.Unmarshal(e.Payload(), v); err != nil {
		return ferrors.InternalError("failed to unmarshal event payload").
			WithCause(err).
			WithContext("event_type", e.Type()).
			Build()
	}
	return nil
}
