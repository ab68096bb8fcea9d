// Package responses defines the JSON bodies returned by the site server.
package responses

import (
	"time"

	"github.com/glitchidea/sitebuilder/internal/content"
	"github.com/glitchidea/sitebuilder/internal/eventstore"
)

// ErrorResponse is the body of a read API failure.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ProjectsResponse wraps a filtered project list.
type ProjectsResponse struct {
	Projects []content.Project `json:"projects"`
}

// WorkResponse wraps a filtered or sorted work list.
type WorkResponse struct {
	WorkExperience []content.WorkExperience `json:"work_experience"`
}

// FeaturedPostResponse wraps the featured post; Post is null when there are no posts.
type FeaturedPostResponse struct {
	Post *content.BlogPost `json:"post"`
}

// ContactResponse is the body of a successful contact submission.
type ContactResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Uptime    float64                  `json:"uptime"`
	Target    string                   `json:"target,omitempty"`
	LastBuild *eventstore.BuildSummary `json:"last_build,omitempty"`
}

// BuildsResponse lists recent builds, newest first.
type BuildsResponse struct {
	Builds []eventstore.BuildSummary `json:"builds"`
}
