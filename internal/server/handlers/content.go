package handlers

import (
	"log/slog"
	"net/http"

	"github.com/glitchidea/sitebuilder/internal/content"
	"github.com/glitchidea/sitebuilder/internal/logfields"
	"github.com/glitchidea/sitebuilder/internal/server/responses"
)

// ContentSource yields the current content store.
type ContentSource interface {
	Load() (*content.Store, error)
}

// DirSource reads the content directory on every call so edits show up without a restart.
type DirSource struct {
	Dir string
}

func (d DirSource) Load() (*content.Store, error) { return content.LoadAll(d.Dir) }

// ContentHandlers serves the JSON read API.
type ContentHandlers struct {
	source ContentSource
}

// NewContentHandlers creates content handlers reading from source.
func NewContentHandlers(source ContentSource) *ContentHandlers {
	return &ContentHandlers{source: source}
}

// load returns the store or writes a 500 with failMsg.
func (h *ContentHandlers) load(w http.ResponseWriter, failMsg string) (*content.Store, bool) {
	s, err := h.source.Load()
	if err != nil {
		slog.Error("Failed to load content", logfields.Error(err))
		_ = writeJSON(w, http.StatusInternalServerError, responses.ErrorResponse{Error: failMsg})
		return nil, false
	}
	return s, true
}

// HandleDocument returns the raw document n, or its empty default when absent.
func (h *ContentHandlers) HandleDocument(n content.Name) http.HandlerFunc {
	failMsg := "Failed to load " + string(n)
	return func(w http.ResponseWriter, _ *http.Request) {
		s, ok := h.load(w, failMsg)
		if !ok {
			return
		}
		doc, _ := s.Document(n)
		writeRaw(w, doc.Bytes())
	}
}

// HandleProjectsByCategory serves GET /api/projects/{category}.
func (h *ContentHandlers) HandleProjectsByCategory(w http.ResponseWriter, r *http.Request) {
	cat := r.PathValue("category")
	if !content.ValidProjectCategory(cat) {
		_ = writeJSON(w, http.StatusBadRequest, responses.ErrorResponse{Error: "Invalid category"})
		return
	}
	s, ok := h.load(w, "Failed to load projects")
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, responses.ProjectsResponse{Projects: nonNil(s.ProjectsByCategory(cat))})
}

// HandleAllProjects serves GET /api/all-projects?category=.
func (h *ContentHandlers) HandleAllProjects(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, "Failed to load all projects")
	if !ok {
		return
	}
	cat := r.URL.Query().Get("category")
	if cat == "" || cat == "all" {
		doc, _ := s.Document(content.Projects)
		writeRaw(w, doc.Bytes())
		return
	}
	_ = writeJSON(w, http.StatusOK, responses.ProjectsResponse{Projects: nonNil(s.ProjectsByCategory(cat))})
}

// HandleFeaturedPost serves GET /api/blog/featured: the featured post, else the first one.
func (h *ContentHandlers) HandleFeaturedPost(w http.ResponseWriter, _ *http.Request) {
	s, ok := h.load(w, "Failed to load featured blog post")
	if !ok {
		return
	}
	resp := responses.FeaturedPostResponse{}
	if p, found := s.FeaturedPost(); found {
		resp.Post = &p
	}
	_ = writeJSON(w, http.StatusOK, resp)
}

// HandleFooterProjects serves GET /api/footer-projects (first three projects).
func (h *ContentHandlers) HandleFooterProjects(w http.ResponseWriter, _ *http.Request) {
	s, ok := h.load(w, "Failed to load footer projects")
	if !ok {
		return
	}
	_ = writeJSON(w, http.StatusOK, responses.ProjectsResponse{Projects: nonNil(s.FooterProjects(3))})
}

// HandleAllWork serves GET /api/all-work?category=; without a category the list is newest first.
func (h *ContentHandlers) HandleAllWork(w http.ResponseWriter, r *http.Request) {
	s, ok := h.load(w, "Failed to load all work")
	if !ok {
		return
	}
	cat := r.URL.Query().Get("category")
	var work []content.WorkExperience
	if cat == "" || cat == "all" {
		work = s.WorkSortedByStart()
	} else {
		work = s.WorkByCategory(cat)
	}
	_ = writeJSON(w, http.StatusOK, responses.WorkResponse{WorkExperience: nonNil(work)})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
