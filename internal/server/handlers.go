package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/cardsheet/pkg/align"
	"github.com/matzehuels/cardsheet/pkg/buildinfo"
	"github.com/matzehuels/cardsheet/pkg/errors"
	"github.com/matzehuels/cardsheet/pkg/guides"
	"github.com/matzehuels/cardsheet/pkg/layout"
	"github.com/matzehuels/cardsheet/pkg/pipeline"
	"github.com/matzehuels/cardsheet/pkg/storage"
)

// createLayoutRequest is the body of POST /api/layouts. Settings default
// to A4 with a 10 mm margin and 5 mm spacing.
type createLayoutRequest struct {
	Settings *layout.Settings     `json:"settings"`
	Images   []layout.SourceImage `json:"images" validate:"max=5000"`
	Back     string               `json:"back,omitempty" validate:"max=2048"`
}

type layoutResponse struct {
	ID         string                  `json:"id"`
	Stats      layout.Stats            `json:"stats"`
	Alignment  *align.Result           `json:"alignment,omitempty"`
	Validation layout.ValidationResult `json:"validation"`
	Front      layout.Layout           `json:"front"`
	Back       *layout.Layout          `json:"back,omitempty"`
}

type layoutSummary struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Pages     int       `json:"pages"`
	Cards     int       `json:"cards"`
	HasBack   bool      `json:"has_back"`
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, buildinfo.Get())
}

func (s *Server) handleCreateLayout(w http.ResponseWriter, r *http.Request) {
	var req createLayoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, err)
		return
	}
	for _, img := range req.Images {
		if err := errors.ValidateImageRef(img.Src); err != nil {
			s.respondError(w, err)
			return
		}
	}
	if req.Back != "" {
		if err := errors.ValidateImageRef(req.Back); err != nil {
			s.respondError(w, err)
			return
		}
	}

	validation := layout.ValidateImages(req.Images)
	if !validation.IsValid {
		s.respondJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Code:     errors.ErrCodeInvalidInput,
			Message:  "image validation failed",
			Findings: validation.Errors,
		})
		return
	}

	opts := pipeline.Options{Back: req.Back, Logger: s.logger}
	if req.Settings != nil {
		opts.Settings = *req.Settings
	} else {
		opts.Settings = pipeline.DefaultSettings()
	}

	ctx := r.Context()
	layouts, err := s.runner.ComputeLayout(ctx, req.Images, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}
	doc, _, err := s.runner.BuildDocument(ctx, layouts, opts)
	if err != nil {
		s.respondError(w, err)
		return
	}

	job := storage.NewJob(storage.Job{
		Settings:   doc.Settings,
		Back:       doc.Back,
		Front:      doc.Front,
		BackLayout: doc.BackLayout,
		Stats:      doc.Stats,
		Alignment:  doc.Alignment,
	})
	if err := s.store.Save(ctx, job); err != nil {
		s.respondError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, layoutResponse{
		ID:         job.ID,
		Stats:      job.Stats,
		Alignment:  job.Alignment,
		Validation: validation,
		Front:      job.Front,
		Back:       job.BackLayout,
	})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, errors.New(errors.ErrCodeInvalidInput, "invalid limit %q", v))
			return
		}
		limit = n
	}

	jobs, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.respondError(w, err)
		return
	}
	out := make([]layoutSummary, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, layoutSummary{
			ID:        j.ID,
			CreatedAt: j.CreatedAt,
			Pages:     j.Front.NumPages(),
			Cards:     j.Front.NumCards(),
			HasBack:   j.BackLayout != nil,
		})
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"layouts": out})
}

func (s *Server) handleGetLayout(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteLayout(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleGuides returns the cut guides of the front layout. Mark lengths can
// be set with the mark_size and fold_size query parameters.
func (s *Server) handleGuides(w http.ResponseWriter, r *http.Request) {
	opts := guides.DefaultOptions()
	for name, dst := range map[string]*float64{"mark_size": &opts.MarkSize, "fold_size": &opts.FoldSize} {
		v := r.URL.Query().Get(name)
		if v == "" {
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			s.respondError(w, errors.New(errors.ErrCodeInvalidSettings, "invalid %s %q", name, v))
			return
		}
		*dst = f
	}
	if err := opts.Validate(); err != nil {
		s.respondError(w, err)
		return
	}

	job, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"id":     job.ID,
		"guides": guides.Generate(job.Front, opts),
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	job, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, guides.NewReport(job.Front, job.Settings))
}
