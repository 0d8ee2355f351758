package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/prPMDev/elevateli/internal/fetch"
	"github.com/prPMDev/elevateli/internal/pipeline"
)

// runTimeout bounds one background analysis, browser render included.
const runTimeout = 10 * time.Minute

// analyzeRequest is the body of POST /api/analyze. Exactly one of
// profile_url and profile_html must be set.
type analyzeRequest struct {
	ProfileURL   string `json:"profile_url,omitempty"`
	ProfileHTML  string `json:"profile_html,omitempty"`
	ProfileID    string `json:"profile_id,omitempty"`
	AIEnabled    bool   `json:"ai_enabled,omitempty"`
	ForceRefresh bool   `json:"force_refresh,omitempty"`
	TTLDays      int    `json:"ttl_days,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// handleAnalyze starts an analysis run and returns its id immediately.
// Progress is available via GET /api/runs/{id} or the event stream.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if (req.ProfileURL == "") == (req.ProfileHTML == "") {
		s.errorResponse(w, http.StatusBadRequest, "exactly one of profile_url and profile_html is required")
		return
	}
	if req.ProfileURL != "" && fetch.DetectPage(req.ProfileURL) != fetch.PageProfile {
		s.errorResponse(w, http.StatusBadRequest, "profile_url is not a profile page")
		return
	}

	profileID := req.ProfileID
	if profileID == "" && req.ProfileURL != "" {
		profileID = fetch.ProfileIDFromURL(req.ProfileURL)
	}
	if profileID == "" {
		s.errorResponse(w, http.StatusBadRequest, "profile_id is required with profile_html")
		return
	}

	run := s.registry.create(profileID)
	go s.executeRun(run.ID, profileID, req)

	s.jsonResponse(w, http.StatusAccepted, map[string]string{
		"run_id":     run.ID.String(),
		"profile_id": profileID,
	})
}

// executeRun acquires the page and drives the pipeline in the background.
func (s *Server) executeRun(runID uuid.UUID, profileID string, req analyzeRequest) {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	doc, err := s.acquireDocument(ctx, req)
	if err != nil {
		s.registry.finish(runID, nil, err)
		return
	}

	result, err := s.orchestrator.Analyze(ctx, profileID, doc.Doc, pipeline.Options{
		AIEnabled:    req.AIEnabled,
		ForceRefresh: req.ForceRefresh,
		TTLDays:      req.TTLDays,
		Instructions: req.Instructions,
		OnProgress: func(event pipeline.ProgressEvent) {
			s.registry.progress(runID, event)
		},
	})
	s.registry.finish(runID, result, err)
}

func (s *Server) acquireDocument(ctx context.Context, req analyzeRequest) (*fetch.Result, error) {
	if req.ProfileHTML != "" {
		return fetch.FromHTML(req.ProfileID, req.ProfileHTML)
	}
	cached, err := s.fetcher.Fetch(ctx, req.ProfileURL)
	if err != nil {
		return nil, err
	}
	return cached.Result, nil
}

// handleGetRun returns a run's status, events, and result if finished.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run id")
		return
	}
	run, ok := s.registry.get(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, run)
}

// handleListRuns returns all runs without their event logs.
func (s *Server) handleListRuns(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.registry.list())
}

// handleRunEvents streams a run's progress as Server-Sent Events: the
// already-recorded events first, then live ones until the run finishes.
func (s *Server) handleRunEvents(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "invalid run id")
		return
	}

	past, live, ok := s.registry.subscribe(id)
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, event := range past {
		if err := sse.WriteEvent("progress", event); err != nil {
			return
		}
	}

	for {
		select {
		case event, open := <-live:
			if !open {
				final, _ := s.registry.get(id)
				sse.WriteComplete(id.String(), string(final.Status))
				return
			}
			if err := sse.WriteEvent("progress", event); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// handleInvalidateCache drops the cached analysis for a profile.
func (s *Server) handleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	profileID := r.PathValue("profile_id")
	if profileID == "" {
		s.errorResponse(w, http.StatusBadRequest, "profile_id is required")
		return
	}
	if err := s.cache.Invalidate(r.Context(), profileID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, fmt.Sprintf("invalidate failed: %v", err))
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"profile_id": profileID, "status": "invalidated"})
}
