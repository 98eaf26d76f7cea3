package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-ranker/internal/types"
)

// defaultListLimit bounds GET /candidates when no limit query is given.
const defaultListLimit = 50

// CreateCandidateResponse is the response for POST /candidates
type CreateCandidateResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ExtractResponse is the response for POST /candidates/{id}/extract
type ExtractResponse struct {
	ID     string                 `json:"id"`
	Fields *types.ExtractedFields `json:"fields"`
}

// handleRank runs a full ranking pass over the stored candidate pool. The run
// is synchronous: retries and wave pauses happen while the caller waits, so
// the response always reflects a finished reconciliation.
func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	var req types.RankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, &ErrValidation{Message: "job_description or job_description_url is required"})
		return
	}

	jobDescription := req.JobDescription
	if jobDescription == "" {
		text, err := s.fetcher.JobDescription(r.Context(), req.JobDescriptionURL)
		if err != nil {
			s.errorFromErr(w, &ErrUpstream{Operation: "job description fetch", Cause: err})
			return
		}
		jobDescription = text
	}
	if strings.TrimSpace(jobDescription) == "" {
		s.errorFromErr(w, &ErrValidation{Message: "job description is empty"})
		return
	}

	resp, err := s.ranker.Rank(r.Context(), jobDescription)
	if err != nil {
		log.Printf("Ranking run failed: %v", err)
		s.errorResponse(w, http.StatusInternalServerError, "Ranking failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, resp)
}

// handleListCandidates returns stored candidate profiles, newest first.
func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			s.errorFromErr(w, &ErrValidation{Message: "limit must be a positive integer"})
			return
		}
		limit = n
	}

	profiles, err := s.store.ListProfiles(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profiles == nil {
		profiles = []types.CandidateProfile{}
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"candidates": profiles,
		"total":      len(profiles),
	})
}

// handleCreateCandidate registers a candidate from resume text.
func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	var req types.CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFromErr(w, &ErrValidation{Message: "resume_text of at least 20 characters is required"})
		return
	}

	var fileURL *string
	if req.ResumeFileURL != "" {
		fileURL = &req.ResumeFileURL
	}

	id, err := s.store.CreateProfile(r.Context(), req.ResumeText, fileURL)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, CreateCandidateResponse{
		ID:     id.String(),
		Status: "created",
	})
}

// handleGetCandidate returns one candidate profile.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	id, err := s.candidateID(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	profile, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorFromErr(w, &ErrCandidateNotFound{ID: id})
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}

// handleExtract runs field extraction for one candidate and persists the
// result before responding.
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	id, profile, err := s.loadCandidate(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	fields, err := s.extractor.Extract(r.Context(), profile.ResumeText)
	if err != nil {
		s.errorFromErr(w, &ErrUpstream{Operation: "field extraction", Cause: err})
		return
	}

	if err := s.store.UpdateExtractedFields(r.Context(), id, *fields); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ExtractResponse{ID: id.String(), Fields: fields})
}

// handleExtractStream runs field extraction with SSE progress events.
func (s *Server) handleExtractStream(w http.ResponseWriter, r *http.Request) {
	id, profile, err := s.loadCandidate(r)
	if err != nil {
		s.errorFromErr(w, err)
		return
	}

	stream, err := newExtractionStream(w, id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	stream.Started()

	fields, err := s.extractor.Extract(r.Context(), profile.ResumeText)
	if err != nil {
		stream.Failed("field extraction failed: " + err.Error())
		return
	}
	stream.Fields(fields)

	if err := s.store.UpdateExtractedFields(r.Context(), id, *fields); err != nil {
		stream.Failed("failed to persist fields: " + err.Error())
		return
	}

	stream.Done()
}

// candidateID parses the {id} path value.
func (s *Server) candidateID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &ErrInvalidID{Value: raw}
	}
	return id, nil
}

// loadCandidate parses the {id} path value and fetches the profile.
func (s *Server) loadCandidate(r *http.Request) (uuid.UUID, *types.CandidateProfile, error) {
	id, err := s.candidateID(r)
	if err != nil {
		return uuid.Nil, nil, err
	}

	profile, err := s.store.GetProfile(r.Context(), id)
	if err != nil {
		return uuid.Nil, nil, err
	}
	if profile == nil {
		return uuid.Nil, nil, &ErrCandidateNotFound{ID: id}
	}
	return id, profile, nil
}
