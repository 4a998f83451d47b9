package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/candidate-matcher/internal/config"
	"github.com/fairyhunter13/candidate-matcher/internal/domain"
	"github.com/fairyhunter13/candidate-matcher/internal/usecase"
)

// maxBodyBytes caps match request payloads. Candidate profiles are small;
// anything larger is a client error.
const maxBodyBytes = 1 << 20

// Server aggregates handler dependencies.
type Server struct {
	Cfg          config.Config
	Matches      usecase.MatchService
	CatalogCheck func(ctx context.Context) error
	AICheck      func(ctx context.Context) error
}

// NewServer constructs an HTTP server with all handlers and checks wired.
func NewServer(cfg config.Config, matches usecase.MatchService, catalogCheck, aiCheck func(context.Context) error) *Server {
	return &Server{Cfg: cfg, Matches: matches, CatalogCheck: catalogCheck, AICheck: aiCheck}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

type matchRequest struct {
	Candidate domain.CandidateProfile `json:"candidate" validate:"required"`
	Page      int                     `json:"page" validate:"omitempty,min=1"`
	PerPage   int                     `json:"per_page" validate:"omitempty,min=1,max=100"`
	UseAI     bool                    `json:"use_ai"`
}

type globalMatchRequest struct {
	Candidate domain.CandidateProfile `json:"candidate" validate:"required"`
	UseAI     bool                    `json:"use_ai"`
}

// decodeJSON reads a bounded JSON body into dst and rejects unknown shapes
// early with ErrInvalidArgument.
func decodeJSON(r *http.Request, dst any) error {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "application/json") {
		return fmt.Errorf("%w: content-type must be application/json", domain.ErrInvalidArgument)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", domain.ErrInvalidArgument, err)
	}
	if len(body) == 0 {
		return fmt.Errorf("%w: empty body", domain.ErrInvalidArgument)
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("%w: decode body: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

// MatchHandler ranks the candidate against the cached catalog and returns the
// requested page of matches.
func (s *Server) MatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		if req.Page == 0 {
			req.Page = 1
		}
		if req.PerPage == 0 {
			req.PerPage = 10
		}

		useAI := req.UseAI && s.Cfg.AIEnabled()
		result := s.Matches.Match(r.Context(), req.Candidate, req.Page, req.PerPage, useAI)
		LoggerFrom(r).Info("match completed",
			"total", result.Pagination.Total,
			"page", result.Pagination.Page,
			"returned", len(result.Matches),
			"use_ai", useAI)
		writeJSON(w, http.StatusOK, result)
	}
}

// GlobalMatchHandler assesses the candidate against the fixed category table,
// independently of the catalog.
func (s *Server) GlobalMatchHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req globalMatchRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, err, nil)
			return
		}
		if err := getValidator().Struct(req); err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}

		svc := s.Matches
		if !(req.UseAI && s.Cfg.AIEnabled()) {
			svc.Analyzer = nil
		}
		matches := svc.GlobalMatches(r.Context(), req.Candidate)
		writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
	}
}

// CategoriesHandler returns the distinct roles of the cached catalog.
func (s *Server) CategoriesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := s.Matches.Categories(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
	}
}

// SkillsHandler returns how often each skill is required across the catalog.
func (s *Server) SkillsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		skills := s.Matches.SkillsDistribution(r.Context())
		writeJSON(w, http.StatusOK, map[string]any{"skills": skills})
	}
}

// ReadyzHandler reports dependency health: the catalog source must be
// reachable; the narrative collaborator is reported but optional.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		checks := map[string]string{}
		healthy := true

		if s.CatalogCheck != nil {
			if err := s.CatalogCheck(ctx); err != nil {
				checks["catalog"] = err.Error()
				healthy = false
			} else {
				checks["catalog"] = "ok"
			}
		}
		if s.AICheck != nil {
			if err := s.AICheck(ctx); err != nil {
				// Matching degrades to deterministic analysis without AI.
				checks["ai"] = err.Error()
			} else {
				checks["ai"] = "ok"
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{"ready": healthy, "checks": checks})
	}
}
