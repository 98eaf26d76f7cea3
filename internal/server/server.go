// Package server provides the HTTP REST API for the candidate ranker.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/candidate-ranker/internal/config"
	"github.com/jonathan/candidate-ranker/internal/extract"
	"github.com/jonathan/candidate-ranker/internal/ingest"
	"github.com/jonathan/candidate-ranker/internal/llm"
	"github.com/jonathan/candidate-ranker/internal/ranking"
	"github.com/jonathan/candidate-ranker/internal/server/ratelimit"
	"github.com/jonathan/candidate-ranker/internal/store"
	"github.com/jonathan/candidate-ranker/internal/types"
)

// CandidateStore is the persistence surface the handlers need.
type CandidateStore interface {
	ListProfiles(ctx context.Context, limit int) ([]types.CandidateProfile, error)
	GetProfile(ctx context.Context, id uuid.UUID) (*types.CandidateProfile, error)
	CreateProfile(ctx context.Context, resumeText string, resumeFileURL *string) (uuid.UUID, error)
	UpdateExtractedFields(ctx context.Context, id uuid.UUID, fields types.ExtractedFields) error
}

// RankRunner runs one full ranking orchestration.
type RankRunner interface {
	Rank(ctx context.Context, jobDescription string) (*types.RankResponse, error)
}

// FieldExtractor parses structured fields from resume text.
type FieldExtractor interface {
	Extract(ctx context.Context, resumeText string) (*types.ExtractedFields, error)
}

// DescriptionFetcher resolves a job description URL to plain text.
type DescriptionFetcher interface {
	JobDescription(ctx context.Context, urlStr string) (string, error)
}

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	store       CandidateStore
	ranker      RankRunner
	extractor   FieldExtractor
	fetcher     DescriptionFetcher
	rateLimiter *ratelimit.Limiter
	llmClient   llm.Client
	db          *store.Store
}

// New creates a fully wired server instance.
func New(port int, cfg config.Config) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("config error: database_url is required")
	}

	database, err := store.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	llmClient, err := llm.NewGeminiClient(context.Background(), llm.DefaultConfig(), cfg.APIKey)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	gen := llm.NewRawClient(cfg.Endpoint, cfg.Model, cfg.APIKey, cfg.RequestTimeout())

	s := newServer(
		database,
		ranking.New(cfg, gen, database, database),
		extract.NewExtractor(llmClient),
		ingest.NewFetcher(cfg.RequestTimeout()),
		ratelimit.NewLimiter(ratelimit.LoadConfig()),
	)
	s.db = database
	s.llmClient = llmClient

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.routes(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 600 * time.Second, // Ranking runs block through retries and waves
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// newServer wires handlers to their dependencies without touching the network.
func newServer(st CandidateStore, ranker RankRunner, extractor FieldExtractor, fetcher DescriptionFetcher, limiter *ratelimit.Limiter) *Server {
	return &Server{
		store:       st,
		ranker:      ranker,
		extractor:   extractor,
		fetcher:     fetcher,
		rateLimiter: limiter,
	}
}

// routes builds the router with the middleware chain applied.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /rank", s.handleRank)

	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("POST /candidates", s.handleCreateCandidate)
	mux.HandleFunc("GET /candidates/{id}", s.handleGetCandidate)
	mux.HandleFunc("POST /candidates/{id}/extract", s.handleExtract)
	mux.HandleFunc("POST /candidates/{id}/extract/stream", s.handleExtractStream)

	return s.withRecovery(s.withRateLimit(s.withLogging(s.withCORS(mux))))
}

// Start begins listening for requests and blocks until shutdown.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if s.llmClient != nil {
		_ = s.llmClient.Close()
	}
	if s.db != nil {
		s.db.Close()
	}
	log.Println("Server stopped")
	return nil
}

// withRecovery converts handler panics into logged 500 responses.
func (s *Server) withRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("Panic handling %s %s: %v", r.Method, r.URL.Path, rec)
				s.errorResponse(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rateLimiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		clientID := s.extractClientID(r)
		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)

		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// errorFromErr writes an error response with the status mapped from the error type.
func (s *Server) errorFromErr(w http.ResponseWriter, err error) {
	s.errorResponse(w, HTTPStatus(err), err.Error())
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
