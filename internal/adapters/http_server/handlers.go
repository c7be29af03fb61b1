package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"place_insights/internal/domain"
)

const maxBodyBytes = 1 << 20

// Analyzer is the pipeline entry point the handlers depend on.
type Analyzer interface {
	AnalyzeURL(ctx context.Context, rawURL string) (domain.Report, error)
}

type Handlers struct{ A Analyzer }

type analyzeRequest struct {
	URL string `json:"url"`
}

// problem keeps the RFC 7807 fields and adds the flat error/kind/timestamp
// fields browser clients read.
type problem struct {
	Type      string `json:"type"`
	Title     string `json:"title"`
	Status    int    `json:"status"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error"`
	Kind      string `json:"kind,omitempty"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/api/analyze", h.analyze)
}

func writeProblem(w http.ResponseWriter, status int, kind domain.Kind, msg string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	p := problem{
		Type:      "about:blank",
		Title:     http.StatusText(status),
		Status:    status,
		Detail:    msg,
		Error:     msg,
		Kind:      string(kind),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// statusFor maps a pipeline error kind to the HTTP status returned to clients.
func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindInvalidURL, domain.KindUnsupportedFormat:
		return http.StatusBadRequest
	case domain.KindNoResults, domain.KindNoReviews:
		return http.StatusNotFound
	case domain.KindProviderAccess, domain.KindProviderRequest:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handlers) analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, domain.KindInvalidURL, "Request body must be JSON like {\"url\": \"...\"}")
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		writeProblem(w, http.StatusBadRequest, domain.KindInvalidURL, "URL is required")
		return
	}

	rep, err := h.A.AnalyzeURL(r.Context(), req.URL)
	if err != nil {
		kind := domain.KindOf(err)
		msg := err.Error()
		if kind == "" {
			log.Error().Err(err).Msg("analyze failed")
			msg = "Internal error while analyzing the place"
		}
		writeProblem(w, statusFor(kind), kind, msg)
		return
	}

	body, err := json.Marshal(rep)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal report")
		writeProblem(w, http.StatusInternalServerError, "", "Internal error while encoding the report")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write analyze body")
	}
}
