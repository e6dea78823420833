package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dotcommander/storyweaver/internal/pipeline"
)

const version = "1.0.0"

// StoryPipeline is what the handlers need from the pipeline; tests inject a
// stub.
type StoryPipeline interface {
	Generate(ctx context.Context, text string) (*pipeline.Result, error)
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

type Handlers struct {
	pipeline StoryPipeline
	logger   *slog.Logger
}

func NewHandlers(p StoryPipeline, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		pipeline: p,
		logger:   logger.With("component", "api"),
	}
}

type generateRequest struct {
	Text string `json:"text"`
}

// Generate handles POST /generate.
func (h *Handlers) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "INVALID_BODY")
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required", "MISSING_TEXT")
		return
	}

	h.logger.Info("story generation request received",
		"text_length", len(req.Text))

	result, err := h.pipeline.Generate(r.Context(), req.Text)
	if err != nil {
		// One generic failure for the caller; detail stays in the log.
		h.logger.Error("story generation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to generate story", "GENERATION_FAILED")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// Health handles GET /health.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version,
	})
}

// Root handles GET / with API information.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "StoryWeaver bedtime story API",
		"version": version,
		"endpoints": map[string]string{
			"health":   "/health",
			"generate": "/generate (POST)",
		},
	})
}
