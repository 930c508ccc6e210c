package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tenderbolt/internal/llm"
	"tenderbolt/internal/logging"
	"tenderbolt/internal/notify"
)

// Analyzer is the LLM-backed document analysis dependency. It is an
// interface so handler tests can stub it.
type Analyzer interface {
	Enabled() bool
	AnalyzeDocument(ctx context.Context, documentID, filename, text string) (*llm.Analysis, error)
}

// Handler carries the request-scoped dependencies: storage, the optional
// analyzer and notifier, and the logger.
type Handler struct {
	Store    StorageInterface
	Analyzer Analyzer
	Notifier *notify.Notifier
	Log      *logging.Logger
}

// NewHandler wires the dependencies. Analyzer and Notifier may be nil or
// disabled; the pipeline then runs pattern extraction and skips
// notifications.
func NewHandler(store StorageInterface, analyzer Analyzer, notifier *notify.Notifier, log *logging.Logger) *Handler {
	if log == nil {
		log = logging.NewNop()
	}
	return &Handler{Store: store, Analyzer: analyzer, Notifier: notifier, Log: log}
}

// PingHandler answers "ok" for liveness checks.
func (h *Handler) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// respondJSON writes v as the JSON response body.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// respondError writes the {"error": ...} body every failure path uses.
// Internal causes are logged by the caller, not echoed to the client.
func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// isNoRows reports whether err means the requested row does not exist.
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

type PaginationParams struct {
	Limit  int
	Offset int
}

// parsePaginationParams parses limit and offset from the query, with
// defaults and bounds.
func parsePaginationParams(r *http.Request) PaginationParams {
	params := PaginationParams{Limit: 20, Offset: 0}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l <= 100 {
			params.Limit = l
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			params.Offset = o
		}
	}
	return params
}
