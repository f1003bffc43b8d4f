// Package web is the thin presentation layer: a JSON HTTP surface over
// the workflow services. It holds no domain state and performs no
// authorization of its own; capability checks live in the workflows and
// the ledger.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vietddude/boxoffice/internal/core/domain"
	"github.com/vietddude/boxoffice/internal/infra/identity"
	"github.com/vietddude/boxoffice/internal/infra/storage"
	"github.com/vietddude/boxoffice/internal/session"
	"github.com/vietddude/boxoffice/internal/workflow"
)

// HealthChecker reports whether a backing component is reachable.
type HealthChecker func(ctx context.Context) error

// Deps carries the wired components the server exposes. Receipts may be
// nil when no store is configured; Health entries may be empty.
type Deps struct {
	Catalog     *workflow.CatalogService
	Moderation  *workflow.ModerationService
	Purchase    *workflow.PurchaseService
	Session     *session.Handle
	Identity    *identity.Client
	Receipts    storage.ReceiptRepository
	Health      map[string]HealthChecker
	DefaultLang string
}

// Server provides the HTTP endpoints of the coordinator.
type Server struct {
	deps   Deps
	server *http.Server
}

// NewServer creates the HTTP server on the given port.
func NewServer(deps Deps, port int) *Server {
	mux := http.NewServeMux()
	s := &Server{
		deps: deps,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: mux,
		},
	}

	mux.HandleFunc("GET /events", s.handleSearch)
	mux.HandleFunc("GET /categories", s.handleCategories)
	mux.HandleFunc("POST /events", s.handleSubmit)
	mux.HandleFunc("GET /admin/pending", s.handlePending)
	mux.HandleFunc("POST /admin/events/{id}/moderate", s.handleModerate)
	mux.HandleFunc("GET /admin/events/{id}/organizer", s.handleOrganizer)
	mux.HandleFunc("POST /events/{id}/purchase", s.handlePurchase)
	mux.HandleFunc("POST /events/{id}/purchase/card", s.handleCardPayment)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /session", s.handleSession)
	mux.HandleFunc("GET /me/receipts", s.handleReceipts)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Handler exposes the routing table, used by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop stops the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// lang resolves the display language for a request. Rendering happens
// client-side; the value is echoed back so the UI keeps its choice
// across navigations.
func (s *Server) lang(r *http.Request) string {
	if l := r.URL.Query().Get("lang"); l != "" {
		return l
	}
	return s.deps.DefaultLang
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps a workflow failure onto an HTTP status. The remote
// message is preserved verbatim; retryable tells the UI whether a
// manual retry could plausibly succeed.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch domain.Classify(err) {
	case domain.FailureValidation:
		status = http.StatusBadRequest
	case domain.FailureAuthorization:
		status = http.StatusUnauthorized
		if errors.Is(err, domain.ErrNotAuthorized) {
			status = http.StatusForbidden
		}
	case domain.FailureStateConflict:
		status = http.StatusConflict
	case domain.FailureNotFound:
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]any{
		"error":     err.Error(),
		"retryable": domain.Retryable(err),
	})
}
