package httpadapter

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"milestone-escrow/internal/core/port"
)

// TokenVerifier resolves a bearer token to the principal it was issued for.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// It holds the escrow use case, an optional token verifier and a logger for
// structured logging. Routes are registered on a chi.Router for convenient
// method handling.
type Handler struct {
	svc    port.EscrowUseCase
	tokens TokenVerifier
	logger *slog.Logger
	router chi.Router
}

// NewHandler creates a handler with all routes configured. A nil tokens
// leaves every request anonymous unless the authorizer in use ignores the
// caller. metrics, when non-nil, is mounted at /metrics.
func NewHandler(svc port.EscrowUseCase, tokens TokenVerifier, metrics http.Handler, logger *slog.Logger) *Handler {
	h := &Handler{svc: svc, tokens: tokens, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.requestID)

	r.Get("/health", h.handleHealth)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.authenticate)

		r.Route("/campaigns", func(r chi.Router) {
			r.Post("/", h.handleCreateCampaign)
			r.Get("/", h.handleListCampaigns)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.handleGetCampaign)
				r.Post("/contributions", h.handleContribute)
				r.Get("/contributions/{backer}", h.handleGetContribution)
				r.Post("/deactivate", h.handleDeactivate)

				r.Route("/milestones/{mid}", func(r chi.Router) {
					r.Put("/", h.handlePutMilestone)
					r.Get("/", h.handleGetMilestone)
					r.Post("/approvals", h.handleApprove)
					r.Post("/release", h.handleRelease)
				})
			})
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
