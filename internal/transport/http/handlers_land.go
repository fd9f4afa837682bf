package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"landchain/internal/land/models"
	"landchain/internal/land/service"
	"landchain/internal/platform/middleware"
	"landchain/pkg/platform/httputil"
)

// LandService is the verifier workflow.
type LandService interface {
	Load(ctx context.Context, id string) (*models.Record, error)
	ListPending(ctx context.Context) (models.Queues, error)
	Mint(ctx context.Context, id string) (service.Outcome, error)
	Verify(ctx context.Context, id string, confirmed bool) (service.Outcome, error)
	Reject(ctx context.Context, id, reason string, confirmed bool) (service.Outcome, error)
	Actions(ctx context.Context, rec *models.Record) []models.Action
	InFlight(id string) bool
}

// LandHandler exposes the verifier workflow.
type LandHandler struct {
	lands  LandService
	tokens middleware.TokenParser
	logger *slog.Logger
}

func NewLandHandler(lands LandService, tokens middleware.TokenParser, logger *slog.Logger) *LandHandler {
	return &LandHandler{lands: lands, tokens: tokens, logger: logger}
}

func (h *LandHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.tokens, h.logger))
		r.Get("/lands/pending", h.handlePending)
		r.Get("/lands/{id}", h.handleGet)
		r.Post("/lands/{id}/mint", h.handleMint)
		r.Post("/lands/{id}/verify", h.handleVerify)
		r.Post("/lands/{id}/reject", h.handleReject)
	})
}

type landResponse struct {
	Record   *models.Record  `json:"record"`
	Actions  []models.Action `json:"actions"`
	InFlight bool            `json:"in_flight"`
}

type verifyRequest struct {
	Confirmed bool `json:"confirmed"`
}

type rejectRequest struct {
	Reason    string `json:"reason"`
	Confirmed bool   `json:"confirmed"`
}

func (h *LandHandler) handlePending(w http.ResponseWriter, r *http.Request) {
	queues, err := h.lands.ListPending(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, queues)
}

func (h *LandHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	rec, err := h.lands.Load(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, landResponse{
		Record:   rec,
		Actions:  h.lands.Actions(ctx, rec),
		InFlight: h.lands.InFlight(id),
	})
}

func (h *LandHandler) handleMint(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.lands.Mint(r.Context(), chi.URLParam(r, "id"))
	h.writeOutcome(w, outcome, err)
}

func (h *LandHandler) handleVerify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	outcome, err := h.lands.Verify(r.Context(), chi.URLParam(r, "id"), req.Confirmed)
	h.writeOutcome(w, outcome, err)
}

func (h *LandHandler) handleReject(w http.ResponseWriter, r *http.Request) {
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	outcome, err := h.lands.Reject(r.Context(), chi.URLParam(r, "id"), req.Reason, req.Confirmed)
	h.writeOutcome(w, outcome, err)
}

func (h *LandHandler) writeOutcome(w http.ResponseWriter, outcome service.Outcome, err error) {
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, outcome)
}
