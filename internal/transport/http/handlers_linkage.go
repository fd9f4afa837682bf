package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"landchain/internal/auth"
	"landchain/internal/linkage/models"
	"landchain/internal/platform/middleware"
	"landchain/pkg/platform/httputil"
)

// LinkageService binds the connected wallet to the signed-in account.
type LinkageService interface {
	Link(ctx context.Context, account string) error
	Unlink(ctx context.Context, account string) error
	CheckStatus(ctx context.Context, account string) (models.Status, error)
	PendingPrompt(account string) (models.Prompt, bool)
	DismissPrompt(account string)
	LinkedWallet(account string) string
}

// LinkageHandler exposes wallet linkage for the signed-in account.
type LinkageHandler struct {
	linkage LinkageService
	tokens  middleware.TokenParser
	logger  *slog.Logger
}

func NewLinkageHandler(linkage LinkageService, tokens middleware.TokenParser, logger *slog.Logger) *LinkageHandler {
	return &LinkageHandler{linkage: linkage, tokens: tokens, logger: logger}
}

func (h *LinkageHandler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(h.tokens, h.logger))
		r.Get("/wallet/linkage", h.handleStatus)
		r.Post("/wallet/link", h.handleLink)
		r.Post("/wallet/unlink", h.handleUnlink)
		r.Get("/wallet/prompt", h.handlePrompt)
		r.Post("/wallet/prompt/dismiss", h.handleDismissPrompt)
	})
}

type linkResponse struct {
	Linked        bool   `json:"linked"`
	WalletAddress string `json:"wallet_address,omitempty"`
}

func (h *LinkageHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status, err := h.linkage.CheckStatus(ctx, auth.PrincipalFrom(ctx).Email)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *LinkageHandler) handleLink(w http.ResponseWriter, r *http.Request) {
	account := auth.PrincipalFrom(r.Context()).Email
	if err := h.linkage.Link(r.Context(), account); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, linkResponse{
		Linked:        true,
		WalletAddress: h.linkage.LinkedWallet(account),
	})
}

func (h *LinkageHandler) handleUnlink(w http.ResponseWriter, r *http.Request) {
	if err := h.linkage.Unlink(r.Context(), auth.PrincipalFrom(r.Context()).Email); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, linkResponse{Linked: false})
}

func (h *LinkageHandler) handlePrompt(w http.ResponseWriter, r *http.Request) {
	prompt, ok := h.linkage.PendingPrompt(auth.PrincipalFrom(r.Context()).Email)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, prompt)
}

func (h *LinkageHandler) handleDismissPrompt(w http.ResponseWriter, r *http.Request) {
	h.linkage.DismissPrompt(auth.PrincipalFrom(r.Context()).Email)
	w.WriteHeader(http.StatusNoContent)
}
