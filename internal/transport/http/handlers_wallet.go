package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"landchain/internal/wallet"
	"landchain/pkg/platform/httputil"
)

// WalletService is the connection state machine the wallet routes drive.
type WalletService interface {
	Connect(ctx context.Context) wallet.Result
	Restore(ctx context.Context, wasConnected bool) wallet.Result
	Disconnect(ctx context.Context)
	SwitchNetwork(ctx context.Context) error
	Snapshot() wallet.Snapshot
}

// WalletHandler exposes the wallet session. The session belongs to the
// process, so these routes need no sign-in.
type WalletHandler struct {
	wallet WalletService
	logger *slog.Logger
}

func NewWalletHandler(wallet WalletService, logger *slog.Logger) *WalletHandler {
	return &WalletHandler{wallet: wallet, logger: logger}
}

func (h *WalletHandler) Register(r chi.Router) {
	r.Get("/wallet", h.handleSnapshot)
	r.Post("/wallet/connect", h.handleConnect)
	r.Post("/wallet/restore", h.handleRestore)
	r.Post("/wallet/disconnect", h.handleDisconnect)
	r.Post("/wallet/switch-network", h.handleSwitchNetwork)
}

type connectResponse struct {
	Address string          `json:"address,omitempty"`
	Wallet  wallet.Snapshot `json:"wallet"`
}

type restoreRequest struct {
	WasConnected bool `json:"was_connected"`
}

func (h *WalletHandler) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.wallet.Snapshot())
}

func (h *WalletHandler) handleConnect(w http.ResponseWriter, r *http.Request) {
	h.writeResult(w, r, h.wallet.Connect(r.Context()))
}

func (h *WalletHandler) handleRestore(w http.ResponseWriter, r *http.Request) {
	var req restoreRequest
	if err := decodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeResult(w, r, h.wallet.Restore(r.Context(), req.WasConnected))
}

func (h *WalletHandler) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	h.wallet.Disconnect(r.Context())
	httputil.WriteJSON(w, http.StatusOK, h.wallet.Snapshot())
}

func (h *WalletHandler) handleSwitchNetwork(w http.ResponseWriter, r *http.Request) {
	if err := h.wallet.SwitchNetwork(r.Context()); err != nil {
		h.logger.InfoContext(r.Context(), "network switch failed", "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.wallet.Snapshot())
}

// writeResult renders a session result. A restore with nothing to restore
// carries neither success nor an error and is reported as disconnected.
func (h *WalletHandler) writeResult(w http.ResponseWriter, r *http.Request, res wallet.Result) {
	if res.Err != nil {
		h.logger.InfoContext(r.Context(), "wallet connect failed",
			"code", string(res.Code()),
			"error", res.Err,
		)
		httputil.WriteError(w, res.Err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, connectResponse{
		Address: res.Address,
		Wallet:  h.wallet.Snapshot(),
	})
}
