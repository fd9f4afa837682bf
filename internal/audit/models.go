package audit

import (
	"context"
	"time"
)

// Actions recorded by the wallet and land services.
const (
	ActionWalletConnected    = "wallet_connected"
	ActionWalletDisconnected = "wallet_disconnected"
	ActionWalletLinked       = "wallet_linked"
	ActionWalletLinkFailed   = "wallet_link_failed"
	ActionWalletUnlinked     = "wallet_unlinked"
	ActionLandMinted         = "land_minted"
	ActionLandVerified       = "land_verified"
	ActionLandRejected       = "land_rejected"
	ActionTransitionFailed   = "land_transition_failed"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        string    `json:"action"`
	Subject       string    `json:"subject,omitempty"`
	WalletAddress string    `json:"wallet_address,omitempty"`
	LandID        string    `json:"land_id,omitempty"`
	TxHash        string    `json:"tx_hash,omitempty"`
	Reason        string    `json:"reason,omitempty"`
	RequestID     string    `json:"request_id,omitempty"`
}

// Store persists audit events. Implementations are append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
}
