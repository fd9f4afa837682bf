// Package ports defines the interfaces the land workflow depends on.
package ports

import (
	"context"

	"landchain/internal/land/models"
)

// LandAPI is the backend's land and verifier surface. Every mutating call
// performs its chain transaction server-side.
type LandAPI interface {
	// GetLand fetches the authoritative record.
	GetLand(ctx context.Context, id string) (*models.Record, error)

	// ListPending returns records in not_minted or pending state.
	ListPending(ctx context.Context) ([]*models.Record, error)

	// Mint creates the record's token.
	Mint(ctx context.Context, id string) (models.Receipt, error)

	// Verify approves a minted record on-chain.
	Verify(ctx context.Context, id string) (models.Receipt, error)

	// Reject rejects the record with a reason.
	Reject(ctx context.Context, id, reason string) (models.Receipt, error)
}
