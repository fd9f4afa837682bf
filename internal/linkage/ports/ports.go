// Package ports defines the interfaces the linkage service depends on.
package ports

import (
	"context"

	"landchain/internal/linkage/models"
)

// AccountAPI is the backend's account surface.
type AccountAPI interface {
	// LinkWallet submits a signed linkage for the current user.
	LinkWallet(ctx context.Context, address, signature string) error

	// UnlinkWallet removes the current user's linkage.
	UnlinkWallet(ctx context.Context) error

	// WalletStatus returns the server's linkage for the current user.
	WalletStatus(ctx context.Context) (models.WalletStatus, error)
}

// MessageSigner produces personal-sign signatures for one account.
type MessageSigner interface {
	Address() string
	SignMessage(ctx context.Context, text string) (string, error)
}

// WalletSession is the part of the wallet session linkage needs.
type WalletSession interface {
	// Address is the connected account, or "" when disconnected.
	Address() string

	// Signer returns a signer bound to the connected account.
	Signer(ctx context.Context) (MessageSigner, error)
}
