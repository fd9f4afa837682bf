package adapters

import (
	"context"

	"landchain/internal/linkage/ports"
	"landchain/internal/wallet"
)

// SessionAdapter exposes a wallet session through ports.WalletSession.
type SessionAdapter struct {
	session *wallet.Session
}

func NewSessionAdapter(session *wallet.Session) *SessionAdapter {
	return &SessionAdapter{session: session}
}

func (a *SessionAdapter) Address() string {
	return a.session.Address()
}

func (a *SessionAdapter) Signer(ctx context.Context) (ports.MessageSigner, error) {
	signer, err := a.session.Signer(ctx)
	if err != nil {
		return nil, err
	}
	return signer, nil
}
