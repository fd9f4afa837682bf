package models

import (
	"errors"
	"fmt"
	"time"
)

// ChallengeMessage is the text the wallet signs to prove it controls address.
// The backend rebuilds the same string to recover the signer, so the format is
// part of the wire contract.
func ChallengeMessage(address, account string) string {
	return fmt.Sprintf("Link wallet %s to account %s", address, account)
}

// WalletStatus is the server's view of the current user's linkage.
type WalletStatus struct {
	WalletAddress string     `json:"wallet_address"`
	LinkedAt      *time.Time `json:"linked_at,omitempty"`
	IsLinked      bool       `json:"is_linked"`
}

// State is the outcome of comparing the server's linkage with the session.
type State string

const (
	// StateNoWallet: no wallet is connected, so nothing can be compared.
	StateNoWallet State = "no_wallet"
	// StateUnlinked: a wallet is connected and the account has no linkage.
	StateUnlinked State = "unlinked"
	// StateLinked: the connected wallet is the linked one.
	StateLinked State = "linked"
	// StateMismatch: the account is linked to a different wallet than the connected one.
	StateMismatch State = "mismatch"
)

// Status is the result of a linkage check.
type Status struct {
	State           State      `json:"state"`
	ConnectedWallet string     `json:"connected_wallet,omitempty"`
	LinkedWallet    string     `json:"linked_wallet,omitempty"`
	LinkedAt        *time.Time `json:"linked_at,omitempty"`
	Message         string     `json:"message,omitempty"`
}

// Prompt is the intent to ask the user to link the connected wallet. The core
// only exposes it; rendering belongs to the UI.
type Prompt struct {
	WalletAddress string `json:"wallet_address"`
	Account       string `json:"account"`
	Message       string `json:"message"`
}

// Conflict causes carried by link_rejected_by_server errors.
var (
	// ErrWalletLinkedElsewhere: the wallet belongs to another account.
	ErrWalletLinkedElsewhere = errors.New("wallet linked to another account")
	// ErrAccountLinkedElsewhere: the account is linked to another wallet.
	ErrAccountLinkedElsewhere = errors.New("account linked to another wallet")
)
