// Package chainlink is the thin facade over the external wallet provider. It is
// the only place that speaks the provider's method names and error codes.
package chainlink

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common/hexutil"

	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/evm"
)

// Link exposes the minimal provider surface the session and linkage need.
// A Link with a nil provider is valid and reports itself unavailable.
type Link struct {
	provider Provider
}

// New wraps p. p may be nil when no provider is present in the environment.
func New(p Provider) *Link {
	return &Link{provider: p}
}

// IsAvailable reports whether a compatible signing provider is present.
func (l *Link) IsAvailable() bool {
	return l != nil && l.provider != nil
}

// Provider returns the wrapped provider, or nil.
func (l *Link) Provider() Provider {
	if l == nil {
		return nil
	}
	return l.provider
}

// RequestAccounts asks the provider for account access. This may open a
// permission prompt. An empty list fails with no_accounts.
func (l *Link) RequestAccounts(ctx context.Context) ([]string, error) {
	accounts, err := l.accounts(ctx, MethodRequestAccounts, OpConnect)
	if err != nil {
		return nil, err
	}
	if len(accounts) == 0 {
		return nil, dErrors.New(dErrors.CodeNoAccounts, "No accounts found. Please create an account in your wallet.")
	}
	return accounts, nil
}

// Accounts lists already-authorized accounts without prompting. It is only
// used for explicit session restore; an empty list is not an error.
func (l *Link) Accounts(ctx context.Context) ([]string, error) {
	return l.accounts(ctx, MethodAccounts, OpAccounts)
}

func (l *Link) accounts(ctx context.Context, method string, op Operation) ([]string, error) {
	if !l.IsAvailable() {
		return nil, ErrProviderUnavailable
	}
	var raw []string
	if err := l.provider.Request(ctx, &raw, method); err != nil {
		return nil, Translate(op, err)
	}
	return normalizeAccounts(raw)
}

// CurrentChainID reads the network the provider is on.
func (l *Link) CurrentChainID(ctx context.Context) (evm.ChainID, error) {
	if !l.IsAvailable() {
		return 0, ErrProviderUnavailable
	}
	var raw string
	if err := l.provider.Request(ctx, &raw, MethodChainID); err != nil {
		return 0, Translate(OpChainID, err)
	}
	id, err := evm.ParseChainID(raw)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeProviderError, "Wallet reported an invalid chain id")
	}
	return id, nil
}

// RequestNetworkSwitch asks the provider to move to target. A provider that does
// not know the chain fails with chain_unknown_to_provider; callers then fall
// back to RequestAddNetwork.
func (l *Link) RequestNetworkSwitch(ctx context.Context, target evm.ChainID) error {
	if !l.IsAvailable() {
		return ErrProviderUnavailable
	}
	err := l.provider.Request(ctx, nil, MethodSwitchChain, switchChainParams{ChainID: target.Hex()})
	return Translate(OpSwitchNetwork, err)
}

// RequestAddNetwork asks the provider to add (and usually switch to) chain.
func (l *Link) RequestAddNetwork(ctx context.Context, chain ChainDescriptor) error {
	if !l.IsAvailable() {
		return ErrProviderUnavailable
	}
	err := l.provider.Request(ctx, nil, MethodAddChain, chain.wire())
	return Translate(OpAddNetwork, err)
}

// Signer returns a signing capability bound to the first connected account.
// It never prompts for account access.
func (l *Link) Signer(ctx context.Context) (*Signer, error) {
	if !l.IsAvailable() {
		return nil, dErrors.Wrap(ErrProviderUnavailable, dErrors.CodeSignerUnavailable, "Failed to get signer: no wallet provider")
	}
	accounts, err := l.Accounts(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeSignerUnavailable, "Failed to get signer")
	}
	if len(accounts) == 0 {
		return nil, dErrors.New(dErrors.CodeSignerUnavailable, "Failed to get signer: no connected account")
	}
	return &Signer{provider: l.provider, address: accounts[0]}, nil
}

// SubscribeAccountsChanged registers fn for account changes. Payloads that do
// not decode as an address list are dropped.
func (l *Link) SubscribeAccountsChanged(fn func(accounts []string)) (Subscription, error) {
	if !l.IsAvailable() {
		return nil, ErrProviderUnavailable
	}
	sub, err := l.provider.On(EventAccountsChanged, func(payload json.RawMessage) {
		var raw []string
		if err := json.Unmarshal(payload, &raw); err != nil {
			return
		}
		accounts, err := normalizeAccounts(raw)
		if err != nil {
			return
		}
		fn(accounts)
	})
	if err != nil {
		return nil, Translate(OpSubscribe, err)
	}
	return sub, nil
}

// SubscribeChainChanged registers fn for network changes.
func (l *Link) SubscribeChainChanged(fn func(chainID evm.ChainID)) (Subscription, error) {
	if !l.IsAvailable() {
		return nil, ErrProviderUnavailable
	}
	sub, err := l.provider.On(EventChainChanged, func(payload json.RawMessage) {
		var raw string
		if err := json.Unmarshal(payload, &raw); err != nil {
			return
		}
		id, err := evm.ParseChainID(raw)
		if err != nil {
			return
		}
		fn(id)
	})
	if err != nil {
		return nil, Translate(OpSubscribe, err)
	}
	return sub, nil
}

// Signer produces personal_sign signatures for one account. It carries no
// other capability.
type Signer struct {
	provider Provider
	address  string
}

// Address is the lowercase account the signer is bound to.
func (s *Signer) Address() string {
	return s.address
}

// SignMessage asks the wallet to sign text. The wallet shows a prompt.
func (s *Signer) SignMessage(ctx context.Context, text string) (string, error) {
	var signature string
	err := s.provider.Request(ctx, &signature, MethodPersonalSign, hexutil.Encode([]byte(text)), s.address)
	if err != nil {
		return "", Translate(OpSign, err)
	}
	if signature == "" {
		return "", dErrors.New(dErrors.CodeSignerUnavailable, "Wallet returned an empty signature")
	}
	return signature, nil
}

func normalizeAccounts(raw []string) ([]string, error) {
	accounts := make([]string, 0, len(raw))
	for _, a := range raw {
		addr, err := evm.NormalizeAddress(a)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeProviderError, "Wallet reported an invalid account")
		}
		accounts = append(accounts, addr)
	}
	return accounts, nil
}
