package chainlink

import (
	"context"
	"encoding/json"
	"fmt"

	"landchain/pkg/evm"
)

// Provider events pushed by the wallet.
const (
	EventAccountsChanged = "accountsChanged"
	EventChainChanged    = "chainChanged"
)

// Provider methods used by the link. Anything else is out of the client's scope.
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainID         = "eth_chainId"
	MethodSwitchChain     = "wallet_switchEthereumChain"
	MethodAddChain        = "wallet_addEthereumChain"
	MethodPersonalSign    = "personal_sign"
)

// EIP-1193 provider error codes of interest.
const (
	ErrCodeUserRejected      = 4001
	ErrCodeUnauthorized      = 4100
	ErrCodeUnsupportedMethod = 4200
	ErrCodeDisconnected      = 4900
	ErrCodeChainDisconnected = 4901
	ErrCodeUnrecognizedChain = 4902
)

// Provider is the injected wallet capability: an EIP-1193 request channel plus
// event subscription. Implementations report failures with an error carrying
// an ErrorCode() int (go-ethereum's rpc.Error), which the link translates.
type Provider interface {
	// Request performs method with params and decodes the result into result
	// (which may be nil when the result is ignored).
	Request(ctx context.Context, result any, method string, params ...any) error

	// On registers fn for a provider event. The returned Subscription removes
	// the listener; callers own its lifetime.
	On(event string, fn func(payload json.RawMessage)) (Subscription, error)
}

// Subscription is a scoped event listener registration.
type Subscription interface {
	Unsubscribe()
}

// SubscriptionFunc adapts a plain function to Subscription.
type SubscriptionFunc func()

func (f SubscriptionFunc) Unsubscribe() { f() }

// RPCError is a provider failure with an EIP-1193 code. It satisfies
// go-ethereum's rpc.Error so in-process and JSON-RPC providers fail the same way.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("provider error %d: %s", e.Code, e.Message)
}

// ErrorCode implements rpc.Error.
func (e *RPCError) ErrorCode() int {
	return e.Code
}

// NativeCurrency is the add-network currency metadata.
type NativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

// ChainDescriptor identifies the target network and carries what a provider
// needs to add it when it does not know it yet.
type ChainDescriptor struct {
	ID             evm.ChainID
	Name           string
	RPCURLs        []string
	NativeCurrency NativeCurrency
	ExplorerURLs   []string
}

// addChainParams is the wallet_addEthereumChain wire form.
type addChainParams struct {
	ChainID           string         `json:"chainId"`
	ChainName         string         `json:"chainName"`
	RPCURLs           []string       `json:"rpcUrls"`
	NativeCurrency    NativeCurrency `json:"nativeCurrency"`
	BlockExplorerURLs []string       `json:"blockExplorerUrls,omitempty"`
}

func (d ChainDescriptor) wire() addChainParams {
	return addChainParams{
		ChainID:           d.ID.Hex(),
		ChainName:         d.Name,
		RPCURLs:           d.RPCURLs,
		NativeCurrency:    d.NativeCurrency,
		BlockExplorerURLs: d.ExplorerURLs,
	}
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}
