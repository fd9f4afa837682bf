// Package devwallet is an in-process, key-backed wallet provider. It answers the
// same methods a browser wallet does and pushes the same events, which makes it
// the local development provider and the fake used by session and linkage tests.
package devwallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"landchain/internal/chainlink"
	"landchain/pkg/evm"
)

// Hook runs before a method is handled. Returning an error fails the call with
// that error. Tests use it to block a call or to push events mid-flight.
type Hook func(ctx context.Context, method string) error

// Wallet implements chainlink.Provider over a set of private keys.
type Wallet struct {
	mu         sync.Mutex
	keys       []*ecdsa.PrivateKey
	authorized bool
	chainID    evm.ChainID
	known      map[evm.ChainID]bool
	rejectNext map[string]bool
	calls      map[string]int
	listeners  map[string]map[uint64]func(json.RawMessage)
	nextID     uint64
	hook       Hook
}

// Option configures a Wallet.
type Option func(*Wallet)

// WithKnownChains registers networks the wallet can switch to without adding
// them first. The starting chain is always known.
func WithKnownChains(ids ...evm.ChainID) Option {
	return func(w *Wallet) {
		for _, id := range ids {
			w.known[id] = true
		}
	}
}

// WithAuthorized starts the wallet as if the user had already approved this
// site, so eth_accounts answers without a prior eth_requestAccounts.
func WithAuthorized() Option {
	return func(w *Wallet) {
		w.authorized = true
	}
}

// New builds a wallet on chainID controlling keys, in order. A wallet with no
// keys answers eth_requestAccounts with an empty list.
func New(chainID evm.ChainID, keys []*ecdsa.PrivateKey, opts ...Option) *Wallet {
	w := &Wallet{
		keys:       keys,
		chainID:    chainID,
		known:      map[evm.ChainID]bool{chainID: true},
		rejectNext: make(map[string]bool),
		calls:      make(map[string]int),
		listeners:  make(map[string]map[uint64]func(json.RawMessage)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// FromHexKey builds a single-account wallet from a hex private key.
func FromHexKey(chainID evm.ChainID, hexKey string, opts ...Option) (*Wallet, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse dev wallet key: %w", err)
	}
	return New(chainID, []*ecdsa.PrivateKey{key}, opts...), nil
}

// Request handles one provider method. Results round-trip through JSON so
// callers see exactly what a remote provider would send.
func (w *Wallet) Request(ctx context.Context, result any, method string, params ...any) error {
	w.mu.Lock()
	w.calls[method]++
	hook := w.hook
	w.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, method); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	value, err := w.handle(method, params)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, result)
}

func (w *Wallet) handle(method string, params []any) (any, error) {
	if w.consumeRejection(method) {
		return nil, &chainlink.RPCError{Code: chainlink.ErrCodeUserRejected, Message: "User rejected the request."}
	}

	switch method {
	case chainlink.MethodRequestAccounts:
		w.mu.Lock()
		w.authorized = true
		accounts := w.addressesLocked()
		w.mu.Unlock()
		return accounts, nil

	case chainlink.MethodAccounts:
		w.mu.Lock()
		defer w.mu.Unlock()
		if !w.authorized {
			return []string{}, nil
		}
		return w.addressesLocked(), nil

	case chainlink.MethodChainID:
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.chainID.Hex(), nil

	case chainlink.MethodSwitchChain:
		var p struct {
			ChainID string `json:"chainId"`
		}
		if err := decodeParam(params, 0, &p); err != nil {
			return nil, err
		}
		id, err := evm.ParseChainID(p.ChainID)
		if err != nil {
			return nil, &chainlink.RPCError{Code: -32602, Message: err.Error()}
		}
		w.mu.Lock()
		known := w.known[id]
		w.mu.Unlock()
		if !known {
			return nil, &chainlink.RPCError{
				Code:    chainlink.ErrCodeUnrecognizedChain,
				Message: fmt.Sprintf("Unrecognized chain ID %q. Try adding the chain using wallet_addEthereumChain first.", p.ChainID),
			}
		}
		w.SetChain(id)
		return nil, nil

	case chainlink.MethodAddChain:
		var p struct {
			ChainID   string   `json:"chainId"`
			ChainName string   `json:"chainName"`
			RPCURLs   []string `json:"rpcUrls"`
		}
		if err := decodeParam(params, 0, &p); err != nil {
			return nil, err
		}
		id, err := evm.ParseChainID(p.ChainID)
		if err != nil || p.ChainName == "" || len(p.RPCURLs) == 0 {
			return nil, &chainlink.RPCError{Code: -32602, Message: "Invalid chain parameters"}
		}
		w.mu.Lock()
		w.known[id] = true
		w.mu.Unlock()
		w.SetChain(id)
		return nil, nil

	case chainlink.MethodPersonalSign:
		var hexMessage, address string
		if err := decodeParam(params, 0, &hexMessage); err != nil {
			return nil, err
		}
		if err := decodeParam(params, 1, &address); err != nil {
			return nil, err
		}
		message, err := hexutil.Decode(hexMessage)
		if err != nil {
			return nil, &chainlink.RPCError{Code: -32602, Message: "message must be hex encoded"}
		}
		key := w.keyFor(address)
		if key == nil {
			return nil, &chainlink.RPCError{Code: chainlink.ErrCodeUnauthorized, Message: "The requested account has not been authorized."}
		}
		return evm.SignPersonal(key, string(message))
	}

	return nil, &chainlink.RPCError{Code: chainlink.ErrCodeUnsupportedMethod, Message: "The wallet does not support " + method}
}

// On registers a listener. Events are delivered synchronously on the goroutine
// that caused them.
func (w *Wallet) On(event string, fn func(json.RawMessage)) (chainlink.Subscription, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextID++
	id := w.nextID
	if w.listeners[event] == nil {
		w.listeners[event] = make(map[uint64]func(json.RawMessage))
	}
	w.listeners[event][id] = fn
	return chainlink.SubscriptionFunc(func() {
		w.mu.Lock()
		delete(w.listeners[event], id)
		w.mu.Unlock()
	}), nil
}

// Listeners reports how many listeners are registered for event.
func (w *Wallet) Listeners(event string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.listeners[event])
}

// Calls reports how many times method was requested.
func (w *Wallet) Calls(method string) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.calls[method]
}

// SetHook installs h for every later request. A nil h removes it.
func (w *Wallet) SetHook(h Hook) {
	w.mu.Lock()
	w.hook = h
	w.mu.Unlock()
}

// RejectNext makes the next call to method fail as if the user declined it.
func (w *Wallet) RejectNext(method string) {
	w.mu.Lock()
	w.rejectNext[method] = true
	w.mu.Unlock()
}

// SwitchAccount puts key first, the way a user picks another account in the
// wallet UI, and emits accountsChanged when the site is authorized.
func (w *Wallet) SwitchAccount(key *ecdsa.PrivateKey) {
	w.mu.Lock()
	keys := []*ecdsa.PrivateKey{key}
	for _, k := range w.keys {
		if !k.Equal(key) {
			keys = append(keys, k)
		}
	}
	w.keys = keys
	authorized := w.authorized
	accounts := w.addressesLocked()
	w.mu.Unlock()

	if authorized {
		w.emit(chainlink.EventAccountsChanged, accounts)
	}
}

// Revoke drops the site's authorization and emits accountsChanged([]).
func (w *Wallet) Revoke() {
	w.mu.Lock()
	w.authorized = false
	w.mu.Unlock()
	w.emit(chainlink.EventAccountsChanged, []string{})
}

// SetChain moves the wallet to id and emits chainChanged.
func (w *Wallet) SetChain(id evm.ChainID) {
	w.mu.Lock()
	w.chainID = id
	w.known[id] = true
	w.mu.Unlock()
	w.emit(chainlink.EventChainChanged, id.Hex())
}

// Address returns the lowercase address of the first account, or "".
func (w *Wallet) Address() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.keys) == 0 {
		return ""
	}
	return evm.AddressOf(w.keys[0])
}

func (w *Wallet) emit(event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	w.mu.Lock()
	fns := make([]func(json.RawMessage), 0, len(w.listeners[event]))
	for _, fn := range w.listeners[event] {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	for _, fn := range fns {
		fn(raw)
	}
}

func (w *Wallet) consumeRejection(method string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.rejectNext[method] {
		delete(w.rejectNext, method)
		return true
	}
	return false
}

func (w *Wallet) addressesLocked() []string {
	out := make([]string, 0, len(w.keys))
	for _, k := range w.keys {
		out = append(out, evm.AddressOf(k))
	}
	return out
}

func (w *Wallet) keyFor(address string) *ecdsa.PrivateKey {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.authorized {
		return nil
	}
	for _, k := range w.keys {
		if evm.SameAddress(evm.AddressOf(k), address) {
			return k
		}
	}
	return nil
}

func decodeParam(params []any, i int, out any) error {
	if len(params) <= i {
		return &chainlink.RPCError{Code: -32602, Message: fmt.Sprintf("missing parameter %d", i)}
	}
	raw, err := json.Marshal(params[i])
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &chainlink.RPCError{Code: -32602, Message: err.Error()}
	}
	return nil
}
