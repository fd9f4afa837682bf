// Package rpcprovider binds chainlink.Provider to a wallet bridge that speaks
// EIP-1193 methods over JSON-RPC. Requests work over any transport; events need
// a websocket or IPC endpoint because they are delivered as subscriptions.
package rpcprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"

	"landchain/internal/chainlink"
)

// subscribeNamespace is the prefix of the bridge's subscribe method
// (wallet_subscribe / wallet_unsubscribe).
const subscribeNamespace = "wallet"

// Provider is a chainlink.Provider backed by a go-ethereum RPC client.
type Provider struct {
	client *rpc.Client
	logger *slog.Logger

	mu   sync.Mutex
	subs map[*subscription]struct{}
	// ctx bounds every subscription; cancelled by Close.
	ctx    context.Context
	cancel context.CancelFunc
}

// Option configures a Provider.
type Option func(*Provider)

// WithLogger sets the logger used for subscription lifecycle messages.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) {
		p.logger = logger
	}
}

// Dial connects to the bridge at url (ws://, wss://, http://, https:// or an IPC path).
func Dial(ctx context.Context, url string, opts ...Option) (*Provider, error) {
	client, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dial wallet bridge: %w", err)
	}
	return NewWithClient(client, opts...), nil
}

// NewWithClient wraps an existing client. The Provider takes ownership of it.
func NewWithClient(client *rpc.Client, opts ...Option) *Provider {
	ctx, cancel := context.WithCancel(context.Background())
	p := &Provider{
		client: client,
		logger: slog.Default(),
		subs:   make(map[*subscription]struct{}),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Request issues one JSON-RPC call. Error responses from the bridge satisfy
// rpc.Error and keep their EIP-1193 code.
func (p *Provider) Request(ctx context.Context, result any, method string, params ...any) error {
	return p.client.CallContext(ctx, result, method, params...)
}

// On subscribes to a provider event. fn runs on the provider's delivery
// goroutine, one payload at a time.
func (p *Provider) On(event string, fn func(json.RawMessage)) (chainlink.Subscription, error) {
	ch := make(chan json.RawMessage, 16)
	clientSub, err := p.client.Subscribe(p.ctx, subscribeNamespace, ch, event)
	if err != nil {
		return nil, err
	}

	s := &subscription{provider: p, sub: clientSub, done: make(chan struct{})}
	p.mu.Lock()
	p.subs[s] = struct{}{}
	p.mu.Unlock()

	go func() {
		defer close(s.done)
		for {
			select {
			case payload := <-ch:
				fn(payload)
			case err, ok := <-clientSub.Err():
				if ok && err != nil && !errors.Is(err, rpc.ErrClientQuit) {
					p.logger.Warn("wallet event subscription ended",
						"event", event,
						"error", err,
					)
				}
				return
			}
		}
	}()
	return s, nil
}

// Close releases every subscription and the underlying client.
func (p *Provider) Close() {
	p.mu.Lock()
	subs := make([]*subscription, 0, len(p.subs))
	for s := range p.subs {
		subs = append(subs, s)
	}
	p.mu.Unlock()

	for _, s := range subs {
		s.Unsubscribe()
	}
	p.cancel()
	p.client.Close()
}

type subscription struct {
	provider *Provider
	sub      *rpc.ClientSubscription
	done     chan struct{}
	once     sync.Once
}

// Unsubscribe stops delivery. A payload already dequeued may still be handed
// to the callback once.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.sub.Unsubscribe()
		s.provider.mu.Lock()
		delete(s.provider.subs, s)
		s.provider.mu.Unlock()
	})
}
