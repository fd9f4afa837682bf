// Package wallet owns the connection to the signing provider: the connected
// account, the network it is on, and the connect, disconnect and switch flows.
package wallet

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"landchain/internal/audit"
	"landchain/internal/chainlink"
	"landchain/internal/platform/metrics"
	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/evm"
)

// ErrClosed is returned by operations that settle after Close.
var ErrClosed = errors.New("wallet session closed")

// Session is the single owner of wallet state for one client. All state
// changes happen under mu; provider calls are made without holding it, so
// provider events can land while a connect is still waiting on the user.
//
// Conflicts between an in-flight connect and provider events are resolved by
// arrival: every event bumps a per-field sequence, and a connect only applies
// the fields no event touched while it was waiting.
type Session struct {
	link    *chainlink.Link
	target  chainlink.ChainDescriptor
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher

	group singleflight.Group

	mu         sync.Mutex
	address    string
	chainID    evm.ChainID
	connecting int
	loading    int
	errMsg     string
	addrSeq    uint64
	chainSeq   uint64
	closed     bool
	subs       []chainlink.Subscription
	watchers   map[uint64]func(Snapshot)
	nextWatch  uint64
}

type Option func(*Session)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) {
		s.metrics = m
	}
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Session) {
		s.audit = p
	}
}

// New creates a session for target and subscribes to provider events. A link
// without a provider is accepted; every prompting operation then reports
// provider_unavailable.
func New(link *chainlink.Link, target chainlink.ChainDescriptor, opts ...Option) (*Session, error) {
	if link == nil {
		return nil, errors.New("chain link is required")
	}
	if target.ID == 0 {
		return nil, errors.New("target chain id is required")
	}
	s := &Session{
		link:     link,
		target:   target,
		logger:   slog.Default(),
		watchers: make(map[uint64]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}

	if !link.IsAvailable() {
		return s, nil
	}
	accSub, err := link.SubscribeAccountsChanged(s.onAccountsChanged)
	if err != nil {
		return nil, err
	}
	chainSub, err := link.SubscribeChainChanged(s.onChainChanged)
	if err != nil {
		accSub.Unsubscribe()
		return nil, err
	}
	s.subs = []chainlink.Subscription{accSub, chainSub}
	return s, nil
}

// negotiationKey is shared by Connect and Restore so that at most one
// account negotiation runs at a time.
const negotiationKey = "negotiate"

// negotiation is the shared result of one in-flight negotiation.
type negotiation struct {
	address string
	silent  bool
}

// Connect negotiates a connection, prompting the user if needed. Concurrent
// calls share one negotiation and one prompt. A Connect issued while a silent
// restore is pending waits for it and prompts only if the restore came back
// without an account. Connecting an already connected session returns the
// current account without prompting.
func (s *Session) Connect(ctx context.Context) Result {
	for {
		if addr, connected := s.connectedAddress(); connected {
			return ok(addr)
		}
		v, err, _ := s.group.Do(negotiationKey, func() (any, error) {
			addr, err := s.negotiate(ctx, false)
			return negotiation{address: addr}, err
		})
		n, _ := v.(negotiation)
		if n.silent && !errors.Is(err, ErrClosed) && (err != nil || n.address == "") {
			continue
		}
		if err != nil {
			return failed(err)
		}
		return ok(n.address)
	}
}

// Restore reconnects silently at startup when the caller reports a previous
// connection. It never prompts; an unauthorized provider leaves the session
// disconnected without an error.
func (s *Session) Restore(ctx context.Context, wasConnected bool) Result {
	if !wasConnected || !s.link.IsAvailable() {
		return Result{}
	}
	if addr, connected := s.connectedAddress(); connected {
		return ok(addr)
	}
	v, err, _ := s.group.Do(negotiationKey, func() (any, error) {
		addr, err := s.negotiate(ctx, true)
		return negotiation{address: addr, silent: true}, err
	})
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNoAccounts) {
			return Result{}
		}
		return failed(err)
	}
	return ok(v.(negotiation).address)
}

func (s *Session) negotiate(ctx context.Context, silent bool) (string, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return "", ErrClosed
	}
	if s.address != "" {
		addr := s.address
		s.mu.Unlock()
		return addr, nil
	}
	s.connecting++
	s.loading++
	s.errMsg = ""
	addrSeq, chainSeq := s.addrSeq, s.chainSeq
	s.mu.Unlock()
	s.notify()

	var (
		accounts []string
		chainID  evm.ChainID
		err      error
	)
	if silent {
		accounts, err = s.link.Accounts(ctx)
		if err == nil && len(accounts) == 0 {
			err = dErrors.New(dErrors.CodeNoAccounts, "No previously authorized account")
		}
	} else {
		accounts, err = s.link.RequestAccounts(ctx)
	}
	if err == nil {
		chainID, err = s.link.CurrentChainID(ctx)
	}

	address, err := s.settle(accounts, chainID, err, addrSeq, chainSeq, silent)
	if errors.Is(err, ErrClosed) {
		return "", err
	}
	s.notify()

	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	if !silent || err == nil {
		s.metrics.IncrementConnect(outcome)
	}
	if err != nil && silent && dErrors.HasCode(err, dErrors.CodeNoAccounts) {
		s.logger.DebugContext(ctx, "wallet restore found no authorized account")
		return "", err
	}
	if err != nil {
		s.logger.WarnContext(ctx, "wallet connect failed",
			"silent", silent,
			"code", outcome,
			"error", err,
		)
		return "", err
	}
	audit.Log(ctx, s.logger, s.audit, audit.ActionWalletConnected,
		"wallet_address", address,
		"chain_id", chainID.String(),
		"silent", silent,
	)
	return address, nil
}

// settle applies a negotiation outcome. Fields touched by a provider event
// since the negotiation started keep the event's value.
func (s *Session) settle(accounts []string, chainID evm.ChainID, err error, addrSeq, chainSeq uint64, silent bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connecting--
	s.loading--
	if s.closed {
		return "", ErrClosed
	}

	if err != nil {
		s.address = ""
		s.chainID = 0
		if !silent || !dErrors.HasCode(err, dErrors.CodeNoAccounts) {
			s.errMsg = dErrors.Message(err)
		}
		return "", err
	}

	if s.addrSeq == addrSeq {
		s.address = accounts[0]
	} else if s.address == "" {
		// accountsChanged([]) arrived while waiting.
		s.chainID = 0
		err = dErrors.New(dErrors.CodeNoAccounts, "The wallet reported no accounts while connecting.")
		s.errMsg = dErrors.Message(err)
		return "", err
	}
	if s.chainSeq == chainSeq {
		s.chainID = chainID
	}
	return s.address, nil
}

// Disconnect forgets the connected account. It does not revoke the site's
// authorization in the wallet; the provider offers no such call. Idempotent.
func (s *Session) Disconnect(ctx context.Context) {
	s.mu.Lock()
	prev := s.address
	changed := s.address != "" || s.chainID != 0 || s.errMsg != ""
	s.address = ""
	s.chainID = 0
	s.errMsg = ""
	s.mu.Unlock()

	if !changed {
		return
	}
	s.notify()
	if prev != "" {
		audit.Log(ctx, s.logger, s.audit, audit.ActionWalletDisconnected,
			"wallet_address", prev,
		)
	}
}

// SwitchNetwork asks the provider to move to the target network, adding it
// first when the provider does not know it. The session's chain id changes
// only when the provider reports chainChanged.
func (s *Session) SwitchNetwork(ctx context.Context) error {
	s.begin()
	err := s.switchNetwork(ctx)
	s.end(err)
	if err != nil {
		s.logger.WarnContext(ctx, "network switch failed",
			"target_chain_id", s.target.ID.String(),
			"code", string(dErrors.CodeOf(err)),
			"error", err,
		)
	}
	return err
}

func (s *Session) switchNetwork(ctx context.Context) error {
	err := s.link.RequestNetworkSwitch(ctx, s.target.ID)
	if err == nil {
		return nil
	}
	switch {
	case dErrors.HasCode(err, dErrors.CodeChainUnknownToProvider):
		if addErr := s.link.RequestAddNetwork(ctx, s.target); addErr != nil {
			if passThrough(addErr) {
				return addErr
			}
			return dErrors.Wrap(addErr, dErrors.CodeNetworkSwitchFailed, "Failed to add network")
		}
		return nil
	case passThrough(err):
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeNetworkSwitchFailed, "Failed to switch network")
}

func passThrough(err error) bool {
	return dErrors.Is(err, dErrors.CodeUserRejected) || dErrors.Is(err, dErrors.CodeProviderUnavailable)
}

// Provider returns the underlying provider capability, or nil.
func (s *Session) Provider() chainlink.Provider {
	return s.link.Provider()
}

// Signer returns a signer bound to the provider's current account.
func (s *Session) Signer(ctx context.Context) (*chainlink.Signer, error) {
	return s.link.Signer(ctx)
}

// Target is the network the session expects.
func (s *Session) Target() chainlink.ChainDescriptor {
	return s.target
}

// Address is the connected account, or "".
func (s *Session) Address() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address
}

// IsConnected reports whether an account is connected.
func (s *Session) IsConnected() bool {
	_, connected := s.connectedAddress()
	return connected
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) snapshotLocked() Snapshot {
	snap := Snapshot{
		Status:        StatusDisconnected,
		Address:       s.address,
		TargetChainID: s.target.ID,
		IsConnected:   s.address != "",
		Loading:       s.loading > 0,
		Error:         s.errMsg,
	}
	switch {
	case snap.IsConnected:
		snap.Status = StatusConnected
		snap.ChainID = s.chainID
		snap.IsCorrectNetwork = s.chainID == s.target.ID
	case s.connecting > 0:
		snap.Status = StatusConnecting
	}
	return snap
}

// Watch registers fn to receive a snapshot after every state change. fn runs
// on the goroutine that caused the change and must not block.
func (s *Session) Watch(fn func(Snapshot)) (unwatch func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextWatch++
	id := s.nextWatch
	s.watchers[id] = fn
	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

// Close releases provider subscriptions and watchers. Operations still in
// flight settle as no-ops.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	subs := s.subs
	s.subs = nil
	s.watchers = make(map[uint64]func(Snapshot))
	s.mu.Unlock()

	for _, sub := range subs {
		sub.Unsubscribe()
	}
}

func (s *Session) onAccountsChanged(accounts []string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.addrSeq++
	prev := s.address
	switch {
	case len(accounts) == 0:
		s.address = ""
		s.chainID = 0
		s.errMsg = ""
	case s.address != "" || s.connecting > 0:
		s.address = accounts[0]
	}
	current := s.address
	s.mu.Unlock()

	s.metrics.IncrementWalletEvent(chainlink.EventAccountsChanged)
	if prev == current {
		return
	}
	s.logger.Info("wallet accounts changed",
		"previous", evm.ShortAddress(prev),
		"current", evm.ShortAddress(current),
	)
	s.notify()
}

func (s *Session) onChainChanged(id evm.ChainID) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.chainSeq++
	changed := false
	if (s.address != "" || s.connecting > 0) && s.chainID != id {
		s.chainID = id
		changed = true
	}
	s.mu.Unlock()

	s.metrics.IncrementWalletEvent(chainlink.EventChainChanged)
	if changed {
		s.logger.Info("wallet chain changed",
			"chain_id", id.String(),
			"correct_network", id == s.target.ID,
		)
		s.notify()
	}
}

func (s *Session) connectedAddress() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.address, s.address != ""
}

func (s *Session) begin() {
	s.mu.Lock()
	s.loading++
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

func (s *Session) end(err error) {
	s.mu.Lock()
	s.loading--
	if err != nil && !s.closed {
		s.errMsg = dErrors.Message(err)
	}
	s.mu.Unlock()
	s.notify()
}

func (s *Session) notify() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
