// Package service drives land records through the verifier workflow. Every
// transition is performed by the backend; this package decides whether a
// transition may be requested at all, sends it once, and re-reads the record.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"landchain/internal/audit"
	"landchain/internal/auth"
	"landchain/internal/land/models"
	"landchain/internal/land/ports"
	"landchain/internal/platform/metrics"
	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/platform/sentinel"
)

// Outcome is the result of a transition. Record is the re-read authoritative
// record; it is nil when the re-read failed after the backend accepted the
// transition. Reconciled is set when the backend had already applied the
// transition and Record reflects that.
type Outcome struct {
	Record     *models.Record `json:"record,omitempty"`
	Receipt    models.Receipt `json:"receipt"`
	Reconciled bool           `json:"reconciled,omitempty"`
}

// ExplorerURL is where the transaction can be inspected, or "".
func (o Outcome) ExplorerURL() string {
	return o.Receipt.ExplorerURL
}

// Service is the verifier workflow.
//
// Invariants:
//   - a record's status is only ever replaced by a backend read, never set locally
//   - at most one transition per record is in flight; a second is refused locally
//   - role, confirmation, state and reason are checked before any mutating call
//   - no call is retried
type Service struct {
	lands   ports.LandAPI
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher

	mu       sync.Mutex
	inFlight map[string]models.Action
	records  map[string]*models.Record
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithAuditPublisher(p *audit.Publisher) Option {
	return func(s *Service) {
		s.audit = p
	}
}

func New(lands ports.LandAPI, opts ...Option) (*Service, error) {
	if lands == nil {
		return nil, errors.New("land API is required")
	}
	svc := &Service{
		lands:    lands,
		logger:   slog.Default(),
		inFlight: make(map[string]models.Action),
		records:  make(map[string]*models.Record),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Load fetches a record and remembers it as the latest known state.
func (s *Service) Load(ctx context.Context, id string) (*models.Record, error) {
	if strings.TrimSpace(id) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "land id is required")
	}
	rec, err := s.lands.GetLand(ctx, id)
	if err != nil {
		return nil, remoteError(err, "Failed to load land")
	}
	s.remember(ctx, rec)
	return rec.Clone(), nil
}

// ListPending returns the verifier queues.
func (s *Service) ListPending(ctx context.Context) (models.Queues, error) {
	if err := requireVerifier(ctx, "view pending lands", dErrors.CodeUnauthorized); err != nil {
		return models.Queues{}, err
	}
	records, err := s.lands.ListPending(ctx)
	if err != nil {
		return models.Queues{}, remoteError(err, "Failed to load pending lands")
	}
	out := make([]*models.Record, 0, len(records))
	for _, rec := range records {
		s.remember(ctx, rec)
		out = append(out, rec.Clone())
	}
	return models.Split(out), nil
}

// Mint creates the record's token. When the backend refuses the mint as
// conflicting and the reloaded record is no longer not_minted, the mint is
// treated as already done and returned as a reconciled outcome.
func (s *Service) Mint(ctx context.Context, id string) (Outcome, error) {
	return s.transition(ctx, id, models.ActionMint, "", true)
}

// Verify approves a minted record. confirmed must be true.
func (s *Service) Verify(ctx context.Context, id string, confirmed bool) (Outcome, error) {
	return s.transition(ctx, id, models.ActionVerify, "", confirmed)
}

// Reject rejects a record before or after minting. confirmed must be true.
func (s *Service) Reject(ctx context.Context, id, reason string, confirmed bool) (Outcome, error) {
	return s.transition(ctx, id, models.ActionReject, strings.TrimSpace(reason), confirmed)
}

// InFlight reports whether a transition for id is waiting on the backend.
func (s *Service) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[id]
	return ok
}

// Actions lists what the signed-in account may do with rec right now.
func (s *Service) Actions(ctx context.Context, rec *models.Record) []models.Action {
	if rec == nil || !auth.PrincipalFrom(ctx).CanVerify() || s.InFlight(rec.ID) {
		return []models.Action{}
	}
	out := []models.Action{}
	for _, action := range rec.Status.Actions() {
		if action == models.ActionVerify && !rec.HasToken() {
			continue
		}
		out = append(out, action)
	}
	return out
}

func (s *Service) transition(ctx context.Context, id string, action models.Action, reason string, confirmed bool) (Outcome, error) {
	outcome, sent, err := s.attempt(ctx, id, action, reason, confirmed)
	code := "ok"
	if err != nil {
		code = string(dErrors.CodeOf(err))
	}
	s.metrics.IncrementTransition(string(action), code)

	principal := auth.PrincipalFrom(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "land transition failed",
			"land_id", id,
			"action", string(action),
			"code", code,
			"error", err,
		)
		if sent {
			audit.Log(ctx, s.logger, s.audit, audit.ActionTransitionFailed,
				"subject", principal.Email,
				"land_id", id,
				"action", string(action),
				"reason", dErrors.Message(err),
			)
		}
		return Outcome{}, err
	}

	attrList := []any{
		"subject", principal.Email,
		"land_id", id,
		"tx_hash", outcome.Receipt.TxHash,
	}
	if reason != "" {
		attrList = append(attrList, "reason", reason)
	}
	if !outcome.Reconciled {
		audit.Log(ctx, s.logger, s.audit, auditAction(action), attrList...)
	}
	return outcome, nil
}

// attempt runs one transition. sent reports whether the transition request
// reached the backend; refusals decided locally are not audited.
func (s *Service) attempt(ctx context.Context, id string, action models.Action, reason string, confirmed bool) (Outcome, bool, error) {
	if strings.TrimSpace(id) == "" {
		return Outcome{}, false, dErrors.New(dErrors.CodeBadRequest, "land id is required")
	}
	if err := requireVerifier(ctx, string(action)+" lands", dErrors.CodeTransitionPrecondition); err != nil {
		return Outcome{}, false, err
	}
	if action.RequiresConfirmation() && !confirmed {
		return Outcome{}, false, dErrors.Newf(dErrors.CodeTransitionPrecondition,
			"Please confirm before you %s this land", action)
	}
	if action == models.ActionReject {
		if err := models.ValidateReason(reason); err != nil {
			return Outcome{}, false, err
		}
	}

	if err := s.claim(id, action); err != nil {
		return Outcome{}, false, err
	}
	defer s.release(id)

	rec, err := s.current(ctx, id)
	if err != nil {
		return Outcome{}, false, err
	}
	if err := rec.CheckTransition(action, reason); err != nil {
		return Outcome{}, false, err
	}

	receipt, err := s.send(ctx, id, action, reason)
	if err != nil {
		if action == models.ActionMint && conflicting(err) {
			outcome, err := s.reconcile(ctx, id, err)
			return outcome, true, err
		}
		return Outcome{}, true, remoteError(err, "Failed to "+string(action)+" land")
	}

	return Outcome{Record: s.refresh(ctx, id), Receipt: receipt}, true, nil
}

func (s *Service) send(ctx context.Context, id string, action models.Action, reason string) (models.Receipt, error) {
	switch action {
	case models.ActionMint:
		return s.lands.Mint(ctx, id)
	case models.ActionVerify:
		return s.lands.Verify(ctx, id)
	case models.ActionReject:
		return s.lands.Reject(ctx, id, reason)
	}
	return models.Receipt{}, dErrors.Newf(dErrors.CodeInternal, "unknown action %q", action)
}

// reconcile handles a mint the backend refused as conflicting. The record is
// reloaded; if it has left not_minted the mint already happened and the
// reloaded record is returned. Otherwise the refusal stands. Nothing is
// retried.
func (s *Service) reconcile(ctx context.Context, id string, cause error) (Outcome, error) {
	rec, err := s.lands.GetLand(ctx, id)
	if err != nil {
		s.forget(id)
		return Outcome{}, remoteError(err, "Failed to reload land")
	}
	s.remember(ctx, rec)
	if rec.Status == models.StatusNotMinted {
		return Outcome{}, remoteError(cause, "Failed to mint land")
	}
	s.logger.InfoContext(ctx, "land already minted, reloaded",
		"land_id", id,
		"status", string(rec.Status),
		"detail", sentinel.Reason(cause),
	)
	return Outcome{
		Record:     rec.Clone(),
		Receipt:    models.Receipt{Message: sentinel.Reason(cause), TokenID: rec.TokenID, TxHash: rec.TxHash},
		Reconciled: true,
	}, nil
}

// refresh re-reads the record after an accepted transition. On failure the
// cached copy is dropped so the next action reloads it.
func (s *Service) refresh(ctx context.Context, id string) *models.Record {
	rec, err := s.lands.GetLand(ctx, id)
	if err != nil {
		s.forget(id)
		s.logger.WarnContext(ctx, "land reload after transition failed",
			"land_id", id,
			"error", err,
		)
		return nil
	}
	s.remember(ctx, rec)
	return rec.Clone()
}

// current returns the latest known record, loading it when unknown.
func (s *Service) current(ctx context.Context, id string) (*models.Record, error) {
	s.mu.Lock()
	rec, ok := s.records[id]
	s.mu.Unlock()
	if ok {
		return rec, nil
	}
	rec, err := s.lands.GetLand(ctx, id)
	if err != nil {
		return nil, remoteError(err, "Failed to load land")
	}
	s.remember(ctx, rec)
	return rec, nil
}

func (s *Service) remember(ctx context.Context, rec *models.Record) {
	if rec == nil {
		return
	}
	if err := rec.Validate(); err != nil {
		s.logger.WarnContext(ctx, "land record violates invariants",
			"land_id", rec.ID,
			"error", err,
		)
	}
	s.mu.Lock()
	s.records[rec.ID] = rec.Clone()
	s.mu.Unlock()
}

func (s *Service) forget(id string) {
	s.mu.Lock()
	delete(s.records, id)
	s.mu.Unlock()
}

func (s *Service) claim(id string, action models.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if running, ok := s.inFlight[id]; ok {
		return dErrors.Newf(dErrors.CodeTransitionPrecondition,
			"A %s request for this land is already in progress", running)
	}
	s.inFlight[id] = action
	return nil
}

func (s *Service) release(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

// requireVerifier refuses a missing principal as unauthorized and a signed-in
// account without the verifier role with wrongRole.
func requireVerifier(ctx context.Context, what string, wrongRole dErrors.Code) error {
	principal := auth.PrincipalFrom(ctx)
	if principal.IsZero() {
		return dErrors.New(dErrors.CodeUnauthorized, "Please sign in to "+what)
	}
	if !principal.CanVerify() {
		return dErrors.New(wrongRole, "Only verifiers can "+what)
	}
	return nil
}

func auditAction(action models.Action) string {
	switch action {
	case models.ActionMint:
		return audit.ActionLandMinted
	case models.ActionVerify:
		return audit.ActionLandVerified
	}
	return audit.ActionLandRejected
}

// conflicting reports whether the backend refused a call because of the
// record's current state.
func conflicting(err error) bool {
	return errors.Is(err, sentinel.ErrInvalidState) || errors.Is(err, sentinel.ErrConflict)
}

func remoteError(err error, fallback string) error {
	reason := sentinel.Reason(err)
	switch {
	case errors.Is(err, sentinel.ErrUnauthorized):
		if reason == "" {
			reason = "You are not allowed to do this"
		}
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, reason)
	case errors.Is(err, sentinel.ErrNotFound):
		if reason == "" {
			reason = "Land not found"
		}
		return dErrors.Wrap(err, dErrors.CodeNotFound, reason)
	}
	if reason == "" {
		reason = fallback
	}
	return dErrors.Wrap(err, dErrors.CodeRemoteCallFailed, reason)
}
