// Package service binds the connected wallet to the signed-in account: it
// signs the challenge, submits it, and tracks whether the user still needs to
// be asked to link.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"landchain/internal/audit"
	"landchain/internal/linkage/models"
	"landchain/internal/linkage/ports"
	"landchain/internal/platform/metrics"
	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/evm"
	"landchain/pkg/platform/sentinel"
)

const (
	msgNoWallet          = "Please connect your wallet first"
	msgMismatch          = "Connected wallet differs from linked wallet"
	msgSignatureMismatch = "The signature was not produced by the connected wallet"
)

// Service links the console's one connected wallet to signed-in accounts.
// The wallet is shared by everyone using the console, but the local linked
// flag and the pending prompt belong to the account that produced them and
// are only reported back to that account.
//
// Invariants:
//   - Link never contacts the backend or the wallet while no wallet is connected
//   - the local linked flag only changes after the backend confirmed the change
//   - at most one prompt is raised per detection of a connected-but-unlinked wallet
type Service struct {
	accounts ports.AccountAPI
	wallet   ports.WalletSession
	logger   *slog.Logger
	metrics  *metrics.Metrics
	audit    *audit.Publisher

	mu            sync.Mutex
	linked        string
	linkedAccount string
	promptedFor   detection
	prompt        *models.Prompt
}

// detection identifies one connected-but-unlinked observation.
type detection struct {
	address string
	account string
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

func New(accounts ports.AccountAPI, wallet ports.WalletSession, opts ...Option) (*Service, error) {
	if accounts == nil {
		return nil, errors.New("account API is required")
	}
	if wallet == nil {
		return nil, errors.New("wallet session is required")
	}
	svc := &Service{
		accounts: accounts,
		wallet:   wallet,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Link proves control of the connected wallet by signing the challenge for
// account and submits the signature. Linking the wallet that is already
// linked succeeds without a new signature.
//
// When the server reports that account is already linked to a different
// wallet, Link refuses with link_rejected_by_server without sending a link
// request; the refusal is the server's, read from the wallet status.
func (s *Service) Link(ctx context.Context, account string) error {
	address := s.wallet.Address()
	if address == "" {
		s.metrics.IncrementLinkAttempt(string(dErrors.CodeNoWalletConnected))
		return dErrors.New(dErrors.CodeNoWalletConnected, msgNoWallet)
	}

	err := s.link(ctx, address, account)
	outcome := "ok"
	if err != nil {
		outcome = string(dErrors.CodeOf(err))
	}
	s.metrics.IncrementLinkAttempt(outcome)

	if err != nil {
		s.logger.WarnContext(ctx, "wallet link failed",
			"wallet_address", address,
			"code", outcome,
			"error", err,
		)
		if !dErrors.Is(err, dErrors.CodeUserRejected) {
			audit.Log(ctx, s.logger, s.audit, audit.ActionWalletLinkFailed,
				"subject", account,
				"wallet_address", address,
				"reason", dErrors.Message(err),
			)
		}
		return err
	}

	s.mu.Lock()
	s.linked = address
	s.linkedAccount = account
	if s.prompt != nil && s.prompt.Account == account {
		s.prompt = nil
	}
	s.mu.Unlock()

	audit.Log(ctx, s.logger, s.audit, audit.ActionWalletLinked,
		"subject", account,
		"wallet_address", address,
	)
	return nil
}

func (s *Service) link(ctx context.Context, address, account string) error {
	current, err := s.accounts.WalletStatus(ctx)
	if err != nil {
		return remoteError(err, "Failed to check wallet status")
	}
	if current.IsLinked && current.WalletAddress != "" {
		if evm.SameAddress(current.WalletAddress, address) {
			return nil
		}
		return dErrors.Wrap(models.ErrAccountLinkedElsewhere, dErrors.CodeLinkRejectedByServer,
			"Your account is already linked to wallet "+evm.ShortAddress(current.WalletAddress)+". Unlink it first.")
	}

	signer, err := s.wallet.Signer(ctx)
	if err != nil {
		return err
	}
	if !evm.SameAddress(signer.Address(), address) {
		return dErrors.New(dErrors.CodeSignerUnavailable, "The wallet's active account changed. Please try again.")
	}

	message := models.ChallengeMessage(address, account)
	signature, err := signer.SignMessage(ctx, message)
	if err != nil {
		return err
	}
	if err := evm.VerifyPersonal(address, message, signature); err != nil {
		return dErrors.Wrap(err, dErrors.CodeSignerUnavailable, msgSignatureMismatch)
	}

	if err := s.accounts.LinkWallet(ctx, address, signature); err != nil {
		return linkError(err)
	}
	return nil
}

// Unlink removes account's server-side linkage. The local flag is cleared only
// on success; failures are returned as-is and never retried.
func (s *Service) Unlink(ctx context.Context, account string) error {
	if err := s.accounts.UnlinkWallet(ctx); err != nil {
		err = remoteError(err, "Failed to unlink wallet")
		s.logger.WarnContext(ctx, "wallet unlink failed",
			"code", string(dErrors.CodeOf(err)),
			"error", err,
		)
		return err
	}

	s.mu.Lock()
	prev := ""
	if s.linkedAccount == account {
		prev = s.linked
		s.linked, s.linkedAccount = "", ""
	}
	if s.promptedFor.account == account {
		s.promptedFor = detection{}
	}
	s.mu.Unlock()

	audit.Log(ctx, s.logger, s.audit, audit.ActionWalletUnlinked,
		"subject", account,
		"wallet_address", prev,
	)
	return nil
}

// CheckStatus compares the server's linkage with the connected wallet. When
// it finds a connected wallet that is not linked for the first time since the
// condition arose, it raises a prompt for account (see PendingPrompt).
func (s *Service) CheckStatus(ctx context.Context, account string) (models.Status, error) {
	address := s.wallet.Address()
	if address == "" {
		s.mu.Lock()
		s.promptedFor = detection{}
		s.prompt = nil
		s.mu.Unlock()
		return models.Status{State: models.StateNoWallet, Message: msgNoWallet}, nil
	}

	current, err := s.accounts.WalletStatus(ctx)
	if err != nil {
		return models.Status{}, remoteError(err, "Failed to check wallet status")
	}

	status := evaluate(address, current)

	s.mu.Lock()
	defer s.mu.Unlock()
	if status.State == models.StateLinked {
		s.linked, s.linkedAccount = address, account
	} else if s.linkedAccount == account {
		s.linked, s.linkedAccount = "", ""
	}
	seen := detection{address: address, account: account}
	if status.State != models.StateUnlinked {
		if s.promptedFor.account == account {
			s.promptedFor = detection{}
		}
		if s.prompt != nil && s.prompt.Account == account {
			s.prompt = nil
		}
		return status, nil
	}
	if s.promptedFor != seen {
		s.promptedFor = seen
		s.prompt = &models.Prompt{
			WalletAddress: address,
			Account:       account,
			Message:       models.ChallengeMessage(address, account),
		}
		s.logger.InfoContext(ctx, "wallet link prompt raised",
			"wallet_address", address,
		)
	}
	return status, nil
}

func evaluate(address string, current models.WalletStatus) models.Status {
	status := models.Status{ConnectedWallet: address}
	if !current.IsLinked || current.WalletAddress == "" {
		status.State = models.StateUnlinked
		return status
	}
	status.LinkedWallet = strings.ToLower(current.WalletAddress)
	status.LinkedAt = current.LinkedAt
	if evm.SameAddress(current.WalletAddress, address) {
		status.State = models.StateLinked
		return status
	}
	status.State = models.StateMismatch
	status.Message = msgMismatch
	return status
}

// PendingPrompt returns account's outstanding link prompt, if any.
func (s *Service) PendingPrompt(account string) (models.Prompt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.prompt == nil || s.prompt.Account != account {
		return models.Prompt{}, false
	}
	return *s.prompt, true
}

// DismissPrompt drops account's outstanding prompt. The same detection does
// not raise it again.
func (s *Service) DismissPrompt(account string) {
	s.mu.Lock()
	if s.prompt != nil && s.prompt.Account == account {
		s.prompt = nil
	}
	s.mu.Unlock()
}

// LinkedWallet is the wallet last confirmed as linked to account, or "".
func (s *Service) LinkedWallet(account string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.linkedAccount != account {
		return ""
	}
	return s.linked
}

// IsLinked reports whether the connected wallet is the one confirmed as
// linked to account.
func (s *Service) IsLinked(account string) bool {
	linked := s.LinkedWallet(account)
	return linked != "" && evm.SameAddress(linked, s.wallet.Address())
}

// linkError maps a refused link-wallet call. The backend answers 400 both for
// a wallet owned by another account and for a bad signature; its detail is
// the only distinction.
func linkError(err error) error {
	if !errors.Is(err, sentinel.ErrInvalidState) && !errors.Is(err, sentinel.ErrConflict) {
		return remoteError(err, "Failed to link wallet")
	}
	reason := sentinel.Reason(err)
	if reason == "" {
		reason = "The server refused to link this wallet"
	}
	if strings.Contains(strings.ToLower(reason), "already linked") {
		return dErrors.Wrap(errors.Join(models.ErrWalletLinkedElsewhere, err), dErrors.CodeLinkRejectedByServer, reason)
	}
	return dErrors.Wrap(err, dErrors.CodeLinkRejectedByServer, reason)
}

func remoteError(err error, fallback string) error {
	reason := sentinel.Reason(err)
	switch {
	case errors.Is(err, sentinel.ErrUnauthorized):
		if reason == "" {
			reason = "Your session has expired. Please sign in again."
		}
		return dErrors.Wrap(err, dErrors.CodeUnauthorized, reason)
	case errors.Is(err, sentinel.ErrNotFound):
		if reason == "" {
			reason = "Not found"
		}
		return dErrors.Wrap(err, dErrors.CodeNotFound, reason)
	}
	if reason == "" {
		reason = fallback
	}
	return dErrors.Wrap(err, dErrors.CodeRemoteCallFailed, reason)
}
