package audit

import (
	"context"
	"log/slog"

	"landchain/pkg/attrs"
	"landchain/pkg/requestcontext"
)

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store  Store
	logger *slog.Logger
}

func NewPublisher(store Store, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{store: store, logger: logger}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = requestcontext.Now(ctx)
	}
	if base.RequestID == "" {
		base.RequestID = requestcontext.RequestID(ctx)
	}
	return p.store.Append(ctx, base)
}

// Log writes the event to the structured log and to the audit store. Store
// failures are logged and otherwise ignored so they never fail the operation
// being audited. A nil Publisher only logs.
func Log(ctx context.Context, logger *slog.Logger, publisher *Publisher, action string, attrList ...any) {
	requestID := requestcontext.RequestID(ctx)
	args := append([]any{}, attrList...)
	if requestID != "" {
		args = append(args, "request_id", requestID)
	}
	args = append(args, "event", action, "log_type", "audit")

	if logger != nil {
		logger.InfoContext(ctx, action, args...)
	}
	if publisher == nil {
		return
	}

	fields := attrs.Strings(attrList)
	event := Event{
		Action:        action,
		Subject:       fields["subject"],
		WalletAddress: fields["wallet_address"],
		LandID:        fields["land_id"],
		TxHash:        fields["tx_hash"],
		Reason:        fields["reason"],
		RequestID:     requestID,
	}
	if err := publisher.Emit(ctx, event); err != nil {
		publisher.logger.WarnContext(ctx, "audit emit failed",
			"event", action,
			"error", err,
		)
	}
}
