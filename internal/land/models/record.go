package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	dErrors "landchain/pkg/domain-errors"
)

// Rejection reason bounds, mirroring the backend's validation of reject
// requests.
const (
	MinRejectionReasonLength = 5
	MaxRejectionReasonLength = 500
)

// Location is where the parcel is.
type Location struct {
	Address string  `json:"address"`
	Lat     float64 `json:"lat"`
	Lng     float64 `json:"lng"`
}

// Document is a supporting file pinned to IPFS.
type Document struct {
	Name     string `json:"name"`
	IPFSHash string `json:"ipfs_hash"`
	Type     string `json:"type"`
}

// Record is a land title as the backend reports it. The client never mutates
// Status; it is replaced wholesale by re-reading the record.
//
// Invariants (held by the backend, checked by Validate):
//   - TokenID is set iff Status is pending, verified or rejected
//   - RejectionReason is set iff Status is rejected
//   - VerifiedBy and VerifiedAt are set iff Status is verified
//   - Status only moves forward along the transition table
type Record struct {
	ID              string          `json:"id"`
	Owner           string          `json:"owner"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Location        Location        `json:"location"`
	Area            decimal.Decimal `json:"area"`
	Price           decimal.Decimal `json:"price"`
	Documents       []Document      `json:"documents"`
	TokenID         *uint64         `json:"token_id,omitempty"`
	Status          Status          `json:"status"`
	TxHash          string          `json:"tx_hash,omitempty"`
	VerifiedBy      string          `json:"verified_by,omitempty"`
	VerifiedAt      *time.Time      `json:"verified_at,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// HasToken reports whether the record was minted.
func (r *Record) HasToken() bool {
	return r.TokenID != nil
}

// Clone returns a deep copy.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	out := *r
	if r.TokenID != nil {
		id := *r.TokenID
		out.TokenID = &id
	}
	if r.VerifiedAt != nil {
		at := *r.VerifiedAt
		out.VerifiedAt = &at
	}
	out.Documents = append([]Document(nil), r.Documents...)
	return &out
}

// Validate checks the record against its invariants. A record rejected before
// minting legitimately has no token, so that combination is allowed.
func (r *Record) Validate() error {
	if !r.Status.IsValid() {
		return dErrors.Newf(dErrors.CodeInternal, "land %s has unknown status %q", r.ID, r.Status)
	}
	switch r.Status {
	case StatusNotMinted:
		if r.HasToken() {
			return dErrors.Newf(dErrors.CodeInternal, "land %s is not minted but has token %d", r.ID, *r.TokenID)
		}
	case StatusPending, StatusVerified:
		if !r.HasToken() {
			return dErrors.Newf(dErrors.CodeInternal, "land %s is %s without a token", r.ID, r.Status)
		}
	}
	if (r.Status == StatusRejected) != (r.RejectionReason != "") {
		return dErrors.Newf(dErrors.CodeInternal, "land %s: rejection reason does not match status %s", r.ID, r.Status)
	}
	if (r.Status == StatusVerified) != (r.VerifiedBy != "" && r.VerifiedAt != nil) {
		return dErrors.Newf(dErrors.CodeInternal, "land %s: verification details do not match status %s", r.ID, r.Status)
	}
	return nil
}

// CheckTransition reports whether action may be applied to the record as it
// currently is. It never contacts anything.
func (r *Record) CheckTransition(action Action, reason string) error {
	if _, ok := r.Status.Next(action); !ok {
		if r.Status.IsTerminal() {
			return dErrors.Newf(dErrors.CodeTransitionPrecondition,
				"Land is already %s; no further action is possible", r.Status)
		}
		return dErrors.Newf(dErrors.CodeTransitionPrecondition,
			"Cannot %s a land that is %s", action, strings.ReplaceAll(string(r.Status), "_", " "))
	}
	switch action {
	case ActionVerify:
		if !r.HasToken() {
			return dErrors.New(dErrors.CodeTransitionPrecondition, "Cannot verify a land without a token; mint it first")
		}
	case ActionReject:
		if err := ValidateReason(reason); err != nil {
			return err
		}
	}
	return nil
}

// ValidateReason checks a rejection reason.
func ValidateReason(reason string) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return dErrors.New(dErrors.CodeTransitionPrecondition, "Please enter a rejection reason")
	}
	if len([]rune(reason)) < MinRejectionReasonLength {
		return dErrors.Newf(dErrors.CodeTransitionPrecondition,
			"Rejection reason must be at least %d characters", MinRejectionReasonLength)
	}
	if len([]rune(reason)) > MaxRejectionReasonLength {
		return dErrors.Newf(dErrors.CodeTransitionPrecondition,
			"Rejection reason must be at most %d characters", MaxRejectionReasonLength)
	}
	return nil
}

// Receipt is what the backend returns for a transition: the transaction it
// submitted and where to look at it.
type Receipt struct {
	Message     string  `json:"message,omitempty"`
	TokenID     *uint64 `json:"token_id,omitempty"`
	TxHash      string  `json:"tx_hash,omitempty"`
	ExplorerURL string  `json:"explorer_url,omitempty"`
}

// Queues splits the records awaiting a verifier into those not yet minted
// (awaiting review) and those minted (awaiting verification).
type Queues struct {
	AwaitingReview       []*Record `json:"awaiting_review"`
	AwaitingVerification []*Record `json:"awaiting_verification"`
}

// Split builds Queues from a pending list. Records in other states are dropped.
func Split(records []*Record) Queues {
	q := Queues{AwaitingReview: []*Record{}, AwaitingVerification: []*Record{}}
	for _, r := range records {
		switch r.Status {
		case StatusNotMinted:
			q.AwaitingReview = append(q.AwaitingReview, r)
		case StatusPending:
			q.AwaitingVerification = append(q.AwaitingVerification, r)
		}
	}
	return q
}
