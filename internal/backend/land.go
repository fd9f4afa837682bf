package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/shopspring/decimal"

	"landchain/internal/land/models"
)

type landResponse struct {
	ID               string            `json:"id"`
	OwnerID          string            `json:"owner_id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	Area             decimal.Decimal   `json:"area"`
	Price            decimal.Decimal   `json:"price"`
	Location         models.Location   `json:"location"`
	Documents        []models.Document `json:"documents"`
	BlockchainStatus models.Status     `json:"blockchain_status"`
	TokenID          *uint64           `json:"token_id"`
	TxHash           *string           `json:"blockchain_tx_hash"`
	VerifiedAt       *timestamp        `json:"verified_at"`
	VerifiedBy       *string           `json:"verified_by"`
	RejectionReason  *string           `json:"rejection_reason"`
	CreatedAt        timestamp         `json:"created_at"`
	UpdatedAt        timestamp         `json:"updated_at"`
}

func (l landResponse) record() *models.Record {
	status := l.BlockchainStatus
	if status == "" {
		status = models.StatusNotMinted
	}
	return &models.Record{
		ID:              l.ID,
		Owner:           l.OwnerID,
		Title:           l.Title,
		Description:     l.Description,
		Location:        l.Location,
		Area:            l.Area,
		Price:           l.Price,
		Documents:       l.Documents,
		TokenID:         l.TokenID,
		Status:          status,
		TxHash:          deref(l.TxHash),
		VerifiedBy:      deref(l.VerifiedBy),
		VerifiedAt:      l.VerifiedAt.ptr(),
		RejectionReason: deref(l.RejectionReason),
		CreatedAt:       l.CreatedAt.Time,
		UpdatedAt:       l.UpdatedAt.Time,
	}
}

// transitionResponse covers the mint, verify and reject responses. The hash
// arrives either at the top level or inside "transaction".
type transitionResponse struct {
	Message      string  `json:"message"`
	TokenID      *uint64 `json:"token_id"`
	TxHash       string  `json:"tx_hash"`
	EtherscanURL *string `json:"etherscan_url"`
	Transaction  *struct {
		TxHash string `json:"tx_hash"`
		Status string `json:"status"`
	} `json:"transaction"`
}

func (c *Client) receipt(r transitionResponse) models.Receipt {
	rec := models.Receipt{Message: r.Message, TokenID: r.TokenID, TxHash: r.TxHash}
	if rec.TxHash == "" && r.Transaction != nil {
		rec.TxHash = r.Transaction.TxHash
	}
	rec.ExplorerURL = deref(r.EtherscanURL)
	if rec.ExplorerURL == "" {
		rec.ExplorerURL = c.ExplorerTxURL(rec.TxHash)
	}
	return rec
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// GetLand fetches one record.
func (c *Client) GetLand(ctx context.Context, id string) (*models.Record, error) {
	var resp landResponse
	if err := c.do(ctx, "get_land", http.MethodGet, "/land/"+url.PathEscape(id), nil, &resp); err != nil {
		return nil, err
	}
	return resp.record(), nil
}

// ListPending returns every record awaiting a verifier (not minted or pending).
func (c *Client) ListPending(ctx context.Context) ([]*models.Record, error) {
	var resp []landResponse
	if err := c.do(ctx, "list_pending", http.MethodGet, "/land/all-pending", nil, &resp); err != nil {
		return nil, err
	}
	out := make([]*models.Record, 0, len(resp))
	for _, l := range resp {
		out = append(out, l.record())
	}
	return out, nil
}

// Mint asks the backend to mint the record's token.
func (c *Client) Mint(ctx context.Context, id string) (models.Receipt, error) {
	return c.transition(ctx, "mint_land", id, "mint", nil)
}

// Verify asks the backend to approve a minted record on-chain.
func (c *Client) Verify(ctx context.Context, id string) (models.Receipt, error) {
	return c.transition(ctx, "verify_land", id, "verify", struct{}{})
}

// Reject asks the backend to reject the record with reason.
func (c *Client) Reject(ctx context.Context, id, reason string) (models.Receipt, error) {
	return c.transition(ctx, "reject_land", id, "reject", rejectRequest{Reason: reason})
}

func (c *Client) transition(ctx context.Context, op, id, action string, body any) (models.Receipt, error) {
	var resp transitionResponse
	path := "/land/" + url.PathEscape(id) + "/" + action
	if err := c.do(ctx, op, http.MethodPost, path, body, &resp); err != nil {
		return models.Receipt{}, err
	}
	return c.receipt(resp), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
