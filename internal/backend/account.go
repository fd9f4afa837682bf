package backend

import (
	"context"
	"net/http"

	"landchain/internal/linkage/models"
)

type linkWalletRequest struct {
	WalletAddress string `json:"wallet_address"`
	Signature     string `json:"signature"`
}

type walletStatusResponse struct {
	WalletAddress *string    `json:"wallet_address"`
	LinkedAt      *timestamp `json:"wallet_linked_at"`
	IsLinked      bool       `json:"is_linked"`
}

// LinkWallet submits a signed linkage for the current user.
func (c *Client) LinkWallet(ctx context.Context, address, signature string) error {
	req := linkWalletRequest{WalletAddress: address, Signature: signature}
	return c.do(ctx, "link_wallet", http.MethodPost, "/users/link-wallet", req, nil)
}

// UnlinkWallet removes the current user's linkage.
func (c *Client) UnlinkWallet(ctx context.Context) error {
	return c.do(ctx, "unlink_wallet", http.MethodPost, "/users/unlink-wallet", nil, nil)
}

// WalletStatus returns the server's view of the current user's linkage.
func (c *Client) WalletStatus(ctx context.Context) (models.WalletStatus, error) {
	var resp walletStatusResponse
	if err := c.do(ctx, "wallet_status", http.MethodGet, "/users/wallet-status", nil, &resp); err != nil {
		return models.WalletStatus{}, err
	}
	status := models.WalletStatus{IsLinked: resp.IsLinked, LinkedAt: resp.LinkedAt.ptr()}
	if resp.WalletAddress != nil {
		status.WalletAddress = *resp.WalletAddress
	}
	return status, nil
}
