package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"landchain/internal/land/models"
	"landchain/pkg/platform/sentinel"
	"landchain/pkg/requestcontext"
)

type ClientSuite struct {
	suite.Suite
	router   chi.Router
	server   *httptest.Server
	client   *Client
	ctx      context.Context
	lastAuth string
	lastReq  string
	lastBody map[string]any
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.router = chi.NewRouter()
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.lastAuth = r.Header.Get("Authorization")
			s.lastReq = r.Header.Get("X-Request-ID")
			s.lastBody = nil
			if r.Body != nil && r.ContentLength != 0 {
				_ = json.NewDecoder(r.Body).Decode(&s.lastBody)
			}
			next.ServeHTTP(w, r)
		})
	})
	s.server = httptest.NewServer(s.router)
	s.client = New(s.server.URL+"/api/v1/", WithExplorerURL("https://sepolia.etherscan.io/"))
	s.ctx = requestcontext.WithAccessToken(context.Background(), "tok-123")
	s.ctx = requestcontext.WithRequestID(s.ctx, "req-1")
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *ClientSuite) TestHeaders() {
	s.router.Get("/api/v1/users/wallet-status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"wallet_address":null,"wallet_linked_at":null,"is_linked":false}`)
	})

	_, err := s.client.WalletStatus(s.ctx)
	s.Require().NoError(err)
	s.Equal("Bearer tok-123", s.lastAuth)
	s.Equal("req-1", s.lastReq)

	_, err = s.client.WalletStatus(context.Background())
	s.Require().NoError(err)
	s.Empty(s.lastAuth, "no token means no Authorization header")
	s.NotEmpty(s.lastReq, "a request id is generated when the caller has none")
}

func (s *ClientSuite) TestWalletStatus() {
	s.router.Get("/api/v1/users/wallet-status", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"wallet_address":"0xabc0000000000000000000000000000000000001","wallet_linked_at":"2024-03-01T10:20:30.123456","is_linked":true}`)
	})

	status, err := s.client.WalletStatus(s.ctx)
	s.Require().NoError(err)
	s.True(status.IsLinked)
	s.Equal("0xabc0000000000000000000000000000000000001", status.WalletAddress)
	s.Require().NotNil(status.LinkedAt)
	s.Equal(time.Date(2024, 3, 1, 10, 20, 30, 123456000, time.UTC), *status.LinkedAt)
}

func (s *ClientSuite) TestLinkWallet() {
	s.Run("sends address and signature", func() {
		s.router.Post("/api/v1/users/link-wallet", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"message":"Wallet linked successfully"}`)
		})
		s.Require().NoError(s.client.LinkWallet(s.ctx, "0xabc", "0xsig"))
		s.Equal(map[string]any{"wallet_address": "0xabc", "signature": "0xsig"}, s.lastBody)
	})

	s.Run("conflict carries the server detail", func() {
		s.router.Post("/api/v1/users/link-wallet", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"detail":"This wallet is already linked to another account."}`)
		})
		err := s.client.LinkWallet(s.ctx, "0xabc", "0xsig")
		s.Require().Error(err)
		s.ErrorIs(err, sentinel.ErrInvalidState)
		s.Equal("This wallet is already linked to another account.", Detail(err))
		apiErr, ok := AsAPIError(err)
		s.Require().True(ok)
		s.Equal(http.StatusBadRequest, apiErr.Status)
		s.Equal("link_wallet", apiErr.Operation)
	})
}

func (s *ClientSuite) TestUnlinkWallet() {
	called := false
	s.router.Post("/api/v1/users/unlink-wallet", func(w http.ResponseWriter, r *http.Request) {
		called = true
		writeJSON(w, http.StatusOK, `{"message":"Wallet unlinked successfully"}`)
	})
	s.Require().NoError(s.client.UnlinkWallet(s.ctx))
	s.True(called)
}

const landJSON = `{
	"id": "land-1",
	"owner_id": "owner@example.com",
	"title": "Plot 7",
	"description": "Riverside",
	"area": 1250.5,
	"price": "99000.00",
	"location": {"lat": 6.5, "lng": 3.4, "address": "1 River Rd"},
	"documents": [{"name": "deed.pdf", "ipfs_hash": "Qm123", "type": "deed"}],
	"status": "approved",
	"blockchain_status": "pending",
	"token_id": 42,
	"blockchain_tx_hash": "0xfeed",
	"verified_at": null,
	"verified_by": null,
	"rejection_reason": null,
	"created_at": "2024-03-01T10:00:00",
	"updated_at": "2024-03-02T11:00:00Z"
}`

func (s *ClientSuite) TestGetLand() {
	s.router.Get("/api/v1/land/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "land-1" {
			writeJSON(w, http.StatusNotFound, `{"detail":"Land not found"}`)
			return
		}
		writeJSON(w, http.StatusOK, landJSON)
	})

	rec, err := s.client.GetLand(s.ctx, "land-1")
	s.Require().NoError(err)
	s.Equal("owner@example.com", rec.Owner)
	s.Equal(models.StatusPending, rec.Status)
	s.Require().NotNil(rec.TokenID)
	s.Equal(uint64(42), *rec.TokenID)
	s.Equal("0xfeed", rec.TxHash)
	s.Equal("1250.5", rec.Area.String())
	s.Equal("99000", rec.Price.String())
	s.Equal("Qm123", rec.Documents[0].IPFSHash)
	s.Nil(rec.VerifiedAt)
	s.Equal(time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), rec.CreatedAt)
	s.NoError(rec.Validate())

	_, err = s.client.GetLand(s.ctx, "missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.Equal("Land not found", Detail(err))
}

func (s *ClientSuite) TestListPending() {
	s.router.Get("/api/v1/land/all-pending", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[`+landJSON+`, {"id":"land-2","blockchain_status":null,"created_at":"2024-03-01T10:00:00","updated_at":"2024-03-01T10:00:00"}]`)
	})

	records, err := s.client.ListPending(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Equal(models.StatusPending, records[0].Status)
	s.Equal(models.StatusNotMinted, records[1].Status, "missing status means not minted")
}

func (s *ClientSuite) TestTransitions() {
	s.Run("mint uses the explorer link from the response", func() {
		s.router.Post("/api/v1/land/{id}/mint", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"message":"minted","token_id":7,"tx_hash":"0xaa","etherscan_url":"https://sepolia.etherscan.io/tx/0xaa"}`)
		})
		receipt, err := s.client.Mint(s.ctx, "land-1")
		s.Require().NoError(err)
		s.Require().NotNil(receipt.TokenID)
		s.Equal(uint64(7), *receipt.TokenID)
		s.Equal("0xaa", receipt.TxHash)
		s.Equal("https://sepolia.etherscan.io/tx/0xaa", receipt.ExplorerURL)
	})

	s.Run("verify reads the nested transaction and builds the link", func() {
		s.router.Post("/api/v1/land/{id}/verify", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"message":"Land verified successfully","land_id":"land-1","token_id":7,"transaction":{"tx_hash":"0xbb","status":"success"}}`)
		})
		receipt, err := s.client.Verify(s.ctx, "land-1")
		s.Require().NoError(err)
		s.Equal("0xbb", receipt.TxHash)
		s.Equal("https://sepolia.etherscan.io/tx/0xbb", receipt.ExplorerURL)
		s.Equal(map[string]any{}, s.lastBody)
	})

	s.Run("reject sends the reason", func() {
		s.router.Post("/api/v1/land/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, `{"message":"Land rejected","land_id":"land-1","reason":"bad deed"}`)
		})
		receipt, err := s.client.Reject(s.ctx, "land-1", "bad deed")
		s.Require().NoError(err)
		s.Equal(map[string]any{"reason": "bad deed"}, s.lastBody)
		s.Empty(receipt.TxHash, "pre-mint rejection has no transaction")
		s.Empty(receipt.ExplorerURL)
	})

	s.Run("already minted is recognizable", func() {
		s.router.Post("/api/v1/land/{id}/mint", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, `{"detail":"Land already minted as NFT"}`)
		})
		_, err := s.client.Mint(s.ctx, "land-1")
		s.ErrorIs(err, sentinel.ErrInvalidState)
		s.Equal("Land already minted as NFT", sentinel.Reason(err))
	})
}

func (s *ClientSuite) TestErrorMapping() {
	tests := []struct {
		status int
		body   string
		want   error
		detail string
	}{
		{http.StatusUnauthorized, `{"detail":"Not authenticated"}`, sentinel.ErrUnauthorized, "Not authenticated"},
		{http.StatusForbidden, `{"detail":"Only verifiers can verify lands"}`, sentinel.ErrUnauthorized, "Only verifiers can verify lands"},
		{http.StatusConflict, `{"detail":"conflict"}`, sentinel.ErrConflict, "conflict"},
		{http.StatusUnprocessableEntity, `{"detail":[{"loc":["body","reason"],"msg":"String should have at least 5 characters"}]}`, sentinel.ErrInvalidState, "reason: String should have at least 5 characters"},
		{http.StatusBadGateway, `<html>bad gateway</html>`, sentinel.ErrUnavailable, ""},
	}
	for _, tt := range tests {
		s.Run(http.StatusText(tt.status), func() {
			s.router.Post("/api/v1/land/{id}/reject", func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			_, err := s.client.Reject(s.ctx, "land-1", "a reason")
			s.ErrorIs(err, tt.want)
			s.Equal(tt.detail, Detail(err))
		})
	}
}

func (s *ClientSuite) TestTransportFailure() {
	s.server.Close()
	_, err := s.client.GetLand(s.ctx, "land-1")
	s.Require().Error(err)
	s.ErrorIs(err, sentinel.ErrUnavailable)
	_, isAPI := AsAPIError(err)
	s.False(isAPI)
}

func TestTimestamp(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-03-01T10:20:30Z"`:       time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2024-03-01T10:20:30.5"`:      time.Date(2024, 3, 1, 10, 20, 30, 500000000, time.UTC),
		`"2024-03-01T10:20:30"`:        time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2024-03-01T12:20:30+02:00"`:  time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC),
		`"2024-03-01 10:20:30.000001"`: time.Date(2024, 3, 1, 10, 20, 30, 1000, time.UTC),
	}
	for in, want := range cases {
		var ts timestamp
		if err := json.Unmarshal([]byte(in), &ts); err != nil {
			t.Fatalf("%s: %v", in, err)
		}
		if !ts.Equal(want) {
			t.Errorf("%s: got %v want %v", in, ts.Time, want)
		}
	}

	var ts timestamp
	if err := json.Unmarshal([]byte(`"yesterday"`), &ts); err == nil {
		t.Error("expected an error for an unparseable timestamp")
	}
	if err := json.Unmarshal([]byte(`null`), &ts); err != nil || ts.ptr() != nil {
		t.Error("null decodes to the zero timestamp")
	}
}
