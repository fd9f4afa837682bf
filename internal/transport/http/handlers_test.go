package httptransport

//go:generate mockgen -source=handlers_wallet.go -destination=mocks/wallet-mocks.go -package=mocks WalletService
//go:generate mockgen -source=handlers_linkage.go -destination=mocks/linkage-mocks.go -package=mocks LinkageService
//go:generate mockgen -source=handlers_land.go -destination=mocks/land-mocks.go -package=mocks LandService

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"landchain/internal/auth"
	landModels "landchain/internal/land/models"
	"landchain/internal/land/service"
	linkModels "landchain/internal/linkage/models"
	"landchain/internal/platform/logger"
	"landchain/internal/platform/metrics"
	"landchain/internal/transport/http/mocks"
	"landchain/internal/wallet"
	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/evm"
)

const (
	signingKey = "console-test-key"
	address    = "0x9858effd232b4033e47d90003d41ec34ecaeda94"
)

// =============================================================================
// Console API Test Suite
// =============================================================================
// Justification for unit tests: the handlers only translate between HTTP and
// the services, so the services are mocked and the full router (auth,
// request ids, error envelopes) is exercised end to end.

type ConsoleSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	wallet  *mocks.MockWalletService
	linkage *mocks.MockLinkageService
	lands   *mocks.MockLandService
	router  http.Handler
	health  map[string]HealthCheck
}

func TestConsoleSuite(t *testing.T) {
	suite.Run(t, new(ConsoleSuite))
}

func (s *ConsoleSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.wallet = mocks.NewMockWalletService(s.ctrl)
	s.linkage = mocks.NewMockLinkageService(s.ctrl)
	s.lands = mocks.NewMockLandService(s.ctrl)
	s.health = map[string]HealthCheck{}
	s.router = s.newRouter()
}

func (s *ConsoleSuite) newRouter() http.Handler {
	log := logger.Discard()
	tokens := auth.NewTokenParser(signingKey)
	reg := prometheus.NewRegistry()
	return NewRouter(RouterConfig{
		Logger:   log,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
		Health:   s.health,
	},
		NewWalletHandler(s.wallet, log),
		NewLinkageHandler(s.linkage, tokens, log),
		NewLandHandler(s.lands, tokens, log),
	)
}

func (s *ConsoleSuite) token(email string, role auth.Role) string {
	claims := auth.Claims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	s.Require().NoError(err)
	return signed
}

func (s *ConsoleSuite) do(method, path, token, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&out))
	return out
}

func connected() wallet.Snapshot {
	return wallet.Snapshot{
		Status:           wallet.StatusConnected,
		Address:          address,
		ChainID:          evm.ChainID(11155111),
		TargetChainID:    evm.ChainID(11155111),
		IsConnected:      true,
		IsCorrectNetwork: true,
	}
}

// =============================================================================
// Wallet routes
// =============================================================================

func (s *ConsoleSuite) TestWalletSnapshot() {
	s.wallet.EXPECT().Snapshot().Return(connected())

	w := s.do(http.MethodGet, "/api/v1/wallet", "", "")

	s.Equal(http.StatusOK, w.Code)
	s.NotEmpty(w.Header().Get("X-Request-ID"))
	got := decode[wallet.Snapshot](s.T(), w)
	s.Equal(address, got.Address)
	s.True(got.IsCorrectNetwork)
}

func (s *ConsoleSuite) TestConnect() {
	s.Run("success returns address and state", func() {
		s.SetupTest()
		s.wallet.EXPECT().Connect(gomock.Any()).Return(wallet.Result{Success: true, Address: address})
		s.wallet.EXPECT().Snapshot().Return(connected())

		w := s.do(http.MethodPost, "/api/v1/wallet/connect", "", "")

		s.Equal(http.StatusOK, w.Code)
		got := decode[connectResponse](s.T(), w)
		s.Equal(address, got.Address)
		s.Equal(wallet.StatusConnected, got.Wallet.Status)
	})

	s.Run("user rejection is a conflict with the provider message", func() {
		s.SetupTest()
		s.wallet.EXPECT().Connect(gomock.Any()).Return(wallet.Result{
			Err: dErrors.New(dErrors.CodeUserRejected, "Please approve the connection request in your wallet"),
		})

		w := s.do(http.MethodPost, "/api/v1/wallet/connect", "", "")

		s.Equal(http.StatusConflict, w.Code)
		body := decode[map[string]string](s.T(), w)
		s.Equal("user_rejected", body["error"])
		s.Equal("Please approve the connection request in your wallet", body["error_description"])
	})

	s.Run("missing provider is unavailable", func() {
		s.SetupTest()
		s.wallet.EXPECT().Connect(gomock.Any()).Return(wallet.Result{
			Err: dErrors.New(dErrors.CodeProviderUnavailable, "Please install MetaMask"),
		})

		w := s.do(http.MethodPost, "/api/v1/wallet/connect", "", "")

		s.Equal(http.StatusServiceUnavailable, w.Code)
	})
}

func (s *ConsoleSuite) TestRestore() {
	s.Run("nothing to restore reports disconnected", func() {
		s.SetupTest()
		s.wallet.EXPECT().Restore(gomock.Any(), false).Return(wallet.Result{})
		s.wallet.EXPECT().Snapshot().Return(wallet.Snapshot{Status: wallet.StatusDisconnected})

		w := s.do(http.MethodPost, "/api/v1/wallet/restore", "", "")

		s.Equal(http.StatusOK, w.Code)
		got := decode[connectResponse](s.T(), w)
		s.Empty(got.Address)
		s.Equal(wallet.StatusDisconnected, got.Wallet.Status)
	})

	s.Run("hint is passed through", func() {
		s.SetupTest()
		s.wallet.EXPECT().Restore(gomock.Any(), true).Return(wallet.Result{Success: true, Address: address})
		s.wallet.EXPECT().Snapshot().Return(connected())

		w := s.do(http.MethodPost, "/api/v1/wallet/restore", "", `{"was_connected":true}`)

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("malformed body is rejected before the session is touched", func() {
		s.SetupTest()

		w := s.do(http.MethodPost, "/api/v1/wallet/restore", "", `{"was_connected":`)

		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("bad_request", decode[map[string]string](s.T(), w)["error"])
	})
}

func (s *ConsoleSuite) TestDisconnect() {
	gomock.InOrder(
		s.wallet.EXPECT().Disconnect(gomock.Any()),
		s.wallet.EXPECT().Snapshot().Return(wallet.Snapshot{Status: wallet.StatusDisconnected}),
	)

	w := s.do(http.MethodPost, "/api/v1/wallet/disconnect", "", "")

	s.Equal(http.StatusOK, w.Code)
	s.False(decode[wallet.Snapshot](s.T(), w).IsConnected)
}

func (s *ConsoleSuite) TestSwitchNetwork() {
	s.Run("success returns the new state", func() {
		s.SetupTest()
		s.wallet.EXPECT().SwitchNetwork(gomock.Any()).Return(nil)
		s.wallet.EXPECT().Snapshot().Return(connected())

		w := s.do(http.MethodPost, "/api/v1/wallet/switch-network", "", "")

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("failure is reported with its code", func() {
		s.SetupTest()
		s.wallet.EXPECT().SwitchNetwork(gomock.Any()).Return(
			dErrors.New(dErrors.CodeNetworkSwitchFailed, "Failed to switch network"))

		w := s.do(http.MethodPost, "/api/v1/wallet/switch-network", "", "")

		s.Equal(http.StatusBadRequest, w.Code)
		s.Equal("network_switch_failed", decode[map[string]string](s.T(), w)["error"])
	})
}

// =============================================================================
// Linkage routes
// =============================================================================

func (s *ConsoleSuite) TestLinkageRequiresSignIn() {
	w := s.do(http.MethodPost, "/api/v1/wallet/link", "", "")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("unauthorized", decode[map[string]string](s.T(), w)["error"])
}

func (s *ConsoleSuite) TestLinkageStatus() {
	token := s.token("olga@example.com", auth.RoleUser)
	s.linkage.EXPECT().CheckStatus(gomock.Any(), "olga@example.com").Return(linkModels.Status{
		State:           linkModels.StateUnlinked,
		ConnectedWallet: address,
	}, nil)

	w := s.do(http.MethodGet, "/api/v1/wallet/linkage", token, "")

	s.Equal(http.StatusOK, w.Code)
	got := decode[linkModels.Status](s.T(), w)
	s.Equal(linkModels.StateUnlinked, got.State)
}

func (s *ConsoleSuite) TestLink() {
	s.Run("links for the signed-in account", func() {
		s.SetupTest()
		token := s.token("olga@example.com", auth.RoleUser)
		s.linkage.EXPECT().Link(gomock.Any(), "olga@example.com").Return(nil)
		s.linkage.EXPECT().LinkedWallet("olga@example.com").Return(address)

		w := s.do(http.MethodPost, "/api/v1/wallet/link", token, "")

		s.Equal(http.StatusOK, w.Code)
		got := decode[linkResponse](s.T(), w)
		s.True(got.Linked)
		s.Equal(address, got.WalletAddress)
	})

	s.Run("server refusal carries its detail", func() {
		s.SetupTest()
		token := s.token("olga@example.com", auth.RoleUser)
		detail := "This wallet is already linked to another account."
		s.linkage.EXPECT().Link(gomock.Any(), "olga@example.com").Return(
			dErrors.Wrap(linkModels.ErrWalletLinkedElsewhere, dErrors.CodeLinkRejectedByServer, detail))

		w := s.do(http.MethodPost, "/api/v1/wallet/link", token, "")

		s.Equal(http.StatusConflict, w.Code)
		body := decode[map[string]string](s.T(), w)
		s.Equal("link_rejected_by_server", body["error"])
		s.Equal(detail, body["error_description"])
	})

	s.Run("no wallet connected", func() {
		s.SetupTest()
		token := s.token("olga@example.com", auth.RoleUser)
		s.linkage.EXPECT().Link(gomock.Any(), "olga@example.com").Return(
			dErrors.New(dErrors.CodeNoWalletConnected, "Please connect your wallet first"))

		w := s.do(http.MethodPost, "/api/v1/wallet/link", token, "")

		s.Equal(http.StatusBadRequest, w.Code)
	})
}

func (s *ConsoleSuite) TestUnlink() {
	token := s.token("olga@example.com", auth.RoleUser)
	s.linkage.EXPECT().Unlink(gomock.Any(), "olga@example.com").Return(nil)

	w := s.do(http.MethodPost, "/api/v1/wallet/unlink", token, "")

	s.Equal(http.StatusOK, w.Code)
	s.False(decode[linkResponse](s.T(), w).Linked)
}

func (s *ConsoleSuite) TestPrompt() {
	token := s.token("olga@example.com", auth.RoleUser)

	s.Run("no prompt is no content", func() {
		s.SetupTest()
		s.linkage.EXPECT().PendingPrompt("olga@example.com").Return(linkModels.Prompt{}, false)

		w := s.do(http.MethodGet, "/api/v1/wallet/prompt", token, "")

		s.Equal(http.StatusNoContent, w.Code)
	})

	s.Run("pending prompt is returned", func() {
		s.SetupTest()
		prompt := linkModels.Prompt{
			WalletAddress: address,
			Account:       "olga@example.com",
			Message:       linkModels.ChallengeMessage(address, "olga@example.com"),
		}
		s.linkage.EXPECT().PendingPrompt("olga@example.com").Return(prompt, true)

		w := s.do(http.MethodGet, "/api/v1/wallet/prompt", token, "")

		s.Equal(http.StatusOK, w.Code)
		s.Equal(prompt, decode[linkModels.Prompt](s.T(), w))
	})

	s.Run("dismiss", func() {
		s.SetupTest()
		s.linkage.EXPECT().DismissPrompt("olga@example.com")

		w := s.do(http.MethodPost, "/api/v1/wallet/prompt/dismiss", token, "")

		s.Equal(http.StatusNoContent, w.Code)
	})
}

// =============================================================================
// Land routes
// =============================================================================

func (s *ConsoleSuite) TestPending() {
	token := s.token("vera@example.com", auth.RoleVerifier)
	queues := landModels.Queues{
		AwaitingReview:       []*landModels.Record{{ID: "a", Status: landModels.StatusNotMinted}},
		AwaitingVerification: []*landModels.Record{},
	}
	s.lands.EXPECT().ListPending(gomock.Any()).DoAndReturn(func(ctx context.Context) (landModels.Queues, error) {
		s.Equal(auth.RoleVerifier, auth.PrincipalFrom(ctx).Role)
		return queues, nil
	})

	w := s.do(http.MethodGet, "/api/v1/lands/pending", token, "")

	s.Equal(http.StatusOK, w.Code)
	got := decode[landModels.Queues](s.T(), w)
	s.Require().Len(got.AwaitingReview, 1)
	s.Equal("a", got.AwaitingReview[0].ID)
}

func (s *ConsoleSuite) TestGetLand() {
	token := s.token("vera@example.com", auth.RoleVerifier)
	rec := &landModels.Record{ID: "land-1", Status: landModels.StatusNotMinted}
	s.lands.EXPECT().Load(gomock.Any(), "land-1").Return(rec, nil)
	s.lands.EXPECT().Actions(gomock.Any(), rec).Return([]landModels.Action{landModels.ActionMint, landModels.ActionReject})
	s.lands.EXPECT().InFlight("land-1").Return(false)

	w := s.do(http.MethodGet, "/api/v1/lands/land-1", token, "")

	s.Equal(http.StatusOK, w.Code)
	got := decode[landResponse](s.T(), w)
	s.Equal("land-1", got.Record.ID)
	s.Equal([]landModels.Action{landModels.ActionMint, landModels.ActionReject}, got.Actions)
	s.False(got.InFlight)
}

func (s *ConsoleSuite) TestMint() {
	token := s.token("vera@example.com", auth.RoleVerifier)
	tokenID := uint64(7)
	outcome := service.Outcome{
		Record: &landModels.Record{ID: "land-1", Status: landModels.StatusPending, TokenID: &tokenID},
		Receipt: landModels.Receipt{
			TokenID:     &tokenID,
			TxHash:      "0xabc",
			ExplorerURL: "https://sepolia.etherscan.io/tx/0xabc",
		},
	}
	s.lands.EXPECT().Mint(gomock.Any(), "land-1").Return(outcome, nil)

	w := s.do(http.MethodPost, "/api/v1/lands/land-1/mint", token, "")

	s.Equal(http.StatusOK, w.Code)
	got := decode[service.Outcome](s.T(), w)
	s.Equal("https://sepolia.etherscan.io/tx/0xabc", got.ExplorerURL())
	s.Equal(landModels.StatusPending, got.Record.Status)
}

func (s *ConsoleSuite) TestVerifyPassesConfirmation() {
	token := s.token("vera@example.com", auth.RoleVerifier)
	s.lands.EXPECT().Verify(gomock.Any(), "land-1", true).Return(service.Outcome{}, nil)

	w := s.do(http.MethodPost, "/api/v1/lands/land-1/verify", token, `{"confirmed":true}`)

	s.Equal(http.StatusOK, w.Code)
}

func (s *ConsoleSuite) TestReject() {
	token := s.token("vera@example.com", auth.RoleVerifier)

	s.Run("reason and confirmation are passed through", func() {
		s.SetupTest()
		s.lands.EXPECT().Reject(gomock.Any(), "land-1", "Survey boundaries disputed", true).Return(service.Outcome{}, nil)

		w := s.do(http.MethodPost, "/api/v1/lands/land-1/reject", token,
			`{"reason":"Survey boundaries disputed","confirmed":true}`)

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("precondition failure is a conflict", func() {
		s.SetupTest()
		s.lands.EXPECT().Reject(gomock.Any(), "land-1", "", false).Return(service.Outcome{},
			dErrors.New(dErrors.CodeTransitionPrecondition, "Please confirm before you reject this land"))

		w := s.do(http.MethodPost, "/api/v1/lands/land-1/reject", token, `{}`)

		s.Equal(http.StatusConflict, w.Code)
		body := decode[map[string]string](s.T(), w)
		s.Equal("transition_precondition_violation", body["error"])
	})
}

func (s *ConsoleSuite) TestExpiredTokenIsRefused() {
	claims := auth.Claims{
		Role: string(auth.RoleVerifier),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "vera@example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(signingKey))
	s.Require().NoError(err)

	w := s.do(http.MethodGet, "/api/v1/lands/pending", expired, "")

	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("token has expired", decode[map[string]string](s.T(), w)["error_description"])
}

// =============================================================================
// Health and metrics
// =============================================================================

func (s *ConsoleSuite) TestHealth() {
	s.Run("all checks pass", func() {
		s.SetupTest()
		s.health["redis"] = func(context.Context) error { return nil }

		w := s.do(http.MethodGet, "/health", "", "")

		s.Equal(http.StatusOK, w.Code)
	})

	s.Run("failing check degrades", func() {
		s.SetupTest()
		s.health["kafka"] = func(context.Context) error { return errors.New("no brokers") }

		w := s.do(http.MethodGet, "/health", "", "")

		s.Equal(http.StatusServiceUnavailable, w.Code)
		var body struct {
			Status string            `json:"status"`
			Checks map[string]string `json:"checks"`
		}
		s.Require().NoError(json.NewDecoder(w.Body).Decode(&body))
		s.Equal("degraded", body.Status)
		s.Equal("no brokers", body.Checks["kafka"])
	})
}

func (s *ConsoleSuite) TestMetricsEndpoint() {
	s.wallet.EXPECT().Snapshot().Return(connected())
	s.do(http.MethodGet, "/api/v1/wallet", "", "")

	w := s.do(http.MethodGet, "/metrics", "", "")

	s.Equal(http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Body.String(), "landchain_console_request_duration_seconds")
}
