package rpcprovider

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"landchain/internal/chainlink"
	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/evm"
)

// ethAPI and walletAPI emulate a browser-wallet bridge.
type ethAPI struct {
	accounts []string
}

func (e *ethAPI) RequestAccounts() ([]string, error) {
	if len(e.accounts) == 0 {
		return nil, &chainlink.RPCError{Code: chainlink.ErrCodeUserRejected, Message: "User rejected the request."}
	}
	return e.accounts, nil
}

func (e *ethAPI) ChainId() (string, error) {
	return "0xaa36a7", nil
}

type walletAPI struct {
	events chan []string
}

func (w *walletAPI) SwitchEthereumChain(_ map[string]string) error {
	return &chainlink.RPCError{Code: chainlink.ErrCodeUnrecognizedChain, Message: "Unrecognized chain ID"}
}

func (w *walletAPI) AccountsChanged(ctx context.Context) (*rpc.Subscription, error) {
	notifier, ok := rpc.NotifierFromContext(ctx)
	if !ok {
		return nil, rpc.ErrNotificationsUnsupported
	}
	sub := notifier.CreateSubscription()
	go func() {
		for {
			select {
			case accounts := <-w.events:
				_ = notifier.Notify(sub.ID, accounts)
			case <-sub.Err():
				return
			}
		}
	}()
	return sub, nil
}

type ProviderSuite struct {
	suite.Suite
	server   *rpc.Server
	wallet   *walletAPI
	provider *Provider
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}

func (s *ProviderSuite) SetupTest() {
	s.server = rpc.NewServer()
	s.wallet = &walletAPI{events: make(chan []string, 1)}
	s.Require().NoError(s.server.RegisterName("eth", &ethAPI{accounts: []string{"0xAbCdEf0123456789aBcDeF0123456789AbCdEf01"}}))
	s.Require().NoError(s.server.RegisterName("wallet", s.wallet))
	s.provider = NewWithClient(rpc.DialInProc(s.server))
}

func (s *ProviderSuite) TearDownTest() {
	s.provider.Close()
	s.server.Stop()
}

func (s *ProviderSuite) TestRequest() {
	link := chainlink.New(s.provider)
	ctx := context.Background()

	s.Run("accounts are normalized", func() {
		accounts, err := link.RequestAccounts(ctx)
		s.Require().NoError(err)
		s.Equal([]string{"0xabcdef0123456789abcdef0123456789abcdef01"}, accounts)
	})

	s.Run("chain id decodes from hex", func() {
		id, err := link.CurrentChainID(ctx)
		s.Require().NoError(err)
		s.Equal(evm.ChainID(11155111), id)
	})

	s.Run("bridge error codes survive the transport", func() {
		err := link.RequestNetworkSwitch(ctx, evm.ChainID(11155111))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeChainUnknownToProvider))
	})
}

func (s *ProviderSuite) TestOn() {
	received := make(chan json.RawMessage, 1)
	sub, err := s.provider.On(chainlink.EventAccountsChanged, func(payload json.RawMessage) {
		received <- payload
	})
	s.Require().NoError(err)
	defer sub.Unsubscribe()

	s.wallet.events <- []string{"0x00000000000000000000000000000000000000bb"}

	select {
	case payload := <-received:
		var accounts []string
		s.Require().NoError(json.Unmarshal(payload, &accounts))
		s.Equal([]string{"0x00000000000000000000000000000000000000bb"}, accounts)
	case <-time.After(2 * time.Second):
		s.Fail("accountsChanged was not delivered")
	}
}

func TestUserRejectedOverTransport(t *testing.T) {
	server := rpc.NewServer()
	require.NoError(t, server.RegisterName("eth", &ethAPI{}))
	defer server.Stop()
	provider := NewWithClient(rpc.DialInProc(server))
	defer provider.Close()

	_, err := chainlink.New(provider).RequestAccounts(context.Background())
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUserRejected))
}
