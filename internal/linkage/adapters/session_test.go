package adapters

import (
	"context"
	"crypto/ecdsa"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"landchain/internal/chainlink"
	"landchain/internal/chainlink/adapters/devwallet"
	"landchain/internal/linkage/models"
	"landchain/internal/wallet"
	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/evm"
)

func TestSessionAdapter(t *testing.T) {
	ctx := context.Background()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	chainID := evm.ChainID(11155111)

	dev := devwallet.New(chainID, []*ecdsa.PrivateKey{key})
	session, err := wallet.New(chainlink.New(dev), chainlink.ChainDescriptor{ID: chainID, Name: "Sepolia"})
	require.NoError(t, err)
	t.Cleanup(session.Close)

	adapter := NewSessionAdapter(session)
	assert.Empty(t, adapter.Address())

	_, err = adapter.Signer(ctx)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeSignerUnavailable))

	res := session.Connect(ctx)
	require.True(t, res.Success, res.Message())
	assert.Equal(t, evm.AddressOf(key), adapter.Address())

	signer, err := adapter.Signer(ctx)
	require.NoError(t, err)
	message := models.ChallengeMessage(adapter.Address(), "alice@example.com")
	sig, err := signer.SignMessage(ctx, message)
	require.NoError(t, err)
	assert.NoError(t, evm.VerifyPersonal(adapter.Address(), message, sig))
}
