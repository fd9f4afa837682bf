package evm

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "landchain/pkg/domain-errors"
)

// TestNormalizeAddress validates the invariant that session and linkage state
// only ever hold lowercase, well-formed addresses.
func TestNormalizeAddress(t *testing.T) {
	t.Run("lowercases checksummed input", func(t *testing.T) {
		addr, err := NormalizeAddress(" 0xAbCdEf0123456789aBcDeF0123456789AbCdEf01 ")
		require.NoError(t, err)
		assert.Equal(t, "0xabcdef0123456789abcdef0123456789abcdef01", addr)
	})

	t.Run("rejects malformed input", func(t *testing.T) {
		for _, raw := range []string{"", "0x123", "not-an-address", "0xZZcdef0123456789abcdef0123456789abcdef01"} {
			_, err := NormalizeAddress(raw)
			require.Error(t, err, raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		}
	})
}

func TestSameAddress(t *testing.T) {
	assert.True(t, SameAddress("0xAA00000000000000000000000000000000000000", "0xaa00000000000000000000000000000000000000"))
	assert.False(t, SameAddress("0xaa00000000000000000000000000000000000000", "0xbb00000000000000000000000000000000000000"))
	assert.False(t, SameAddress("", ""))
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0xabcd…ef01", ShortAddress("0xabcdef0123456789abcdef0123456789abcdef01"))
	assert.Equal(t, "0x12", ShortAddress("0x12"))
}

func TestChainID(t *testing.T) {
	t.Run("hex and decimal forms agree", func(t *testing.T) {
		fromHex, err := ParseChainID("0xaa36a7")
		require.NoError(t, err)
		fromDec, err := ParseChainID("11155111")
		require.NoError(t, err)
		assert.Equal(t, fromHex, fromDec)
		assert.Equal(t, "0xaa36a7", fromDec.Hex())
		assert.Equal(t, "11155111", fromHex.String())
	})

	t.Run("tolerates leading zeros from providers", func(t *testing.T) {
		id, err := ParseChainID("0x01")
		require.NoError(t, err)
		assert.Equal(t, ChainID(1), id)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		for _, raw := range []string{"", "0x", "0xnope", "-1", "sepolia"} {
			_, err := ParseChainID(raw)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest), raw)
		}
	})
}

func TestPersonalSign(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := AddressOf(key)
	msg := "Link wallet " + addr + " to account verifier@example.com"

	sig, err := SignPersonal(key, msg)
	require.NoError(t, err)

	t.Run("recovers the signer", func(t *testing.T) {
		got, err := RecoverPersonal(msg, sig)
		require.NoError(t, err)
		assert.Equal(t, addr, got)
		assert.NoError(t, VerifyPersonal(addr, msg, sig))
	})

	t.Run("different message recovers a different signer", func(t *testing.T) {
		err := VerifyPersonal(addr, msg+" ", sig)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeSignerUnavailable))
	})

	t.Run("accepts recovery id without the 27 offset", func(t *testing.T) {
		raw := []byte(sig)
		// last byte pair encodes V; 1b/1c -> 00/01
		switch string(raw[len(raw)-2:]) {
		case "1b":
			raw[len(raw)-2], raw[len(raw)-1] = '0', '0'
		case "1c":
			raw[len(raw)-2], raw[len(raw)-1] = '0', '1'
		}
		assert.NoError(t, VerifyPersonal(addr, msg, string(raw)))
	})

	t.Run("rejects malformed signatures", func(t *testing.T) {
		_, err := RecoverPersonal(msg, "0x1234")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		_, err = RecoverPersonal(msg, "zz")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}
