package evm

import (
	"crypto/ecdsa"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	dErrors "landchain/pkg/domain-errors"
)

// SignPersonal produces an EIP-191 personal_sign signature (65 bytes, V in
// {27,28}) over message, the form wallets return and the backend recovers.
func SignPersonal(key *ecdsa.PrivateKey, message string) (string, error) {
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeSignerUnavailable, "failed to sign message")
	}
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig), nil
}

// RecoverPersonal returns the lowercase address that produced a personal_sign
// signature over message.
func RecoverPersonal(message, signature string) (string, error) {
	sig, err := hexutil.Decode(strings.TrimSpace(signature))
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "signature is not valid hex")
	}
	if len(sig) != crypto.SignatureLength {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "signature must be %d bytes, got %d", crypto.SignatureLength, len(sig))
	}
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "signature recovery failed")
	}
	return strings.ToLower(crypto.PubkeyToAddress(*pub).Hex()), nil
}

// VerifyPersonal checks that signature over message was produced by address.
func VerifyPersonal(address, message, signature string) error {
	signer, err := RecoverPersonal(message, signature)
	if err != nil {
		return err
	}
	if !SameAddress(signer, address) {
		return dErrors.Newf(dErrors.CodeSignerUnavailable,
			"signature was produced by %s, not the connected wallet %s", ShortAddress(signer), ShortAddress(address))
	}
	return nil
}

// AddressOf returns the lowercase address controlled by key.
func AddressOf(key *ecdsa.PrivateKey) string {
	return strings.ToLower(crypto.PubkeyToAddress(key.PublicKey).Hex())
}
