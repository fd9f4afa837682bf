package chainlink

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/rpc"

	dErrors "landchain/pkg/domain-errors"
)

// Operation names the provider interaction a failure came from, so rejected
// prompts can be described in terms the user just saw.
type Operation string

const (
	OpConnect       Operation = "connect"
	OpAccounts      Operation = "accounts"
	OpChainID       Operation = "chain_id"
	OpSwitchNetwork Operation = "switch_network"
	OpAddNetwork    Operation = "add_network"
	OpSign          Operation = "sign"
	OpSubscribe     Operation = "subscribe"
)

var rejectedMessages = map[Operation]string{
	OpConnect:       "Connection request rejected. Please approve the connection in your wallet.",
	OpSwitchNetwork: "Network switch rejected in the wallet.",
	OpAddNetwork:    "Adding the network was rejected in the wallet.",
	OpSign:          "Signature request rejected",
}

// ErrProviderUnavailable is returned by every prompting operation when no
// provider is present.
var ErrProviderUnavailable = dErrors.New(dErrors.CodeProviderUnavailable,
	"No wallet provider detected. Install a browser wallet such as MetaMask.")

// Translate maps a raw provider failure into the domain taxonomy. Raw provider
// error values never travel further than the wallet session; they survive only
// as the wrapped cause.
func Translate(op Operation, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return dErrors.Wrap(err, dErrors.CodeProviderError, "The wallet did not respond in time.")
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		switch rpcErr.ErrorCode() {
		case ErrCodeUserRejected:
			msg, ok := rejectedMessages[op]
			if !ok {
				msg = "Request rejected in the wallet."
			}
			return dErrors.Wrap(err, dErrors.CodeUserRejected, msg)
		case ErrCodeUnrecognizedChain:
			return dErrors.Wrap(err, dErrors.CodeChainUnknownToProvider, "The wallet does not know the target network.")
		case ErrCodeDisconnected, ErrCodeChainDisconnected:
			return dErrors.Wrap(err, dErrors.CodeProviderUnavailable, "The wallet is disconnected from the network.")
		}
		return dErrors.Wrap(err, dErrors.CodeProviderError, providerMessage(err))
	}
	return dErrors.Wrap(err, dErrors.CodeProviderError, providerMessage(err))
}

// providerMessage keeps the provider's own text, which is usually the most
// useful thing to show ("Already processing eth_requestAccounts").
func providerMessage(err error) string {
	var rpcErr *RPCError
	if errors.As(err, &rpcErr) && rpcErr.Message != "" {
		return rpcErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return "Wallet provider error"
}
