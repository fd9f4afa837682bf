package chainlink

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "landchain/pkg/domain-errors"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		err     error
		code    dErrors.Code
		message string
	}{
		{
			name:    "user rejected connect",
			op:      OpConnect,
			err:     &RPCError{Code: ErrCodeUserRejected, Message: "User rejected the request."},
			code:    dErrors.CodeUserRejected,
			message: "Connection request rejected. Please approve the connection in your wallet.",
		},
		{
			name:    "wrapped rejection still matches",
			op:      OpSign,
			err:     fmt.Errorf("bridge: %w", &RPCError{Code: ErrCodeUserRejected}),
			code:    dErrors.CodeUserRejected,
			message: "Signature request rejected",
		},
		{
			name: "unknown chain",
			op:   OpSwitchNetwork,
			err:  &RPCError{Code: ErrCodeUnrecognizedChain, Message: "Unrecognized chain ID"},
			code: dErrors.CodeChainUnknownToProvider,
		},
		{
			name: "disconnected provider",
			op:   OpChainID,
			err:  &RPCError{Code: ErrCodeDisconnected},
			code: dErrors.CodeProviderUnavailable,
		},
		{
			name:    "other codes keep the provider message",
			op:      OpConnect,
			err:     &RPCError{Code: -32002, Message: "Already processing eth_requestAccounts. Please wait."},
			code:    dErrors.CodeProviderError,
			message: "Already processing eth_requestAccounts. Please wait.",
		},
		{
			name:    "plain errors keep their text",
			op:      OpAccounts,
			err:     errors.New("socket closed"),
			code:    dErrors.CodeProviderError,
			message: "socket closed",
		},
		{
			name: "timeouts",
			op:   OpConnect,
			err:  context.DeadlineExceeded,
			code: dErrors.CodeProviderError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(tt.op, tt.err)
			assert.True(t, dErrors.HasCode(got, tt.code), "got %v", got)
			assert.ErrorIs(t, got, tt.err)
			if tt.message != "" {
				assert.Equal(t, tt.message, dErrors.Message(got))
			}
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, Translate(OpConnect, nil))
	})

	t.Run("domain errors pass through", func(t *testing.T) {
		in := dErrors.New(dErrors.CodeNoAccounts, "none")
		assert.Same(t, in, Translate(OpConnect, in))
	})
}
