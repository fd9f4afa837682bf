package wallet

import (
	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/evm"
)

// Status is the coarse connection state.
type Status string

const (
	StatusDisconnected Status = "disconnected"
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
)

// Snapshot is a copy of the session state at one point in time. Address and
// ChainID are empty/zero while disconnected.
type Snapshot struct {
	Status           Status      `json:"status"`
	Address          string      `json:"address,omitempty"`
	ChainID          evm.ChainID `json:"chain_id,omitempty"`
	TargetChainID    evm.ChainID `json:"target_chain_id"`
	IsConnected      bool        `json:"is_connected"`
	IsCorrectNetwork bool        `json:"is_correct_network"`
	Loading          bool        `json:"loading"`
	Error            string      `json:"error,omitempty"`
}

// Result is the explicit outcome of a session operation. Err carries a coded
// domain error when Success is false; Address is the connected account after
// a successful connect or restore.
type Result struct {
	Success bool
	Address string
	Err     error
}

// Code is the domain error code of a failed result, or "" on success.
func (r Result) Code() dErrors.Code {
	if r.Err == nil {
		return ""
	}
	return dErrors.CodeOf(r.Err)
}

// Message is the human-readable failure text, or "" on success.
func (r Result) Message() string {
	return dErrors.Message(r.Err)
}

func ok(address string) Result {
	return Result{Success: true, Address: address}
}

func failed(err error) Result {
	return Result{Err: err}
}
