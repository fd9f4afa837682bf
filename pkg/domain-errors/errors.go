// Package domainerrors defines the coded error taxonomy shared by the wallet
// session, account linkage and land workflow services.
//
// Services return *Error values (optionally wrapping an infrastructure cause);
// transports translate the Code into a status and render Message to the user.
// Message is always human-readable and safe to show.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a failure. Codes are stable strings used in API responses.
type Code string

const (
	// Wallet provider failures, translated at the chain link boundary.
	CodeProviderUnavailable    Code = "provider_unavailable"
	CodeUserRejected           Code = "user_rejected"
	CodeNoAccounts             Code = "no_accounts"
	CodeChainUnknownToProvider Code = "chain_unknown_to_provider"
	CodeNetworkSwitchFailed    Code = "network_switch_failed"
	CodeSignerUnavailable      Code = "signer_unavailable"
	CodeProviderError          Code = "provider_error"

	// Account linkage.
	CodeNoWalletConnected    Code = "no_wallet_connected"
	CodeLinkRejectedByServer Code = "link_rejected_by_server"

	// Land workflow.
	CodeTransitionPrecondition Code = "transition_precondition_violation"

	// Remote calls and generic failures.
	CodeRemoteCallFailed Code = "remote_call_failed"
	CodeUnauthorized     Code = "unauthorized"
	CodeNotFound         Code = "not_found"
	CodeBadRequest       Code = "bad_request"
	CodeInternal         Code = "internal_error"
)

// Error is a coded domain error.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// As returns the first *Error in err's chain.
func As(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// HasCode reports whether any *Error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// Is reports whether the outermost domain error in err carries code.
func Is(err error, code Code) bool {
	de, ok := As(err)
	return ok && de.Code == code
}

// CodeOf returns the outermost domain code, or CodeInternal for foreign errors.
func CodeOf(err error) Code {
	if de, ok := As(err); ok {
		return de.Code
	}
	return CodeInternal
}

// Message returns the human-readable message for err. Foreign errors fall back
// to their Error() text so nothing is rendered empty.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if de, ok := As(err); ok && de.Message != "" {
		return de.Message
	}
	return err.Error()
}
