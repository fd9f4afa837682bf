// Package httputil renders JSON responses and coded errors for the console API.
package httputil

import (
	"encoding/json"
	"net/http"

	dErrors "landchain/pkg/domain-errors"
)

type errorBody struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates err into a status and a JSON error envelope. Internal
// errors never expose their message.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	body := errorBody{Error: string(code)}
	if code != dErrors.CodeInternal {
		body.ErrorDescription = dErrors.Message(err)
	}
	WriteJSON(w, StatusFor(code), body)
}

// StatusFor maps a domain code to an HTTP status.
func StatusFor(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest,
		dErrors.CodeNoWalletConnected,
		dErrors.CodeChainUnknownToProvider,
		dErrors.CodeNetworkSwitchFailed,
		dErrors.CodeNoAccounts:
		return http.StatusBadRequest
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeTransitionPrecondition,
		dErrors.CodeUserRejected,
		dErrors.CodeLinkRejectedByServer:
		return http.StatusConflict
	case dErrors.CodeProviderUnavailable,
		dErrors.CodeSignerUnavailable:
		return http.StatusServiceUnavailable
	case dErrors.CodeRemoteCallFailed,
		dErrors.CodeProviderError:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
