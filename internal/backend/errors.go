package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"landchain/pkg/platform/sentinel"
)

// APIError is a non-2xx response. Detail is the server's human-readable
// reason (FastAPI's "detail" field) when one was sent.
type APIError struct {
	Operation string
	Status    int
	Detail    string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: backend returned %d", e.Operation, e.Status)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Operation, e.Status, e.Detail)
}

// Reason is the server's detail, so services can surface it without
// depending on this package.
func (e *APIError) Reason() string {
	return e.Detail
}

// Unwrap maps the status to the infrastructure sentinel it represents.
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return sentinel.ErrUnauthorized
	case e.Status == http.StatusNotFound:
		return sentinel.ErrNotFound
	case e.Status == http.StatusConflict:
		return sentinel.ErrConflict
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return sentinel.ErrInvalidState
	case e.Status >= 500:
		return sentinel.ErrUnavailable
	}
	return nil
}

// AsAPIError returns the *APIError in err's chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Detail returns the server-provided reason in err, or "".
func Detail(err error) string {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Detail
	}
	return ""
}

func decodeAPIError(op string, resp *http.Response) *APIError {
	apiErr := &APIError{Operation: op, Status: resp.StatusCode}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(raw) == 0 {
		return apiErr
	}
	apiErr.Detail = parseDetail(raw)
	return apiErr
}

// parseDetail understands FastAPI's two shapes: {"detail": "text"} and the
// validation form {"detail": [{"loc": [...], "msg": "text"}]}. Other bodies
// are ignored.
func parseDetail(raw []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}
	var items []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err != nil {
		return ""
	}
	msgs := make([]string, 0, len(items))
	for _, item := range items {
		if item.Msg == "" {
			continue
		}
		if field := lastLoc(item.Loc); field != "" {
			msgs = append(msgs, field+": "+item.Msg)
			continue
		}
		msgs = append(msgs, item.Msg)
	}
	return strings.Join(msgs, "; ")
}

func lastLoc(loc []any) string {
	if len(loc) == 0 {
		return ""
	}
	if s, ok := loc[len(loc)-1].(string); ok && s != "body" {
		return s
	}
	return ""
}
