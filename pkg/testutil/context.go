package testutil

import (
	"net/http"

	"landchain/internal/auth"
	"landchain/pkg/requestcontext"
)

// SignedIn puts a principal and an access token on the request context, as
// the auth middleware would for a signed-in caller.
func SignedIn(req *http.Request, email string, role auth.Role) *http.Request {
	ctx := auth.WithPrincipal(req.Context(), auth.Principal{Email: email, Role: role})
	ctx = requestcontext.WithAccessToken(ctx, "test-token")
	return req.WithContext(ctx)
}
