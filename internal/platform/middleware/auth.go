package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"landchain/internal/auth"
	dErrors "landchain/pkg/domain-errors"
	"landchain/pkg/platform/httputil"
	"landchain/pkg/requestcontext"
)

// TokenParser reads the principal out of an access token.
type TokenParser interface {
	Parse(token string) (auth.Principal, error)
}

// RequireAuth accepts requests carrying a readable bearer token. The raw token
// is kept on the context so backend calls are made on the caller's behalf.
func RequireAuth(parser TokenParser, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			token, ok := bearerToken(r)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Missing or invalid Authorization header"))
				return
			}

			principal, err := parser.Parse(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithAccessToken(ctx, token)
			ctx = auth.WithPrincipal(ctx, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	const bearerPrefix = "Bearer "
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}
