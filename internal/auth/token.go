package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	dErrors "landchain/pkg/domain-errors"
)

// Claims are the access token claims the registry backend issues: the
// account email as subject and its role.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// TokenParser reads principals from access tokens. Without a signing key it
// only decodes the claims; with one it also checks the HS256 signature and
// expiry, for deployments that share the backend's key.
type TokenParser struct {
	signingKey []byte
	parser     *jwt.Parser
}

func NewTokenParser(signingKey string) *TokenParser {
	return &TokenParser{
		signingKey: []byte(signingKey),
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

// Parse returns the principal in token.
func (p *TokenParser) Parse(token string) (Principal, error) {
	claims := &Claims{}
	if len(p.signingKey) == 0 {
		if _, _, err := p.parser.ParseUnverified(token, claims); err != nil {
			return Principal{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
		}
	} else {
		parsed, err := p.parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
			return p.signingKey, nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return Principal{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "token has expired")
			}
			return Principal{}, dErrors.Wrap(err, dErrors.CodeUnauthorized, "invalid token")
		}
		if !parsed.Valid {
			return Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
		}
	}

	if claims.Subject == "" {
		return Principal{}, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return Principal{Email: claims.Subject, Role: parseRole(claims.Role)}, nil
}
