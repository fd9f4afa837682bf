// Package auth turns the caller's access token into a Principal. The backend
// is the authority on tokens; the client reads the claims to decide which
// actions to offer and refuses verifier actions locally for other roles.
package auth

import (
	"context"
	"strings"
)

// Role is the account role carried in the access token.
type Role string

const (
	RoleUser     Role = "user"
	RoleVerifier Role = "verifier"
	RoleAdmin    Role = "admin"
)

// Principal is the signed-in account.
type Principal struct {
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// IsZero reports whether no account is signed in.
func (p Principal) IsZero() bool {
	return p.Email == ""
}

// CanVerify reports whether the account may mint, verify and reject land
// records. Admins inherit verifier rights.
func (p Principal) CanVerify() bool {
	return p.Role == RoleVerifier || p.Role == RoleAdmin
}

func parseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleVerifier:
		return RoleVerifier
	case RoleAdmin:
		return RoleAdmin
	}
	return RoleUser
}

type principalKey struct{}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal on ctx, or the zero Principal.
func PrincipalFrom(ctx context.Context) Principal {
	if p, ok := ctx.Value(principalKey{}).(Principal); ok {
		return p
	}
	return Principal{}
}
