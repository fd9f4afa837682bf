package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "landchain/pkg/domain-errors"
)

func issue(t *testing.T, key, subject, role string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	})
	signed, err := token.SignedString([]byte(key))
	require.NoError(t, err)
	return signed
}

func TestTokenParser(t *testing.T) {
	t.Run("decodes claims without a key", func(t *testing.T) {
		p, err := NewTokenParser("").Parse(issue(t, "backend-secret", "vera@example.com", "verifier", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, Principal{Email: "vera@example.com", Role: RoleVerifier}, p)
		assert.True(t, p.CanVerify())
	})

	t.Run("verifies with a key", func(t *testing.T) {
		parser := NewTokenParser("backend-secret")
		p, err := parser.Parse(issue(t, "backend-secret", "adam@example.com", "ADMIN", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, p.Role)

		_, err = parser.Parse(issue(t, "other-secret", "adam@example.com", "admin", time.Hour))
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

		_, err = parser.Parse(issue(t, "backend-secret", "adam@example.com", "admin", -time.Minute))
		require.Error(t, err)
		assert.Equal(t, "token has expired", dErrors.Message(err))
	})

	t.Run("unknown roles are plain users", func(t *testing.T) {
		p, err := NewTokenParser("").Parse(issue(t, "k", "cit@example.com", "superuser", time.Hour))
		require.NoError(t, err)
		assert.Equal(t, RoleUser, p.Role)
		assert.False(t, p.CanVerify())
	})

	t.Run("garbage and missing subject", func(t *testing.T) {
		_, err := NewTokenParser("").Parse("not-a-token")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))

		_, err = NewTokenParser("").Parse(issue(t, "k", "", "verifier", time.Hour))
		assert.Equal(t, "invalid token claims", dErrors.Message(err))
	})
}

func TestPrincipalContext(t *testing.T) {
	ctx := context.Background()
	assert.True(t, PrincipalFrom(ctx).IsZero())

	p := Principal{Email: "vera@example.com", Role: RoleVerifier}
	assert.Equal(t, p, PrincipalFrom(WithPrincipal(ctx, p)))
}
