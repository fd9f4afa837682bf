package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrings(t *testing.T) {
	got := Strings([]any{
		"subject", "vera@example.com",
		"count", 3,
		42, "ignored",
		"land_id", "land-1",
		"land_id", "land-2",
		"dangling",
	})

	assert.Equal(t, map[string]string{
		"subject": "vera@example.com",
		"land_id": "land-2",
	}, got)
	assert.Empty(t, Strings(nil))
}
