// Package evm holds the small amount of EVM knowledge the client needs:
// address normalization, chain id encoding and personal-sign signatures.
package evm

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"

	dErrors "landchain/pkg/domain-errors"
)

// NormalizeAddress validates a hex account identifier and returns its
// lowercase 0x-prefixed form. Session state and linkage comparisons always
// use the normalized form.
func NormalizeAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if !common.IsHexAddress(raw) {
		return "", dErrors.Newf(dErrors.CodeBadRequest, "invalid wallet address %q", raw)
	}
	return strings.ToLower(common.HexToAddress(raw).Hex()), nil
}

// SameAddress compares two addresses case-insensitively. Empty values never match.
func SameAddress(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// ShortAddress renders 0x1234…abcd for log lines and prompts.
func ShortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
