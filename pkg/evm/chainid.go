package evm

import (
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	dErrors "landchain/pkg/domain-errors"
)

// ChainID is an EIP-155 network identifier. Providers report it as a 0x-prefixed
// hex quantity; configuration usually supplies it in decimal.
type ChainID uint64

// Hex returns the provider wire form, e.g. 0xaa36a7 for Sepolia.
func (c ChainID) Hex() string {
	return hexutil.EncodeUint64(uint64(c))
}

func (c ChainID) String() string {
	return strconv.FormatUint(uint64(c), 10)
}

// ParseChainID accepts either a hex quantity ("0xaa36a7") or a decimal string
// ("11155111").
func ParseChainID(raw string) (ChainID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, dErrors.New(dErrors.CodeBadRequest, "empty chain id")
	}
	if strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X") {
		v, err := strconv.ParseUint(raw[2:], 16, 64)
		if err != nil {
			return 0, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid chain id "+raw)
		}
		return ChainID(v), nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid chain id "+raw)
	}
	return ChainID(v), nil
}
