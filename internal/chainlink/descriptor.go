package chainlink

import (
	"landchain/internal/platform/config"
)

// DescriptorFromConfig builds the target network descriptor from configuration.
func DescriptorFromConfig(c config.Chain) (ChainDescriptor, error) {
	id, err := c.TargetID()
	if err != nil {
		return ChainDescriptor{}, err
	}
	d := ChainDescriptor{
		ID:      id,
		Name:    c.Name,
		RPCURLs: []string{c.RPCURL},
		NativeCurrency: NativeCurrency{
			Name:     c.CurrencyName,
			Symbol:   c.CurrencySymbol,
			Decimals: c.CurrencyDecimals,
		},
	}
	if c.ExplorerURL != "" {
		d.ExplorerURLs = []string{c.ExplorerURL}
	}
	return d, nil
}
