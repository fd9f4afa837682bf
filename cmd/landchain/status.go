package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"landchain/internal/chainlink"
	"landchain/internal/chainlink/adapters/devwallet"
	"landchain/internal/chainlink/adapters/rpcprovider"
	"landchain/internal/platform/config"
	dErrors "landchain/pkg/domain-errors"
)

const probeTimeout = 5 * time.Second

func statusCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the target chain and whether a wallet provider answers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), probeTimeout)
			defer cancel()
			return printStatus(ctx, cmd.OutOrStdout(), *cfg)
		},
	}
}

func printStatus(ctx context.Context, out io.Writer, cfg config.Config) error {
	target, err := chainlink.DescriptorFromConfig(cfg.Chain)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "chain:     %s (%s, %s)\n", target.Name, target.ID.String(), target.ID.Hex())
	fmt.Fprintf(out, "rpc:       %s\n", cfg.Chain.RPCURL)
	fmt.Fprintf(out, "explorer:  %s\n", cfg.Chain.ExplorerURL)
	fmt.Fprintf(out, "backend:   %s\n", cfg.Backend.BaseURL)

	switch {
	case cfg.Provider.URL != "":
		p, err := rpcprovider.Dial(ctx, cfg.Provider.URL)
		if err != nil {
			fmt.Fprintf(out, "provider:  unavailable (%v)\n", err)
			return nil
		}
		defer p.Close()
		printProbe(ctx, out, "bridge "+cfg.Provider.URL, chainlink.New(p), target)
	case cfg.Provider.DevKey != "":
		w, err := devwallet.FromHexKey(target.ID, cfg.Provider.DevKey)
		if err != nil {
			return err
		}
		printProbe(ctx, out, "dev wallet "+w.Address(), chainlink.New(w), target)
	default:
		fmt.Fprintln(out, "provider:  none configured")
	}
	return nil
}

// printProbe asks the provider for its chain without prompting.
func printProbe(ctx context.Context, out io.Writer, name string, link *chainlink.Link, target chainlink.ChainDescriptor) {
	id, err := link.CurrentChainID(ctx)
	if err != nil {
		fmt.Fprintf(out, "provider:  %s unavailable (%s)\n", name, dErrors.Message(err))
		return
	}
	network := "wrong network"
	if id == target.ID {
		network = "correct network"
	}
	fmt.Fprintf(out, "provider:  %s on chain %s (%s)\n", name, id.String(), network)
}
