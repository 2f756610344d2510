package cli

import (
	"context"
	"os"

	"github.com/gabapcia/btcwatch/internal/balancewatch"
	"github.com/gabapcia/btcwatch/internal/walletregistry"

	"github.com/urfave/cli/v3"
)

// Run initializes and executes the btcwatch CLI application.
//
// It registers all available commands, including:
//
//   - `track`: Starts a monitoring session that polls all configured wallets.
//   - `set-wallet`: Registers or replaces a wallet tracking configuration.
//   - `remove-wallet`: Deletes a wallet configuration.
//   - `list-wallets`: Prints the stored wallet configurations.
//   - `balance`: Performs a one-shot balance snapshot across all wallets.
//
// Parameters:
//   - ctx: Context used to control the lifecycle of the CLI application.
//   - wr: The walletregistry service implementation used by wallet commands.
//   - bw: The balancewatch service implementation used by track and balance.
//
// This function sets up shell completion and invokes the CLI framework to parse and run commands.
func Run(ctx context.Context, wr walletregistry.Service, bw balancewatch.Service) error {
	app := &cli.Command{
		EnableShellCompletion: true,
		Name:                  "btcwatch",
		Description:           "Command-line interface for configuring and running bitcoin wallet balance monitoring.",
		Usage:                 "btcwatch [command] [flags]",
		Commands: []*cli.Command{
			trackCommand(bw),
			setWalletCommand(wr),
			removeWalletCommand(wr),
			listWalletsCommand(wr),
			balanceCommand(bw),
		},
	}

	return app.Run(ctx, os.Args)
}
