package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/gabapcia/btcwatch/internal/walletregistry"

	"github.com/urfave/cli/v3"
)

// setWalletCommand returns a CLI command that registers (or replaces) the
// tracking configuration for a wallet address.
//
// Usage example:
//
//	btcwatch set-wallet --address bc1q... --start 2026-01-01 --end 2026-12-31 --threshold 0.01
func setWalletCommand(wr walletregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "set-wallet",
		Description: "Register a wallet for balance monitoring, replacing any existing configuration for the same address.",
		Usage:       "Stores a wallet address with its tracking window and alert threshold.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Bitcoin address to track (an optional bitcoin: prefix is stripped)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "start",
				Usage:    "First day of the tracking window (YYYY-MM-DD, inclusive)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "end",
				Usage:    "Last day of the tracking window (YYYY-MM-DD, inclusive)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "threshold",
				Usage:    "Balance in BTC below which an alert is raised",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := wr.SetWallet(ctx,
				c.String("address"),
				c.String("start"),
				c.String("end"),
				c.String("threshold"),
			)
			if err != nil {
				return err
			}

			fmt.Printf("wallet %s stored: window %s..%s, alert below %s BTC\n",
				cfg.Address, cfg.StartDate, cfg.EndDate, cfg.Threshold.String())
			return nil
		},
	}
}

// removeWalletCommand returns a CLI command that deletes the configuration of
// a wallet address. Removal is administrative: the monitoring core itself
// never removes wallets.
//
// Usage example:
//
//	btcwatch remove-wallet --address bc1q...
func removeWalletCommand(wr walletregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "remove-wallet",
		Description: "Delete the tracking configuration of a wallet address.",
		Usage:       "Removes a stored wallet address.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "address",
				Usage:    "Bitcoin address to remove",
				Required: true,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			return wr.RemoveWallet(ctx, c.String("address"))
		},
	}
}

// listWalletsCommand returns a CLI command that prints the stored wallet
// configurations, sorted by address.
func listWalletsCommand(wr walletregistry.Service) *cli.Command {
	return &cli.Command{
		Name:        "list-wallets",
		Description: "Print all stored wallet tracking configurations.",
		Usage:       "Lists every tracked wallet with its window and threshold.",
		Action: func(ctx context.Context, c *cli.Command) error {
			wallets, err := wr.ListWallets(ctx)
			if err != nil {
				return err
			}

			if len(wallets) == 0 {
				fmt.Println("no wallets configured")
				return nil
			}

			for _, address := range slices.Sorted(maps.Keys(wallets)) {
				cfg := wallets[address]
				fmt.Printf("%s: window %s..%s, alert below %s BTC\n",
					address, cfg.StartDate, cfg.EndDate, cfg.Threshold.String())
			}
			return nil
		},
	}
}
