package cli

import (
	"context"
	"fmt"
	"maps"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"github.com/gabapcia/btcwatch/internal/balancewatch"

	"github.com/urfave/cli/v3"
)

// defaultSessionID identifies the single tracking session a CLI process owns.
const defaultSessionID = "cli"

// trackCommand returns a CLI command that starts a monitoring session for all
// configured wallets and streams its per-cycle reports to stdout.
//
// Usage example:
//
//	btcwatch track
//
// The session runs until it receives an interrupt (SIGINT or SIGTERM) or the
// wallet set becomes empty.
func trackCommand(bw balancewatch.Service) *cli.Command {
	return &cli.Command{
		Name:        "track",
		Description: "Starts wallet monitoring: polls the ledger, detects new transactions, and raises balance alerts.",
		Usage:       "Runs a tracking session until Ctrl+C or until no wallets remain configured.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "session",
				Usage: "Session identifier (useful when several trackers share a store)",
				Value: defaultSessionID,
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			sessionID := c.String("session")

			quit := make(chan os.Signal, 1)
			defer close(quit)

			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			if err := bw.StartTracking(ctx, sessionID); err != nil {
				return err
			}

			<-quit

			// The session may already be gone if the wallet set emptied.
			if err := bw.StopTracking(sessionID); err != nil && bw.State(sessionID) == balancewatch.StateActive {
				return err
			}
			return nil
		},
	}
}

// balanceCommand returns a CLI command that prints a one-shot balance
// snapshot for every configured wallet. It does not require (or touch) an
// active tracking session.
//
// Usage example:
//
//	btcwatch balance
func balanceCommand(bw balancewatch.Service) *cli.Command {
	return &cli.Command{
		Name:        "balance",
		Description: "Fetches the current confirmed, unconfirmed and total balance of every configured wallet.",
		Usage:       "One-shot balance check across all stored wallets.",
		Action: func(ctx context.Context, c *cli.Command) error {
			reports, err := bw.CheckBalances(ctx)
			if err != nil {
				return err
			}

			if len(reports) == 0 {
				fmt.Println("no wallets configured")
				return nil
			}

			for _, address := range slices.Sorted(maps.Keys(reports)) {
				report := reports[address]
				if report.Unavailable {
					fmt.Printf("%s: ledger unavailable\n", address)
					continue
				}

				fmt.Printf("%s: confirmed %s BTC, unconfirmed %s BTC, total %s BTC (%d transactions)\n",
					address,
					report.Confirmed.StringFixed(8),
					report.Unconfirmed.StringFixed(8),
					report.Total.StringFixed(8),
					report.TxCount,
				)
			}
			return nil
		},
	}
}
