package balancewatch

import (
	"context"
	"maps"
	"slices"
	"time"

	"github.com/gabapcia/btcwatch/internal/pkg/logger"
)

// Termination reasons surfaced through Notifier.TrackingStopped.
const (
	reasonStopped   = "tracking stopped"
	reasonNoWallets = "no wallets found, stopping"
)

// session is one user's independent tracking loop instance. All of its state
// (cycle counter, seen-transaction tracker) lives here and is discarded when
// the loop exits; nothing is shared between sessions except the wallet store.
type session struct {
	id     string             // session identifier chosen by the presentation layer
	cancel context.CancelFunc // cooperative stop signal, checked at cycle boundaries
	seen   seenTransactions   // per-session transaction dedup state
	done   chan struct{}      // closed when the poll loop has fully wound down
}

// run is the session's poll loop. Each iteration re-reads the wallet store,
// inspects every wallet, delivers one report through the notifier and then
// sleeps for the poll interval. The loop exits when the stop signal fires or
// the wallet set becomes empty; on any exit path it emits exactly one
// TrackingStopped notification and releases the session.
func (s *service) run(ctx context.Context, sess *session) {
	defer close(sess.done)
	defer s.release(sess.id)

	var cycle uint64
	for {
		// Cancellation is cooperative and takes effect here, at the top of
		// the iteration, never mid-cycle.
		if ctx.Err() != nil {
			s.notifyStopped(sess.id, reasonStopped)
			return
		}

		cycle++

		// Reload the full wallet set so external configuration edits become
		// visible this cycle. A storage failure degrades to an empty set.
		wallets, err := s.walletStorage.WatchedWallets(ctx)
		if err != nil {
			logger.Warn(ctx, "wallet storage unavailable, treating as empty",
				"session.id", sess.id,
				"error", err,
			)
			wallets = nil
		}
		if len(wallets) == 0 {
			s.notifyStopped(sess.id, reasonNoWallets)
			return
		}

		report := newCycleReport(cycle)
		for _, address := range slices.Sorted(maps.Keys(wallets)) {
			wallet := wallets[address]
			wallet.Address = address
			s.checkWallet(ctx, sess, wallet, report)
		}

		logger.Debug(ctx, "poll cycle complete",
			"session.id", sess.id,
			"cycle.id", report.cycleID,
			"cycle.number", report.number,
		)

		if err := s.notifier.Notify(ctx, sess.id, report.String()); err != nil {
			logger.Error(ctx, "report delivery failed",
				"session.id", sess.id,
				"cycle.id", report.cycleID,
				"error", err,
			)
		}

		select {
		case <-ctx.Done():
			s.notifyStopped(sess.id, reasonStopped)
			return
		case <-time.After(s.pollInterval):
		}
	}
}

// checkWallet inspects one wallet for the current cycle and appends its
// outcome line to the report.
//
// A wallet is only evaluated against its threshold when a new transaction was
// observed this cycle: a wallet already below threshold with no new activity
// does not re-alert.
func (s *service) checkWallet(ctx context.Context, sess *session, wallet Wallet, report *cycleReport) {
	if !wallet.isActiveOn(today()) {
		report.addf("%s: not in tracking window, skipped", wallet.Address)
		return
	}

	pending, err := s.ledger.PendingTransactions(ctx, wallet.Address)
	if err != nil {
		logger.Warn(ctx, "pending transactions unavailable",
			"session.id", sess.id,
			"wallet.address", wallet.Address,
			"error", err,
		)
		report.addf("%s: ledger unavailable, skipped this cycle", wallet.Address)
		return
	}
	if len(pending) == 0 {
		report.addf("%s: no new transactions", wallet.Address)
		return
	}

	// Only the newest pending transaction is inspected per cycle. Several
	// transactions arriving within one poll interval therefore produce a
	// single alert for the newest id; this bounds per-cycle work at the cost
	// of completeness.
	newest := pending[0]
	if !sess.seen.IsNew(wallet.Address, newest) {
		report.addf("%s: no new transactions", wallet.Address)
		return
	}

	report.addf("%s: new transaction %s detected, checking balance", wallet.Address, newest)

	summary, err := s.ledger.AddressSummary(ctx, wallet.Address)
	if err != nil {
		logger.Warn(ctx, "address summary unavailable",
			"session.id", sess.id,
			"wallet.address", wallet.Address,
			"error", err,
		)
		report.addf("%s: balance check failed, ledger unavailable", wallet.Address)
		return
	}

	balance := ComputeBalance(summary)
	if threshold := wallet.alertThreshold(); balance.LessThan(threshold) {
		report.addf("%s: balance alert: dropped below %s BTC to %s BTC",
			wallet.Address, threshold.String(), balance.StringFixed(8))
	}
}

// notifyStopped emits the terminal notification for a session. It runs on a
// fresh context because the session's own context is typically already
// canceled by the time the loop exits.
func (s *service) notifyStopped(sessionID, reason string) {
	ctx := context.Background()
	if err := s.notifier.TrackingStopped(ctx, sessionID, reason); err != nil {
		logger.Error(ctx, "tracking stopped notification failed",
			"session.id", sessionID,
			"reason", reason,
			"error", err,
		)
	}
}
