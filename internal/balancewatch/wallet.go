package balancewatch

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// trackingDateLayout is the calendar date format of tracking window bounds.
// Dates in this form compare correctly as plain strings, so the window check
// is a lexical comparison against today's date.
const trackingDateLayout = "2006-01-02"

// defaultThreshold is the alert threshold (BTC) applied to wallets whose
// stored configuration carries no threshold.
var defaultThreshold = decimal.RequireFromString("0.01")

// Wallet is the monitoring loop's view of a tracked wallet. Fields mirror the
// stored configuration; a field left unset by an external edit shows up here
// as its zero value (empty date, invalid NullDecimal).
type Wallet struct {
	Address   string              // bitcoin address being tracked
	StartDate string              // first day of the tracking window (YYYY-MM-DD, inclusive)
	EndDate   string              // last day of the tracking window (YYYY-MM-DD, inclusive)
	Threshold decimal.NullDecimal // alert threshold in BTC; invalid when not configured
}

// WalletStorage defines the contract for reading the wallets that have opted
// into monitoring.
//
// The mapping is re-read wholesale at every poll cycle, so configuration
// changes made elsewhere become visible on the next cycle at the latest.
// A missing or corrupt backing store yields an empty mapping and a nil error;
// errors are reserved for transport-level failures, which the loop degrades
// to an empty set as well.
type WalletStorage interface {
	// WatchedWallets returns the current mapping of address to wallet
	// tracking parameters.
	WatchedWallets(ctx context.Context) (map[string]Wallet, error)
}

// isConfigured reports whether the wallet has a complete tracking setup:
// both window bounds and a threshold. Only fully configured wallets qualify
// a session to start.
func (w Wallet) isConfigured() bool {
	return w.StartDate != "" && w.EndDate != "" && w.Threshold.Valid
}

// isActiveOn reports whether the given date (YYYY-MM-DD) falls inside the
// wallet's inclusive tracking window. A missing bound is treated as
// unbounded on that side.
func (w Wallet) isActiveOn(date string) bool {
	if w.StartDate != "" && date < w.StartDate {
		return false
	}
	if w.EndDate != "" && date > w.EndDate {
		return false
	}
	return true
}

// alertThreshold returns the configured threshold, or defaultThreshold when
// the stored record carries none.
func (w Wallet) alertThreshold() decimal.Decimal {
	if !w.Threshold.Valid {
		return defaultThreshold
	}
	return w.Threshold.Decimal
}

// today returns the current date in tracking window form.
func today() string {
	return time.Now().Format(trackingDateLayout)
}
