package balancewatch

import (
	"context"
	"errors"
)

// ErrLedgerUnavailable indicates that the external ledger service could not
// be reached or did not answer successfully. It is expected control flow, not
// a fault: the monitoring loop skips the affected address for the current
// cycle and the next cycle acts as the retry.
var ErrLedgerUnavailable = errors.New("ledger service unavailable")

// LedgerSummary aggregates the on-chain and mempool activity totals for one
// address, as reported by the ledger service. All amounts are in satoshis.
// A summary is fetched fresh each cycle and never cached beyond it.
type LedgerSummary struct {
	FundedConfirmed int64 // sum of confirmed outputs funding the address
	SpentConfirmed  int64 // sum of confirmed outputs spent from the address
	FundedMempool   int64 // sum of unconfirmed (mempool) outputs funding the address
	SpentMempool    int64 // sum of unconfirmed (mempool) outputs spent from the address
	TxCount         int64 // number of confirmed transactions
}

// Ledger is the boundary to the external ledger service. Implementations are
// best-effort: they perform no automatic retry, and any failure surfaces as
// an error wrapping ErrLedgerUnavailable.
type Ledger interface {
	// AddressSummary fetches the current activity totals for an address.
	AddressSummary(ctx context.Context, address string) (LedgerSummary, error)

	// PendingTransactions fetches the identifiers of the address's
	// transactions currently waiting in the mempool, newest first.
	PendingTransactions(ctx context.Context, address string) ([]string, error)
}
