package balancewatch

import "github.com/gabapcia/btcwatch/internal/pkg/types"

// seenTransactions tracks, per wallet address, the transaction identifiers a
// session has already reported on. Entries are never removed: within one
// session a transaction id is reported at most once, and memory grows only
// with the number of distinct new transactions observed while tracking.
//
// A seenTransactions value is owned by exactly one session and is never
// shared, so no locking is required.
type seenTransactions map[string]types.Set[string]

// newSeenTransactions returns an empty tracker. Every new session starts with
// a fresh one, so transactions alerted in a previous session alert again.
func newSeenTransactions() seenTransactions {
	return make(seenTransactions)
}

// IsNew records the transaction id as seen for the address and reports
// whether it had not been seen before. The first call for a given
// (address, txID) pair returns true, every subsequent call returns false.
func (s seenTransactions) IsNew(address, txID string) bool {
	set, ok := s[address]
	if !ok {
		set = types.NewSet[string]()
		s[address] = set
	}

	if set.Has(txID) {
		return false
	}

	set.Add(txID)
	return true
}
