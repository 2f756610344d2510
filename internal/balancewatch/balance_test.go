package balancewatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfirmedBalance(t *testing.T) {
	t.Run("should convert net confirmed satoshis to BTC", func(t *testing.T) {
		summary := LedgerSummary{
			FundedConfirmed: 150_000_000,
			SpentConfirmed:  50_000_000,
		}

		assert.Equal(t, "1", ConfirmedBalance(summary).String())
	})

	t.Run("should return zero for an empty summary", func(t *testing.T) {
		assert.True(t, ConfirmedBalance(LedgerSummary{}).IsZero())
	})

	t.Run("should keep sub satoshi precision exact", func(t *testing.T) {
		summary := LedgerSummary{FundedConfirmed: 1}

		assert.Equal(t, "0.00000001", ConfirmedBalance(summary).String())
	})
}

func TestUnconfirmedBalance(t *testing.T) {
	t.Run("should convert net mempool satoshis to BTC", func(t *testing.T) {
		summary := LedgerSummary{
			FundedMempool: 25_000_000,
			SpentMempool:  5_000_000,
		}

		assert.Equal(t, "0.2", UnconfirmedBalance(summary).String())
	})

	t.Run("should go negative while an outgoing transaction is pending", func(t *testing.T) {
		summary := LedgerSummary{SpentMempool: 100_000_000}

		assert.Equal(t, "-1", UnconfirmedBalance(summary).String())
	})
}

func TestComputeBalance(t *testing.T) {
	t.Run("should add confirmed and unconfirmed balances", func(t *testing.T) {
		summary := LedgerSummary{
			FundedConfirmed: 100_000_000,
			SpentConfirmed:  40_000_000,
			FundedMempool:   10_000_000,
			SpentMempool:    20_000_000,
		}

		assert.Equal(t, "0.5", ComputeBalance(summary).String())
	})

	t.Run("should equal exactly one BTC for one hundred million funded satoshis", func(t *testing.T) {
		summary := LedgerSummary{FundedConfirmed: 100_000_000}

		assert.Equal(t, "1", ComputeBalance(summary).String())
	})
}
