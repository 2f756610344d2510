package balancewatch

import "github.com/shopspring/decimal"

// satoshisPerBTC is the conversion factor between the ledger's satoshi
// amounts and BTC.
var satoshisPerBTC = decimal.NewFromInt(100_000_000)

// ConfirmedBalance derives the on-chain balance (BTC) from a summary:
// confirmed funded minus confirmed spent.
func ConfirmedBalance(s LedgerSummary) decimal.Decimal {
	return decimal.NewFromInt(s.FundedConfirmed - s.SpentConfirmed).Div(satoshisPerBTC)
}

// UnconfirmedBalance derives the pending (mempool) balance (BTC) from a
// summary: unconfirmed funded minus unconfirmed spent. It can be negative
// while outgoing transactions wait for confirmation.
func UnconfirmedBalance(s LedgerSummary) decimal.Decimal {
	return decimal.NewFromInt(s.FundedMempool - s.SpentMempool).Div(satoshisPerBTC)
}

// ComputeBalance derives the total spendable balance (BTC) from a summary,
// including unconfirmed mempool activity. Pure function: zero-valued summary
// fields simply contribute zero.
func ComputeBalance(s LedgerSummary) decimal.Decimal {
	return ConfirmedBalance(s).Add(UnconfirmedBalance(s))
}
