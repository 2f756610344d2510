package walletregistry

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/gabapcia/btcwatch/internal/pkg/validator"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidAddress indicates that the supplied wallet address does not match
	// any supported bitcoin address format.
	ErrInvalidAddress = errors.New("invalid bitcoin address")

	// ErrInvalidDate indicates that a tracking window date is not a valid
	// calendar date in YYYY-MM-DD form.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrEndBeforeStart indicates that the tracking window ends before it starts.
	ErrEndBeforeStart = errors.New("tracking end date is before start date")

	// ErrInvalidThreshold indicates that the alert threshold is not a
	// non-negative decimal number.
	ErrInvalidThreshold = errors.New("invalid threshold, expected a non-negative decimal")

	// ErrWalletNotFound is returned when removing an address that is not registered.
	ErrWalletNotFound = errors.New("wallet not found")
)

// dateLayout is the calendar date format used for tracking windows. Dates in
// this form compare correctly as plain strings, which the monitoring loop
// relies on.
const dateLayout = "2006-01-02"

// addressURIScheme is the optional URI prefix stripped from pasted addresses
// (e.g. "bitcoin:bc1q...").
const addressURIScheme = "bitcoin:"

// addressPattern matches legacy (P2PKH/P2SH) and bech32 segwit address syntax.
// Legacy addresses start with '1' or '3' followed by 26-33 base58 characters
// (ambiguous glyphs 0, O, I and l excluded); segwit addresses start with "bc1"
// followed by 39-59 lowercase alphanumerics. This is a syntactic check only,
// checksum verification is out of scope.
var addressPattern = regexp.MustCompile(`^([13][a-km-zA-HJ-NP-Z1-9]{26,33}|bc1[a-z0-9]{39,59})$`)

// WalletConfig is the tracking configuration for a single wallet address.
// A record is only ever replaced as a whole, never partially updated.
type WalletConfig struct {
	Address   string          `validate:"required"` // bitcoin address being tracked
	StartDate string          `validate:"required"` // first day of the tracking window (YYYY-MM-DD, inclusive)
	EndDate   string          `validate:"required"` // last day of the tracking window (YYYY-MM-DD, inclusive)
	Threshold decimal.Decimal // balance (BTC) below which an alert is raised
}

// WalletStorage is the persistence contract for wallet configurations.
//
// Implementations load and store the full address-to-config mapping in one
// shot. There is no change notification: callers re-load to observe
// concurrent external edits, and a save is a last-writer-wins overwrite of
// the entire mapping.
type WalletStorage interface {
	// LoadWallets returns the current mapping of address to configuration.
	//
	// A missing or corrupt backing store yields an empty mapping and a nil
	// error; errors are reserved for transport-level failures.
	LoadWallets(ctx context.Context) (map[string]WalletConfig, error)

	// SaveWallets overwrites the stored mapping with the given one.
	SaveWallets(ctx context.Context, wallets map[string]WalletConfig) error
}

// NormalizeAddress strips surrounding whitespace and an optional "bitcoin:"
// URI scheme from a candidate address string.
func NormalizeAddress(raw string) string {
	return strings.TrimPrefix(strings.TrimSpace(raw), addressURIScheme)
}

// ValidateAddress reports whether the (already normalized) address matches a
// supported bitcoin address format. It returns ErrInvalidAddress otherwise.
func ValidateAddress(address string) error {
	if !addressPattern.MatchString(address) {
		return ErrInvalidAddress
	}
	return nil
}

// validateDate checks that the given string is a real calendar date in
// YYYY-MM-DD form.
func validateDate(date string) error {
	if _, err := time.Parse(dateLayout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// buildWalletConfig assembles and fully validates a WalletConfig from raw user
// input. The threshold is parsed as a decimal to avoid binary float rounding
// in alert comparisons.
//
// Each invalid field is rejected with its own sentinel error so callers can
// re-prompt for exactly the field that failed.
func buildWalletConfig(address, startDate, endDate, threshold string) (WalletConfig, error) {
	address = NormalizeAddress(address)
	if err := ValidateAddress(address); err != nil {
		return WalletConfig{}, err
	}

	if err := validateDate(startDate); err != nil {
		return WalletConfig{}, err
	}
	if err := validateDate(endDate); err != nil {
		return WalletConfig{}, err
	}
	if endDate < startDate {
		return WalletConfig{}, ErrEndBeforeStart
	}

	parsedThreshold, err := decimal.NewFromString(strings.TrimSpace(threshold))
	if err != nil || parsedThreshold.IsNegative() {
		return WalletConfig{}, ErrInvalidThreshold
	}

	cfg := WalletConfig{
		Address:   address,
		StartDate: startDate,
		EndDate:   endDate,
		Threshold: parsedThreshold,
	}

	return cfg, validator.Validate(cfg)
}
