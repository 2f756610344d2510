// Package jsonfile provides the flat-file implementation of the wallet
// configuration store: a single JSON object keyed by address. It fails soft
// on reads — a missing or corrupt file yields an empty mapping — and every
// save rewrites the whole file (last-writer-wins).
package jsonfile

import (
	"context"
	"encoding/json"
	"os"

	"github.com/gabapcia/btcwatch/internal/balancewatch"
	"github.com/gabapcia/btcwatch/internal/walletregistry"

	"github.com/shopspring/decimal"
)

// walletRecord is the stored form of one wallet configuration, matching the
// layout of the original wallet settings file.
type walletRecord struct {
	StartDate string       `json:"start_date"`
	EndDate   string       `json:"end_date"`
	Threshold *json.Number `json:"threshold,omitempty"`
}

// threshold converts the stored numeric threshold into a NullDecimal:
// invalid when the field is absent or unparseable.
func (r walletRecord) threshold() decimal.NullDecimal {
	if r.Threshold == nil {
		return decimal.NullDecimal{}
	}

	d, err := decimal.NewFromString(r.Threshold.String())
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

// store persists the wallet mapping in a single JSON file.
type store struct {
	path string
}

// Compile-time assertions that the store satisfies both storage contracts.
var (
	_ walletregistry.WalletStorage = (*store)(nil)
	_ balancewatch.WalletStorage   = (*store)(nil)
)

// New creates a flat-file wallet store at the given path. The file is created
// on first save; it does not need to exist beforehand.
func New(path string) *store {
	return &store{path: path}
}

// read loads and decodes the backing file. A missing or undecodable file is
// not an error: it decodes to an empty mapping so the caller always gets a
// usable (possibly empty) wallet set.
func (s *store) read() map[string]walletRecord {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}

	var records map[string]walletRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil
	}
	return records
}

// LoadWallets implements walletregistry.WalletStorage.
func (s *store) LoadWallets(ctx context.Context) (map[string]walletregistry.WalletConfig, error) {
	records := s.read()

	wallets := make(map[string]walletregistry.WalletConfig, len(records))
	for address, record := range records {
		wallets[address] = walletregistry.WalletConfig{
			Address:   address,
			StartDate: record.StartDate,
			EndDate:   record.EndDate,
			Threshold: record.threshold().Decimal,
		}
	}

	return wallets, nil
}

// SaveWallets implements walletregistry.WalletStorage by rewriting the whole
// file with the given mapping.
func (s *store) SaveWallets(ctx context.Context, wallets map[string]walletregistry.WalletConfig) error {
	records := make(map[string]walletRecord, len(wallets))
	for address, cfg := range wallets {
		threshold := json.Number(cfg.Threshold.String())
		records[address] = walletRecord{
			StartDate: cfg.StartDate,
			EndDate:   cfg.EndDate,
			Threshold: &threshold,
		}
	}

	raw, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.path, raw, 0o644)
}

// WatchedWallets implements balancewatch.WalletStorage over the same file,
// preserving the absence of a threshold so the monitoring loop can tell a
// fully configured wallet from a partial one.
func (s *store) WatchedWallets(ctx context.Context) (map[string]balancewatch.Wallet, error) {
	records := s.read()

	wallets := make(map[string]balancewatch.Wallet, len(records))
	for address, record := range records {
		wallets[address] = balancewatch.Wallet{
			Address:   address,
			StartDate: record.StartDate,
			EndDate:   record.EndDate,
			Threshold: record.threshold(),
		}
	}

	return wallets, nil
}
