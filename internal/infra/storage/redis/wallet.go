package redis

import (
	"context"
	"encoding/json"

	"github.com/gabapcia/btcwatch/internal/balancewatch"
	"github.com/gabapcia/btcwatch/internal/walletregistry"

	redis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// walletHashKey is the Redis hash holding the wallet configurations: one
// field per address, the value being the JSON-encoded tracking parameters.
const walletHashKey = "btcwatch:wallets"

// walletRecord is the stored form of one wallet configuration. The field
// names match the original flat-file layout so both backends stay
// interchangeable.
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

// LoadWallets implements walletregistry.WalletStorage on the Redis hash.
//
// Corrupt fields are skipped rather than reported: a partially damaged store
// degrades to the readable subset, never to an error the caller must handle.
func (c *client) LoadWallets(ctx context.Context) (map[string]walletregistry.WalletConfig, error) {
	fields, err := c.conn.HGetAll(ctx, walletHashKey).Result()
	if err != nil {
		return nil, err
	}

	wallets := make(map[string]walletregistry.WalletConfig, len(fields))
	for address, raw := range fields {
		var record walletRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			continue
		}

		wallets[address] = walletregistry.WalletConfig{
			Address:   address,
			StartDate: record.StartDate,
			EndDate:   record.EndDate,
			Threshold: record.threshold().Decimal,
		}
	}

	return wallets, nil
}

// SaveWallets implements walletregistry.WalletStorage. The hash is deleted
// and rewritten in a single pipeline: a full overwrite with last-writer-wins
// semantics, exactly like the flat-file backend.
func (c *client) SaveWallets(ctx context.Context, wallets map[string]walletregistry.WalletConfig) error {
	encoded := make(map[string]string, len(wallets))
	for address, cfg := range wallets {
		threshold := json.Number(cfg.Threshold.String())
		raw, err := json.Marshal(walletRecord{
			StartDate: cfg.StartDate,
			EndDate:   cfg.EndDate,
			Threshold: &threshold,
		})
		if err != nil {
			return err
		}
		encoded[address] = string(raw)
	}

	_, err := c.conn.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, walletHashKey)
		if len(encoded) > 0 {
			pipe.HSet(ctx, walletHashKey, encoded)
		}
		return nil
	})
	return err
}

// WatchedWallets implements balancewatch.WalletStorage over the same hash,
// preserving the absence of a threshold so the monitoring loop can tell a
// fully configured wallet from a partial one.
func (c *client) WatchedWallets(ctx context.Context) (map[string]balancewatch.Wallet, error) {
	fields, err := c.conn.HGetAll(ctx, walletHashKey).Result()
	if err != nil {
		return nil, err
	}

	wallets := make(map[string]balancewatch.Wallet, len(fields))
	for address, raw := range fields {
		var record walletRecord
		if err := json.Unmarshal([]byte(raw), &record); err != nil {
			continue
		}

		wallets[address] = balancewatch.Wallet{
			Address:   address,
			StartDate: record.StartDate,
			EndDate:   record.EndDate,
			Threshold: record.threshold(),
		}
	}

	return wallets, nil
}

// Compile-time assertions that the client satisfies both storage contracts.
var (
	_ walletregistry.WalletStorage = (*client)(nil)
	_ balancewatch.WalletStorage   = (*client)(nil)
)
