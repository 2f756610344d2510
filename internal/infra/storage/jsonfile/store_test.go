package jsonfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gabapcia/btcwatch/internal/walletregistry"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"

func tempStorePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "wallet_settings.json")
}

func TestStore_LoadWallets(t *testing.T) {
	t.Run("should return an empty mapping when the file does not exist", func(t *testing.T) {
		s := New(tempStorePath(t))

		wallets, err := s.LoadWallets(t.Context())
		require.NoError(t, err)
		assert.Empty(t, wallets)
	})

	t.Run("should return an empty mapping when the file is corrupt", func(t *testing.T) {
		path := tempStorePath(t)
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		s := New(path)

		wallets, err := s.LoadWallets(t.Context())
		require.NoError(t, err)
		assert.Empty(t, wallets)
	})

	t.Run("should decode a stored configuration", func(t *testing.T) {
		path := tempStorePath(t)
		raw := `{
  "` + testAddress + `": {
    "start_date": "2026-01-01",
    "end_date": "2026-12-31",
    "threshold": 0.01
  }
}`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		s := New(path)

		wallets, err := s.LoadWallets(t.Context())
		require.NoError(t, err)
		require.Contains(t, wallets, testAddress)

		cfg := wallets[testAddress]
		assert.Equal(t, testAddress, cfg.Address)
		assert.Equal(t, "2026-01-01", cfg.StartDate)
		assert.Equal(t, "2026-12-31", cfg.EndDate)
		assert.Equal(t, "0.01", cfg.Threshold.String())
	})
}

func TestStore_SaveWallets(t *testing.T) {
	t.Run("should roundtrip a saved configuration", func(t *testing.T) {
		s := New(tempStorePath(t))
		ctx := t.Context()

		in := map[string]walletregistry.WalletConfig{
			testAddress: {
				Address:   testAddress,
				StartDate: "2026-01-01",
				EndDate:   "2026-12-31",
				Threshold: decimal.RequireFromString("0.25"),
			},
		}
		require.NoError(t, s.SaveWallets(ctx, in))

		out, err := s.LoadWallets(ctx)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("should overwrite the whole file on every save", func(t *testing.T) {
		s := New(tempStorePath(t))
		ctx := t.Context()

		require.NoError(t, s.SaveWallets(ctx, map[string]walletregistry.WalletConfig{
			testAddress: {Address: testAddress, StartDate: "2026-01-01", EndDate: "2026-12-31"},
		}))
		require.NoError(t, s.SaveWallets(ctx, map[string]walletregistry.WalletConfig{}))

		out, err := s.LoadWallets(ctx)
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("should store the threshold as a JSON number", func(t *testing.T) {
		path := tempStorePath(t)
		s := New(path)
		ctx := t.Context()

		require.NoError(t, s.SaveWallets(ctx, map[string]walletregistry.WalletConfig{
			testAddress: {
				Address:   testAddress,
				StartDate: "2026-01-01",
				EndDate:   "2026-12-31",
				Threshold: decimal.RequireFromString("0.01"),
			},
		}))

		raw, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"threshold": 0.01`)
		assert.NotContains(t, string(raw), `"threshold": "0.01"`)
	})
}

func TestStore_WatchedWallets(t *testing.T) {
	t.Run("should expose a missing threshold as an invalid NullDecimal", func(t *testing.T) {
		path := tempStorePath(t)
		raw := `{
  "` + testAddress + `": {
    "start_date": "2026-01-01",
    "end_date": "2026-12-31"
  }
}`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		s := New(path)

		wallets, err := s.WatchedWallets(t.Context())
		require.NoError(t, err)
		require.Contains(t, wallets, testAddress)

		wallet := wallets[testAddress]
		assert.Equal(t, "2026-01-01", wallet.StartDate)
		assert.False(t, wallet.Threshold.Valid)
	})

	t.Run("should expose a stored threshold as a valid NullDecimal", func(t *testing.T) {
		path := tempStorePath(t)
		raw := `{"` + testAddress + `": {"start_date": "2026-01-01", "end_date": "2026-12-31", "threshold": 0.5}}`
		require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

		s := New(path)

		wallets, err := s.WatchedWallets(t.Context())
		require.NoError(t, err)

		wallet := wallets[testAddress]
		require.True(t, wallet.Threshold.Valid)
		assert.Equal(t, "0.5", wallet.Threshold.Decimal.String())
	})

	t.Run("should return an empty mapping for a missing file", func(t *testing.T) {
		s := New(tempStorePath(t))

		wallets, err := s.WatchedWallets(t.Context())
		require.NoError(t, err)
		assert.Empty(t, wallets)
	})
}
