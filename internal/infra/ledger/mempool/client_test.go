package mempool

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gabapcia/btcwatch/internal/balancewatch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAddress = "1BoatSLRHtKNngkdXEeobR76b53LETtpyT"

func TestClient_AddressSummary(t *testing.T) {
	t.Run("should decode the address endpoint payload", func(t *testing.T) {
		var requestedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.Path
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"chain_stats": {"funded_txo_sum": 150000000, "spent_txo_sum": 50000000, "tx_count": 12},
				"mempool_stats": {"funded_txo_sum": 10000000, "spent_txo_sum": 2000000, "tx_count": 1}
			}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		defer c.Close()

		summary, err := c.AddressSummary(t.Context(), testAddress)
		require.NoError(t, err)

		assert.Equal(t, "/address/"+testAddress, requestedPath)
		assert.Equal(t, int64(150000000), summary.FundedConfirmed)
		assert.Equal(t, int64(50000000), summary.SpentConfirmed)
		assert.Equal(t, int64(10000000), summary.FundedMempool)
		assert.Equal(t, int64(2000000), summary.SpentMempool)
		assert.Equal(t, int64(12), summary.TxCount)
	})

	t.Run("should default absent counters to zero", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		defer c.Close()

		summary, err := c.AddressSummary(t.Context(), testAddress)
		require.NoError(t, err)
		assert.Equal(t, balancewatch.LedgerSummary{}, summary)
	})

	t.Run("should report a non-success status as ledger unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		c := NewClient(server.URL)
		defer c.Close()

		_, err := c.AddressSummary(t.Context(), testAddress)
		require.Error(t, err)
		assert.ErrorIs(t, err, balancewatch.ErrLedgerUnavailable)
	})

	t.Run("should report a malformed body as ledger unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{broken`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		defer c.Close()

		_, err := c.AddressSummary(t.Context(), testAddress)
		require.Error(t, err)
		assert.ErrorIs(t, err, balancewatch.ErrLedgerUnavailable)
	})

	t.Run("should report a transport failure as ledger unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // immediately unreachable

		c := NewClient(server.URL)
		defer c.Close()

		_, err := c.AddressSummary(t.Context(), testAddress)
		require.Error(t, err)
		assert.ErrorIs(t, err, balancewatch.ErrLedgerUnavailable)
	})
}

func TestClient_PendingTransactions(t *testing.T) {
	t.Run("should decode transaction ids preserving order", func(t *testing.T) {
		var requestedPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestedPath = r.URL.Path
			_, _ = w.Write([]byte(`[{"txid": "tx-newest"}, {"txid": "tx-older"}]`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		defer c.Close()

		ids, err := c.PendingTransactions(t.Context(), testAddress)
		require.NoError(t, err)

		assert.Equal(t, "/address/"+testAddress+"/txs/mempool", requestedPath)
		assert.Equal(t, []string{"tx-newest", "tx-older"}, ids)
	})

	t.Run("should return an empty slice when the mempool is empty", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}))
		defer server.Close()

		c := NewClient(server.URL)
		defer c.Close()

		ids, err := c.PendingTransactions(t.Context(), testAddress)
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("should report a non-success status as ledger unavailable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL)
		defer c.Close()

		_, err := c.PendingTransactions(t.Context(), testAddress)
		require.Error(t, err)
		assert.ErrorIs(t, err, balancewatch.ErrLedgerUnavailable)
	})
}

func TestClient_Close(t *testing.T) {
	t.Run("should recreate the session after close", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer server.Close()

		c := NewClient(server.URL)

		_, err := c.AddressSummary(t.Context(), testAddress)
		require.NoError(t, err)

		c.Close()

		_, err = c.AddressSummary(t.Context(), testAddress)
		require.NoError(t, err)
	})

	t.Run("should be safe to close an unused client", func(t *testing.T) {
		c := NewClient(DefaultBaseURL)
		assert.NotPanics(t, c.Close)
	})
}
