// Package mempool implements the balancewatch.Ledger interface against an
// esplora-style HTTP API (mempool.space layout). Calls are best-effort: any
// transport failure or non-success status is mapped to
// balancewatch.ErrLedgerUnavailable and the caller's next poll cycle acts as
// the retry.
package mempool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gabapcia/btcwatch/internal/balancewatch"
	transporthttp "github.com/gabapcia/btcwatch/internal/pkg/transport/http"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the public mempool.space esplora API root.
const DefaultBaseURL = "https://mempool.space/api"

// dialFunc constructs the shared HTTP client. Split out so tests and callers
// can substitute their own transport configuration.
type dialFunc func() *retryablehttp.Client

// client talks to the esplora API. One HTTP client is shared across all
// calls; it is created lazily on first use and recreated after Close.
type client struct {
	baseURL string

	mu   sync.Mutex
	conn *retryablehttp.Client
	dial dialFunc
}

// Ensure client implements the balancewatch.Ledger interface at compile time.
var _ balancewatch.Ledger = (*client)(nil)

// config holds construction-time options for the client.
type config struct {
	dial dialFunc
}

// Option configures the client during construction.
type Option func(*config)

// WithDialer overrides how the shared HTTP client is constructed.
// Default: transporthttp.NewClient() (no retries, 10s timeout).
func WithDialer(dial dialFunc) Option {
	return func(c *config) {
		c.dial = dial
	}
}

// NewClient creates an esplora API client rooted at baseURL (without a
// trailing slash), e.g. "https://mempool.space/api".
func NewClient(baseURL string, opts ...Option) *client {
	cfg := config{
		dial: func() *retryablehttp.Client {
			return transporthttp.NewClient()
		},
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{
		baseURL: baseURL,
		dial:    cfg.dial,
	}
}

// session returns the shared HTTP client, creating it on first use or after
// a Close.
func (c *client) session() *retryablehttp.Client {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		c.conn = c.dial()
	}
	return c.conn
}

// Close drops the shared HTTP client and releases its idle connections.
// The next call recreates it.
func (c *client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		c.conn.HTTPClient.CloseIdleConnections()
		c.conn = nil
	}
}

// getJSON performs a GET against the given URL and decodes the JSON body into
// dest. Every failure mode (transport error, non-200 status, undecodable
// body) is reported as balancewatch.ErrLedgerUnavailable.
func (c *client) getJSON(ctx context.Context, url string, dest any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := c.session().Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", balancewatch.ErrLedgerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d from %s", balancewatch.ErrLedgerUnavailable, resp.StatusCode, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("%w: malformed response from %s: %v", balancewatch.ErrLedgerUnavailable, url, err)
	}

	return nil
}

// addressStats mirrors the esplora per-address counters. Absent fields
// decode to zero.
type addressStats struct {
	FundedTxoSum int64 `json:"funded_txo_sum"`
	SpentTxoSum  int64 `json:"spent_txo_sum"`
	TxCount      int64 `json:"tx_count"`
}

// addressInfo mirrors the esplora address endpoint payload.
type addressInfo struct {
	ChainStats   addressStats `json:"chain_stats"`
	MempoolStats addressStats `json:"mempool_stats"`
}

// mempoolTransaction mirrors the subset of the esplora mempool transaction
// object this client consumes.
type mempoolTransaction struct {
	TxID string `json:"txid"`
}

// AddressSummary fetches the confirmed and mempool activity totals for an
// address from GET {base}/address/{address}.
func (c *client) AddressSummary(ctx context.Context, address string) (balancewatch.LedgerSummary, error) {
	url := fmt.Sprintf("%s/address/%s", c.baseURL, address)

	var info addressInfo
	if err := c.getJSON(ctx, url, &info); err != nil {
		return balancewatch.LedgerSummary{}, err
	}

	summary := balancewatch.LedgerSummary{
		FundedConfirmed: info.ChainStats.FundedTxoSum,
		SpentConfirmed:  info.ChainStats.SpentTxoSum,
		FundedMempool:   info.MempoolStats.FundedTxoSum,
		SpentMempool:    info.MempoolStats.SpentTxoSum,
		TxCount:         info.ChainStats.TxCount,
	}
	return summary, nil
}

// PendingTransactions fetches the address's mempool transaction ids, newest
// first, from GET {base}/address/{address}/txs/mempool.
func (c *client) PendingTransactions(ctx context.Context, address string) ([]string, error) {
	url := fmt.Sprintf("%s/address/%s/txs/mempool", c.baseURL, address)

	var txs []mempoolTransaction
	if err := c.getJSON(ctx, url, &txs); err != nil {
		return nil, err
	}

	ids := make([]string, len(txs))
	for i, tx := range txs {
		ids[i] = tx.TxID
	}
	return ids, nil
}
