package balancewatch

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gabapcia/btcwatch/internal/pkg/logger"
	"github.com/gabapcia/btcwatch/internal/pkg/resilience/retry"

	"github.com/shopspring/decimal"
)

var (
	// ErrNoWalletConfigured is returned by StartTracking when no wallet has a
	// complete tracking configuration (window bounds and threshold).
	ErrNoWalletConfigured = errors.New("no wallet configured")

	// ErrSessionAlreadyActive is returned by StartTracking when the session is
	// already polling.
	ErrSessionAlreadyActive = errors.New("tracking session already active")

	// ErrSessionNotFound is returned by StopTracking when the session is not
	// active.
	ErrSessionNotFound = errors.New("tracking session not found")
)

// defaultPollInterval is the fixed delay between poll cycle completions.
// There is no backoff and no jitter; a failed cycle simply waits for the next
// tick like a successful one.
const defaultPollInterval = 30 * time.Second

// State describes the lifecycle position of a tracking session.
type State string

const (
	// StateIdle means no session exists: either tracking was never started or
	// it terminated and all session state was discarded.
	StateIdle State = "idle"

	// StateActive means the session's poll loop is running.
	StateActive State = "active"
)

// BalanceReport is the outcome of a one-shot balance check for one wallet.
type BalanceReport struct {
	Address     string          // wallet address the report refers to
	Confirmed   decimal.Decimal // on-chain balance in BTC
	Unconfirmed decimal.Decimal // pending mempool balance in BTC
	Total       decimal.Decimal // confirmed plus unconfirmed
	TxCount     int64           // number of confirmed transactions
	Unavailable bool            // true when the ledger could not be reached for this address
}

// Service is the control surface the presentation layer drives the monitoring
// core through.
type Service interface {
	// StartTracking activates a polling session for the given session id.
	//
	// Preconditions: at least one wallet must be fully configured, and the
	// ledger service must answer a connectivity probe. On success the session
	// polls in the background until StopTracking is called or the wallet set
	// becomes empty.
	//
	// Returns:
	//   - ErrNoWalletConfigured if no wallet qualifies.
	//   - ErrSessionAlreadyActive if the session is already polling.
	//   - An error wrapping ErrLedgerUnavailable if the connectivity probe fails.
	StartTracking(ctx context.Context, sessionID string) error

	// StopTracking signals the session's poll loop to terminate and waits for
	// it to wind down. Cancellation is cooperative: it takes effect at the
	// next cycle boundary, not mid-cycle. Returns ErrSessionNotFound if the
	// session is not active.
	StopTracking(sessionID string) error

	// State reports whether the given session is currently polling.
	State(sessionID string) State

	// CheckBalances performs a one-shot balance snapshot across all stored
	// wallets. It requires no active session and touches no session state.
	// Addresses the ledger cannot answer for are marked Unavailable rather
	// than failing the whole snapshot.
	CheckBalances(ctx context.Context) (map[string]BalanceReport, error)
}

// service is the concrete implementation of the Service interface. It owns a
// registry of live sessions; everything else is per-session state carried by
// the session values themselves.
type service struct {
	mu       sync.Mutex
	sessions map[string]*session

	walletStorage WalletStorage
	ledger        Ledger
	notifier      Notifier

	pollInterval time.Duration
	connectRetry retry.Retry
}

// Ensure compile-time compliance with the Service interface.
var _ Service = (*service)(nil)

// config holds the construction-time options of the service.
type config struct {
	pollInterval time.Duration
	connectRetry retry.Retry
}

// Option configures the service during construction.
type Option func(*config)

// WithPollInterval overrides the fixed delay between poll cycles.
// Default: 30 seconds.
func WithPollInterval(d time.Duration) Option {
	return func(c *config) {
		c.pollInterval = d
	}
}

// WithConnectivityRetry sets a retry policy for the one-off ledger
// connectivity probe performed when a session starts. Per-cycle ledger calls
// are never retried regardless of this option; the next cycle is their retry
// mechanism. Default: a single probe attempt.
func WithConnectivityRetry(r retry.Retry) Option {
	return func(c *config) {
		c.connectRetry = r
	}
}

// New creates the monitoring service from its three collaborators: the wallet
// store it re-reads every cycle, the ledger it polls, and the notifier it
// reports through.
func New(ws WalletStorage, l Ledger, n Notifier, opts ...Option) *service {
	cfg := config{
		pollInterval: defaultPollInterval,
		connectRetry: nil,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &service{
		sessions:      make(map[string]*session),
		walletStorage: ws,
		ledger:        l,
		notifier:      n,
		pollInterval:  cfg.pollInterval,
		connectRetry:  cfg.connectRetry,
	}
}

// StartTracking validates the preconditions, registers a new session and
// launches its poll loop in a background goroutine.
func (s *service) StartTracking(ctx context.Context, sessionID string) error {
	wallets, err := s.walletStorage.WatchedWallets(ctx)
	if err != nil {
		logger.Warn(ctx, "wallet storage unavailable, treating as empty",
			"session.id", sessionID,
			"error", err,
		)
		wallets = nil
	}

	configured := make([]Wallet, 0, len(wallets))
	for address, wallet := range wallets {
		wallet.Address = address
		if wallet.isConfigured() {
			configured = append(configured, wallet)
		}
	}
	if len(configured) == 0 {
		return ErrNoWalletConfigured
	}

	// Probe the ledger once before committing to a session, so an unreachable
	// service is reported to the caller instead of silently producing empty
	// cycles.
	if err := s.probeLedger(ctx, configured[0].Address); err != nil {
		return err
	}

	s.mu.Lock()
	if _, ok := s.sessions[sessionID]; ok {
		s.mu.Unlock()
		return ErrSessionAlreadyActive
	}

	// The session is detached from the caller's context: its lifetime is
	// governed by StopTracking (or the wallet set emptying), not by the
	// request that started it.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	sess := &session{
		id:     sessionID,
		cancel: cancel,
		seen:   newSeenTransactions(),
		done:   make(chan struct{}),
	}
	s.sessions[sessionID] = sess
	s.mu.Unlock()

	if err := s.notifier.TrackingStarted(ctx, sessionID); err != nil {
		logger.Error(ctx, "tracking started notification failed",
			"session.id", sessionID,
			"error", err,
		)
	}

	go s.run(runCtx, sess)
	return nil
}

// probeLedger verifies that the ledger answers for the given address,
// applying the configured retry policy if any.
func (s *service) probeLedger(ctx context.Context, address string) error {
	probe := func() error {
		_, err := s.ledger.AddressSummary(ctx, address)
		return err
	}

	if s.connectRetry != nil {
		return s.connectRetry.Execute(ctx, probe)
	}
	return probe()
}

// StopTracking cancels the session's poll loop and blocks until it has fully
// wound down, so callers observe the terminal notification before returning.
func (s *service) StopTracking(sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	sess.cancel()
	<-sess.done
	return nil
}

// State reports whether the given session id has a live poll loop.
func (s *service) State(sessionID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[sessionID]; ok {
		return StateActive
	}
	return StateIdle
}

// release removes a terminated session from the registry.
func (s *service) release(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
}

// CheckBalances fetches a fresh summary for every stored wallet and derives
// its confirmed, unconfirmed and total balances.
func (s *service) CheckBalances(ctx context.Context) (map[string]BalanceReport, error) {
	wallets, err := s.walletStorage.WatchedWallets(ctx)
	if err != nil {
		return nil, err
	}

	reports := make(map[string]BalanceReport, len(wallets))
	for address := range wallets {
		summary, err := s.ledger.AddressSummary(ctx, address)
		if err != nil {
			logger.Warn(ctx, "address summary unavailable",
				"wallet.address", address,
				"error", err,
			)
			reports[address] = BalanceReport{Address: address, Unavailable: true}
			continue
		}

		reports[address] = BalanceReport{
			Address:     address,
			Confirmed:   ConfirmedBalance(summary),
			Unconfirmed: UnconfirmedBalance(summary),
			Total:       ComputeBalance(summary),
			TxCount:     summary.TxCount,
		}
	}

	return reports, nil
}
