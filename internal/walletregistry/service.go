package walletregistry

import "context"

// Service defines the interface for managing the set of wallets whose balance
// and transaction activity should be monitored.
//
// Implementations are responsible for validating input and delegating
// persistence to the configured WalletStorage. All mutations replace whole
// records; partial updates do not exist at this level.
type Service interface {
	// SetWallet validates the given wallet parameters and stores them,
	// replacing any existing configuration for the same address.
	//
	// Parameters:
	//   - ctx: controls cancellation and timeout.
	//   - address: the bitcoin address to track. An optional "bitcoin:" URI
	//     scheme prefix is stripped before validation.
	//   - startDate, endDate: inclusive tracking window bounds (YYYY-MM-DD).
	//   - threshold: balance in BTC below which an alert should be raised.
	//
	// Returns:
	//   - The stored WalletConfig on success.
	//   - A validation sentinel error (ErrInvalidAddress, ErrInvalidDate,
	//     ErrEndBeforeStart, ErrInvalidThreshold) if any field is rejected,
	//     in which case nothing is persisted.
	SetWallet(ctx context.Context, address, startDate, endDate, threshold string) (WalletConfig, error)

	// RemoveWallet deletes the configuration for the given address. This is an
	// administrative operation; the monitoring core never removes wallets on
	// its own. Returns ErrWalletNotFound if the address is not registered.
	RemoveWallet(ctx context.Context, address string) error

	// ListWallets returns the currently stored address-to-config mapping.
	ListWallets(ctx context.Context) (map[string]WalletConfig, error)
}

// service is the concrete implementation of the Service interface.
// It uses a WalletStorage backend to persist wallet configurations.
type service struct {
	walletStorage WalletStorage
}

// Ensure compile-time compliance with the Service interface.
var _ Service = (*service)(nil)

// New creates a new instance of the walletregistry service using the
// provided WalletStorage implementation.
func New(ws WalletStorage) *service {
	return &service{
		walletStorage: ws,
	}
}

// SetWallet validates the input, then loads, replaces and saves the full
// wallet mapping. The read-modify-write is a whole-store overwrite: concurrent
// writers race with last-writer-wins semantics, which is accepted.
func (s *service) SetWallet(ctx context.Context, address, startDate, endDate, threshold string) (WalletConfig, error) {
	cfg, err := buildWalletConfig(address, startDate, endDate, threshold)
	if err != nil {
		return WalletConfig{}, err
	}

	wallets, err := s.walletStorage.LoadWallets(ctx)
	if err != nil {
		return WalletConfig{}, err
	}
	if wallets == nil {
		wallets = make(map[string]WalletConfig)
	}

	wallets[cfg.Address] = cfg
	if err := s.walletStorage.SaveWallets(ctx, wallets); err != nil {
		return WalletConfig{}, err
	}

	return cfg, nil
}

// RemoveWallet deletes the configuration for the given address and persists
// the shrunken mapping.
func (s *service) RemoveWallet(ctx context.Context, address string) error {
	address = NormalizeAddress(address)

	wallets, err := s.walletStorage.LoadWallets(ctx)
	if err != nil {
		return err
	}

	if _, ok := wallets[address]; !ok {
		return ErrWalletNotFound
	}

	delete(wallets, address)
	return s.walletStorage.SaveWallets(ctx, wallets)
}

// ListWallets returns the currently stored wallet configurations.
func (s *service) ListWallets(ctx context.Context) (map[string]WalletConfig, error) {
	return s.walletStorage.LoadWallets(ctx)
}
