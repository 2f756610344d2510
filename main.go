package main

import (
	"context"
	"fmt"
	"os"

	"github.com/gabapcia/btcwatch/internal/balancewatch"
	"github.com/gabapcia/btcwatch/internal/config"
	"github.com/gabapcia/btcwatch/internal/handlers/cli"
	"github.com/gabapcia/btcwatch/internal/infra/ledger/mempool"
	"github.com/gabapcia/btcwatch/internal/infra/storage/jsonfile"
	"github.com/gabapcia/btcwatch/internal/infra/storage/redis"
	"github.com/gabapcia/btcwatch/internal/pkg/logger"
	"github.com/gabapcia/btcwatch/internal/pkg/resilience/retry"
	"github.com/gabapcia/btcwatch/internal/pkg/telemetry"
	transporthttp "github.com/gabapcia/btcwatch/internal/pkg/transport/http"
	"github.com/gabapcia/btcwatch/internal/walletregistry"

	"github.com/hashicorp/go-retryablehttp"
)

// serviceName identifies this service in telemetry backends.
const serviceName = "btcwatch"

// walletStore is the combined persistence contract both services consume:
// the registry reads and writes configurations, the monitoring core re-reads
// the watched set every cycle.
type walletStore interface {
	walletregistry.WalletStorage
	balancewatch.WalletStorage
}

// newWalletStore builds the configured storage backend. The returned cleanup
// function releases backend resources and is safe to call unconditionally.
func newWalletStore(ctx context.Context, cfg config.Config) (walletStore, func(), error) {
	switch cfg.Storage {
	case config.StorageRedis:
		client, err := redis.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return client, func() { _ = client.Close() }, nil
	case config.StorageJSONFile:
		return jsonfile.New(cfg.WalletsFile), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, serviceName)
		if err != nil {
			fmt.Fprintln(os.Stderr, "telemetry initialization failed:", err)
			os.Exit(1)
		}
		defer shutdown(ctx)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		fmt.Fprintln(os.Stderr, "logger initialization failed:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	store, closeStore, err := newWalletStore(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "wallet store initialization failed", "error", err)
	}
	defer closeStore()

	ledger := mempool.NewClient(cfg.LedgerBaseURL, mempool.WithDialer(func() *retryablehttp.Client {
		return transporthttp.NewClient(transporthttp.WithTimeout(cfg.HTTPTimeout))
	}))
	defer ledger.Close()

	notifier := cli.NewStdoutNotifier(ctx)

	wr := walletregistry.New(store)
	bw := balancewatch.New(store, ledger, notifier,
		balancewatch.WithPollInterval(cfg.PollInterval),
		balancewatch.WithConnectivityRetry(retry.New()),
	)

	if err := cli.Run(ctx, wr, bw); err != nil {
		logger.Fatal(ctx, "btcwatch terminated with error", "error", err)
	}
}
