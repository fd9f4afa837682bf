package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"landchain/internal/audit"
	"landchain/internal/auth"
	"landchain/internal/backend"
	"landchain/internal/chainlink"
	"landchain/internal/chainlink/adapters/devwallet"
	"landchain/internal/chainlink/adapters/rpcprovider"
	landService "landchain/internal/land/service"
	linkageAdapters "landchain/internal/linkage/adapters"
	linkageService "landchain/internal/linkage/service"
	"landchain/internal/platform/config"
	"landchain/internal/platform/httpserver"
	"landchain/internal/platform/kafka"
	"landchain/internal/platform/logger"
	"landchain/internal/platform/metrics"
	"landchain/internal/platform/redis"
	"landchain/internal/restore"
	httptransport "landchain/internal/transport/http"
	"landchain/internal/wallet"
)

const auditQueueSize = 256

func serveCommand(cfg *config.Config) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the console API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}
			log := logger.New(cfg.Log.Level, cfg.Log.Format)
			slog.SetDefault(log)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(ctx, *cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "override LANDCHAIN_SERVER_ADDR")
	return cmd
}

// app is the wired process: one wallet session, the services over it, and
// the background workers feeding audit and restore hints.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	session *wallet.Session
	router  http.Handler

	auditWorker *audit.Worker
	tracker     *restore.Tracker
	hints       restore.Store
	unwatch     func()
	closers     []func()
}

func newApp(ctx context.Context, cfg config.Config, log *slog.Logger) (*app, error) {
	a := &app{cfg: cfg, logger: log}
	wired := false
	defer func() {
		if !wired {
			a.Close()
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)
	health := map[string]httptransport.HealthCheck{}

	publisher, err := a.auditPublisher(cfg.Kafka, health)
	if err != nil {
		return nil, err
	}

	target, err := chainlink.DescriptorFromConfig(cfg.Chain)
	if err != nil {
		return nil, err
	}
	provider, err := a.provider(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.session, err = wallet.New(chainlink.New(provider), target,
		wallet.WithLogger(log),
		wallet.WithMetrics(m),
		wallet.WithAuditPublisher(publisher),
	)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.session.Close)

	a.hints, err = a.hintStore(ctx, cfg.Redis, health)
	if err != nil {
		return nil, err
	}

	client := backend.New(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithExplorerURL(cfg.Chain.ExplorerURL),
		backend.WithLogger(log),
		backend.WithMetrics(m),
	)
	linkage, err := linkageService.New(client, linkageAdapters.NewSessionAdapter(a.session),
		linkageService.WithLogger(log),
		linkageService.WithMetrics(m),
		linkageService.WithAuditPublisher(publisher),
	)
	if err != nil {
		return nil, err
	}
	lands, err := landService.New(client,
		landService.WithLogger(log),
		landService.WithMetrics(m),
		landService.WithAuditPublisher(publisher),
	)
	if err != nil {
		return nil, err
	}

	tokens := auth.NewTokenParser(cfg.Auth.SigningKey)
	a.router = httptransport.NewRouter(httptransport.RouterConfig{
		Logger:   log,
		Metrics:  m,
		Gatherer: registry,
		Health:   health,
	},
		httptransport.NewWalletHandler(a.session, log),
		httptransport.NewLinkageHandler(linkage, tokens, log),
		httptransport.NewLandHandler(lands, tokens, log),
	)
	wired = true
	return a, nil
}

// provider picks the signing provider: a wallet bridge when a URL is set, the
// in-process dev wallet when a key is set, otherwise none.
func (a *app) provider(ctx context.Context, cfg config.Config) (chainlink.Provider, error) {
	switch {
	case cfg.Provider.URL != "":
		p, err := rpcprovider.Dial(ctx, cfg.Provider.URL, rpcprovider.WithLogger(a.logger))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, p.Close)
		return p, nil
	case cfg.Provider.DevKey != "":
		id, err := cfg.Chain.TargetID()
		if err != nil {
			return nil, err
		}
		w, err := devwallet.FromHexKey(id, cfg.Provider.DevKey)
		if err != nil {
			return nil, err
		}
		a.logger.Warn("using in-process dev wallet", "address", w.Address())
		return w, nil
	}
	a.logger.Warn("no wallet provider configured; wallet operations will report provider_unavailable")
	return nil, nil
}

func (a *app) auditPublisher(cfg config.Kafka, health map[string]httptransport.HealthCheck) (*audit.Publisher, error) {
	if len(cfg.Brokers) == 0 {
		return audit.NewPublisher(audit.NewInMemoryStore(), a.logger), nil
	}
	producer, err := kafka.NewProducer(cfg.Brokers, cfg.AuditTopic)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, producer.Close)
	health["kafka"] = producer.Health

	queue := audit.NewAsyncStore(auditQueueSize)
	a.auditWorker = audit.NewWorker(audit.NewKafkaStore(producer), queue.Inbox(), a.logger)
	return audit.NewPublisher(queue, a.logger), nil
}

func (a *app) hintStore(ctx context.Context, cfg config.RedisConfig, health map[string]httptransport.HealthCheck) (restore.Store, error) {
	client, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return restore.NewInMemoryStore(), nil
	}
	a.closers = append(a.closers, func() { _ = client.Close() })
	health["redis"] = client.Health
	return restore.NewRedisStore(client.Client), nil
}

// Run restores the previous wallet connection, then serves until ctx is done.
func (a *app) Run(ctx context.Context) error {
	key := a.cfg.Server.SessionKey
	wasConnected, err := a.hints.WasConnected(ctx, key)
	if err != nil {
		a.logger.WarnContext(ctx, "failed to read wallet restore hint", "key", key, "error", err)
	}

	a.tracker = restore.NewTracker(a.hints, key, wasConnected, a.logger)
	a.unwatch = a.session.Watch(a.tracker.Observe)

	if res := a.session.Restore(ctx, wasConnected); res.Err != nil {
		a.logger.WarnContext(ctx, "wallet restore failed", "code", string(res.Code()), "error", res.Err)
	} else if res.Success {
		a.logger.InfoContext(ctx, "wallet restored", "wallet_address", res.Address)
	}

	srv := httpserver.New(a.cfg.Server, a.router)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.InfoContext(gctx, "starting console", "addr", a.cfg.Server.Addr, "chain_id", a.session.Target().ID.String())
		return httpserver.Run(gctx, a.cfg.Server, srv)
	})
	g.Go(func() error {
		return ignoreCanceled(a.tracker.Run(gctx))
	})
	if a.auditWorker != nil {
		g.Go(func() error {
			return ignoreCanceled(a.auditWorker.Run(gctx))
		})
	}
	return g.Wait()
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	if a.unwatch != nil {
		a.unwatch()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
