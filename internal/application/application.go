package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mymmrac/telego"
	"golang.org/x/sync/errgroup"

	"portals_watcher/internal/config"
	"portals_watcher/internal/domain/service/poller"
	"portals_watcher/internal/domain/service/subscription"
	"portals_watcher/internal/infrastructure/marketplace"
	"portals_watcher/internal/infrastructure/notifier"
	"portals_watcher/internal/infrastructure/persistence"
	"portals_watcher/internal/server"
	"portals_watcher/internal/transport/bot"
	"portals_watcher/internal/transport/bot/handler"
	"portals_watcher/internal/worker"
	"portals_watcher/pkg/application/connectors"
	"portals_watcher/pkg/application/modules"
	"portals_watcher/pkg/logx"
)

const (
	appName                   = "portals-watcher"
	httpServerShutdownTimeout = 10 * time.Second
	httpReadHeaderTimeout     = 5 * time.Second
)

// Version проставляется при сборке через -ldflags.
var Version = "dev" //nolint:gochecknoglobals

func Run(ctx context.Context, cfg config.Config) error {
	log := logger(ctx)

	// 1. Database
	database := &connectors.Database{
		Driver:          cfg.Storage.Driver,
		DSN:             cfg.Storage.DSN,
		MaxOpenConns:    cfg.Storage.MaxOpenConns,
		MaxIdleConns:    cfg.Storage.MaxIdleConns,
		ConnMaxLifetime: cfg.Storage.ConnMaxLifetime,
	}

	db := database.Client(ctx)
	defer database.Close(ctx)

	if err := persistence.Migrate(ctx, db); err != nil {
		return fmt.Errorf("persistence.Migrate: %w", err)
	}

	// 2. Repositories
	subscriptionRepo := persistence.NewSubscriptionRepository(db)
	seenRepo := persistence.NewSeenListingRepository(db)

	// 3. Marketplace
	gateway, err := marketplace.NewGateway(marketplace.Options{
		Client: marketplace.ClientOptions{
			BaseURL:    cfg.Marketplace.BaseURL,
			AuthToken:  cfg.Marketplace.AuthToken,
			AuthScheme: cfg.Marketplace.AuthScheme,
			Timeout:    cfg.Marketplace.Timeout,
		},
		ListingURLTemplate: cfg.Marketplace.ListingURLTemplate,
		RPS:                cfg.Marketplace.RPS,
	})
	if err != nil {
		return fmt.Errorf("marketplace.NewGateway: %w", err)
	}

	// 4. Telegram
	tgBot, err := telego.NewBot(cfg.Bot.Token, telego.WithDiscardLogger())
	if err != nil {
		return fmt.Errorf("telego.NewBot: %w", err)
	}

	sink := notifier.NewTelegramBot(tgBot, cfg.Watcher.NotifyTimeout, cfg.Watcher.NotifyRPS)

	// 5. Services
	subscriptionService := subscription.NewService(subscriptionRepo)
	pollService := poller.New(subscriptionRepo, seenRepo, gateway, sink, cfg.Marketplace.ListingsLimit)
	watcher := worker.NewMarketWatcher(pollService, cfg.Watcher.Interval)

	commandBot := bot.New(
		tgBot,
		handler.New(subscriptionService, watcher, cfg.Bot.WebAppURL),
		cfg.Bot.AdminID,
	)

	srv := server.NewServer(
		server.NewStatusServer(watcher),
		server.NewSubscriptionServer(subscriptionService),
		server.NewWebAppAuth(cfg.Bot.Token, server.DefaultInitDataMaxAge),
	)

	// 6. Modules
	g, ctx := errgroup.WithContext(ctx)

	modules.ProbeServer{
		Name:          appName,
		Version:       Version,
		ListenAddress: cfg.HTTP.ProbeAddr,
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.HTTP.MetricsAddr,
	}.Run(ctx, g)

	modules.HTTPServer{
		ShutdownTimeout: httpServerShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.HTTP.ListenAddr(),
		Handler:           server.NewRouter(srv, logx.NewSensitiveDataMasker()),
		ReadHeaderTimeout: httpReadHeaderTimeout,
	})

	g.Go(func() error {
		if err := watcher.Start(ctx); err != nil {
			return fmt.Errorf("watcher.Start: %w", err)
		}

		<-ctx.Done()
		watcher.Stop()

		return nil
	})

	g.Go(func() error {
		if err := commandBot.Run(ctx); err != nil {
			return fmt.Errorf("commandBot.Run: %w", err)
		}

		return nil
	})

	log.Info("application started",
		slog.String("version", Version),
		slog.String("http-address", cfg.HTTP.ListenAddr()),
		slog.Duration("watch-interval", cfg.Watcher.Interval),
	)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	log.Info("application stopped")

	return nil
}
