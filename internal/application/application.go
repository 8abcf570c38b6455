package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hibiken/asynq"
	"github.com/mymmrac/telego"
	"golang.org/x/sync/errgroup"

	"kiosk_commerce/internal/config"
	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/deal"
	"kiosk_commerce/internal/domain/service/vendor"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/infrastructure/commerce"
	"kiosk_commerce/internal/infrastructure/events"
	"kiosk_commerce/internal/infrastructure/notifier"
	"kiosk_commerce/internal/infrastructure/persistence"
	"kiosk_commerce/internal/infrastructure/qrcode"
	"kiosk_commerce/internal/infrastructure/scanguard"
	"kiosk_commerce/internal/server"
	"kiosk_commerce/internal/transport/bot"
	"kiosk_commerce/internal/transport/bot/handler"
	"kiosk_commerce/internal/worker"
	"kiosk_commerce/pkg/application/connectors"
	"kiosk_commerce/pkg/application/modules"
	"kiosk_commerce/pkg/contextx"
	"kiosk_commerce/pkg/logx"
	"kiosk_commerce/pkg/middlewarex"
)

func Run(ctx context.Context, log *slog.Logger) error { //nolint:funlen,gocyclo
	ctx = contextx.WithLogger(ctx, log)

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config load: %w", err)
	}

	log.Info("configuration loaded",
		slog.String(logx.FieldAppName, cfg.App.Name),
		slog.String(logx.FieldAppVersion, cfg.App.Version),
		slog.String(logx.FieldKioskID, cfg.Commerce.KioskID),
	)

	// 2. Commerce backend
	client := commerce.New(cfg.Commerce, cfg.App.LogFieldMaxLen)

	renderer, err := qrcode.NewRenderer().WithLevel(cfg.Commerce.QRLevel)
	if err != nil {
		return fmt.Errorf("qr renderer: %w", err)
	}

	catalog := deal.NewCatalog(client, cfg.Commerce.CatalogTTL)
	sinks := deal.NewFanOut()

	// 3. Journal
	var journal *persistence.DealJournalRepository

	if cfg.Journal.Enabled() {
		database := &connectors.Database{
			Driver:          cfg.Journal.Driver,
			DSN:             cfg.Journal.DSN,
			MaxIdleConns:    cfg.Journal.MaxIdleConns,
			MaxOpenConns:    cfg.Journal.MaxOpenConns,
			ConnMaxLifetime: cfg.Journal.ConnMaxLifetime,
		}
		db := database.Client(ctx)
		defer database.Close(ctx)

		if err := connectors.MigrateFromFile(ctx, db, cfg.Journal.MigrationsFile); err != nil {
			return fmt.Errorf("journal migrate: %w", err)
		}

		journal = persistence.NewDealJournalRepository(db)
		sinks.With("journal", deal.SinkFunc(journal.Record))
	}

	// 4. Kafka
	if cfg.Kafka.Enabled() {
		publisher, err := events.NewKafkaPublisher(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka publisher: %w", err)
		}

		defer func() {
			if err := publisher.Close(); err != nil {
				log.Error("kafka publisher close", logx.Error(err))
			}
		}()

		sinks.With("kafka", publisher)
	}

	// 5. Telegram
	var (
		tgBot    *telego.Bot
		alertBot *notifier.TelegramBot
	)

	if cfg.Bot.Enabled() {
		tgBot, err = telego.NewBot(cfg.Bot.Token)
		if err != nil {
			return fmt.Errorf("telegram bot: %w", err)
		}

		alertBot = notifier.NewTelegramNotifier(tgBot, cfg.Bot.ChatID)
	}

	g, ctx := errgroup.WithContext(ctx)

	// 6. Redis: scan guard and notification queue
	var guard vendor.Guard = scanguard.NewMemoryGuard(cfg.Commerce.ScanWindow)

	if cfg.Redis.Enabled() {
		redisConnector := &connectors.Redis{
			Username:           cfg.Redis.Username,
			Password:           cfg.Redis.Password,
			Address:            cfg.Redis.Address,
			DatabaseNumber:     cfg.Redis.DatabaseNumber,
			PoolSize:           cfg.Redis.PoolSize,
			MinIdleConnections: cfg.Redis.MinIdleConnections,
			MaxIdleConnections: cfg.Redis.MaxIdleConnections,
		}
		defer redisConnector.Close(ctx)

		guard = scanguard.NewRedisGuard(redisConnector.Client(ctx), cfg.Commerce.ScanWindow)

		if alertBot != nil {
			queue := asynq.NewClient(redisConnector.AsynqOpt())
			defer queue.Close()

			sinks.With("notify-queue", worker.NewTransitionEnqueuer(queue))

			modules.AsynqServer{
				Connection:  redisConnector.AsynqOpt(),
				Concurrency: cfg.Redis.QueueConcurrency,
			}.Run(ctx, g, modules.AsynqQueues{worker.NotifyQueue: 1}, modules.AsynqHandler{
				Pattern: worker.TaskTypeDealTransition,
				Handle:  worker.NewTransitionHandler(alertBot),
			})
		}
	} else if alertBot != nil {
		sinks.With("telegram", deal.SinkFunc(alertBot.SendTransition))
	}

	submitter := vendor.NewSubmitter(client).WithGuard(guard)

	// 7. Deal views
	registry := deal.NewRegistry(ctx, deal.Dependencies{
		Client: client,
		Pollers: func(id value.DealID, initial value.DealStatus, onTransition func(context.Context, entity.Transition)) deal.Poller {
			return worker.NewStatusPoller(client, id, initial, onTransition).
				WithInterval(cfg.Poll.Interval)
		},
		Sink:          sinks,
		MobileBaseURL: cfg.Commerce.MobileBaseURL,
	}).WithIdleTTL(cfg.Poll.ViewIdleTTL)
	defer registry.CloseAll()

	g.Go(func() error {
		return registry.Run(ctx)
	})

	log.Info("transition sinks ready", slog.Int("count", sinks.Len()))

	// 8. Vendor console in Telegram
	if tgBot != nil {
		commandHandler := handler.New(submitter, client, alertBot, renderer)
		if journal != nil {
			commandHandler = commandHandler.WithJournal(journal)
		}

		vendorBot, err := bot.New(ctx, tgBot, commandHandler, cfg.Bot.VendorIDs)
		if err != nil {
			return fmt.Errorf("vendor bot: %w", err)
		}

		g.Go(func() error {
			return vendorBot.Run(ctx)
		})
	}

	// 9. HTTP
	journalServer := server.NewJournalServer(nil)
	if journal != nil {
		journalServer = server.NewJournalServer(journal)
	}

	srv := server.NewServer(
		server.NewDealViewServer(catalog, registry, renderer),
		server.NewVendorServer(submitter, renderer),
		journalServer,
	)

	router := chi.NewRouter()
	router.Use(
		middlewarex.TraceID,
		middlewarex.OperatorID,
		middlewarex.Logger,
		middlewarex.Recovery,
		middlewarex.RequestLogging(logx.NewSensitiveDataMasker(), cfg.App.LogFieldMaxLen),
		middlewarex.ResponseLogging(logx.NewSensitiveDataMasker(), cfg.App.LogFieldMaxLen),
	)
	srv.RegisterRoutes(router)

	modules.HTTPServer{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}.Run(ctx, g, &http.Server{
		Addr:              cfg.Server.ListenAddress,
		Handler:           router,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	})

	modules.ProbeServer{
		Name:          cfg.App.Name,
		Version:       cfg.App.Version,
		ListenAddress: cfg.Server.ProbeListenAddress,
		Ready: func(ctx context.Context) error {
			if _, err := catalog.List(ctx); err != nil {
				return fmt.Errorf("commerce backend: %w", err)
			}
			return nil
		},
	}.Run(ctx, g)

	modules.MetricServer{
		ListenAddress: cfg.Server.MetricsListenAddress,
	}.Run(ctx, g)

	if err := g.Wait(); err != nil {
		return fmt.Errorf("errgroup.Wait: %w", err)
	}

	log.Info("application stopping...")

	return nil
}
