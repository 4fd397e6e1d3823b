package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"aptcatalog/internal/app/commands"
	"aptcatalog/internal/app/dto"
	apartmentsapp "aptcatalog/internal/app/handlers/apartments"
	"aptcatalog/internal/app/middleware"
	"aptcatalog/internal/app/policies"
	"aptcatalog/internal/app/publishing"
	"aptcatalog/internal/app/queries"
	domainapartments "aptcatalog/internal/domain/apartments"
	"aptcatalog/internal/domain/shared/faults"
	"aptcatalog/internal/infra/broker/kafka"
	rediscache "aptcatalog/internal/infra/cache/redis"
	"aptcatalog/internal/infra/config"
	mongodb "aptcatalog/internal/infra/db/mongo"
	ginserver "aptcatalog/internal/infra/http/gin"
	"aptcatalog/internal/infra/obs"
	"aptcatalog/internal/infra/storage/memory"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("prod").Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLoggerTo(os.Stdout, cfg.Env, cfg.LogLevel)
	metrics := obs.NewMetrics()

	app, err := buildApplication(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("application wiring failed", "error", err)
		os.Exit(1)
	}
	defer app.close(logger)

	fixturesPath := cfg.ApartmentFixtures
	if fixturesPath == "" {
		fixturesPath = defaultFixturesPath()
	}
	if err := app.loadFixtures(ctx, fixturesPath, logger); err != nil {
		logger.Warn("apartment fixtures load failed", "error", err, "path", fixturesPath)
	}

	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger, Metrics: metrics}, obs.HealthHandlers{
		Ready: app.ready,
	}, app.handlers)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("HTTP server starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("HTTP server stopped")
}

type application struct {
	handlers ginserver.Handlers
	commands commands.Bus
	ready    func() error
	closers  []func() error
}

func buildApplication(ctx context.Context, cfg config.Config, logger *slog.Logger, metrics *obs.Metrics) (*application, error) {
	app := &application{ready: func() error { return nil }}

	var repo domainapartments.Repository
	if cfg.MongoURI != "" {
		client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB, cfg.MongoTimeout)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, func() error {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return client.Close(closeCtx)
		})
		mongoRepo := mongodb.NewApartmentRepository(client.DB)
		if err := mongoRepo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		repo = mongoRepo
		app.ready = func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return client.Ping(pingCtx)
		}
		logger.Info("apartment store ready", "backend", "mongo", "database", cfg.MongoDB)
	} else {
		repo = memory.NewApartmentRepository()
		logger.Info("apartment store ready", "backend", "memory")
	}

	var cache policies.FilterOptionsCache
	if cfg.RedisAddr != "" {
		client := rediscache.NewClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		app.closers = append(app.closers, client.Close)
		cache = rediscache.NewFilterOptionsCache(client, cfg.FilterOptionsTTL, metrics.ObserveCache)
		logger.Info("filter options cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.FilterOptionsTTL)
	}

	var publisher policies.EventPublisher = policies.NoopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, producer.Close)
		publisher = &publishing.Publisher{
			Producer:    producer,
			TopicPrefix: cfg.KafkaTopicPrefix,
			Source:      "aptcatalog",
		}
		logger.Info("event publishing enabled", "brokers", cfg.KafkaBrokers)
	}

	commandBus := commands.NewInMemoryBus()
	commands.Register[apartmentsapp.CreateApartmentCommand, *dto.ApartmentCreated](commandBus, &apartmentsapp.CreateApartmentHandler{
		Repo:      repo,
		Publisher: publisher,
		Cache:     cache,
		Logger:    logger,
	})

	queryBus := queries.NewInMemoryBus()
	queries.Register[apartmentsapp.ListApartmentsQuery, dto.ApartmentPage](queryBus, &apartmentsapp.ListApartmentsHandler{Repo: repo})
	queries.Register[apartmentsapp.GetApartmentQuery, dto.ApartmentDetail](queryBus, &apartmentsapp.GetApartmentHandler{Repo: repo})
	queries.Register[apartmentsapp.FilterOptionsQuery, domainapartments.FilterOptions](queryBus, &apartmentsapp.FilterOptionsHandler{
		Repo:   repo,
		Cache:  cache,
		Logger: logger,
	})

	validator := middleware.NewStructValidator()
	app.commands = middleware.ChainCommands(
		commandBus,
		middleware.CommandLogging(logger),
		middleware.Validation(validator),
	)
	queryBusWithMiddleware := middleware.ChainQueries(
		queryBus,
		middleware.QueryLogging(logger),
		middleware.QueryValidation(validator),
	)

	app.handlers = ginserver.Handlers{
		Apartments: ginserver.ApartmentHandler{
			Commands: app.commands,
			Queries:  queryBusWithMiddleware,
			Logger:   logger,
		},
	}
	return app, nil
}

func (a *application) close(logger *slog.Logger) {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logger.Warn("shutdown close failed", "error", err)
		}
	}
}

// loadFixtures seeds the catalog through the create command so fixtures pass
// the same validation as API requests. Already-present units are skipped.
func (a *application) loadFixtures(ctx context.Context, path string, logger *slog.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("apartment fixtures file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("read fixtures: %w", err)
	}
	if len(data) == 0 {
		logger.Warn("apartment fixtures file empty", "path", path)
		return nil
	}

	var fixtures []apartmentsapp.CreateApartmentCommand
	if err := json.Unmarshal(data, &fixtures); err != nil {
		return fmt.Errorf("decode fixtures: %w", err)
	}

	imported := 0
	for _, fx := range fixtures {
		fx.Trim()
		_, err := commands.Dispatch[apartmentsapp.CreateApartmentCommand, *dto.ApartmentCreated](ctx, a.commands, fx)
		switch {
		case err == nil:
			imported++
		case errors.Is(err, faults.Conflict):
			logger.Debug("fixture already present", "project", fx.Project, "unit_number", fx.UnitNumber)
		default:
			logger.Error("fixture rejected", "title", fx.Title, "error", err)
		}
	}
	logger.Info("apartment fixtures imported", "count", imported, "path", path)
	return nil
}

func defaultFixturesPath() string {
	candidates := []string{
		filepath.Join("data", "apartments.json"),
		filepath.Join("..", "..", "data", "apartments.json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return candidates[0]
}
