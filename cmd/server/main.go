// Package main - точка входа HTTP-сервера Guessnica.
//
// Сервер принимает ответы игроков на загадку дня, считает очки по дистанции
// и времени, ведёт журнал ответов и отдаёт лидерборды по категориям и окнам.
//
// Архитектура следует принципам Clean Architecture и DDD:
// - Domain: чистая бизнес-логика (гео, очки, журнал, рейтинг)
// - Application: оркестрация use cases (Commands/Queries)
// - Infrastructure: Postgres, Redis, event bus, планировщик
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/guessnica/guessnica-server/config"

	// Domain layer
	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/settings"
	"github.com/guessnica/guessnica-server/internal/domain/shared"
	"github.com/guessnica/guessnica-server/internal/domain/submission"

	// Application layer
	"github.com/guessnica/guessnica-server/internal/application/command"
	"github.com/guessnica/guessnica-server/internal/application/eventhandler"
	"github.com/guessnica/guessnica-server/internal/application/query"

	// Infrastructure layer
	"github.com/guessnica/guessnica-server/internal/infrastructure/messaging"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/memory"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/postgres"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/redis"

	// Interface layer
	httpserver "github.com/guessnica/guessnica-server/internal/interface/http"
	"github.com/guessnica/guessnica-server/internal/interface/http/handlers"

	// Packages
	"github.com/guessnica/guessnica-server/pkg/logger"
)

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// .env удобен в разработке; в production переменные приходят из окружения
	_ = godotenv.Load()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. ЗАГРУЗКА КОНФИГУРАЦИИ
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. НАСТРОЙКА ЛОГИРОВАНИЯ
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting Guessnica server",
		"env", cfg.App.Environment,
		"debug", cfg.App.Debug,
		"version", cfg.App.Version,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩЕ: POSTGRES ИЛИ IN-MEMORY
	// ─────────────────────────────────────────────────────────────────────────
	var (
		ledger       submission.Ledger
		playerRepo   player.Repository
		riddleRepo   riddle.Repository
		locationRepo riddle.LocationRepository
		settingsRepo settings.Repository
		dbConn       *postgres.Connection
	)

	if cfg.Database.Disabled || cfg.Database.URL == "" {
		if cfg.IsProduction() {
			return errors.New("in-memory storage is not allowed in production")
		}
		log.Warn("running with in-memory storage, data will not survive a restart")

		memLedger := memory.NewLedger()
		memRiddles := memory.NewRiddleRepository()
		memLocations := memory.NewLocationRepository()
		memLocations.SetInUseCheck(locationInUseCheck(memLedger, memRiddles))
		memSettings := memory.NewSettingsRepository()

		// В памяти нет миграций с дефолтной строкой настроек, поэтому
		// заводим её из конфигурации
		if err := memSettings.Save(ctx, gameDefaults(cfg)); err != nil {
			return fmt.Errorf("failed to seed settings: %w", err)
		}

		ledger = memLedger
		playerRepo = memory.NewPlayerRepository()
		riddleRepo = memRiddles
		locationRepo = memLocations
		settingsRepo = memSettings
	} else {
		log.Info("connecting to database...")
		dbConn, err = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		if err := dbConn.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		log.Info("database connection established")

		if cfg.Database.AutoMigrate {
			log.Info("running database migrations...")
			migrator := postgres.NewMigrator(dbConn)
			if err := migrator.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
			log.Info("database schema is up to date")
		}

		ledger = postgres.NewSubmissionRepository(dbConn)
		playerRepo = postgres.NewPlayerRepository(dbConn)
		riddleRepo = postgres.NewRiddleRepository(dbConn)
		locationRepo = postgres.NewLocationRepository(dbConn)
		settingsRepo = postgres.NewSettingsRepository(dbConn)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. КЕШ ЛИДЕРБОРДА: REDIS ИЛИ IN-MEMORY
	// ─────────────────────────────────────────────────────────────────────────
	var lbCache leaderboard.Cache
	var redisCache *redis.Cache

	if !cfg.Redis.Disabled && cfg.Features.IsEnabled(config.FeatureLeaderboardCache, nil) {
		log.Info("connecting to Redis...")
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		redisCfg.PoolSize = cfg.Redis.PoolSize
		redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
		redisCfg.DialTimeout = cfg.Redis.DialTimeout
		redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
		redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

		redisCache, err = redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, using in-memory cache", "error", err)
			lbCache = memory.NewLeaderboardCache()
		} else {
			defer redisCache.Close()
			// Circuit breaker защищает запросы от деградировавшего Redis:
			// при открытом контуре чтения уходят напрямую в журнал.
			lbCache = redis.NewResilientLeaderboardCache(redis.NewLeaderboardCache(redisCache), log)
			log.Info("Redis connection established")
		}
	} else {
		lbCache = memory.NewLeaderboardCache()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS + DISPATCHER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing event bus...")
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBusConfig.AsyncMode = true
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus...")
		_ = eventBus.Close()
	}()

	dispatcherConfig := messaging.DefaultDispatcherConfig(eventBus)
	dispatcherConfig.Logger = log
	dispatcher := messaging.NewDispatcher(dispatcherConfig)
	dispatcher.Use(messaging.RecoveryMiddleware(log))
	dispatcher.Use(messaging.LoggingMiddleware(log))
	dispatcher.Use(messaging.MetricsMiddleware(dispatcher.Metrics()))

	// ─────────────────────────────────────────────────────────────────────────
	// 6. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	submitGuessCmd := command.NewSubmitGuessHandler(ledger, playerRepo, riddleRepo, locationRepo, settingsRepo, eventBus)
	registerPlayerCmd := command.NewRegisterPlayerHandler(playerRepo, settingsRepo, eventBus)
	manageLocationsCmd := command.NewManageLocationsHandler(locationRepo)
	scheduleRiddleCmd := command.NewScheduleRiddleHandler(riddleRepo, locationRepo, settingsRepo, eventBus)
	updateSettingsCmd := command.NewUpdateSettingsHandler(settingsRepo, eventBus)
	purgeSubmissionCmd := command.NewPurgeSubmissionHandler(ledger, eventBus)
	managePlayersCmd := command.NewManagePlayersHandler(playerRepo, eventBus)

	leaderboardQuery := query.NewGetLeaderboardHandler(ledger, playerRepo, lbCache, log)
	playerStatsQuery := query.NewGetPlayerStatsHandler(ledger, playerRepo)
	todayRiddleQuery := query.NewGetTodayRiddleHandler(riddleRepo, locationRepo, ledger, settingsRepo)
	riddleStatsQuery := query.NewGetRiddleStatsHandler(riddleRepo, ledger)
	adminStatsQuery := query.NewGetAdminStatsHandler(ledger, playerRepo, riddleRepo, locationRepo, settingsRepo)

	// ─────────────────────────────────────────────────────────────────────────
	// 7. EVENT HANDLERS (проекция лидерборда)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Features.IsEnabled(config.FeatureLeaderboardLiveProjector, nil) {
		log.Info("registering leaderboard projection...")
		projection := eventhandler.NewLeaderboardProjection(ledger, playerRepo, lbCache, log)

		for _, eventType := range []shared.EventType{
			shared.EventSubmissionCreated,
			shared.EventSubmissionPurged,
			shared.EventSettingsUpdated,
		} {
			if err := dispatcher.Register(eventType, "leaderboard_projection", projection.Handle); err != nil {
				return fmt.Errorf("failed to register projection: %w", err)
			}
		}
	} else {
		log.Info("live leaderboard projection disabled, relying on periodic rebuild")
	}

	if err := dispatcher.Start(); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	defer func() {
		_ = dispatcher.Stop()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. HEALTH CHECKS
	// ─────────────────────────────────────────────────────────────────────────
	healthChecker := handlers.NewCompositeHealthChecker(cfg.App.Version)
	if dbConn != nil {
		healthChecker.AddCheck("database", handlers.NewDatabaseCheck(dbConn))
	}
	if redisCache != nil {
		healthChecker.AddCheck("cache", handlers.NewCacheCheck(redisCache))
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 9. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.Server.Host
	httpConfig.Port = cfg.Server.Port
	httpConfig.ReadTimeout = cfg.Server.ReadTimeout
	httpConfig.WriteTimeout = cfg.Server.WriteTimeout
	httpConfig.IdleTimeout = cfg.Server.IdleTimeout
	httpConfig.EnableCORS = cfg.Server.EnableCORS
	httpConfig.AllowedOrigins = cfg.Server.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.Server.RateLimitPerMinute
	httpConfig.AdminKeyHeader = cfg.Server.AdminKeyHeader
	httpConfig.AdminKeyHashes = cfg.Server.AdminKeyHashes
	httpConfig.PlayerIDHeader = cfg.Server.PlayerIDHeader
	httpConfig.EnableMetrics = cfg.Observability.MetricsEnabled

	httpLog := logger.New(logger.Options{
		Output: os.Stdout,
		Level:  logger.ParseLevel(cfg.Observability.LogLevel),
	})

	httpDeps := httpserver.Dependencies{
		GetLeaderboardHandler:  leaderboardQuery,
		GetPlayerStatsHandler:  playerStatsQuery,
		GetTodayRiddleHandler:  todayRiddleQuery,
		GetRiddleStatsHandler:  riddleStatsQuery,
		GetAdminStatsHandler:   adminStatsQuery,
		SubmitGuessHandler:     submitGuessCmd,
		RegisterPlayerHandler:  registerPlayerCmd,
		ManageLocationsHandler: manageLocationsCmd,
		ScheduleRiddleHandler:  scheduleRiddleCmd,
		UpdateSettingsHandler:  updateSettingsCmd,
		PurgeSubmissionHandler: purgeSubmissionCmd,
		ManagePlayersHandler:   managePlayersCmd,
		Logger:                 httpLog,
		HealthChecker:          healthChecker,
	}

	httpServer := httpserver.NewServer(httpConfig, httpDeps)

	// ─────────────────────────────────────────────────────────────────────────
	// 10. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", "address", httpServer.Address())
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	log.Info("Guessnica server is running", "address", httpServer.Address())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		log.Error("service error", "error", err)
		return err
	}

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", "error", err)
		return err
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger настраивает структурированное логирование.
func setupLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}
	if cfg.App.Debug {
		opts.Level = slog.LevelDebug
	}

	var handler slog.Handler
	if cfg.Observability.LogFormat == "json" {
		// JSON формат для production (лучше для агрегаторов логов)
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		// Текстовый формат для development (лучше читается)
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}

// gameDefaults строит стартовые настройки игры из конфигурации.
func gameDefaults(cfg *config.Config) settings.Settings {
	s := settings.Default()
	s.RiddleTime = cfg.Game.RiddleTime
	s.MaxDistance = cfg.Game.MaxDistanceMeters
	s.PointsPerCorrectAnswer = cfg.Game.PointsPerCorrectAnswer
	s.MaxRiddlesPerDay = cfg.Game.MaxRiddlesPerDay
	s.TimeBonusEnabled = cfg.Game.TimeBonusEnabled
	return s
}

// locationInUseCheck строит проверку "локация используется" для in-memory
// репозитория: локация занята, если на любую её загадку есть ответы.
func locationInUseCheck(ledger submission.Ledger, riddles riddle.Repository) func(ctx context.Context, id shared.LocationID) (bool, error) {
	return func(ctx context.Context, id shared.LocationID) (bool, error) {
		all, err := riddles.List(ctx)
		if err != nil {
			return false, err
		}
		for _, rd := range all {
			if rd.LocationID != id {
				continue
			}
			subs, err := ledger.GetByRiddle(ctx, rd.ID)
			if err != nil {
				return false, err
			}
			if len(subs) > 0 {
				return true, nil
			}
		}
		return false, nil
	}
}
