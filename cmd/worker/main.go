// Package main - точка входа фоновых процессов (Worker) Guessnica.
//
// Worker отвечает за периодические задачи:
// - Пересчёт кешированных лидербордов по всем категориям и окнам
// - Анонс загадки дня в настроенное время
// - Очистка устаревших записей кеша
//
// Периодический пересчёт страхует событийную проекцию: даже если
// событие потерялось, кеш сойдётся с журналом на следующем прогоне.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/guessnica/guessnica-server/config"

	// Domain layer
	"github.com/guessnica/guessnica-server/internal/domain/leaderboard"
	"github.com/guessnica/guessnica-server/internal/domain/player"
	"github.com/guessnica/guessnica-server/internal/domain/riddle"
	"github.com/guessnica/guessnica-server/internal/domain/submission"

	// Infrastructure layer
	"github.com/guessnica/guessnica-server/internal/infrastructure/messaging"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/memory"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/postgres"
	"github.com/guessnica/guessnica-server/internal/infrastructure/persistence/redis"
	"github.com/guessnica/guessnica-server/internal/infrastructure/scheduler"
	"github.com/guessnica/guessnica-server/internal/infrastructure/scheduler/jobs"

	// Packages
	"github.com/guessnica/guessnica-server/pkg/timeutil"
)

func main() {
	// Создаём корневой контекст с возможностью отмены
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

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
	log.Info("starting Guessnica worker",
		"env", cfg.App.Environment,
		"debug", cfg.App.Debug,
	)

	if !cfg.Scheduler.Enabled {
		return fmt.Errorf("scheduler is disabled, nothing to do")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 3. ХРАНИЛИЩЕ
	// ─────────────────────────────────────────────────────────────────────────
	var (
		ledger     submission.Ledger
		playerRepo player.Repository
		riddleRepo riddle.Repository
	)

	if cfg.Database.Disabled || cfg.Database.URL == "" {
		if cfg.IsProduction() {
			return fmt.Errorf("in-memory storage is not allowed in production")
		}
		log.Warn("running with in-memory storage, the worker sees no server data")

		ledger = memory.NewLedger()
		playerRepo = memory.NewPlayerRepository()
		riddleRepo = memory.NewRiddleRepository()
	} else {
		log.Info("connecting to database...")
		dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
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

		// Worker тоже должен видеть актуальную схему
		if cfg.Database.AutoMigrate {
			log.Info("checking database migrations...")
			migrator := postgres.NewMigrator(dbConn)
			if err := migrator.Migrate(ctx); err != nil {
				return fmt.Errorf("failed to run migrations: %w", err)
			}
		}
		log.Info("database connection established")

		ledger = postgres.NewSubmissionRepository(dbConn)
		playerRepo = postgres.NewPlayerRepository(dbConn)
		riddleRepo = postgres.NewRiddleRepository(dbConn)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. КЕШ ЛИДЕРБОРДА
	// ─────────────────────────────────────────────────────────────────────────
	var lbCache leaderboard.Cache

	if !cfg.Redis.Disabled {
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

		redisCache, err := redis.NewCache(redisCfg)
		if err != nil {
			log.Warn("failed to connect to Redis, using in-memory cache", "error", err)
			lbCache = memory.NewLeaderboardCache()
		} else {
			defer redisCache.Close()
			// Пересборка пишет большие снапшоты; ретраи с backoff сглаживают
			// кратковременные сбои Redis.
			lbCache = redis.NewResilientLeaderboardCache(redis.NewLeaderboardCache(redisCache), log)
			log.Info("Redis connection established")
		}
	} else {
		lbCache = memory.NewLeaderboardCache()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. EVENT BUS
	// Worker публикует события пересчёта и анонса загадки; подписчиков
	// в этом процессе нет, но события попадают в метрики шины.
	// ─────────────────────────────────────────────────────────────────────────
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 6. ПЛАНИРОВЩИК И ЗАДАЧИ
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing scheduler...")
	schedConfig := scheduler.DefaultSchedulerConfig()
	schedConfig.Logger = log
	sched := scheduler.NewScheduler(schedConfig)

	rebuildJob := jobs.NewRebuildLeaderboardJob(ledger, playerRepo, lbCache, eventBus, log, jobs.RebuildLeaderboardConfig{
		Timeout: cfg.Scheduler.JobTimeout,
	})
	if err := sched.Register(rebuildJob, scheduler.NewIntervalSchedule(cfg.Scheduler.RebuildLeaderboardInterval)); err != nil {
		return fmt.Errorf("failed to register rebuild job: %w", err)
	}

	riddleTime, err := timeutil.ParseClockTime(cfg.Game.RiddleTime)
	if err != nil {
		return fmt.Errorf("invalid GAME_RIDDLE_TIME: %w", err)
	}
	activateJob := jobs.NewActivateRiddleJob(riddleRepo, eventBus, log)
	if err := sched.Register(activateJob, scheduler.NewDailySchedule(riddleTime)); err != nil {
		return fmt.Errorf("failed to register activation job: %w", err)
	}

	// Очистка кеша: по умолчанию интервал, cron-выражение из конфига
	// позволяет привязать её к конкретному времени суток.
	var cleanupSchedule scheduler.Schedule = scheduler.NewIntervalSchedule(cfg.Scheduler.CacheCleanupInterval)
	if cfg.Scheduler.CacheCleanupCron != "" {
		cleanupSchedule, err = scheduler.ParseCronSchedule(cfg.Scheduler.CacheCleanupCron)
		if err != nil {
			return fmt.Errorf("invalid SCHEDULER_CLEANUP_CRON: %w", err)
		}
	}
	cleanupJob := jobs.NewCleanupCacheJob(lbCache, log)
	if err := sched.Register(cleanupJob, cleanupSchedule); err != nil {
		return fmt.Errorf("failed to register cleanup job: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. ЗАПУСК И GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	// Первый пересчёт сразу после старта, не дожидаясь интервала
	if _, err := sched.RunNow(ctx, rebuildJob.Name()); err != nil {
		log.Warn("initial leaderboard rebuild failed", "error", err)
	}

	log.Info("Guessnica worker is running",
		"rebuild_interval", cfg.Scheduler.RebuildLeaderboardInterval.String(),
		"riddle_time", riddleTime.String(),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	sig := <-sigCh
	log.Info("received shutdown signal", "signal", sig.String())

	log.Info("starting graceful shutdown...", "timeout", cfg.App.ShutdownTimeout.String())
	if err := sched.Stop(); err != nil {
		log.Error("failed to stop scheduler gracefully", "error", err)
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
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	log := slog.New(handler)
	slog.SetDefault(log)

	return log
}
