package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/joho/godotenv"

	"github.com/fairwayclub/league-engine/internal/app"
	"github.com/fairwayclub/league-engine/internal/config"
	"github.com/fairwayclub/league-engine/internal/observability"
	"github.com/fairwayclub/league-engine/internal/platform/logging"
)

func main() {
	once := flag.Bool("once", false, "run a single processor tick and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "load .env: %v\n", err)
	}

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	defer func() { _ = logger.Sync() }()
	logging.SetDefault(logger)

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		os.Exit(1)
	}

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("build app", "error", err)
		os.Exit(1)
	}

	if *once {
		result, err := application.Processor.Run(context.Background(), "once")
		if err != nil {
			logger.Error("processor tick failed", "error", err)
			os.Exit(1)
		}
		logger.Info("processor tick finished",
			"league_count", result.LeagueCount,
			"starting_notices", result.StartingNotices,
			"activations", result.Activations,
			"reminders_sent", result.RemindersSent,
			"weeks_completed", result.WeeksCompleted,
			"skipped", result.Skipped,
			"failed", result.Failed,
			"duration_ms", result.DurationMs,
		)
		_ = application.Close(context.Background())
		return
	}

	scheduler, err := newTickScheduler(cfg, application, logger)
	if err != nil {
		logger.Error("build scheduler", "error", err)
		os.Exit(1)
	}
	scheduler.Start()

	go func() {
		logger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := application.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := scheduler.Shutdown(); err != nil {
		logger.Error("scheduler shutdown failed", "error", err)
	}
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
	if err := application.Close(shutdownCtx); err != nil {
		logger.Error("close app failed", "error", err)
	}
	if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
		logger.Error("stop pprof server failed", "error", err)
	}
	if err := stopPyroscope(); err != nil {
		logger.Error("stop pyroscope failed", "error", err)
	}
	if err := shutdownUptrace(shutdownCtx); err != nil {
		logger.Error("shutdown uptrace failed", "error", err)
	}

	logger.Info("processor stopped")
}

func newTickScheduler(cfg config.Config, application *app.App, logger *logging.Logger) (gocron.Scheduler, error) {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(cfg.Timezone))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	// Config guarantees at least one tick time.
	atTimes := make([]gocron.AtTime, 0, len(cfg.ProcessorTickTimes))
	for _, tick := range cfg.ProcessorTickTimes {
		atTimes = append(atTimes, gocron.NewAtTime(uint(tick.Hour), uint(tick.Minute), 0))
	}

	_, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(atTimes[0], atTimes[1:]...)),
		gocron.NewTask(func() {
			result, err := application.Processor.Run(context.Background(), "scheduled")
			if err != nil {
				logger.Error("scheduled tick failed", "error", err)
				return
			}
			logger.Info("scheduled tick finished",
				"league_count", result.LeagueCount,
				"starting_notices", result.StartingNotices,
				"activations", result.Activations,
				"reminders_sent", result.RemindersSent,
				"weeks_completed", result.WeeksCompleted,
				"skipped", result.Skipped,
				"failed", result.Failed,
				"duration_ms", result.DurationMs,
			)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create tick job: %w", err)
	}

	return scheduler, nil
}
