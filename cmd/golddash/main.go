package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/vuongle/gold-dashboard/internal/config"
	"github.com/vuongle/gold-dashboard/internal/pipeline"
	"github.com/vuongle/gold-dashboard/pkg/logger"
)

func main() {
	cfgPath := flag.String("config", config.DefaultConfigPath(), "path to config.json")
	once := flag.Bool("once", false, "run a single pass and exit")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.PrettyLogs})

	runner, err := pipeline.NewRunner(cfg, zlog)
	if err != nil {
		zlog.Fatal().Err(err).Msg("init failed")
	}
	defer runner.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *once {
		if err := runner.Run(ctx); err != nil {
			// The payload may still have been published; the non-zero
			// exit is the loud abort signal for required-asset holes.
			zlog.Error().Err(err).Msg("run failed")
			os.Exit(1)
		}
		return
	}

	// Runs must never overlap: the runner shares one store across ticks.
	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	_, err = c.AddFunc(cfg.Schedule, func() {
		if err := runner.Run(ctx); err != nil {
			if errors.Is(err, pipeline.ErrSevereDegradation) {
				zlog.Error().Err(err).Msg("published severely degraded payload")
				return
			}
			zlog.Error().Err(err).Msg("run failed")
		}
	})
	if err != nil {
		zlog.Fatal().Err(err).Str("schedule", cfg.Schedule).Msg("invalid schedule")
	}
	c.Start()
	zlog.Info().Str("schedule", cfg.Schedule).Msg("scheduler started")

	// Graceful stop
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	zlog.Info().Msg("shutting down")
	cancel()
	<-c.Stop().Done()
}
