package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dotcommander/storyweaver/internal/agent"
	"github.com/dotcommander/storyweaver/internal/api"
	"github.com/dotcommander/storyweaver/internal/config"
	"github.com/dotcommander/storyweaver/internal/judge"
	"github.com/dotcommander/storyweaver/internal/pipeline"
	"github.com/dotcommander/storyweaver/internal/refine"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	client := agent.NewClient(cfg.AI.APIKey,
		agent.WithAPIConfig(cfg.AI.BaseURL, cfg.AI.Model),
		agent.WithTimeout(time.Duration(cfg.AI.TimeoutSeconds)*time.Second),
		agent.WithRateLimit(cfg.AI.RateLimit.RequestsPerMinute, cfg.AI.RateLimit.BurstSize),
		agent.WithLogger(logger),
	)

	p := pipeline.New(client,
		pipeline.WithLogger(logger),
		pipeline.WithLoopOptions(
			refine.WithMaxRounds(cfg.Loop.MaxRounds),
			refine.WithEvaluator(judge.Evaluator{Threshold: cfg.Loop.AcceptThreshold}),
			refine.WithLogger(logger),
		),
	)

	router := api.NewRouter(p, logger)

	server := &http.Server{
		Addr:    cfg.HTTP.ListenAddr,
		Handler: router,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("listening", "addr", cfg.HTTP.ListenAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
	logger.Info("shutdown complete")
}
