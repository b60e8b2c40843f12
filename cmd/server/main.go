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

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/duelforge/duel-server-go/internal/bot"
	"github.com/duelforge/duel-server-go/internal/cards"
	"github.com/duelforge/duel-server-go/internal/config"
	"github.com/duelforge/duel-server-go/internal/gateway"
	"github.com/duelforge/duel-server-go/internal/match"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting duel server",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	catalog, err := cards.LoadCatalog(cfg.Cards.Path, logger)
	if err != nil {
		logger.Fatal("failed to load card catalog", zap.Error(err))
	}

	proposer := buildProposer(cfg.Bot, logger)

	orch := match.NewOrchestrator(catalog, proposer, logger, match.Options{
		BotStepLimit:  cfg.Match.BotStepLimit,
		IdemCapacity:  cfg.Match.IdemCapacity,
		BotTimeout:    cfg.Bot.Timeout,
		BotDifficulty: bot.Difficulty(cfg.Bot.Difficulty),
	})
	logger.Info("match orchestrator initialized",
		zap.Int("bot_step_limit", cfg.Match.BotStepLimit),
		zap.Int("idempotency_capacity", cfg.Match.IdemCapacity),
	)

	// Reap idle matches in the background.
	go func() {
		ticker := time.NewTicker(cfg.Match.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := orch.SweepIdle(cfg.Match.IdleTimeout); removed > 0 {
					logger.Info("idle matches swept", zap.Int("removed", removed))
				}
			}
		}
	}()

	gw := gateway.New(orch, logger)
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      gw.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Server.Addr))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(serveErr))
		}
	}()

	logger.Info("duel server initialized",
		zap.String("version", version),
		zap.String("address", cfg.Server.Addr),
		zap.Int("cards", catalog.Len()),
		zap.String("bot_mode", cfg.Bot.Mode),
	)

	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("duel server stopped")
}

func buildProposer(cfg config.BotConfig, logger *zap.Logger) bot.Proposer {
	if cfg.Mode == "remote" {
		logger.Info("using remote bot proposer", zap.String("url", cfg.RemoteURL))
		return bot.NewRemoteProposer(cfg.RemoteURL, cfg.Timeout, logger)
	}
	logger.Info("using local bot proposer", zap.String("difficulty", cfg.Difficulty))
	return bot.NewLocalProposer(logger)
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Encoding == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
