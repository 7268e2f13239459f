package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hray3182/julius/internal/ai"
	"github.com/hray3182/julius/internal/backend"
	"github.com/hray3182/julius/internal/bot"
	"github.com/hray3182/julius/internal/bot/handlers"
	"github.com/hray3182/julius/internal/config"
	"github.com/hray3182/julius/internal/dialogue"
	"github.com/hray3182/julius/internal/events"
	"github.com/hray3182/julius/internal/ledger"
	applog "github.com/hray3182/julius/internal/log"
	"github.com/hray3182/julius/internal/models"
	"github.com/hray3182/julius/internal/money"
	"github.com/hray3182/julius/internal/scheduler"
	"github.com/hray3182/julius/internal/server"
	"github.com/hray3182/julius/internal/session"
)

const (
	draftTTL        = 2 * time.Minute
	shutdownTimeout = 30 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := applog.ParseLevel(cfg.LogLevel)
	if cfg.DevMode {
		level = slog.LevelDebug
	}
	logger := applog.New(applog.Config{Level: level})
	applog.SetDefault(logger)
	appLogger := logger.WithComponent(applog.ComponentApp)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := backend.NewFactory(logger.WithComponent(applog.ComponentStorage)).Create(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	parser := money.Parser{AcceptComma: cfg.AmountDecimalComma}
	ledgerOpts := []ledger.Option{
		ledger.WithLogger(logger.WithComponent(applog.ComponentLedger)),
		ledger.WithParser(parser),
	}

	// Expense events are optional
	if cfg.AMQPURL != "" {
		pub, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, logger.WithComponent(applog.ComponentAMQP))
		if err != nil {
			appLogger.Warn("Failed to initialize AMQP publisher, continuing without events", "error", err)
		} else {
			defer pub.Close()
			ledgerOpts = append(ledgerOpts, ledger.WithNotifier(pub))
			appLogger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
		}
	}

	registry := models.DefaultRegistry()
	svc := ledger.New(registry, store, store, ledgerOpts...)

	sessions := session.New[dialogue.Session](cfg.SessionTTL)
	engine := dialogue.New(sessions, svc, registry, parser, logger.WithComponent(applog.ComponentDialogue))
	targets := []scheduler.Target{{Name: "sessions", Sweeper: sessions}}

	handlerOpts := []handlers.Option{
		handlers.WithLogger(logger.WithComponent(applog.ComponentHandlers)),
		handlers.WithDevMode(cfg.DevMode),
	}
	if cfg.AIEnabled() {
		drafts := session.New[ai.Draft](draftTTL)
		handlerOpts = append(handlerOpts, handlers.WithAI(ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel), drafts))
		targets = append(targets, scheduler.Target{Name: "drafts", Sweeper: drafts})
		appLogger.Info("AI client initialized", "model", cfg.AIModel)
	} else {
		appLogger.Info("AI client not configured, free text drafts disabled")
	}
	h := handlers.New(svc, engine, handlerOpts...)

	b, err := bot.New(cfg.TelegramToken, h, logger.WithComponent(applog.ComponentBot))
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)

	var webhook http.Handler
	if cfg.Transport == config.TransportWebhook {
		if err := b.SetWebhook(strings.TrimRight(cfg.WebhookURL, "/") + cfg.WebhookPath); err != nil {
			return err
		}
		webhook = b.WebhookHandler(gctx)
	}
	srv := server.New(":"+cfg.Port, cfg.WebhookPath, webhook, logger.WithComponent(applog.ComponentHTTP))
	sched := scheduler.New(cfg.SessionSweepInterval, logger.WithComponent(applog.ComponentScheduler), targets...)

	g.Go(func() error {
		sched.Start(gctx)
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Starting HTTP server", "port", cfg.Port, "transport", cfg.Transport, "backend", cfg.DataBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		appLogger.Info("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Server shutdown error", "error", err)
		}
		b.Wait()
		return nil
	})

	if cfg.Transport == config.TransportPolling {
		g.Go(func() error {
			if err := b.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("bot error: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	appLogger.Info("Stopped gracefully")
	return nil
}
