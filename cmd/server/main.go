package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"focusfeed/internal/config"
	"focusfeed/internal/feed"
	"focusfeed/internal/publisher"
	"focusfeed/internal/scheduler"
	"focusfeed/internal/server"
	"focusfeed/internal/source/youtube"
	"focusfeed/internal/storage/postgres"
	"focusfeed/internal/token"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// Setup logger
	logger := setupLogger("info")

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger = setupLogger(cfg.LogLevel)

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database")

	// Initialize stores
	credentialStore := postgres.NewCredentialStore(db)
	channelStore := postgres.NewChannelStore(db)
	playlistStore := postgres.NewPlaylistStore(db)
	txManager := postgres.NewTransactionManager(db)

	// Initialize YouTube client
	source := youtube.New(youtube.Config{
		APIKey:         cfg.YouTube.APIKey,
		BaseURL:        cfg.YouTube.BaseURL,
		Timeout:        cfg.YouTube.Timeout,
		MaxAttempts:    cfg.YouTube.Retry.MaxAttempts,
		InitialBackoff: cfg.YouTube.Retry.InitialBackoff,
		MaxBackoff:     cfg.YouTube.Retry.MaxBackoff,
	}, logger)

	tokens := token.NewManager(token.Config{
		ClientID:     cfg.OAuth.ClientID,
		ClientSecret: cfg.OAuth.ClientSecret,
		RedirectURI:  cfg.OAuth.RedirectURI,
		Scopes:       cfg.OAuth.Scopes,
	}, credentialStore, logger)

	feedService := feed.NewService(source, tokens, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Refresh.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			logger.Error("failed to connect to rabbitmq", "error", err)
			os.Exit(1)
		}
		defer rabbitMQ.Close()

		refresher := feed.NewRefresher(feedService, channelStore, rabbitMQ, cfg.Refresh.MaxResults, logger)
		sched := scheduler.NewScheduler(refresher, cfg.Refresh.Interval, logger)

		go func() {
			if err := sched.Start(ctx); err != nil && err != context.Canceled {
				logger.Error("scheduler error", "error", err)
			}
		}()
		logger.Info("background refresh enabled", "interval", cfg.Refresh.Interval)
	}

	srv := server.New(
		feedService,
		tokens,
		source,
		channelStore,
		playlistStore,
		txManager,
		server.Config{
			AllowedOrigins: cfg.Server.AllowedOrigins,
			FetchTimeout:   cfg.Server.FetchTimeout,
		},
		logger,
	)

	httpServer := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(),
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("starting server", "addr", cfg.Server.Addr)

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: logLevel}
	handler := slog.NewJSONHandler(os.Stdout, opts)
	return slog.New(handler)
}
