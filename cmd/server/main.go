package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/harmonyapp/harmonyd/internal/api"
	"github.com/harmonyapp/harmonyd/internal/api/handler"
	"github.com/harmonyapp/harmonyd/internal/config"
	"github.com/harmonyapp/harmonyd/internal/engine"
	"github.com/harmonyapp/harmonyd/internal/repository"
	"github.com/harmonyapp/harmonyd/internal/retry"
	"github.com/harmonyapp/harmonyd/internal/search"
	"github.com/harmonyapp/harmonyd/internal/service"
	"github.com/harmonyapp/harmonyd/pkg/youtube"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("harmonyd %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting harmonyd",
		"version", Version,
		"build_time", BuildTime,
	)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.Storage.DownloadDir, 0o755); err != nil {
		logger.Error("failed to create download directory", "error", err)
		os.Exit(1)
	}

	if cfg.Engine.AutoInstall {
		installCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		if err := engine.Install(installCtx); err != nil {
			cancel()
			logger.Error("failed to install extraction engine", "error", err)
			os.Exit(1)
		}
		cancel()
	}

	signatures := make([]string, 0, len(retry.BotDetectionSignatures)+len(cfg.Retry.ExtraSignatures))
	signatures = append(signatures, retry.BotDetectionSignatures...)
	signatures = append(signatures, cfg.Retry.ExtraSignatures...)

	policy := retry.Policy{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: cfg.Retry.InitialDelay,
		Signatures:   signatures,
	}

	eng := engine.NewYTDLP(cfg.Engine, nil, logger)

	var provider search.Provider
	switch cfg.Search.Backend {
	case config.BackendYouTube:
		client := youtube.NewClient(youtube.Config{APIKey: cfg.Search.YouTubeAPIKey})
		provider = search.NewYouTubeProvider(client, policy, logger)
	default:
		provider = search.NewEngineProvider(eng, policy, logger)
	}
	logger.Info("search backend selected", "backend", cfg.Search.Backend)

	history, err := repository.NewHistoryRepository(cfg.Storage.HistoryPath)
	if err != nil {
		logger.Error("failed to open history database", "error", err)
		os.Exit(1)
	}
	defer history.Close()

	searchSvc := service.NewSearchService(provider, cfg.Search.DefaultMaxResults, logger)
	downloadSvc := service.NewDownloadService(eng, history, cfg.Storage, cfg.Engine.AudioFormat, policy, logger)

	searchHandler := handler.NewSearchHandler(searchSvc, logger)
	downloadHandler := handler.NewDownloadHandler(downloadSvc, history, logger)
	healthHandler := handler.NewHealthHandler(history)

	router := api.NewRouter(searchHandler, downloadHandler, healthHandler)

	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
