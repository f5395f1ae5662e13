package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"story-analyzer/internal/config"
	"story-analyzer/internal/handlers"
	"story-analyzer/internal/helpers"
	"story-analyzer/internal/logging"
	"story-analyzer/internal/repositories"
	"story-analyzer/internal/services"
	"story-analyzer/internal/session"
	"story-analyzer/internal/settings"
	"story-analyzer/internal/theme"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local UI server",
		Long:  "Serve the views and a JSON API for submitting stories from a browser",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	cmd.Flags().String("addr", "", "Listen address (overrides server.addr)")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer logger.Sync()

	store, err := settings.Open(&cfg.Settings)
	if err != nil {
		return fmt.Errorf("failed to open settings: %w", err)
	}
	if redisStore, ok := store.(*settings.RedisStore); ok {
		defer redisStore.Close()
		if err := redisStore.Ping(cmd.Context()); err != nil {
			return err
		}
	}

	th, err := theme.New(cmd.Context(), store, nil)
	if err != nil {
		return fmt.Errorf("failed to load theme: %w", err)
	}

	analysisRepo := repositories.NewAnalysisRepository(&cfg.API)
	h := handlers.NewStoryHandler(
		services.NewStoryService(analysisRepo, cfg.Policy(), logger),
		services.NewReviewService(repositories.NewGraphQLRepository(&cfg.API), logger),
		services.NewEstimateService(analysisRepo, logger),
		session.NewRegistry(time.Duration(cfg.Server.SessionIdleMinutes)*time.Minute),
		th,
		logger,
	)

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := handlers.NewEngine(cfg.Server.AllowedOrigins, h)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	helpers.PrintTitle("Story Analyzer UI")
	helpers.PrintInfo("Listening on %s", cfg.Server.Addr)
	helpers.PrintInfo("Analysis service: %s", cfg.API.BaseURL)
	logger.Info("server started", zap.String("addr", cfg.Server.Addr), zap.Strings("allowed_origins", cfg.Server.AllowedOrigins))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	helpers.PrintSuccess("Server stopped")
	return nil
}
