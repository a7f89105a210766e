package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"farmmarket/internal/config"
	"farmmarket/internal/handler"
	"farmmarket/internal/notify"
	"farmmarket/internal/service"
	"farmmarket/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&staticDir, "static", "", "directory with a built frontend to serve at /")
	return cmd
}

func serve(ctx context.Context) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting farmmarket",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	gin.SetMode(cfg.Server.GinMode)

	repo, awsCfg, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	taxonomy, err := config.LoadTaxonomy(cfg.Catalog.TaxonomyFile)
	if err != nil {
		return err
	}

	var notifier service.Notifier
	if cfg.Notify.SMSEnabled {
		notifier = notify.NewSMSNotifierFromConfig(*awsCfg, cfg.Notify.SenderID, logger)
		logger.Info("seller SMS notifications enabled")
	}

	var images service.ImageStore
	if cfg.StorageEnabled() {
		images = storage.NewS3ImageStoreFromConfig(*awsCfg, cfg.Storage.Bucket, cfg.Storage.Prefix, cfg.Storage.CDNBaseURL)
		logger.Info("listing image uploads enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		logger.Warn("IMAGES_S3_BUCKET not set - image uploads will fail")
	}

	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET not set - authenticated routes will be unavailable")
	}

	// Services
	catalog := service.NewCatalogService(repo, repo, logger)
	similar := service.NewSimilarService(repo, cfg.Embedding.Dimensions, logger)
	messenger := service.NewPlatformMessenger(repo, notifier, logger)
	contact := service.NewContactRouter(messenger, logger).WithEventLog(repo)
	sellers := service.NewSellerService(repo, repo, repo, images, taxonomy, logger).WithContactEvents(repo)

	router := handler.NewRouter(handler.Handlers{
		Catalog:   handler.NewCatalogHandler(catalog, similar, taxonomy, cfg.Catalog.SimilarLimit, cfg.Catalog.MaxSimilar),
		Contact:   handler.NewContactHandler(catalog, contact),
		Seller:    handler.NewSellerHandler(sellers, cfg.Catalog.MaxUploadBytes),
		Embedding: handler.NewEmbeddingHandler(similar),
		Auth:      handler.NewAuthenticator(cfg.Auth.JWTSecret, logger),
	}, handler.RouterConfig{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: cfg.Server.AllowedMethods,
		AllowedHeaders: cfg.Server.AllowedHeaders,
		Build:          handler.BuildInfo{Version: Version, BuildTime: BuildTime, GitCommit: GitCommit},
		Ping:           repo.Ping,
	}, logger)

	setupStaticFiles(router, staticDir, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
