package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"quotedesk/internal/catalog"
	"quotedesk/internal/config"
	"quotedesk/internal/database"
	"quotedesk/internal/handler"
	"quotedesk/internal/repository"
	"quotedesk/internal/router"
	"quotedesk/internal/service"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting quotedesk API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	customerRepo := repository.NewCustomerRepository(pool, logger)
	quoteRepo := repository.NewQuoteRepository(pool, logger)

	// Import product feeds before serving traffic so the catalogue is
	// populated on first request.
	if cfg.Catalog.ImportEnabled {
		if err := importCatalog(ctx, cfg, productRepo, logger); err != nil {
			return fmt.Errorf("failed to import catalog: %w", err)
		}
	}

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	customerService := service.NewCustomerService(customerRepo, logger)
	quoteService := service.NewQuoteService(quoteRepo, productRepo, customerRepo, logger)

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	customerHandler := handler.NewCustomerHandler(customerService, logger)
	quoteHandler := handler.NewQuoteHandler(quoteService, logger)
	meHandler := handler.NewMeHandler(logger)

	// Initialize router
	mux := router.New(
		productHandler,
		customerHandler,
		quoteHandler,
		meHandler,
		cfg.Auth.AdminAPIKey,
		cfg.Auth.UserAPIKey,
		logger,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// importCatalog runs a startup feed import using the S3 loader when enabled,
// falling back to the local file system when it cannot be initialised.
func importCatalog(
	ctx context.Context,
	cfg *config.Config,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) error {
	fileLoader := catalog.NewFileLoader(logger)
	var feedLoader catalog.Loader
	paths := cfg.Catalog.FeedPaths

	if cfg.Catalog.S3Enabled {
		s3Loader, err := catalog.NewS3Loader(ctx, cfg.Catalog.S3Bucket, cfg.Catalog.S3Region, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 feed loader, falling back to local file system")
			feedLoader = fileLoader
		} else {
			feedLoader = s3Loader
			// Feed paths become S3 keys under the configured prefix.
			keys := make([]string, len(paths))
			for i, p := range paths {
				keys[i] = path.Join(cfg.Catalog.S3Prefix, p)
			}
			paths = keys
		}
	} else {
		feedLoader = fileLoader
		logger.Info().Msg("using local file system for product feeds (S3 disabled)")
	}

	importer := catalog.NewImporter(feedLoader, productRepo, logger)
	written, err := importer.Run(ctx, paths)
	if err != nil {
		return err
	}

	logger.Info().Int("products", written).Msg("catalog import finished")
	return nil
}
