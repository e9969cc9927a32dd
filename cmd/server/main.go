package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Lixing-Zhang/diet-storefront/internal/backend"
	"github.com/Lixing-Zhang/diet-storefront/internal/cart"
	"github.com/Lixing-Zhang/diet-storefront/internal/catalog"
	"github.com/Lixing-Zhang/diet-storefront/internal/checkout"
	"github.com/Lixing-Zhang/diet-storefront/internal/config"
	"github.com/Lixing-Zhang/diet-storefront/internal/handlers"
	"github.com/Lixing-Zhang/diet-storefront/internal/middleware"
	"github.com/Lixing-Zhang/diet-storefront/internal/repository"
	"github.com/Lixing-Zhang/diet-storefront/internal/service"
	"github.com/Lixing-Zhang/diet-storefront/internal/session"
	"github.com/Lixing-Zhang/diet-storefront/internal/storage"
	"github.com/Lixing-Zhang/diet-storefront/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting storefront server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"backend", cfg.Backend.URL,
		"storage", cfg.Storage.Driver,
		"log_level", cfg.LogLevel,
	)

	store, closeStore, err := openStore(cfg.Storage)
	if err != nil {
		log.Error("failed to open storage", "driver", cfg.Storage.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	sess := session.New(store)

	// Warm the catalog. A failed warm-up is not fatal: the next request retries.
	log.Info("loading catalog data...")
	loader := catalog.NewLoader(cfg.Catalog.DishSources, cfg.Catalog.MenuSources,
		time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second, log)
	if _, _, err := loader.LoadAll(context.Background()); err != nil {
		log.Warn("catalog not loaded at startup", "error", err)
	} else {
		stats := loader.GetStats()
		log.Info("catalog loaded successfully",
			"total_dishes", stats["total_dishes"],
			"total_tiers", stats["total_tiers"],
			"dishes_source", stats["dishes_source"],
			"menu_source", stats["menu_source"],
		)
	}
	catalogRepo := repository.NewCatalogRepository(loader)

	client := backend.NewClient(cfg.Backend.URL, cfg.BackendTimeout(), log)

	manager := cart.NewManager(store, sess, client, log)
	manager.SetSyncTimeout(cfg.BackendTimeout())

	orchestrator := checkout.NewOrchestrator(client, manager,
		cfg.Checkout.PaymentReturnURL, cfg.Checkout.HomeURL, cfg.SuccessDelay(), log)

	// Initialize services; each confirm page has its own cooldown
	catalogService := service.NewCatalogService(catalogRepo, catalogRepo, loader)
	constructorService := service.NewConstructorService(catalogRepo, manager, service.NewCooldown(cfg.ConfirmCooldown()), log)
	standardService := service.NewStandardService(catalogRepo, catalogRepo, manager, cfg.Pricing, service.NewCooldown(cfg.ConfirmCooldown()), log)
	calculatorService := service.NewCalculatorService(store, catalogRepo, catalogRepo, manager, cfg.Pricing, service.NewCooldown(cfg.ConfirmCooldown()), log)
	orderService := service.NewOrderService(manager, catalogRepo, log)
	authService := service.NewAuthService(sess, client, manager, log)
	profileService := service.NewProfileService(sess, client, manager, store, log)
	favoritesService := service.NewFavoritesService(store, sess, client, catalogRepo, log)
	checkoutService := service.NewCheckoutService(orchestrator, manager, sess, profileService)

	// Initialize handlers
	routes := &handlers.Set{
		Health:      handlers.NewHealthHandler(catalogService, log),
		Catalog:     handlers.NewCatalogHandler(catalogService, log),
		Constructor: handlers.NewConstructorHandler(constructorService, log),
		Standard:    handlers.NewStandardHandler(standardService, log),
		Calculator:  handlers.NewCalculatorHandler(calculatorService, log),
		Cart:        handlers.NewCartHandler(orderService, log),
		Checkout:    handlers.NewCheckoutHandler(checkoutService, log),
		Auth:        handlers.NewAuthHandler(authService, log),
		Profile:     handlers.NewProfileHandler(profileService, log),
		Favorites:   handlers.NewFavoritesHandler(favoritesService, log),
	}

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	routes.Register(r, sess, log)

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	// let in-flight cart pushes finish before the store closes
	manager.Wait()

	log.Info("server stopped gracefully")
}

// openStore opens the configured store and returns its release func
func openStore(cfg config.StorageConfig) (storage.Store, func(), error) {
	if cfg.Driver == "memory" {
		return storage.NewMemoryStore(), func() {}, nil
	}

	store, err := storage.OpenSQLite(cfg.Path)
	if err != nil {
		return nil, nil, err
	}
	return store, func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close storage", "error", err)
		}
	}, nil
}
