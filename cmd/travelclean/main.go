// Package main is the entry point for the Travel Clean & Legal web server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travelclean/internal/blog"
	"travelclean/internal/cache"
	"travelclean/internal/config"
	"travelclean/internal/database"
	"travelclean/internal/handlers"
	"travelclean/internal/middleware"
	"travelclean/internal/render"
	"travelclean/internal/router"
	"travelclean/internal/session"
	"travelclean/internal/store"
	"travelclean/web"
)

// Contact form submissions allowed per client and window.
const (
	contactLimit  = 5
	contactWindow = 10 * time.Minute
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: JSON in production, text in development.
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	if !cfg.IsDev() {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"site", cfg.SiteURL,
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Seed the fixed categories in development (existing rows are kept).
	if cfg.IsDev() {
		if _, err := database.SeedCategories(context.Background(), db, database.DefaultCategories); err != nil {
			slog.Error("failed to seed database", "error", err)
			os.Exit(1)
		}
	}

	// Connect to Valkey for the page cache. The site works without it.
	var pageCache *cache.PageCache
	if cfg.CacheEnabled() {
		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()
		pageCache = cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)
		slog.Info("page cache enabled", "ttl", cfg.PageCacheTTL.String())
	} else {
		slog.Warn("valkey not configured, page cache disabled")
	}

	// Flash messages travel in a signed cookie; mark it Secure outside
	// development.
	sessionStore := session.NewStore(cfg.SecretKey, !cfg.IsDev())

	renderer, err := render.New(render.Site{
		Name:            cfg.SiteName,
		Description:     cfg.SiteDescription,
		URL:             cfg.SiteURL,
		ContactEmail:    cfg.ContactEmail,
		AdSenseClientID: cfg.AdSenseClientID,
	}, sessionStore)
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		slog.Error("failed to open static assets", "error", err)
		os.Exit(1)
	}

	// Initialize data stores and services.
	categoryStore := store.NewCategoryStore(db)
	postStore := store.NewPostStore(db)

	blogService := blog.NewService(categoryStore, postStore, cfg.SiteURL)
	adminService := blog.NewAdmin(categoryStore, postStore)

	contactLimiter := middleware.NewRateLimiter(contactLimit, contactWindow)
	defer contactLimiter.Stop()

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(renderer, blogService, sessionStore, pageCache)
	adminHandlers := handlers.NewAdmin(renderer, sessionStore, adminService, pageCache)

	r := router.New(publicHandlers, adminHandlers, contactLimiter, static)

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
