package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/misterbo271/movie-database-app-mienpv/internal/config"
	"github.com/misterbo271/movie-database-app-mienpv/internal/database"
	"github.com/misterbo271/movie-database-app-mienpv/internal/handlers"
	"github.com/misterbo271/movie-database-app-mienpv/internal/middleware"
	"github.com/misterbo271/movie-database-app-mienpv/internal/store"
	"github.com/misterbo271/movie-database-app-mienpv/internal/tmdb"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := log.New(os.Stdout, "[moviedb] ", log.LstdFlags|log.Lshortfile)
	logger.Printf("Starting movie catalog server in %s mode", cfg.Server.Env)

	// Initialize Redis connection
	redisClient, err := database.NewRedisClient(database.RedisConfig{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       0,
		TLS:      cfg.Redis.TLS,
	})
	if err != nil {
		logger.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	// Initialize TMDB client
	tmdbClient := tmdb.NewClient(tmdb.Config{
		AccessToken: cfg.TMDB.AccessToken,
		AccountID:   cfg.TMDB.AccountID,
		BaseURL:     cfg.TMDB.BaseURL,
		Language:    cfg.TMDB.Language,
	})

	// Initialize the catalog store; one instance serves the app session
	catalogStore := store.New(store.Options{
		Client:       tmdbClient,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
	})

	// Warm the discover listings in the background
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		catalogStore.RefreshAll(ctx)
		logger.Println("Catalog listings warmed")
	}()

	// Initialize rate limiter (100 req/min in production, unlimited in local/dev)
	maxRequests := 1000 // High limit for local/dev
	if cfg.IsProduction() {
		maxRequests = 100
	}
	rateLimiter := middleware.NewRateLimiter(redisClient.Client, maxRequests, time.Minute, cfg.IsProduction())

	// Initialize handlers
	catalogHandler := handlers.NewCatalogHandler(catalogStore, logger)

	// Set up HTTP router
	mux := http.NewServeMux()

	mux.Handle("GET /api/movies/{category}", rateLimiter.Limit(http.HandlerFunc(catalogHandler.ListCategory)))
	mux.Handle("GET /api/search", rateLimiter.Limit(http.HandlerFunc(catalogHandler.Search)))
	mux.Handle("GET /api/movie/{id}", rateLimiter.Limit(http.HandlerFunc(catalogHandler.GetMovie)))
	mux.Handle("GET /api/watchlist", rateLimiter.Limit(http.HandlerFunc(catalogHandler.GetWatchlist)))
	mux.Handle("POST /api/watchlist/toggle", rateLimiter.Limit(http.HandlerFunc(catalogHandler.ToggleWatchlist)))
	mux.Handle("DELETE /api/cache", rateLimiter.Limit(http.HandlerFunc(catalogHandler.ClearCache)))
	mux.Handle("GET /api/account", rateLimiter.Limit(http.HandlerFunc(catalogHandler.GetAccount)))

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if err := redisClient.Health(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unhealthy","redis":"down"}`)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"ok","redis":"up"}`)
	})

	// Wrap with logging middleware
	handler := middleware.Logger(logger)(mux)

	// Create HTTP server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exited")
}
