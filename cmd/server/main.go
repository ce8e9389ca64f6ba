/*
Package main is the entry point for the payment gateway server.

It is responsible for loading configuration, initializing the global logging
system, connecting to PostgreSQL (running migrations) and optionally Redis,
wiring the handler dependencies, and gracefully handling operating system
interrupt signals (SIGINT, SIGTERM) to ensure a smooth server shutdown.
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/herkeens/Secure-Payment-App/internal/app/db"
	"github.com/herkeens/Secure-Payment-App/internal/app/store"
	"github.com/herkeens/Secure-Payment-App/internal/configs"
	"github.com/herkeens/Secure-Payment-App/internal/handler"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/bruteforce"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/logx"
	"github.com/herkeens/Secure-Payment-App/internal/pkg/password"
)

func main() {
	// Load configuration from environment variables
	cfg, err := configs.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize global logger
	logx.InitGlobalLogger(cfg.Environment == "development")
	logx.Logger().Info().
		Str("environment", cfg.Environment).
		Int("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Bool("redis_guard", cfg.RedisURL != "").
		Msg("Configuration loaded successfully")

	// Create a context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(cfg.DatabaseDSN)
	if err != nil {
		logx.Fatal(err, "Failed to initialize database")
	}
	defer pool.Close()

	hasher, err := password.New(password.DefaultParams)
	if err != nil {
		logx.Fatal(err, "Failed to initialize password hasher")
	}

	// The login lockout counters live in Redis when a URL is configured,
	// which keeps them shared across replicas. A single instance works
	// fine on the in-memory guard.
	var guard bruteforce.Guard
	if cfg.RedisURL != "" {
		client, err := bruteforce.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			logx.Fatal(err, "Failed to connect to Redis")
		}
		defer client.Close()

		guard = bruteforce.NewRedisGuard(client, bruteforce.DefaultConfig)
	} else {
		guard = bruteforce.NewMemoryGuard(bruteforce.DefaultConfig)
	}

	st := store.New(pool)

	deps := &handler.AppDeps{
		Config:    cfg,
		Users:     st,
		Staff:     st,
		Transfers: st,
		Hasher:    hasher,
		Guard:     guard,
	}

	router := handler.Router(deps)

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logx.Info(fmt.Sprintf("Payment gateway starting on http://localhost%s", serverAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logx.Fatal(err, "Server failed to start")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server with a timeout of 5 seconds.
	<-ctx.Done()
	logx.Info("Received shutdown signal. Starting graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logx.Fatal(err, "Server forced to shutdown")
	}

	logx.Info("Server gracefully stopped.")
}
