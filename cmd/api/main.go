package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"

	"customer-accounts/internal/auth"
	"customer-accounts/internal/config"
	"customer-accounts/internal/customer"
	"customer-accounts/internal/database"
	httpServer "customer-accounts/internal/http"
	"customer-accounts/internal/logging"
	"customer-accounts/internal/version"
)

// @title           Customer Account Service
// @version         1.0
// @description     Customer-facing account service: account activation via recovery code, token authentication, credential resets and profile edits.

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"token_algorithm", cfg.Auth.Algorithm,
	)

	db, err := initDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	tokens, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	gate, err := version.NewGate(cfg.Server.MinClientVersion)
	if err != nil {
		return fmt.Errorf("failed to initialize version gate: %w", err)
	}

	stores := auth.NewStores()
	hasher := auth.NewHasher()

	authService := auth.NewService(db, stores, hasher, tokens, logger, cfg.Auth.RecoveryCode, cfg.Auth.TokenTTL)
	authHandler := auth.NewHandler(authService)
	authMiddleware := auth.NewMiddleware(tokens, stores.Identities(db))

	customerService := customer.NewService(stores.Customers(db), logger)
	customerHandler := customer.NewHandler(customerService)

	router := httpServer.NewRouter(cfg, logger, gate, authHandler, authMiddleware, customerHandler)
	server := httpServer.NewServer(
		":"+cfg.Server.Port,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		logger.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(ctx)
}

func initDB(cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("postgres", cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return database.NewBunDB(sqlDB), nil
}
