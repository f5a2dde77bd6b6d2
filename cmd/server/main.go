// Package main initializes and starts the MedicNotes backend server,
// setting up configuration, logging, the database connection, repositories,
// services, and handlers.
package main

import (
	"cmp"
	"context"
	"fmt"
	"time"

	nethttp "net/http"

	"go.uber.org/zap"

	"github.com/medicnotes/medicnotes/internal/auth"
	"github.com/medicnotes/medicnotes/internal/config"
	"github.com/medicnotes/medicnotes/internal/db"
	"github.com/medicnotes/medicnotes/internal/logger"
	"github.com/medicnotes/medicnotes/internal/repository"
	"github.com/medicnotes/medicnotes/internal/server/handler/http"
	"github.com/medicnotes/medicnotes/internal/service"
)

var (
	// version holds the build version set via ldflags.
	version string
	// buildDate holds the build timestamp set via ldflags.
	buildDate string
)

func main() {
	// Parse command-line and environment configuration.
	options := config.Parse()

	// Print build metadata (or "N/A" if unset).
	fmt.Printf("Build version: %s\n", cmp.Or(version, "N/A"))
	fmt.Printf("Build date: %s\n", cmp.Or(buildDate, "N/A"))

	// Initialize structured logging.
	log := logger.New()
	defer func() { _ = log.Log.Sync() }()
	if err := log.Init(options.LogLevel); err != nil {
		log.Log.Fatal("failed to init logger", zap.Error(err))
	}
	zapLogger := log.Log

	if options.JWTSecret == "" {
		zapLogger.Fatal("JWT_SECRET must be set")
	}

	// Initialize PostgreSQL connection and schema.
	postgresDB, err := db.InitPostgres(options.DatabaseDSN)
	if err != nil {
		zapLogger.Fatal("cannot init database", zap.Error(err))
	}

	// Seed a bootstrap administrator so a fresh deployment can log in.
	if options.SeedAdminEmail != "" && options.SeedAdminPassword != "" {
		hash, err := auth.HashPassword(options.SeedAdminPassword, options.BcryptCost)
		if err != nil {
			zapLogger.Fatal("cannot hash seed admin password", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := db.SeedAdmin(ctx, postgresDB, options.SeedAdminEmail, hash); err != nil {
			cancel()
			zapLogger.Fatal("cannot seed admin", zap.Error(err))
		}
		cancel()
	}

	// Initialize repositories for the hospital directory.
	adminRepo := repository.NewPostgresAdminRepository(postgresDB)
	doctorRepo := repository.NewPostgresDoctorRepository(postgresDB)
	patientRepo := repository.NewPostgresPatientRepository(postgresDB)

	// Initialize business-logic services.
	tokens := auth.NewTokenManager(options.JWTSecret, options.TokenTTLMinutes)
	authService := service.NewAuthService(adminRepo, doctorRepo, patientRepo, tokens)
	directoryService := service.NewDirectoryService(adminRepo, doctorRepo, patientRepo, options.BcryptCost)

	// Create HTTP handlers for the login and directory endpoints.
	authHandler := &http.AuthHandler{AuthService: authService}
	dirHandler := &http.DirectoryHandler{Directory: directoryService}

	// Build the router with middleware and routes.
	router := http.NewRouter(authHandler, dirHandler, tokens, zapLogger)

	server := &nethttp.Server{
		Addr:    options.Address,
		Handler: router,
	}

	zapLogger.Info("starting HTTP server", zap.String("addr", options.Address))
	if err := server.ListenAndServe(); err != nil {
		zapLogger.Fatal("failed to start HTTP server", zap.Error(err))
	}
}
