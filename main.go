package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/seva-trust/portal-backend/shared/utils"
	v1 "github.com/seva-trust/portal-backend/v1"
	v1handlers "github.com/seva-trust/portal-backend/v1/handlers"
	v1middleware "github.com/seva-trust/portal-backend/v1/middleware"
	v1services "github.com/seva-trust/portal-backend/v1/services"
)

func main() {
	// Load .env file if it exists (optional - fails silently if not found)
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{AddSource: true}))
	slog.SetDefault(logger)

	slog.Info("Starting Trust Portal backend")

	dbConfig := v1.NewDatabaseConfig()
	gormDB, err := v1.ConnectGormDB(dbConfig)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	mailer := v1services.NewMailerFromEnv()
	v1Handler := v1handlers.NewV1Handler(gormDB, mailer)

	// All /api/v1/... routes go on the API mux
	apiMux := http.NewServeMux()
	v1Handler.SetupV1Routes(apiMux)

	// Middleware chain: CORS -> metrics -> session auth -> permission gate
	corsMiddleware := v1middleware.NewCORSMiddleware()
	authMiddleware := v1middleware.NewSessionAuthMiddleware(v1Handler.SessionService())
	authzMiddleware := v1middleware.NewAuthorizationMiddleware()

	protectedAPIHandler := corsMiddleware(
		v1middleware.MetricsMiddleware(
			authMiddleware.Authenticate(
				authzMiddleware.Authorize(apiMux),
			),
		),
	)

	topLevelMux := http.NewServeMux()
	topLevelMux.Handle("/api/v1/", protectedAPIHandler)
	topLevelMux.Handle("/metrics", promhttp.Handler())
	topLevelMux.Handle("/health", utils.PanicRecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		type HealthStatus struct {
			Status   string `json:"status"`
			Service  string `json:"service"`
			Database string `json:"database"`
			Error    string `json:"error,omitempty"`
		}

		status := HealthStatus{Status: "healthy", Service: "trust-portal-backend", Database: dbConfig.Database}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		sqlDB, err := gormDB.DB()
		if err != nil {
			status.Status = "unhealthy"
			status.Error = err.Error()
		} else if err := sqlDB.PingContext(ctx); err != nil {
			status.Status = "unhealthy"
			status.Error = err.Error()
		}

		statusCode := http.StatusOK
		if status.Status != "healthy" {
			statusCode = http.StatusServiceUnavailable
		}
		utils.RespondWithJSON(w, statusCode, status)
	})))

	// Activity reminder poller, cancelled on shutdown
	notifier := v1services.NewNotifierFromEnv(gormDB, mailer)
	notifier.Start(context.Background())

	server := utils.CreateServer(utils.DefaultServerConfig(), topLevelMux)

	go func() {
		slog.Info("Trust Portal backend listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down Trust Portal backend...")

	notifier.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}

	slog.Info("Trust Portal backend exited")
}
