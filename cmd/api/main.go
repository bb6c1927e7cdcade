package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/auth"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/cache"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/db"
	internalhttp "github.com/WailSalutem-Health-Care/care-report-service/internal/http"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/telemetry"
)

func main() {
	log.Println("care-report-service starting")

	ctx := context.Background()

	// Initialize OpenTelemetry
	telemetryCfg := telemetry.LoadConfig()
	provider, err := telemetry.InitProvider(ctx, telemetryCfg)
	if err != nil {
		log.Printf("Warning: failed to initialize telemetry: %v", err)
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := provider.Shutdown(shutdownCtx); err != nil {
				log.Printf("Warning: telemetry shutdown: %v", err)
			}
		}()
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		log.Printf("Warning: failed to initialize metrics: %v", err)
		metrics = nil
	}

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Connect to RabbitMQ. Event publishing is non-fatal; the service runs
	// without it.
	var publisher messaging.PublisherInterface
	rabbitPublisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: failed to connect to RabbitMQ, events disabled: %v", err)
	} else {
		publisher = rabbitPublisher
		defer rabbitPublisher.Close()
	}

	// Load role permissions
	permsPath := os.Getenv("PERMISSIONS_FILE")
	if permsPath == "" {
		permsPath = "permissions.yml"
	}
	perms, err := auth.LoadPermissions(permsPath)
	if err != nil {
		log.Fatalf("Failed to load permissions from %s: %v", permsPath, err)
	}

	// Set up JWT verification against Keycloak
	authCfg := auth.LoadConfig()
	jwks, err := auth.NewJWKS(authCfg.JWKSURL, 15*time.Minute)
	if err != nil {
		log.Fatalf("Failed to initialize JWKS: %v", err)
	}
	defer jwks.Close()
	verifier := auth.NewVerifier(authCfg, jwks)

	store := cache.NewMemoryStore()

	router := internalhttp.SetupRouter(database, verifier, perms, publisher, store, metrics)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      internalhttp.CORSMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("care-report-service listening on :%s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Warning: server shutdown: %v", err)
	}
	log.Println("care-report-service stopped")
}
