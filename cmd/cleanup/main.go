package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/db"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/messaging"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/visit"
)

func main() {
	log.Println("Visit Cleanup Job - Starting")
	log.Printf("Stale threshold: %s", visit.StaleAfter)

	// Connect to database
	database, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Connect to RabbitMQ so closed visits are announced. Non-fatal.
	var publisher messaging.PublisherInterface
	rabbitPublisher, err := messaging.NewPublisher()
	if err != nil {
		log.Printf("Warning: failed to connect to RabbitMQ, events disabled: %v", err)
	} else {
		publisher = rabbitPublisher
		defer rabbitPublisher.Close()
	}

	cleanupService := visit.NewCleanupService(database, publisher)

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	// Check how many visits are still open past the threshold
	count, err := cleanupService.CountStaleVisits(ctx)
	if err != nil {
		log.Fatalf("Failed to count stale visits: %v", err)
	}

	log.Printf("Found %d stale in-progress visit(s)", count)

	if count == 0 {
		log.Println("No cleanup needed. Exiting.")
		os.Exit(0)
	}

	closedCount, err := cleanupService.CloseStaleVisits(ctx)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Printf("✓ Cleanup completed successfully: %d visit(s) closed", closedCount)
	log.Println("Cleanup Job - Finished")
}
