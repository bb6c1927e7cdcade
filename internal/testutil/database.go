package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
)

// SetupTestDB creates a connection to the test database
// This connects to the local wailsalutem_test database
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	connStr := "host=localhost port=5432 user=localadmin password=Stoplying! dbname=wailsalutem_test sslmode=disable"

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	return db
}

// SetupTestTransaction creates a test database connection and begins a transaction
// The transaction is automatically rolled back when the test ends
// This ensures test isolation without needing cleanup
func SetupTestTransaction(t *testing.T) (*sql.DB, *sql.Tx) {
	t.Helper()

	db := SetupTestDB(t)

	tx, err := db.BeginTx(context.Background(), nil)
	if err != nil {
		db.Close()
		t.Fatalf("Failed to begin transaction: %v", err)
	}

	// Ensure transaction is rolled back when test ends
	t.Cleanup(func() {
		tx.Rollback()
		db.Close()
	})

	return db, tx
}

// CleanupTestDB cleans up test data from the database
// Use this if you're not using transactions
func CleanupTestDB(t *testing.T, db *sql.DB) {
	t.Helper()

	// Child rows cascade from visit_records; reports reference visits but
	// are truncated explicitly to be safe.
	tables := []string{
		"wailsalutem.client_service_reports",
		"wailsalutem.visit_records",
		"wailsalutem.bookings",
		"wailsalutem.client_care_plans",
	}
	for _, table := range tables {
		if _, err := db.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
			t.Logf("Warning: Failed to clean up %s: %v", table, err)
		}
	}
}

// CreateTestBooking inserts a booking for a client and returns its id
// This is a helper for tests that exercise visit resolution
func CreateTestBooking(t *testing.T, db *sql.DB, clientID, staffID string, start time.Time) string {
	t.Helper()

	query := `
		INSERT INTO wailsalutem.bookings
		(client_id, staff_id, scheduled_start, scheduled_end, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`

	var bookingID string
	err := db.QueryRow(query, clientID, staffID, start, start.Add(45*time.Minute)).Scan(&bookingID)
	if err != nil {
		t.Fatalf("Failed to create test booking: %v", err)
	}

	return bookingID
}
