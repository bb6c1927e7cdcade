package visit

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/messaging"
)

// StaleAfter is how long a visit record may stay in_progress before the
// cleanup job closes it. Carers occasionally lose connectivity mid-visit
// and the record never transitions.
const StaleAfter = 24 * time.Hour

// CleanupService closes visit records left in_progress past their window.
type CleanupService struct {
	db        *sql.DB
	publisher messaging.PublisherInterface
}

func NewCleanupService(db *sql.DB, publisher messaging.PublisherInterface) *CleanupService {
	return &CleanupService{db: db, publisher: publisher}
}

// CountStaleVisits returns how many records are eligible for closing.
func (s *CleanupService) CountStaleVisits(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-StaleAfter)

	var count int
	query := `
		SELECT COUNT(*)
		FROM wailsalutem.visit_records
		WHERE status = 'in_progress' AND start_time < $1
	`
	if err := s.db.QueryRowContext(ctx, query, cutoff).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count stale visits: %w", err)
	}
	return count, nil
}

// CloseStaleVisits marks every stale in_progress record as completed,
// stamping end_time. Failures on individual records are logged and skipped
// so one bad row does not block the batch.
func (s *CleanupService) CloseStaleVisits(ctx context.Context) (int, error) {
	cutoff := time.Now().Add(-StaleAfter)
	log.Printf("Closing visit records left in_progress since before %s", cutoff.Format(time.RFC3339))

	query := `
		SELECT id, booking_id
		FROM wailsalutem.visit_records
		WHERE status = 'in_progress' AND start_time < $1
		ORDER BY start_time ASC
	`

	rows, err := s.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to query stale visits: %w", err)
	}
	defer rows.Close()

	var stale []struct {
		ID        string
		BookingID string
	}
	for rows.Next() {
		var visit struct {
			ID        string
			BookingID string
		}
		var bookingID sql.NullString
		if err := rows.Scan(&visit.ID, &bookingID); err != nil {
			return 0, fmt.Errorf("failed to scan stale visit: %w", err)
		}
		if bookingID.Valid {
			visit.BookingID = bookingID.String
		}
		stale = append(stale, visit)
	}
	if err = rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating stale visits: %w", err)
	}

	if len(stale) == 0 {
		log.Println("No stale visit records found")
		return 0, nil
	}

	closedCount := 0
	for _, visit := range stale {
		if err := s.closeVisit(ctx, visit.ID); err != nil {
			log.Printf("Failed to close visit record %s: %v", visit.ID, err)
			continue
		}
		closedCount++

		if s.publisher != nil {
			event := messaging.VisitClosedEvent{
				BaseEvent: messaging.NewBaseEvent(messaging.EventVisitClosed),
				Data: messaging.VisitClosedData{
					VisitRecordID: visit.ID,
					BookingID:     visit.BookingID,
					ClosedAt:      time.Now(),
				},
			}
			if err := s.publisher.Publish(ctx, messaging.EventVisitClosed, event); err != nil {
				log.Printf("Warning: failed to publish visit.closed event: %v", err)
			}
		}
	}

	log.Printf("Closed %d/%d stale visit records", closedCount, len(stale))
	return closedCount, nil
}

func (s *CleanupService) closeVisit(ctx context.Context, id string) error {
	query := `
		UPDATE wailsalutem.visit_records
		SET status = 'completed', end_time = $1, updated_at = $1
		WHERE id = $2 AND status = 'in_progress'
	`
	result, err := s.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to close visit record: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrVisitNotFound
	}
	return nil
}
