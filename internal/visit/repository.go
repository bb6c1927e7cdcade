package visit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/news2"
	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetBooking reads one booking row. Bookings belong to the scheduling
// service; only the fields the resolver needs are selected.
func (r *Repository) GetBooking(ctx context.Context, id string) (*Booking, error) {
	query := `
		SELECT id, client_id, staff_id, branch_id, scheduled_start, scheduled_end
		FROM wailsalutem.bookings
		WHERE id = $1
	`

	var booking Booking
	var staffID sql.NullString
	var branchID sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.ClientID,
		&staffID,
		&branchID,
		&booking.ScheduledStart,
		&booking.ScheduledEnd,
	)

	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}

	if staffID.Valid {
		booking.StaffID = staffID.String
	}
	if branchID.Valid {
		booking.BranchID = branchID.String
	}

	return &booking, nil
}

// CreateVisitRecord inserts a new visit record and returns it.
func (r *Repository) CreateVisitRecord(ctx context.Context, params CreateVisitParams) (*VisitRecord, error) {
	query := `
		INSERT INTO wailsalutem.visit_records
		(id, booking_id, client_id, staff_id, branch_id, status, start_time, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, booking_id, client_id, staff_id, branch_id, status, start_time, created_at
	`

	id := uuid.New()
	createdAt := time.Now()

	var record VisitRecord
	var bookingID, staffID, branchID sql.NullString

	err := r.db.QueryRowContext(ctx, query,
		id,
		nullIfEmpty(params.BookingID),
		params.ClientID,
		nullIfEmpty(params.StaffID),
		nullIfEmpty(params.BranchID),
		params.Status,
		params.StartTime,
		createdAt,
	).Scan(
		&record.ID,
		&bookingID,
		&record.ClientID,
		&staffID,
		&branchID,
		&record.Status,
		&record.StartTime,
		&record.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to insert visit record: %w", err)
	}

	if bookingID.Valid {
		record.BookingID = bookingID.String
	}
	if staffID.Valid {
		record.StaffID = staffID.String
	}
	if branchID.Valid {
		record.BranchID = branchID.String
	}

	return &record, nil
}

// GetVisitRecord reads one visit record by id.
func (r *Repository) GetVisitRecord(ctx context.Context, id string) (*VisitRecord, error) {
	return r.getVisitRecord(ctx, "id = $1", id)
}

// GetVisitRecordByBooking reads the visit record owned by a booking, or
// nil when the booking has none yet.
func (r *Repository) GetVisitRecordByBooking(ctx context.Context, bookingID string) (*VisitRecord, error) {
	record, err := r.getVisitRecord(ctx, "booking_id = $1", bookingID)
	if err == ErrVisitNotFound {
		return nil, nil
	}
	return record, err
}

func (r *Repository) getVisitRecord(ctx context.Context, where string, arg interface{}) (*VisitRecord, error) {
	query := fmt.Sprintf(`
		SELECT id, booking_id, client_id, staff_id, branch_id, status,
		       start_time, end_time, visit_notes, summary,
		       carer_signature, client_signature, created_at, updated_at
		FROM wailsalutem.visit_records
		WHERE %s
	`, where)

	var record VisitRecord
	var bookingID, staffID, branchID sql.NullString
	var endTime sql.NullTime
	var visitNotes, summary, carerSig, clientSig sql.NullString
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&record.ID,
		&bookingID,
		&record.ClientID,
		&staffID,
		&branchID,
		&record.Status,
		&record.StartTime,
		&endTime,
		&visitNotes,
		&summary,
		&carerSig,
		&clientSig,
		&record.CreatedAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query visit record: %w", err)
	}

	if bookingID.Valid {
		record.BookingID = bookingID.String
	}
	if staffID.Valid {
		record.StaffID = staffID.String
	}
	if branchID.Valid {
		record.BranchID = branchID.String
	}
	if endTime.Valid {
		record.EndTime = &endTime.Time
	}
	if visitNotes.Valid {
		record.VisitNotes = visitNotes.String
	}
	if summary.Valid {
		record.Summary = summary.String
	}
	if carerSig.Valid {
		record.CarerSignature = carerSig.String
	}
	if clientSig.Valid {
		record.ClientSignature = clientSig.String
	}
	if updatedAt.Valid {
		record.UpdatedAt = &updatedAt.Time
	}

	return &record, nil
}

// UpdateVisitNotes replaces the free-text notes on a visit record.
func (r *Repository) UpdateVisitNotes(ctx context.Context, id, notes string) error {
	return r.execVisitUpdate(ctx, id, "visit_notes = $1", notes)
}

// UpdateVisitSummary replaces the auto-generated summary on a visit record.
func (r *Repository) UpdateVisitSummary(ctx context.Context, id, summary string) error {
	return r.execVisitUpdate(ctx, id, "summary = $1", summary)
}

// UpdateVisitStatus transitions a visit record's status.
func (r *Repository) UpdateVisitStatus(ctx context.Context, id, status string) error {
	return r.execVisitUpdate(ctx, id, "status = $1", status)
}

func (r *Repository) execVisitUpdate(ctx context.Context, id, setClause string, value interface{}) error {
	query := fmt.Sprintf(`
		UPDATE wailsalutem.visit_records
		SET %s, updated_at = $2
		WHERE id = $3
	`, setClause)

	result, err := r.db.ExecContext(ctx, query, value, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to update visit record: %w", err)
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

// ListTasks returns the task rows of one visit record.
func (r *Repository) ListTasks(ctx context.Context, visitID string) ([]Task, error) {
	query := `
		SELECT id, visit_record_id, category, name, completed, notes, created_at, updated_at
		FROM wailsalutem.visit_tasks
		WHERE visit_record_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var task Task
		var notes sql.NullString
		var updatedAt sql.NullTime

		if err := rows.Scan(&task.ID, &task.VisitID, &task.Category, &task.Name,
			&task.Completed, &notes, &task.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit task: %w", err)
		}
		if notes.Valid {
			task.Notes = notes.String
		}
		if updatedAt.Valid {
			task.UpdatedAt = &updatedAt.Time
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit tasks: %w", err)
	}

	return tasks, nil
}

// InsertTask creates one visit-level task row.
func (r *Repository) InsertTask(ctx context.Context, visitID string, task NewTask) (*Task, error) {
	query := `
		INSERT INTO wailsalutem.visit_tasks
		(id, visit_record_id, category, name, completed, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, visit_record_id, category, name, completed, notes, created_at
	`

	var inserted Task
	var notes sql.NullString

	err := r.db.QueryRowContext(ctx, query,
		uuid.New(), visitID, task.Category, task.Name, task.Completed,
		nullIfEmpty(task.Notes), time.Now(),
	).Scan(&inserted.ID, &inserted.VisitID, &inserted.Category, &inserted.Name,
		&inserted.Completed, &notes, &inserted.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert visit task: %w", err)
	}
	if notes.Valid {
		inserted.Notes = notes.String
	}

	return &inserted, nil
}

// UpdateTask applies a partial update to one task row.
func (r *Repository) UpdateTask(ctx context.Context, taskID string, patch TaskPatch) error {
	var updates []string
	var args []interface{}
	argIndex := 1

	if patch.Completed != nil {
		updates = append(updates, fmt.Sprintf("completed = $%d", argIndex))
		args = append(args, *patch.Completed)
		argIndex++
	}
	if patch.Notes != nil {
		updates = append(updates, fmt.Sprintf("notes = $%d", argIndex))
		args = append(args, *patch.Notes)
		argIndex++
	}

	return r.execRowPatch(ctx, "visit_tasks", taskID, updates, args, argIndex)
}

// ListMedications returns the medication rows of one visit record.
func (r *Repository) ListMedications(ctx context.Context, visitID string) ([]Medication, error) {
	query := `
		SELECT id, visit_record_id, name, dosage, administered, administered_at,
		       notes, missed_reason, created_at, updated_at
		FROM wailsalutem.visit_medications
		WHERE visit_record_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit medications: %w", err)
	}
	defer rows.Close()

	var medications []Medication
	for rows.Next() {
		var med Medication
		var dosage, notes, missedReason sql.NullString
		var administeredAt, updatedAt sql.NullTime

		if err := rows.Scan(&med.ID, &med.VisitID, &med.Name, &dosage, &med.Administered,
			&administeredAt, &notes, &missedReason, &med.CreatedAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit medication: %w", err)
		}
		if dosage.Valid {
			med.Dosage = dosage.String
		}
		if administeredAt.Valid {
			med.AdministeredAt = &administeredAt.Time
		}
		if notes.Valid {
			med.Notes = notes.String
		}
		if missedReason.Valid {
			med.MissedReason = missedReason.String
		}
		if updatedAt.Valid {
			med.UpdatedAt = &updatedAt.Time
		}
		medications = append(medications, med)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit medications: %w", err)
	}

	return medications, nil
}

// InsertMedication creates one visit-level medication row.
func (r *Repository) InsertMedication(ctx context.Context, visitID string, med NewMedication) (*Medication, error) {
	query := `
		INSERT INTO wailsalutem.visit_medications
		(id, visit_record_id, name, dosage, administered, administered_at, notes, missed_reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, visit_record_id, name, administered, created_at
	`

	var inserted Medication

	err := r.db.QueryRowContext(ctx, query,
		uuid.New(), visitID, med.Name, nullIfEmpty(med.Dosage), med.Administered,
		med.AdministeredAt, nullIfEmpty(med.Notes), nullIfEmpty(med.MissedReason), time.Now(),
	).Scan(&inserted.ID, &inserted.VisitID, &inserted.Name, &inserted.Administered, &inserted.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert visit medication: %w", err)
	}

	inserted.Dosage = med.Dosage
	inserted.AdministeredAt = med.AdministeredAt
	inserted.Notes = med.Notes
	inserted.MissedReason = med.MissedReason

	return &inserted, nil
}

// UpdateMedication applies a partial update to one medication row.
func (r *Repository) UpdateMedication(ctx context.Context, medicationID string, patch MedicationPatch) error {
	var updates []string
	var args []interface{}
	argIndex := 1

	if patch.Administered != nil {
		updates = append(updates, fmt.Sprintf("administered = $%d", argIndex))
		args = append(args, *patch.Administered)
		argIndex++
	}
	if patch.AdministeredAt != nil {
		updates = append(updates, fmt.Sprintf("administered_at = $%d", argIndex))
		args = append(args, *patch.AdministeredAt)
		argIndex++
	}
	if patch.Notes != nil {
		updates = append(updates, fmt.Sprintf("notes = $%d", argIndex))
		args = append(args, *patch.Notes)
		argIndex++
	}
	if patch.MissedReason != nil {
		updates = append(updates, fmt.Sprintf("missed_reason = $%d", argIndex))
		args = append(args, *patch.MissedReason)
		argIndex++
	}

	return r.execRowPatch(ctx, "visit_medications", medicationID, updates, args, argIndex)
}

// GetVitals returns the visit's single NEWS2 reading, or nil when none was
// recorded.
func (r *Repository) GetVitals(ctx context.Context, visitID string) (*VitalReading, error) {
	query := `
		SELECT id, visit_record_id, respiratory_rate, oxygen_saturation, supplemental_oxygen,
		       systolic_bp, diastolic_bp, pulse_rate, consciousness_level, temperature, recorded_at
		FROM wailsalutem.visit_vitals
		WHERE visit_record_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`

	var reading VitalReading
	var consciousness string

	err := r.db.QueryRowContext(ctx, query, visitID).Scan(
		&reading.ID,
		&reading.VisitID,
		&reading.Vitals.RespiratoryRate,
		&reading.Vitals.OxygenSaturation,
		&reading.Vitals.SupplementalOxygen,
		&reading.Vitals.SystolicBP,
		&reading.Vitals.DiastolicBP,
		&reading.Vitals.PulseRate,
		&consciousness,
		&reading.Vitals.Temperature,
		&reading.RecordedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query visit vitals: %w", err)
	}

	reading.Vitals.Consciousness = news2.Consciousness(consciousness)
	return &reading, nil
}

// InsertVitals stores the raw inputs of a new reading. The derived score is
// never written.
func (r *Repository) InsertVitals(ctx context.Context, visitID string, vitals news2.Vitals) (*VitalReading, error) {
	query := `
		INSERT INTO wailsalutem.visit_vitals
		(id, visit_record_id, respiratory_rate, oxygen_saturation, supplemental_oxygen,
		 systolic_bp, diastolic_bp, pulse_rate, consciousness_level, temperature, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, recorded_at
	`

	reading := VitalReading{VisitID: visitID, Vitals: vitals}

	err := r.db.QueryRowContext(ctx, query,
		uuid.New(), visitID,
		vitals.RespiratoryRate, vitals.OxygenSaturation, vitals.SupplementalOxygen,
		vitals.SystolicBP, vitals.DiastolicBP, vitals.PulseRate,
		string(vitals.Consciousness), vitals.Temperature, time.Now(),
	).Scan(&reading.ID, &reading.RecordedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert visit vitals: %w", err)
	}

	return &reading, nil
}

// UpdateVitals replaces the raw inputs of an existing reading. The form
// always submits all seven together, so this is a full replace.
func (r *Repository) UpdateVitals(ctx context.Context, readingID string, vitals news2.Vitals) error {
	query := `
		UPDATE wailsalutem.visit_vitals
		SET respiratory_rate = $1, oxygen_saturation = $2, supplemental_oxygen = $3,
		    systolic_bp = $4, diastolic_bp = $5, pulse_rate = $6,
		    consciousness_level = $7, temperature = $8, recorded_at = $9
		WHERE id = $10
	`

	result, err := r.db.ExecContext(ctx, query,
		vitals.RespiratoryRate, vitals.OxygenSaturation, vitals.SupplementalOxygen,
		vitals.SystolicBP, vitals.DiastolicBP, vitals.PulseRate,
		string(vitals.Consciousness), vitals.Temperature, time.Now(), readingID,
	)
	if err != nil {
		return fmt.Errorf("failed to update visit vitals: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRowNotFound
	}

	return nil
}

// ListEvents returns the event rows of one visit record.
func (r *Repository) ListEvents(ctx context.Context, visitID string) ([]Event, error) {
	query := `
		SELECT id, visit_record_id, type, severity, description,
		       follow_up_required, follow_up_notes, occurred_at, created_at
		FROM wailsalutem.visit_events
		WHERE visit_record_id = $1
		ORDER BY occurred_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, visitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var description, followUpNotes sql.NullString

		if err := rows.Scan(&event.ID, &event.VisitID, &event.Type, &event.Severity,
			&description, &event.FollowUpRequired, &followUpNotes,
			&event.OccurredAt, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit event: %w", err)
		}
		if description.Valid {
			event.Description = description.String
		}
		if followUpNotes.Valid {
			event.FollowUpNotes = followUpNotes.String
		}
		events = append(events, event)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit events: %w", err)
	}

	return events, nil
}

// InsertEvent creates one visit-level event row.
func (r *Repository) InsertEvent(ctx context.Context, visitID string, event NewEvent) (*Event, error) {
	occurredAt := time.Now()
	if event.OccurredAt != nil {
		occurredAt = *event.OccurredAt
	}

	query := `
		INSERT INTO wailsalutem.visit_events
		(id, visit_record_id, type, severity, description, follow_up_required, follow_up_notes, occurred_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, visit_record_id, type, severity, follow_up_required, occurred_at, created_at
	`

	var inserted Event

	err := r.db.QueryRowContext(ctx, query,
		uuid.New(), visitID, event.Type, event.Severity, nullIfEmpty(event.Description),
		event.FollowUpRequired, nullIfEmpty(event.FollowUpNotes), occurredAt, time.Now(),
	).Scan(&inserted.ID, &inserted.VisitID, &inserted.Type, &inserted.Severity,
		&inserted.FollowUpRequired, &inserted.OccurredAt, &inserted.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to insert visit event: %w", err)
	}

	inserted.Description = event.Description
	inserted.FollowUpNotes = event.FollowUpNotes

	return &inserted, nil
}

// UpdateEvent applies a partial update to one event row.
func (r *Repository) UpdateEvent(ctx context.Context, eventID string, patch EventPatch) error {
	var updates []string
	var args []interface{}
	argIndex := 1

	if patch.Severity != nil {
		updates = append(updates, fmt.Sprintf("severity = $%d", argIndex))
		args = append(args, *patch.Severity)
		argIndex++
	}
	if patch.Description != nil {
		updates = append(updates, fmt.Sprintf("description = $%d", argIndex))
		args = append(args, *patch.Description)
		argIndex++
	}
	if patch.FollowUpRequired != nil {
		updates = append(updates, fmt.Sprintf("follow_up_required = $%d", argIndex))
		args = append(args, *patch.FollowUpRequired)
		argIndex++
	}
	if patch.FollowUpNotes != nil {
		updates = append(updates, fmt.Sprintf("follow_up_notes = $%d", argIndex))
		args = append(args, *patch.FollowUpNotes)
		argIndex++
	}

	return r.execRowPatch(ctx, "visit_events", eventID, updates, args, argIndex)
}

func (r *Repository) execRowPatch(ctx context.Context, table, id string, updates []string, args []interface{}, argIndex int) error {
	if len(updates) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE wailsalutem.%s
		SET %s, updated_at = NOW()
		WHERE id = $%d
	`, table, strings.Join(updates, ", "), argIndex)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update %s row: %w", table, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrRowNotFound
	}

	return nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
