package report

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const reportColumns = `
	id, client_id, staff_id, branch_id, created_by, visit_record_id, booking_id,
	service_date, duration_minutes, mood, engagement, observations, feedback,
	next_visit_prep, status, visible, submitted_at, reviewed_at, reviewed_by,
	review_notes, created_at, updated_at
`

// CreateReport inserts a new service report in pending status.
func (r *Repository) CreateReport(ctx context.Context, params CreateParams) (*ServiceReport, error) {
	query := `
		INSERT INTO wailsalutem.client_service_reports
		(id, client_id, staff_id, branch_id, created_by, visit_record_id, booking_id,
		 service_date, duration_minutes, mood, engagement, observations, feedback,
		 next_visit_prep, status, visible, submitted_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, 'pending', false, $15, $16)
		RETURNING ` + reportColumns

	row := r.db.QueryRowContext(ctx, query,
		uuid.New(),
		params.ClientID,
		params.StaffID,
		nullIfEmpty(params.BranchID),
		params.CreatedBy,
		nullIfEmpty(params.VisitRecordID),
		nullIfEmpty(params.BookingID),
		params.ServiceDate,
		params.DurationMinutes,
		params.Mood,
		params.Engagement,
		params.Observations,
		nullIfEmpty(params.Feedback),
		nullIfEmpty(params.NextVisitPrep),
		params.SubmittedAt,
		time.Now(),
	)

	report, err := scanReport(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert report: %w", err)
	}
	return report, nil
}

// GetReport reads one report by id.
func (r *Repository) GetReport(ctx context.Context, id string) (*ServiceReport, error) {
	query := `
		SELECT ` + reportColumns + `
		FROM wailsalutem.client_service_reports
		WHERE id = $1
	`

	report, err := scanReport(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query report: %w", err)
	}
	return report, nil
}

// UpdateSubmission rewrites the aggregate fields of a report on edit or
// resubmit and moves it back to pending. Attribution columns (staff_id,
// branch_id, created_by) are never part of this statement: admin edits
// must not reassign report ownership.
func (r *Repository) UpdateSubmission(ctx context.Context, id string, params UpdateParams) (*ServiceReport, error) {
	query := `
		UPDATE wailsalutem.client_service_reports
		SET service_date = $1, duration_minutes = $2, mood = $3, engagement = $4,
		    observations = $5, feedback = $6, next_visit_prep = $7,
		    status = 'pending', visible = false, submitted_at = $8,
		    reviewed_at = NULL, reviewed_by = NULL, review_notes = NULL,
		    updated_at = $9
		WHERE id = $10
		RETURNING ` + reportColumns

	row := r.db.QueryRowContext(ctx, query,
		params.ServiceDate,
		params.DurationMinutes,
		params.Mood,
		params.Engagement,
		params.Observations,
		nullIfEmpty(params.Feedback),
		nullIfEmpty(params.NextVisitPrep),
		params.SubmittedAt,
		time.Now(),
		id,
	)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return report, nil
}

// UpdateStatus applies an admin review decision.
func (r *Repository) UpdateStatus(ctx context.Context, id, status, reviewedBy, notes string) (*ServiceReport, error) {
	query := `
		UPDATE wailsalutem.client_service_reports
		SET status = $1, reviewed_at = $2, reviewed_by = $3, review_notes = $4,
		    visible = (CASE WHEN $1 = 'approved' THEN true ELSE visible END),
		    updated_at = $2
		WHERE id = $5
		RETURNING ` + reportColumns

	row := r.db.QueryRowContext(ctx, query, status, time.Now(), reviewedBy, nullIfEmpty(notes), id)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, ErrReportNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	return report, nil
}

// LinkVisitRecord writes a resolved visit record id onto a report.
func (r *Repository) LinkVisitRecord(ctx context.Context, reportID, visitRecordID string) error {
	query := `
		UPDATE wailsalutem.client_service_reports
		SET visit_record_id = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, visitRecordID, time.Now(), reportID)
	if err != nil {
		return fmt.Errorf("failed to link visit record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrReportNotFound
	}

	return nil
}

// ListReports returns reports with pagination and optional filters.
func (r *Repository) ListReports(ctx context.Context, limit, offset int, filter ListFilter) ([]ServiceReport, int, error) {
	whereClause := "WHERE 1=1"
	filterArgs := []interface{}{}

	if filter.ClientID != "" {
		filterArgs = append(filterArgs, filter.ClientID)
		whereClause += fmt.Sprintf(" AND client_id = $%d", len(filterArgs))
	}
	if filter.StaffID != "" {
		filterArgs = append(filterArgs, filter.StaffID)
		whereClause += fmt.Sprintf(" AND staff_id = $%d", len(filterArgs))
	}
	if filter.Status != "" && filter.Status != "all" {
		filterArgs = append(filterArgs, filter.Status)
		whereClause += fmt.Sprintf(" AND status = $%d", len(filterArgs))
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM wailsalutem.client_service_reports
		%s
	`, whereClause)

	var totalCount int
	if err := r.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count reports: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM wailsalutem.client_service_reports
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, reportColumns, whereClause, len(filterArgs)+1, len(filterArgs)+2)

	rows, err := r.db.QueryContext(ctx, query, append(filterArgs, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	var reports []ServiceReport
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan report: %w", err)
		}
		reports = append(reports, *report)
	}

	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating reports: %w", err)
	}

	return reports, totalCount, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReport(row rowScanner) (*ServiceReport, error) {
	var report ServiceReport
	var branchID, visitRecordID, bookingID sql.NullString
	var feedback, nextVisitPrep, reviewedBy, reviewNotes sql.NullString
	var submittedAt, reviewedAt, updatedAt sql.NullTime

	err := row.Scan(
		&report.ID,
		&report.ClientID,
		&report.StaffID,
		&branchID,
		&report.CreatedBy,
		&visitRecordID,
		&bookingID,
		&report.ServiceDate,
		&report.DurationMinutes,
		&report.Mood,
		&report.Engagement,
		&report.Observations,
		&feedback,
		&nextVisitPrep,
		&report.Status,
		&report.Visible,
		&submittedAt,
		&reviewedAt,
		&reviewedBy,
		&reviewNotes,
		&report.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if branchID.Valid {
		report.BranchID = branchID.String
	}
	if visitRecordID.Valid {
		report.VisitRecordID = visitRecordID.String
	}
	if bookingID.Valid {
		report.BookingID = bookingID.String
	}
	if feedback.Valid {
		report.Feedback = feedback.String
	}
	if nextVisitPrep.Valid {
		report.NextVisitPrep = nextVisitPrep.String
	}
	if submittedAt.Valid {
		report.SubmittedAt = &submittedAt.Time
	}
	if reviewedAt.Valid {
		report.ReviewedAt = &reviewedAt.Time
	}
	if reviewedBy.Valid {
		report.ReviewedBy = reviewedBy.String
	}
	if reviewNotes.Valid {
		report.ReviewNotes = reviewNotes.String
	}
	if updatedAt.Valid {
		report.UpdatedAt = &updatedAt.Time
	}

	return &report, nil
}

func nullIfEmpty(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
