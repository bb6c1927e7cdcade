package careplan

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"
)

type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// GetActivePlan returns the client's active care plan, or nil when the
// client has none. Having no plan is not an error; the report form simply
// has nothing to fall back on.
func (r *Repository) GetActivePlan(ctx context.Context, clientID string) (*CarePlan, error) {
	query := `
		SELECT id, client_id, status, auto_save_data, created_at, updated_at
		FROM wailsalutem.client_care_plans
		WHERE client_id = $1 AND status = 'active' AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT 1
	`

	var plan CarePlan
	var autoSave sql.NullString
	var updatedAt sql.NullTime

	err := r.db.QueryRowContext(ctx, query, clientID).Scan(
		&plan.ID,
		&plan.ClientID,
		&plan.Status,
		&autoSave,
		&plan.CreatedAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query care plan: %w", err)
	}

	if autoSave.Valid {
		plan.AutoSaveData = []byte(autoSave.String)
	}
	if updatedAt.Valid {
		plan.UpdatedAt = &updatedAt.Time
	}

	return &plan, nil
}

// ListGoals returns the relational goal rows for a care plan.
func (r *Repository) ListGoals(ctx context.Context, carePlanID string) ([]Goal, error) {
	query := `
		SELECT id, title, description, status
		FROM wailsalutem.client_care_plan_goals
		WHERE care_plan_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, carePlanID)
	if err != nil {
		return nil, fmt.Errorf("failed to query care plan goals: %w", err)
	}
	defer rows.Close()

	var goals []Goal
	for rows.Next() {
		var goal Goal
		var description sql.NullString
		var status sql.NullString

		if err := rows.Scan(&goal.ID, &goal.Title, &description, &status); err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		if description.Valid {
			goal.Description = description.String
		}
		if status.Valid {
			goal.Status = status.String
		}
		goals = append(goals, goal)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return goals, nil
}

// ListActivities returns the relational activity rows for a client.
func (r *Repository) ListActivities(ctx context.Context, clientID string) ([]Activity, error) {
	query := `
		SELECT id, name, category
		FROM wailsalutem.client_activities
		WHERE client_id = $1 AND deleted_at IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query client activities: %w", err)
	}
	defer rows.Close()

	var activities []Activity
	for rows.Next() {
		var activity Activity
		var category sql.NullString

		if err := rows.Scan(&activity.ID, &activity.Name, &category); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if category.Valid {
			activity.Category = category.String
		}
		activities = append(activities, activity)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating activities: %w", err)
	}

	return activities, nil
}

// ListMedications returns the client's standing medication list with
// time-of-day restrictions.
func (r *Repository) ListMedications(ctx context.Context, clientID string) ([]Medication, error) {
	query := `
		SELECT id, name, dosage, times_of_day, notes
		FROM wailsalutem.client_medications
		WHERE client_id = $1 AND deleted_at IS NULL
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query client medications: %w", err)
	}
	defer rows.Close()

	var medications []Medication
	for rows.Next() {
		var med Medication
		var dosage sql.NullString
		var notes sql.NullString

		if err := rows.Scan(&med.ID, &med.Name, &dosage, pq.Array(&med.TimesOfDay), &notes); err != nil {
			return nil, fmt.Errorf("failed to scan medication: %w", err)
		}
		if dosage.Valid {
			med.Dosage = dosage.String
		}
		if notes.Valid {
			med.Notes = notes.String
		}
		medications = append(medications, med)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating medications: %w", err)
	}

	return medications, nil
}
