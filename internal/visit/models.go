package visit

import (
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/news2"
)

// Visit record statuses. Records are never deleted, only transitioned.
const (
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// VisitRecord is the per-occurrence record of an actual care visit,
// distinct from its scheduled booking. Created lazily the first time a
// report is opened for a booking that lacks one.
type VisitRecord struct {
	ID              string     `json:"id"`
	BookingID       string     `json:"booking_id,omitempty"`
	ClientID        string     `json:"client_id"`
	StaffID         string     `json:"staff_id,omitempty"`
	BranchID        string     `json:"branch_id,omitempty"`
	Status          string     `json:"status"`
	StartTime       time.Time  `json:"start_time"`
	EndTime         *time.Time `json:"end_time,omitempty"`
	VisitNotes      string     `json:"visit_notes,omitempty"`
	Summary         string     `json:"summary,omitempty"`
	CarerSignature  string     `json:"carer_signature,omitempty"`
	ClientSignature string     `json:"client_signature,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// Booking is the scheduled slot a visit record hangs off. Bookings are
// owned by the scheduling service; this service only reads them.
type Booking struct {
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	StaffID        string    `json:"staff_id,omitempty"`
	BranchID       string    `json:"branch_id,omitempty"`
	ScheduledStart time.Time `json:"scheduled_start"`
	ScheduledEnd   time.Time `json:"scheduled_end"`
}

// Task is one visit-level task row.
type Task struct {
	ID        string     `json:"id"`
	VisitID   string     `json:"visit_record_id"`
	Category  string     `json:"category"`
	Name      string     `json:"name"`
	Completed bool       `json:"completed"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Medication is one visit-level medication administration row.
type Medication struct {
	ID             string     `json:"id"`
	VisitID        string     `json:"visit_record_id"`
	Name           string     `json:"name"`
	Dosage         string     `json:"dosage,omitempty"`
	Administered   bool       `json:"administered"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	MissedReason   string     `json:"missed_reason,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// VitalReading is the at-most-one NEWS2 reading per visit. Only the seven
// raw inputs are stored; the score is recomputed on read.
type VitalReading struct {
	ID         string       `json:"id"`
	VisitID    string       `json:"visit_record_id"`
	Vitals     news2.Vitals `json:"vitals"`
	RecordedAt time.Time    `json:"recorded_at"`
}

// Event severities, persisted verbatim.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Event is one incident, accident or observation during a visit.
type Event struct {
	ID               string    `json:"id"`
	VisitID          string    `json:"visit_record_id"`
	Type             string    `json:"type"`
	Severity         string    `json:"severity"`
	Description      string    `json:"description,omitempty"`
	FollowUpRequired bool      `json:"follow_up_required"`
	FollowUpNotes    string    `json:"follow_up_notes,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
	CreatedAt        time.Time `json:"created_at"`
}

// CreateVisitParams are the fields set when the resolver lazily
// materializes a record.
type CreateVisitParams struct {
	BookingID string
	ClientID  string
	StaffID   string
	BranchID  string
	Status    string
	StartTime time.Time
}

// NewTask is a manually added task carried in the submit payload.
type NewTask struct {
	Category  string `json:"category"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
}

// NewMedication is a manually added medication row.
type NewMedication struct {
	Name           string     `json:"name"`
	Dosage         string     `json:"dosage,omitempty"`
	Administered   bool       `json:"administered"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	MissedReason   string     `json:"missed_reason,omitempty"`
}

// NewEvent is a newly recorded incident/accident/observation.
type NewEvent struct {
	Type             string     `json:"type"`
	Severity         string     `json:"severity"`
	Description      string     `json:"description,omitempty"`
	FollowUpRequired bool       `json:"follow_up_required"`
	FollowUpNotes    string     `json:"follow_up_notes,omitempty"`
	OccurredAt       *time.Time `json:"occurred_at,omitempty"`
}

// TaskPatch updates an existing task row. Nil fields are left untouched.
type TaskPatch struct {
	Completed *bool   `json:"completed,omitempty"`
	Notes     *string `json:"notes,omitempty"`
}

// MedicationPatch updates an existing medication row.
type MedicationPatch struct {
	Administered   *bool      `json:"administered,omitempty"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	MissedReason   *string    `json:"missed_reason,omitempty"`
}

// EventPatch updates an existing event row.
type EventPatch struct {
	Severity         *string `json:"severity,omitempty"`
	Description      *string `json:"description,omitempty"`
	FollowUpRequired *bool   `json:"follow_up_required,omitempty"`
	FollowUpNotes    *string `json:"follow_up_notes,omitempty"`
}
