package report

import (
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/careplan"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/visit"
)

// ServiceReport is the client-facing aggregate record of one visit.
type ServiceReport struct {
	ID              string     `json:"id"`
	ClientID        string     `json:"client_id"`
	StaffID         string     `json:"staff_id"`
	BranchID        string     `json:"branch_id,omitempty"`
	CreatedBy       string     `json:"created_by"`
	VisitRecordID   string     `json:"visit_record_id,omitempty"`
	BookingID       string     `json:"booking_id,omitempty"`
	ServiceDate     time.Time  `json:"service_date"`
	DurationMinutes int        `json:"duration_minutes"`
	Mood            string     `json:"mood"`
	Engagement      string     `json:"engagement"`
	Observations    string     `json:"observations"`
	Feedback        string     `json:"feedback,omitempty"`
	NextVisitPrep   string     `json:"next_visit_prep,omitempty"`
	Status          string     `json:"status"`
	Visible         bool       `json:"visible"`
	SubmittedAt     *time.Time `json:"submitted_at,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	ReviewedBy      string     `json:"reviewed_by,omitempty"`
	ReviewNotes     string     `json:"review_notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
}

// SubmitRequest is the single submit payload: the aggregate fields plus
// every pending change accumulated in the form.
type SubmitRequest struct {
	ReportID      string    `json:"report_id,omitempty"` // set on edit/resubmit
	ClientID      string    `json:"client_id"`
	BookingID     string    `json:"booking_id,omitempty"`
	Mood          string    `json:"mood"`
	Engagement    string    `json:"engagement"`
	Observations  string    `json:"observations"`
	Feedback      string    `json:"feedback,omitempty"`
	NextVisitPrep string    `json:"next_visit_prep,omitempty"`
	Changes       ChangeSet `json:"changes"`
}

// SubmitResult reports what the submit achieved. Warnings list sub-writes
// that failed without blocking the rest.
type SubmitResult struct {
	Report       *ServiceReport `json:"report"`
	VisitID      string         `json:"visit_record_id,omitempty"`
	VisitCreated bool           `json:"visit_created"`
	Warnings     []string       `json:"warnings,omitempty"`
}

// ReviewRequest is an admin's status decision on a pending report.
type ReviewRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

// Data tiers for the aggregated read path.
const (
	TierVisit    = "visit"     // live per-visit rows
	TierCarePlan = "care_plan" // read-only care-plan fallback
	TierEmpty    = "empty"
)

// Item sources on the read path.
const (
	SourceVisit    = "visit"
	SourceCarePlan = "care_plan"
)

// TaskView is a task row as shown on the form, whether it came from the
// visit or the care-plan fallback. Fallback rows have no id and cannot be
// patched.
type TaskView struct {
	ID        string `json:"id,omitempty"`
	Category  string `json:"category"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Notes     string `json:"notes,omitempty"`
	Source    string `json:"source"`
}

// MedicationView is a medication row as shown on the form.
type MedicationView struct {
	ID             string     `json:"id,omitempty"`
	Name           string     `json:"name"`
	Dosage         string     `json:"dosage,omitempty"`
	Administered   bool       `json:"administered"`
	AdministeredAt *time.Time `json:"administered_at,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	MissedReason   string     `json:"missed_reason,omitempty"`
	Source         string     `json:"source"`
}

// Data is the aggregated view backing the report form: the resolved tier,
// the deduplicated task and medication lists, and the remaining sections.
// Sections fail independently; SectionErrors carries their messages.
type Data struct {
	Tier          string              `json:"tier"`
	ReadOnly      bool                `json:"read_only"`
	VisitRecord   *visit.VisitRecord  `json:"visit_record,omitempty"`
	Tasks         []TaskView          `json:"tasks"`
	Medications   []MedicationView    `json:"medications"`
	Vitals        *visit.VitalDetail  `json:"vitals,omitempty"`
	Events        []visit.Event       `json:"events"`
	Goals         []careplan.Goal     `json:"goals"`
	Activities    []careplan.Activity `json:"activities"`
	SectionErrors []string            `json:"section_errors,omitempty"`
}

// CreateParams are the columns written when a report is first created.
type CreateParams struct {
	ClientID        string
	StaffID         string
	BranchID        string
	CreatedBy       string
	VisitRecordID   string
	BookingID       string
	ServiceDate     time.Time
	DurationMinutes int
	Mood            string
	Engagement      string
	Observations    string
	Feedback        string
	NextVisitPrep   string
	SubmittedAt     time.Time
}

// UpdateParams are the columns rewritten on edit/resubmit. Attribution
// columns (staff, branch, created_by) are deliberately absent: edits never
// reassign ownership.
type UpdateParams struct {
	ServiceDate     time.Time
	DurationMinutes int
	Mood            string
	Engagement      string
	Observations    string
	Feedback        string
	NextVisitPrep   string
	SubmittedAt     time.Time
}

// ListFilter narrows the paginated report listing.
type ListFilter struct {
	ClientID string
	StaffID  string
	Status   string
}
