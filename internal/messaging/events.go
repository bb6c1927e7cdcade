package messaging

import (
	"time"

	"github.com/google/uuid"
)

// Event routing keys as constants
const (
	// Report lifecycle events
	EventReportSubmitted   = "report.submitted"
	EventReportResubmitted = "report.resubmitted"
	EventReportReviewed    = "report.reviewed"

	// Visit record events
	EventVisitCreated = "visit.created"
	EventVisitClosed  = "visit.closed"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventType   string    `json:"event_type"`
	EventID     string    `json:"event_id"`
	Timestamp   time.Time `json:"timestamp"`
	ServiceName string    `json:"service_name"`
}

// ReportSubmittedEvent is published when a carer submits a service report,
// both on first submission and on resubmission after revision.
type ReportSubmittedEvent struct {
	BaseEvent
	Data ReportSubmittedData `json:"data"`
}

type ReportSubmittedData struct {
	ReportID      string    `json:"report_id"`
	ClientID      string    `json:"client_id"`
	StaffID       string    `json:"staff_id"`
	BranchID      string    `json:"branch_id,omitempty"`
	VisitRecordID string    `json:"visit_record_id,omitempty"`
	Status        string    `json:"status"`
	SubmittedAt   time.Time `json:"submitted_at"`
}

// ReportReviewedEvent is published when an admin transitions a report
// to approved, rejected or requires_revision.
type ReportReviewedEvent struct {
	BaseEvent
	Data ReportReviewedData `json:"data"`
}

type ReportReviewedData struct {
	ReportID   string    `json:"report_id"`
	ClientID   string    `json:"client_id"`
	ReviewedBy string    `json:"reviewed_by"`
	OldStatus  string    `json:"old_status"`
	NewStatus  string    `json:"new_status"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// VisitCreatedEvent is published when the resolver lazily materializes a
// visit record for a booking that had none.
type VisitCreatedEvent struct {
	BaseEvent
	Data VisitCreatedData `json:"data"`
}

type VisitCreatedData struct {
	VisitRecordID string    `json:"visit_record_id"`
	BookingID     string    `json:"booking_id"`
	ClientID      string    `json:"client_id"`
	StaffID       string    `json:"staff_id,omitempty"`
	Status        string    `json:"status"`
	StartTime     time.Time `json:"start_time"`
	CreatedAt     time.Time `json:"created_at"`
}

// VisitClosedEvent is published by the cleanup job when it marks a stale
// in-progress visit record as completed.
type VisitClosedEvent struct {
	BaseEvent
	Data VisitClosedData `json:"data"`
}

type VisitClosedData struct {
	VisitRecordID string    `json:"visit_record_id"`
	BookingID     string    `json:"booking_id,omitempty"`
	ClosedAt      time.Time `json:"closed_at"`
}

// NewBaseEvent creates a base event with common fields
func NewBaseEvent(eventType string) BaseEvent {
	return BaseEvent{
		EventType:   eventType,
		EventID:     uuid.New().String(),
		Timestamp:   time.Now().UTC(), // Explicitly set to UTC
		ServiceName: "care-report-service",
	}
}
