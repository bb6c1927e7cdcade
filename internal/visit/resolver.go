package visit

import (
	"context"
	"log"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/messaging"
)

// ReportLinker writes a resolved visit record id back onto a report.
// Implemented by the report repository; kept as a small interface here so
// the resolver does not depend on the report package.
type ReportLinker interface {
	LinkVisitRecord(ctx context.Context, reportID, visitRecordID string) error
}

// ResolveInput carries everything known about the visit being reported on.
type ResolveInput struct {
	ClientID      string
	BookingID     string
	VisitRecordID string // already linked on the report, if any
	ReportID      string // set when editing an existing report
	EditMode      bool
}

// MetricsRecorder counts resolution outcomes. Implemented by
// telemetry.Metrics.
type MetricsRecorder interface {
	RecordVisitResolution(ctx context.Context, outcome string)
}

// Resolver turns a (client, booking) pair into a usable visit record id,
// lazily creating the record when the booking has none. Resolution never
// fails the caller: on any persistence error it logs and returns an empty
// id, which degrades the form to read-only care-plan fallback.
type Resolver struct {
	repo      RepositoryInterface
	reports   ReportLinker
	publisher messaging.PublisherInterface
	metrics   MetricsRecorder
}

func NewResolver(repo RepositoryInterface, reports ReportLinker, publisher messaging.PublisherInterface) *Resolver {
	return &Resolver{repo: repo, reports: reports, publisher: publisher}
}

// WithMetrics attaches a metrics recorder. Safe to skip when telemetry is
// not configured.
func (r *Resolver) WithMetrics(metrics MetricsRecorder) *Resolver {
	r.metrics = metrics
	return r
}

func (r *Resolver) recordOutcome(ctx context.Context, outcome string) {
	if r.metrics != nil {
		r.metrics.RecordVisitResolution(ctx, outcome)
	}
}

// Resolve returns the visit record id to use and whether a record was
// created as part of resolution.
func (r *Resolver) Resolve(ctx context.Context, in ResolveInput) (visitID string, created bool) {
	if in.VisitRecordID != "" {
		r.recordOutcome(ctx, "linked")
		return in.VisitRecordID, false
	}
	if in.BookingID == "" {
		r.recordOutcome(ctx, "unresolved")
		return "", false
	}

	existing, err := r.repo.GetVisitRecordByBooking(ctx, in.BookingID)
	if err != nil {
		log.Printf("Warning: failed to look up visit record for booking %s: %v", in.BookingID, err)
		r.recordOutcome(ctx, "degraded")
		return "", false
	}
	if existing != nil {
		r.linkToReport(ctx, in.ReportID, existing.ID)
		r.recordOutcome(ctx, "existing")
		return existing.ID, false
	}

	booking, err := r.repo.GetBooking(ctx, in.BookingID)
	if err != nil {
		log.Printf("Warning: failed to load booking %s: %v", in.BookingID, err)
		r.recordOutcome(ctx, "degraded")
		return "", false
	}

	status := StatusInProgress
	if in.EditMode {
		// The visit already happened; the report is being corrected after
		// the fact.
		status = StatusCompleted
	}

	record, err := r.repo.CreateVisitRecord(ctx, CreateVisitParams{
		BookingID: booking.ID,
		ClientID:  in.ClientID,
		StaffID:   booking.StaffID,
		BranchID:  booking.BranchID,
		Status:    status,
		StartTime: booking.ScheduledStart,
	})
	if err != nil {
		log.Printf("Warning: failed to create visit record for booking %s: %v", in.BookingID, err)
		r.recordOutcome(ctx, "degraded")
		return "", false
	}

	r.linkToReport(ctx, in.ReportID, record.ID)
	r.publishCreated(ctx, record)
	r.recordOutcome(ctx, "created")

	return record.ID, true
}

func (r *Resolver) linkToReport(ctx context.Context, reportID, visitID string) {
	if reportID == "" || r.reports == nil {
		return
	}
	if err := r.reports.LinkVisitRecord(ctx, reportID, visitID); err != nil {
		log.Printf("Warning: failed to link visit record %s to report %s: %v", visitID, reportID, err)
	}
}

func (r *Resolver) publishCreated(ctx context.Context, record *VisitRecord) {
	if r.publisher == nil {
		return
	}
	event := messaging.VisitCreatedEvent{
		BaseEvent: messaging.NewBaseEvent(messaging.EventVisitCreated),
		Data: messaging.VisitCreatedData{
			VisitRecordID: record.ID,
			BookingID:     record.BookingID,
			ClientID:      record.ClientID,
			StaffID:       record.StaffID,
			Status:        record.Status,
			StartTime:     record.StartTime,
			CreatedAt:     record.CreatedAt,
		},
	}
	if err := r.publisher.Publish(ctx, messaging.EventVisitCreated, event); err != nil {
		log.Printf("Warning: failed to publish visit.created event: %v", err)
	}
}
