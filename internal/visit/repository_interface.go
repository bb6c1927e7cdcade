package visit

import (
	"context"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/news2"
)

// RepositoryInterface defines the contract for visit data access
type RepositoryInterface interface {
	GetBooking(ctx context.Context, id string) (*Booking, error)

	CreateVisitRecord(ctx context.Context, params CreateVisitParams) (*VisitRecord, error)
	GetVisitRecord(ctx context.Context, id string) (*VisitRecord, error)
	GetVisitRecordByBooking(ctx context.Context, bookingID string) (*VisitRecord, error)
	UpdateVisitNotes(ctx context.Context, id, notes string) error
	UpdateVisitSummary(ctx context.Context, id, summary string) error
	UpdateVisitStatus(ctx context.Context, id, status string) error

	ListTasks(ctx context.Context, visitID string) ([]Task, error)
	InsertTask(ctx context.Context, visitID string, task NewTask) (*Task, error)
	UpdateTask(ctx context.Context, taskID string, patch TaskPatch) error

	ListMedications(ctx context.Context, visitID string) ([]Medication, error)
	InsertMedication(ctx context.Context, visitID string, med NewMedication) (*Medication, error)
	UpdateMedication(ctx context.Context, medicationID string, patch MedicationPatch) error

	GetVitals(ctx context.Context, visitID string) (*VitalReading, error)
	InsertVitals(ctx context.Context, visitID string, vitals news2.Vitals) (*VitalReading, error)
	UpdateVitals(ctx context.Context, readingID string, vitals news2.Vitals) error

	ListEvents(ctx context.Context, visitID string) ([]Event, error)
	InsertEvent(ctx context.Context, visitID string, event NewEvent) (*Event, error)
	UpdateEvent(ctx context.Context, eventID string, patch EventPatch) error
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
