package careplan

import (
	"context"
	"time"
)

// ServiceInterface defines the contract for care-plan fallback resolution
type ServiceInterface interface {
	ResolveContent(ctx context.Context, clientID string) (*Content, error)
	MedicationsDueAt(ctx context.Context, clientID string, scheduledStart time.Time) ([]Medication, error)
}

// Ensure Service implements ServiceInterface
var _ ServiceInterface = (*Service)(nil)
