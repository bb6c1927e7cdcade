package careplan

import "context"

// RepositoryInterface defines the contract for care-plan data access
type RepositoryInterface interface {
	GetActivePlan(ctx context.Context, clientID string) (*CarePlan, error)
	ListGoals(ctx context.Context, carePlanID string) ([]Goal, error)
	ListActivities(ctx context.Context, clientID string) ([]Activity, error)
	ListMedications(ctx context.Context, clientID string) ([]Medication, error)
}

// Ensure Repository implements RepositoryInterface
var _ RepositoryInterface = (*Repository)(nil)
