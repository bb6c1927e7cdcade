package report

import "context"

// RepositoryInterface defines the contract for service report persistence.
type RepositoryInterface interface {
	CreateReport(ctx context.Context, params CreateParams) (*ServiceReport, error)
	GetReport(ctx context.Context, id string) (*ServiceReport, error)
	UpdateSubmission(ctx context.Context, id string, params UpdateParams) (*ServiceReport, error)
	UpdateStatus(ctx context.Context, id, status, reviewedBy, notes string) (*ServiceReport, error)
	LinkVisitRecord(ctx context.Context, reportID, visitRecordID string) error
	ListReports(ctx context.Context, limit, offset int, filter ListFilter) ([]ServiceReport, int, error)
}

var _ RepositoryInterface = (*Repository)(nil)
