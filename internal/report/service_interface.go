package report

import "context"

// ServiceInterface defines the contract for report business logic.
type ServiceInterface interface {
	Submit(ctx context.Context, actor Actor, req SubmitRequest) (*SubmitResult, error)
	Review(ctx context.Context, actor Actor, reportID string, req ReviewRequest) (*ServiceReport, error)
	Get(ctx context.Context, actor Actor, id string) (*ServiceReport, error)
	List(ctx context.Context, actor Actor, limit, offset int, filter ListFilter) ([]ServiceReport, int, error)
	Data(ctx context.Context, clientID, bookingID, visitRecordID string, editMode bool) (*Data, error)
}

var _ ServiceInterface = (*Service)(nil)
