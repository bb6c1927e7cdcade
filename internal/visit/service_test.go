package visit

import (
	"context"
	"errors"
	"testing"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/news2"
)

// TestDetail_RecomputesScore tests that the NEWS2 score is derived on read
func TestDetail_RecomputesScore(t *testing.T) {
	mockRepo := &mockRepository{
		getVisitRecordFunc: func(ctx context.Context, id string) (*VisitRecord, error) {
			return &VisitRecord{ID: id, ClientID: "client-1", Status: StatusCompleted}, nil
		},
		getVitalsFunc: func(ctx context.Context, visitID string) (*VitalReading, error) {
			return &VitalReading{
				ID:      "vitals-1",
				VisitID: visitID,
				Vitals: news2.Vitals{
					RespiratoryRate:  16,
					OxygenSaturation: 92,
					SystolicBP:       120,
					PulseRate:        72,
					Consciousness:    news2.ConsciousnessAlert,
					Temperature:      36.5,
				},
			}, nil
		},
	}

	service := NewService(mockRepo)
	detail, sectionErrors, err := service.Detail(context.Background(), "visit-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(sectionErrors) != 0 {
		t.Errorf("Expected no section errors, got %v", sectionErrors)
	}
	if detail.Vitals == nil {
		t.Fatal("Expected vitals in detail")
	}
	if detail.Vitals.Score.Total != 2 {
		t.Errorf("Expected recomputed score 2 for SpO2 92, got %d", detail.Vitals.Score.Total)
	}
}

// TestDetail_SectionFailureIsolated tests that one failing section does not
// fail the others
func TestDetail_SectionFailureIsolated(t *testing.T) {
	mockRepo := &mockRepository{
		getVisitRecordFunc: func(ctx context.Context, id string) (*VisitRecord, error) {
			return &VisitRecord{ID: id, ClientID: "client-1"}, nil
		},
		listTasksFunc: func(ctx context.Context, visitID string) ([]Task, error) {
			return nil, errors.New("connection reset")
		},
	}

	service := NewService(mockRepo)
	detail, sectionErrors, err := service.Detail(context.Background(), "visit-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if detail.Record == nil {
		t.Fatal("Expected record despite task failure")
	}
	if len(sectionErrors) != 1 {
		t.Errorf("Expected 1 section error, got %v", sectionErrors)
	}
}

// TestDetail_RecordNotFound tests that a missing record fails the fetch
func TestDetail_RecordNotFound(t *testing.T) {
	service := NewService(&mockRepository{})

	_, _, err := service.Detail(context.Background(), "missing")

	if err == nil {
		t.Error("Expected error for missing record")
	}
}
