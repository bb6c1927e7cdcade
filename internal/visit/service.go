package visit

import (
	"context"
	"fmt"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/news2"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// VitalDetail is a stored reading with its score recomputed from the raw
// inputs.
type VitalDetail struct {
	VitalReading
	Score news2.Result `json:"score"`
}

// Detail is the full view of one visit record with all owned rows.
type Detail struct {
	Record      *VisitRecord `json:"record"`
	Tasks       []Task       `json:"tasks"`
	Medications []Medication `json:"medications"`
	Vitals      *VitalDetail `json:"vitals,omitempty"`
	Events      []Event      `json:"events"`
}

// Detail loads a visit record and its tasks, medications, vitals and
// events. Row sections fail independently; a section error is reported per
// section rather than failing the record fetch.
func (s *Service) Detail(ctx context.Context, id string) (*Detail, []string, error) {
	record, err := s.repo.GetVisitRecord(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get visit record: %w", err)
	}

	detail := &Detail{Record: record}
	var sectionErrors []string

	if detail.Tasks, err = s.repo.ListTasks(ctx, id); err != nil {
		sectionErrors = append(sectionErrors, "tasks: "+err.Error())
	}
	if detail.Medications, err = s.repo.ListMedications(ctx, id); err != nil {
		sectionErrors = append(sectionErrors, "medications: "+err.Error())
	}
	if detail.Events, err = s.repo.ListEvents(ctx, id); err != nil {
		sectionErrors = append(sectionErrors, "events: "+err.Error())
	}

	reading, err := s.repo.GetVitals(ctx, id)
	if err != nil {
		sectionErrors = append(sectionErrors, "vitals: "+err.Error())
	} else if reading != nil {
		detail.Vitals = &VitalDetail{
			VitalReading: *reading,
			Score:        news2.Score(reading.Vitals),
		}
	}

	return detail, sectionErrors, nil
}
