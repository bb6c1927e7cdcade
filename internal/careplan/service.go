package careplan

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/dedupe"
)

type Service struct {
	repo RepositoryInterface
}

func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// ResolveContent loads the client's active plan and merges every known
// source shape into one Content. Returns nil when the client has no active
// plan. Authority rule: when relational rows exist for goals or activities,
// the matching JSON category is ignored entirely, not merged.
func (s *Service) ResolveContent(ctx context.Context, clientID string) (*Content, error) {
	plan, err := s.repo.GetActivePlan(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load care plan: %w", err)
	}
	if plan == nil {
		return nil, nil
	}

	snapshot := parseSnapshot(plan)

	relGoals, err := s.repo.ListGoals(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load care plan goals: %w", err)
	}
	relActivities, err := s.repo.ListActivities(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client activities: %w", err)
	}

	goals := relGoals
	if len(goals) == 0 {
		goals = snapshot.Goals
	}
	activities := relActivities
	if len(activities) == 0 {
		activities = snapshot.Activities
	}

	content := &Content{
		PlanID:     plan.ID,
		Tasks:      mergeTasks(snapshot, goals, activities),
		Goals:      goals,
		Activities: activities,
	}

	return content, nil
}

// MedicationsDueAt returns the client's standing medications due in the
// time-of-day bucket of the given scheduled start, deduplicated by
// normalized name and dosage.
func (s *Service) MedicationsDueAt(ctx context.Context, clientID string, scheduledStart time.Time) ([]Medication, error) {
	medications, err := s.repo.ListMedications(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client medications: %w", err)
	}

	bucket := BucketFor(scheduledStart)

	var due []Medication
	for _, med := range medications {
		if appliesAt(med.TimesOfDay, bucket) {
			due = append(due, med)
		}
	}

	return dedupe.ByKey(due, func(m Medication) string {
		return dedupe.Key(m.Name, m.Dosage)
	}), nil
}

// parseSnapshot decodes the plan's JSON blob. A missing or malformed blob
// yields an empty snapshot; older plans predate the relational tables and
// some carry truncated autosaves.
func parseSnapshot(plan *CarePlan) autoSaveData {
	var snapshot autoSaveData
	if len(plan.AutoSaveData) == 0 {
		return snapshot
	}
	if err := json.Unmarshal(plan.AutoSaveData, &snapshot); err != nil {
		log.Printf("Warning: unreadable auto_save_data on care plan %s: %v", plan.ID, err)
		return autoSaveData{}
	}
	return snapshot
}

// mergeTasks flattens all sources into task rows: the snapshot's tasks[]
// and personal_care.items[], plus one row per resolved goal and activity.
// First occurrence wins on the normalized category:name key.
func mergeTasks(snapshot autoSaveData, goals []Goal, activities []Activity) []PlanTask {
	var tasks []PlanTask

	for _, t := range snapshot.Tasks {
		category := t.Category
		if category == "" {
			category = "General"
		}
		if t.Name == "" {
			continue
		}
		tasks = append(tasks, PlanTask{Category: category, Name: t.Name, Source: SourceJSONTasks})
	}

	for _, item := range snapshot.PersonalCare.Items {
		if item.Name == "" {
			continue
		}
		tasks = append(tasks, PlanTask{Category: "Personal Care", Name: item.Name, Source: SourceJSONPersonalCare})
	}

	for _, goal := range goals {
		if goal.Title == "" {
			continue
		}
		source := SourceRelational
		if goal.ID == "" {
			source = SourceJSONTasks
		}
		tasks = append(tasks, PlanTask{Category: "Goals", Name: goal.Title, Source: source})
	}

	for _, activity := range activities {
		if activity.Name == "" {
			continue
		}
		source := SourceRelational
		if activity.ID == "" {
			source = SourceJSONTasks
		}
		tasks = append(tasks, PlanTask{Category: "Activities", Name: activity.Name, Source: source})
	}

	return dedupe.ByKey(tasks, func(t PlanTask) string {
		return dedupe.Key(t.Category, t.Name)
	})
}
