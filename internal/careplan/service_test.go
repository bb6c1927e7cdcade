package careplan

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

type mockRepository struct {
	getActivePlanFunc   func(ctx context.Context, clientID string) (*CarePlan, error)
	listGoalsFunc       func(ctx context.Context, carePlanID string) ([]Goal, error)
	listActivitiesFunc  func(ctx context.Context, clientID string) ([]Activity, error)
	listMedicationsFunc func(ctx context.Context, clientID string) ([]Medication, error)
}

func (m *mockRepository) GetActivePlan(ctx context.Context, clientID string) (*CarePlan, error) {
	if m.getActivePlanFunc != nil {
		return m.getActivePlanFunc(ctx, clientID)
	}
	return nil, nil
}

func (m *mockRepository) ListGoals(ctx context.Context, carePlanID string) ([]Goal, error) {
	if m.listGoalsFunc != nil {
		return m.listGoalsFunc(ctx, carePlanID)
	}
	return nil, nil
}

func (m *mockRepository) ListActivities(ctx context.Context, clientID string) ([]Activity, error) {
	if m.listActivitiesFunc != nil {
		return m.listActivitiesFunc(ctx, clientID)
	}
	return nil, nil
}

func (m *mockRepository) ListMedications(ctx context.Context, clientID string) ([]Medication, error) {
	if m.listMedicationsFunc != nil {
		return m.listMedicationsFunc(ctx, clientID)
	}
	return nil, nil
}

func planWithSnapshot(t *testing.T, snapshot interface{}) *CarePlan {
	t.Helper()
	raw, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("Failed to marshal snapshot: %v", err)
	}
	return &CarePlan{
		ID:           "plan-1",
		ClientID:     "client-1",
		Status:       "active",
		AutoSaveData: raw,
		CreatedAt:    time.Now(),
	}
}

// TestResolveContent_NoPlan tests that a client without a plan yields nil content
func TestResolveContent_NoPlan(t *testing.T) {
	service := NewService(&mockRepository{})

	content, err := service.ResolveContent(context.Background(), "client-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if content != nil {
		t.Errorf("Expected nil content, got %+v", content)
	}
}

// TestResolveContent_JSONSources tests merging tasks[] and personal_care.items[]
func TestResolveContent_JSONSources(t *testing.T) {
	mockRepo := &mockRepository{
		getActivePlanFunc: func(ctx context.Context, clientID string) (*CarePlan, error) {
			return planWithSnapshot(t, map[string]interface{}{
				"tasks": []map[string]string{
					{"category": "Mobility", "name": "Walk in garden"},
				},
				"personal_care": map[string]interface{}{
					"items": []string{"Assist with bathing", "Oral hygiene"},
				},
			}), nil
		},
	}

	service := NewService(mockRepo)
	content, err := service.ResolveContent(context.Background(), "client-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(content.Tasks) != 3 {
		t.Fatalf("Expected 3 tasks, got %d", len(content.Tasks))
	}
	if content.Tasks[0].Source != SourceJSONTasks {
		t.Errorf("Expected first task from json_tasks, got %s", content.Tasks[0].Source)
	}
	if content.Tasks[1].Category != "Personal Care" || content.Tasks[1].Source != SourceJSONPersonalCare {
		t.Errorf("Expected personal care item, got %+v", content.Tasks[1])
	}
}

// TestResolveContent_PersonalCareObjectItems tests the legacy object form of items
func TestResolveContent_PersonalCareObjectItems(t *testing.T) {
	mockRepo := &mockRepository{
		getActivePlanFunc: func(ctx context.Context, clientID string) (*CarePlan, error) {
			return planWithSnapshot(t, map[string]interface{}{
				"personal_care": map[string]interface{}{
					"items": []map[string]string{{"name": "Dressing support"}},
				},
			}), nil
		},
	}

	service := NewService(mockRepo)
	content, err := service.ResolveContent(context.Background(), "client-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(content.Tasks) != 1 || content.Tasks[0].Name != "Dressing support" {
		t.Errorf("Expected one 'Dressing support' task, got %+v", content.Tasks)
	}
}

// TestResolveContent_RelationalAuthoritative tests that relational goal and
// activity rows suppress the JSON category entirely
func TestResolveContent_RelationalAuthoritative(t *testing.T) {
	mockRepo := &mockRepository{
		getActivePlanFunc: func(ctx context.Context, clientID string) (*CarePlan, error) {
			return planWithSnapshot(t, map[string]interface{}{
				"goals":      []map[string]string{{"title": "JSON goal"}},
				"activities": []map[string]string{{"name": "JSON activity"}},
			}), nil
		},
		listGoalsFunc: func(ctx context.Context, carePlanID string) ([]Goal, error) {
			return []Goal{{ID: "goal-1", Title: "Relational goal"}}, nil
		},
		listActivitiesFunc: func(ctx context.Context, clientID string) ([]Activity, error) {
			return []Activity{{ID: "act-1", Name: "Relational activity"}}, nil
		},
	}

	service := NewService(mockRepo)
	content, err := service.ResolveContent(context.Background(), "client-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(content.Goals) != 1 || content.Goals[0].Title != "Relational goal" {
		t.Errorf("Expected only the relational goal, got %+v", content.Goals)
	}
	if len(content.Activities) != 1 || content.Activities[0].Name != "Relational activity" {
		t.Errorf("Expected only the relational activity, got %+v", content.Activities)
	}
	for _, task := range content.Tasks {
		if task.Name == "JSON goal" || task.Name == "JSON activity" {
			t.Errorf("Expected JSON rows to be suppressed, found task %+v", task)
		}
	}
}

// TestResolveContent_JSONFallbackWhenNoRelationalRows tests the JSON snapshot
// is used when the relational tables are empty
func TestResolveContent_JSONFallbackWhenNoRelationalRows(t *testing.T) {
	mockRepo := &mockRepository{
		getActivePlanFunc: func(ctx context.Context, clientID string) (*CarePlan, error) {
			return planWithSnapshot(t, map[string]interface{}{
				"goals": []map[string]string{{"title": "Stay mobile"}},
			}), nil
		},
	}

	service := NewService(mockRepo)
	content, err := service.ResolveContent(context.Background(), "client-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(content.Goals) != 1 || content.Goals[0].Title != "Stay mobile" {
		t.Errorf("Expected JSON goal fallback, got %+v", content.Goals)
	}
}

// TestResolveContent_MalformedSnapshot tests that a corrupt blob degrades to empty
func TestResolveContent_MalformedSnapshot(t *testing.T) {
	mockRepo := &mockRepository{
		getActivePlanFunc: func(ctx context.Context, clientID string) (*CarePlan, error) {
			return &CarePlan{ID: "plan-1", ClientID: "client-1", Status: "active", AutoSaveData: []byte("{truncated")}, nil
		},
	}

	service := NewService(mockRepo)
	content, err := service.ResolveContent(context.Background(), "client-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(content.Tasks) != 0 {
		t.Errorf("Expected no tasks from malformed snapshot, got %+v", content.Tasks)
	}
}

// TestResolveContent_DuplicateTasksFiltered tests read-time dedup of legacy doubles
func TestResolveContent_DuplicateTasksFiltered(t *testing.T) {
	mockRepo := &mockRepository{
		getActivePlanFunc: func(ctx context.Context, clientID string) (*CarePlan, error) {
			return planWithSnapshot(t, map[string]interface{}{
				"tasks": []map[string]string{
					{"category": "Mobility", "name": "Walk in garden"},
					{"category": "mobility", "name": "Walk in  garden "},
				},
			}), nil
		},
	}

	service := NewService(mockRepo)
	content, err := service.ResolveContent(context.Background(), "client-1")

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(content.Tasks) != 1 {
		t.Errorf("Expected duplicates filtered to 1 task, got %d", len(content.Tasks))
	}
}

// TestMedicationsDueAt_TimeOfDayFilter tests the scheduled-start bucket filter
func TestMedicationsDueAt_TimeOfDayFilter(t *testing.T) {
	mockRepo := &mockRepository{
		listMedicationsFunc: func(ctx context.Context, clientID string) ([]Medication, error) {
			return []Medication{
				{ID: "m-1", Name: "Paracetamol", Dosage: "500mg", TimesOfDay: []string{"morning", "evening"}},
				{ID: "m-2", Name: "Simvastatin", Dosage: "20mg", TimesOfDay: []string{"night"}},
				{ID: "m-3", Name: "Aspirin", Dosage: "75mg"}, // no restriction
			}, nil
		},
	}

	service := NewService(mockRepo)
	morning := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

	due, err := service.MedicationsDueAt(context.Background(), "client-1", morning)

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(due) != 2 {
		t.Fatalf("Expected 2 medications due, got %d", len(due))
	}
	if due[0].Name != "Paracetamol" || due[1].Name != "Aspirin" {
		t.Errorf("Expected Paracetamol and Aspirin, got %+v", due)
	}
}

// TestMedicationsDueAt_DedupesLegacyDoubles tests the Paracetamol 500mg scenario
func TestMedicationsDueAt_DedupesLegacyDoubles(t *testing.T) {
	mockRepo := &mockRepository{
		listMedicationsFunc: func(ctx context.Context, clientID string) ([]Medication, error) {
			return []Medication{
				{ID: "m-1", Name: "Paracetamol", Dosage: "500mg"},
				{ID: "m-2", Name: "paracetamol", Dosage: "500MG "},
			}, nil
		},
	}

	service := NewService(mockRepo)

	due, err := service.MedicationsDueAt(context.Background(), "client-1", time.Now())

	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("Expected exactly one row after dedup, got %d", len(due))
	}
	if due[0].ID != "m-1" {
		t.Errorf("Expected first occurrence to win, got %s", due[0].ID)
	}
}
