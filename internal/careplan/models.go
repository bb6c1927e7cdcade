package careplan

import (
	"encoding/json"
	"time"
)

// TaskSource identifies where a care-plan item was sourced from. The source
// set is resolved once when the plan content is loaded; call sites never
// re-interpret the raw JSON blob.
type TaskSource int

const (
	SourceRelational TaskSource = iota
	SourceJSONTasks
	SourceJSONPersonalCare
)

func (s TaskSource) String() string {
	switch s {
	case SourceRelational:
		return "relational"
	case SourceJSONTasks:
		return "json_tasks"
	case SourceJSONPersonalCare:
		return "json_personal_care"
	default:
		return "unknown"
	}
}

// CarePlan is a client's standing plan. AutoSaveData is the denormalized
// JSON snapshot kept alongside the relational tables; older plans may only
// have the snapshot.
type CarePlan struct {
	ID           string          `json:"id"`
	ClientID     string          `json:"client_id"`
	Status       string          `json:"status"`
	AutoSaveData json.RawMessage `json:"auto_save_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    *time.Time      `json:"updated_at,omitempty"`
}

// PlanTask is one prescribed task shown as fallback when a visit has no
// task rows of its own.
type PlanTask struct {
	Category string     `json:"category"`
	Name     string     `json:"name"`
	Source   TaskSource `json:"-"`
}

// Goal is a care-plan goal, from the relational table or the JSON snapshot.
type Goal struct {
	ID          string `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Activity is a prescribed activity, from the relational table or the JSON
// snapshot.
type Activity struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Medication is a standing care-plan medication. TimesOfDay restricts when
// it applies; an empty list means no restriction.
type Medication struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Dosage     string   `json:"dosage"`
	TimesOfDay []string `json:"times_of_day,omitempty"`
	Notes      string   `json:"notes,omitempty"`
}

// Content is the fully resolved view of a plan: every source shape has been
// read exactly once and merged under the authority rules.
type Content struct {
	PlanID     string     `json:"plan_id"`
	Tasks      []PlanTask `json:"tasks"`
	Goals      []Goal     `json:"goals"`
	Activities []Activity `json:"activities"`
}

// autoSaveData mirrors the known shapes inside a plan's JSON snapshot.
// Legacy personal_care items were stored either as bare strings or as
// objects with a name, so items decodes both.
type autoSaveData struct {
	Tasks        []jsonTask   `json:"tasks"`
	PersonalCare personalCare `json:"personal_care"`
	Goals        []Goal       `json:"goals"`
	Activities   []Activity   `json:"activities"`
}

type jsonTask struct {
	Category string `json:"category"`
	Name     string `json:"name"`
}

type personalCare struct {
	Items []personalCareItem `json:"items"`
}

type personalCareItem struct {
	Name string
}

func (i *personalCareItem) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		i.Name = s
		return nil
	}
	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	i.Name = obj.Name
	return nil
}
