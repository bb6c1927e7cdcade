package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/news2"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/visit"
)

// ManualIDPrefix marks placeholder ids the form assigns to rows the carer
// typed in. Those rows arrive in the New* lists and are inserted as fresh
// rows; the prefix keeps them out of the patch-application step so they
// are never written twice.
const ManualIDPrefix = "manual-"

// IsManualID reports whether an id is a new-item placeholder.
func IsManualID(id string) bool {
	return strings.HasPrefix(id, ManualIDPrefix)
}

// NewManualID synthesizes a placeholder id for a manually added row.
func NewManualID() string {
	return fmt.Sprintf("%s%d", ManualIDPrefix, time.Now().UnixNano())
}

// ProgressNote is the ephemeral per-visit overlay a carer records against a
// goal or activity. It is folded into the visit summary, never persisted as
// its own row.
type ProgressNote struct {
	Progress string `json:"progress,omitempty"`
	Status   string `json:"status,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// ChangeSet accumulates every uncommitted edit of one open report form,
// keyed by entity id. Nothing here touches storage until submit; closing
// the form without submitting discards the whole set.
type ChangeSet struct {
	Tasks       map[string]visit.TaskPatch       `json:"tasks,omitempty"`
	Medications map[string]visit.MedicationPatch `json:"medications,omitempty"`
	Events      map[string]visit.EventPatch      `json:"events,omitempty"`
	Goals       map[string]ProgressNote          `json:"goals,omitempty"`
	Activities  map[string]ProgressNote          `json:"activities,omitempty"`

	Vitals     *news2.Vitals `json:"vitals,omitempty"`
	VisitNotes *string       `json:"visit_notes,omitempty"`

	// Manual additions: brand-new rows to insert, distinct from patches.
	NewTasks       []visit.NewTask       `json:"new_tasks,omitempty"`
	NewMedications []visit.NewMedication `json:"new_medications,omitempty"`
	NewEvents      []visit.NewEvent      `json:"new_events,omitempty"`
}

// NewChangeSet returns an empty set with all maps allocated.
func NewChangeSet() *ChangeSet {
	return &ChangeSet{
		Tasks:       make(map[string]visit.TaskPatch),
		Medications: make(map[string]visit.MedicationPatch),
		Events:      make(map[string]visit.EventPatch),
		Goals:       make(map[string]ProgressNote),
		Activities:  make(map[string]ProgressNote),
	}
}

// SetTaskPatch records an edit to an existing task row, replacing any
// earlier patch for the same id.
func (c *ChangeSet) SetTaskPatch(id string, patch visit.TaskPatch) {
	if c.Tasks == nil {
		c.Tasks = make(map[string]visit.TaskPatch)
	}
	c.Tasks[id] = patch
}

// SetMedicationPatch records an edit to an existing medication row.
func (c *ChangeSet) SetMedicationPatch(id string, patch visit.MedicationPatch) {
	if c.Medications == nil {
		c.Medications = make(map[string]visit.MedicationPatch)
	}
	c.Medications[id] = patch
}

// SetEventPatch records an edit to an existing event row.
func (c *ChangeSet) SetEventPatch(id string, patch visit.EventPatch) {
	if c.Events == nil {
		c.Events = make(map[string]visit.EventPatch)
	}
	c.Events[id] = patch
}

// AddTask tracks a manually added task and returns its placeholder id.
func (c *ChangeSet) AddTask(task visit.NewTask) string {
	c.NewTasks = append(c.NewTasks, task)
	return NewManualID()
}

// AddMedication tracks a manually added medication and returns its
// placeholder id.
func (c *ChangeSet) AddMedication(med visit.NewMedication) string {
	c.NewMedications = append(c.NewMedications, med)
	return NewManualID()
}

// AddEvent tracks a newly recorded event and returns its placeholder id.
func (c *ChangeSet) AddEvent(event visit.NewEvent) string {
	c.NewEvents = append(c.NewEvents, event)
	return NewManualID()
}

// Reset discards every accumulated change. Called when the form closes
// without submitting.
func (c *ChangeSet) Reset() {
	*c = *NewChangeSet()
}

// IsEmpty reports whether the set holds no changes at all.
func (c *ChangeSet) IsEmpty() bool {
	return len(c.Tasks) == 0 && len(c.Medications) == 0 && len(c.Events) == 0 &&
		len(c.Goals) == 0 && len(c.Activities) == 0 &&
		c.Vitals == nil && c.VisitNotes == nil &&
		len(c.NewTasks) == 0 && len(c.NewMedications) == 0 && len(c.NewEvents) == 0
}

// Summary builds the auto-generated visit summary line from the set,
// including the goal and activity progress overlay that has no rows of
// its own.
func (c *ChangeSet) Summary() string {
	var parts []string

	if n := len(c.NewTasks); n > 0 {
		parts = append(parts, fmt.Sprintf("%d task(s) added", n))
	}
	if n := len(c.Tasks); n > 0 {
		parts = append(parts, fmt.Sprintf("%d task(s) updated", n))
	}
	if n := len(c.NewMedications) + len(c.Medications); n > 0 {
		parts = append(parts, fmt.Sprintf("%d medication(s) recorded", n))
	}
	if n := len(c.NewEvents) + len(c.Events); n > 0 {
		parts = append(parts, fmt.Sprintf("%d event(s) recorded", n))
	}
	if c.Vitals != nil {
		result := news2.Score(*c.Vitals)
		parts = append(parts, fmt.Sprintf("NEWS2 %d (%s)", result.Total, result.Risk))
	}

	// Map iteration order is random; sort so identical sets always
	// produce the same stored summary.
	for _, id := range sortedKeys(c.Goals) {
		if note := c.Goals[id]; note.Notes != "" {
			parts = append(parts, "goal: "+note.Notes)
		}
	}
	for _, id := range sortedKeys(c.Activities) {
		if note := c.Activities[id]; note.Notes != "" {
			parts = append(parts, "activity: "+note.Notes)
		}
	}

	return strings.Join(parts, "; ")
}

func sortedKeys(notes map[string]ProgressNote) []string {
	keys := make([]string, 0, len(notes))
	for id := range notes {
		keys = append(keys, id)
	}
	sort.Strings(keys)
	return keys
}
