package cache

import "testing"

// TestMemoryStore_SetGet tests basic set/get round trip
func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()

	store.SetCached("visit-tasks:v-1", []string{"task-1"})

	value, ok := store.GetCached("visit-tasks:v-1")
	if !ok {
		t.Fatal("Expected cache hit")
	}
	tasks, ok := value.([]string)
	if !ok || len(tasks) != 1 {
		t.Errorf("Expected cached slice of 1 task, got %v", value)
	}
}

// TestMemoryStore_GetMissing tests a cache miss
func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()

	_, ok := store.GetCached("visit-tasks:unknown")
	if ok {
		t.Error("Expected cache miss")
	}
}

// TestMemoryStore_Invalidate tests that invalidation drops only the named keys
func TestMemoryStore_Invalidate(t *testing.T) {
	store := NewMemoryStore()
	store.SetCached(VisitTasksKey("v-1"), "tasks")
	store.SetCached(VisitMedicationsKey("v-1"), "meds")
	store.SetCached(VisitTasksKey("v-2"), "other")

	store.Invalidate(VisitTasksKey("v-1"), VisitMedicationsKey("v-1"))

	if _, ok := store.GetCached(VisitTasksKey("v-1")); ok {
		t.Error("Expected visit-tasks:v-1 to be invalidated")
	}
	if _, ok := store.GetCached(VisitMedicationsKey("v-1")); ok {
		t.Error("Expected visit-medications:v-1 to be invalidated")
	}
	if _, ok := store.GetCached(VisitTasksKey("v-2")); !ok {
		t.Error("Expected visit-tasks:v-2 to survive")
	}
}

// TestMemoryStore_Clear tests that clear empties the store
func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	store.SetCached("a", 1)
	store.SetCached("b", 2)

	store.Clear()

	if _, ok := store.GetCached("a"); ok {
		t.Error("Expected store to be empty after clear")
	}
}
