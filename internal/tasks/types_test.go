package tasks

import (
	"testing"

	tasks "google.golang.org/api/tasks/v1"
)

func TestToTaskList(t *testing.T) {
	// Test with nil task list
	result := toTaskList(nil)
	if result.ID != "" {
		t.Errorf("Expected empty ID for nil task list, got %s", result.ID)
	}

	tl := &tasks.TaskList{
		Id:      "list-1",
		Title:   "Habits",
		Updated: "2026-08-30T14:00:00Z",
	}
	result = toTaskList(tl)

	if result.ID != "list-1" {
		t.Errorf("Expected ID 'list-1', got %s", result.ID)
	}
	if result.Title != "Habits" {
		t.Errorf("Expected title 'Habits', got %s", result.Title)
	}
	if result.Updated.IsZero() {
		t.Error("Expected non-zero updated time")
	}
}

func TestToTask(t *testing.T) {
	// Test with nil task
	result := toTask(nil)
	if result.ID != "" {
		t.Errorf("Expected empty ID for nil task, got %s", result.ID)
	}

	completed := "2026-08-29T10:00:00Z"
	task := &tasks.Task{
		Id:        "task-1",
		Title:     "Prepare the client demo",
		Notes:     "Slides plus a live walkthrough",
		Status:    "needsAction",
		Due:       "2026-09-01T09:00:00Z",
		Completed: &completed,
	}
	result = toTask(task)

	if result.ID != "task-1" {
		t.Errorf("Expected ID 'task-1', got %s", result.ID)
	}
	if result.Title != "Prepare the client demo" {
		t.Errorf("Unexpected title %q", result.Title)
	}
	if result.Status != "needsAction" {
		t.Errorf("Expected status 'needsAction', got %s", result.Status)
	}
	if result.Due.IsZero() {
		t.Error("Expected non-zero due date")
	}
	if result.Completed.IsZero() {
		t.Error("Expected non-zero completed date")
	}
}

func TestToTaskInvalidDates(t *testing.T) {
	task := &tasks.Task{
		Id:  "task-2",
		Due: "tomorrow-ish",
	}
	result := toTask(task)
	if !result.Due.IsZero() {
		t.Errorf("Due = %v, want zero for unparseable date", result.Due)
	}
}
