package view

import (
	"testing"

	"github.com/cone387/ttask/internal/models"
)

func task(id int64, opts ...func(*models.Task)) models.Task {
	t := models.Task{
		ID:       id,
		Title:    "task",
		Priority: models.PriorityNone,
		Status:   models.StatusTodo,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

func withTitle(title string) func(*models.Task) {
	return func(t *models.Task) { t.Title = title }
}

func withPriority(p models.Priority) func(*models.Task) {
	return func(t *models.Task) { t.Priority = p }
}

func withStatus(s models.Status) func(*models.Task) {
	return func(t *models.Task) { t.Status = s }
}

func withProject(id int64) func(*models.Task) {
	return func(t *models.Task) { t.Project = &models.Ref{ID: id} }
}

func withTags(ids ...int64) func(*models.Task) {
	return func(t *models.Task) {
		for _, id := range ids {
			t.Tags = append(t.Tags, models.Ref{ID: id})
		}
	}
}

func withGroup(name string) func(*models.Task) {
	return func(t *models.Task) { t.CustomGroup = name }
}

func withOrder(n int) func(*models.Task) {
	return func(t *models.Task) { t.Order = n }
}

func ids(tasks []models.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilterCategoriesANDAcrossORWithin(t *testing.T) {
	tasks := []models.Task{
		task(1, withPriority(models.PriorityHigh), withStatus(models.StatusTodo)),
		task(2, withPriority(models.PriorityLow), withStatus(models.StatusCompleted)),
	}
	f := Filters{
		Scope:      ScopeAll,
		Priorities: []models.Priority{models.PriorityHigh},
		Statuses:   []models.Status{models.StatusTodo},
	}
	got := f.Apply(tasks)
	if !equalIDs(ids(got), []int64{1}) {
		t.Fatalf("got %v, want [1]", ids(got))
	}
}

func TestFilterScope(t *testing.T) {
	tasks := []models.Task{
		task(1, withStatus(models.StatusTodo)),
		task(2, withStatus(models.StatusInProgress)),
		task(3, withStatus(models.StatusCompleted)),
	}
	tests := []struct {
		scope Scope
		want  []int64
	}{
		{ScopeAll, []int64{1, 2, 3}},
		{ScopeMy, []int64{1, 2, 3}},
		{ScopeUncompleted, []int64{1, 2}},
		{ScopeCompleted, []int64{3}},
	}
	for _, tt := range tests {
		got := Filters{Scope: tt.scope}.Apply(tasks)
		if !equalIDs(ids(got), tt.want) {
			t.Errorf("scope %q: got %v, want %v", tt.scope, ids(got), tt.want)
		}
	}
}

func TestFilterSearchCaseInsensitiveTitleOnly(t *testing.T) {
	tasks := []models.Task{
		task(1, withTitle("Buy Milk")),
		task(2, withTitle("call dentist")),
		task(3, func(t *models.Task) {
			t.Title = "unrelated"
			t.Description = "milk is mentioned here"
		}),
	}
	got := Filters{Scope: ScopeAll, Search: "MILK"}.Apply(tasks)
	if !equalIDs(ids(got), []int64{1}) {
		t.Fatalf("got %v, want [1]", ids(got))
	}
	// empty search matches everything
	got = Filters{Scope: ScopeAll}.Apply(tasks)
	if len(got) != 3 {
		t.Fatalf("empty search: got %d tasks, want 3", len(got))
	}
}

func TestFilterTagIntersection(t *testing.T) {
	tasks := []models.Task{
		task(1, withTags(10)),
		task(2, withTags(11, 12)),
		task(3),
	}
	got := Filters{Scope: ScopeAll, TagIDs: []int64{10, 12}}.Apply(tasks)
	if !equalIDs(ids(got), []int64{1, 2}) {
		t.Fatalf("got %v, want [1 2]", ids(got))
	}
}

func TestFilterProjectMembership(t *testing.T) {
	tasks := []models.Task{
		task(1, withProject(5)),
		task(2, withProject(6)),
		task(3),
	}
	got := Filters{Scope: ScopeAll, ProjectIDs: []int64{5}}.Apply(tasks)
	if !equalIDs(ids(got), []int64{1}) {
		t.Fatalf("got %v, want [1]", ids(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	tasks := []models.Task{task(1), task(2, withStatus(models.StatusCompleted))}
	Filters{Scope: ScopeUncompleted}.Apply(tasks)
	if len(tasks) != 2 || tasks[1].ID != 2 {
		t.Fatal("input slice was mutated")
	}
}
