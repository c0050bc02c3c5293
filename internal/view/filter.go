package view

import (
	"strings"

	"github.com/cone387/ttask/internal/models"
)

// Scope narrows the task set before any other predicate
type Scope string

const (
	ScopeAll         Scope = "all"
	ScopeMy          Scope = "my"
	ScopeUncompleted Scope = "uncompleted"
	ScopeCompleted   Scope = "completed"
)

// Filters is one filter configuration. Categories combine with AND;
// members within a category combine with OR. Empty slices and the empty
// search string are inactive.
type Filters struct {
	Scope      Scope
	Search     string
	ProjectIDs []int64
	TagIDs     []int64
	Priorities []models.Priority
	Statuses   []models.Status
}

// Active reports whether any predicate beyond the scope is set.
func (f Filters) Active() bool {
	return f.Search != "" || len(f.ProjectIDs) > 0 || len(f.TagIDs) > 0 ||
		len(f.Priorities) > 0 || len(f.Statuses) > 0
}

// Apply returns the tasks satisfying every active predicate. Pure; the
// input slice is never mutated.
func (f Filters) Apply(tasks []models.Task) []models.Task {
	out := make([]models.Task, 0, len(tasks))
	search := strings.ToLower(f.Search)
	for _, t := range tasks {
		if !f.matchScope(t) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(t.Title), search) {
			continue
		}
		if len(f.ProjectIDs) > 0 && !containsID(f.ProjectIDs, t.ProjectID()) {
			continue
		}
		if len(f.TagIDs) > 0 && !intersects(f.TagIDs, t.TagIDs()) {
			continue
		}
		if len(f.Priorities) > 0 && !containsPriority(f.Priorities, t.Priority) {
			continue
		}
		if len(f.Statuses) > 0 && !containsStatus(f.Statuses, t.Status) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// matchScope applies the scope predicate. ScopeMy is accepted but passes
// everything: the client is single-user, every loaded task is already mine.
func (f Filters) matchScope(t models.Task) bool {
	switch f.Scope {
	case ScopeUncompleted:
		return t.Status != models.StatusCompleted
	case ScopeCompleted:
		return t.Status == models.StatusCompleted
	default:
		return true
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func intersects(want, have []int64) bool {
	for _, h := range have {
		if containsID(want, h) {
			return true
		}
	}
	return false
}

func containsPriority(ps []models.Priority, p models.Priority) bool {
	for _, v := range ps {
		if v == p {
			return true
		}
	}
	return false
}

func containsStatus(ss []models.Status, s models.Status) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
