package view

import (
	"sort"

	"github.com/cone387/ttask/internal/models"
)

// SortBy selects the ordering key
type SortBy string

const (
	SortManual    SortBy = "manual"
	SortDueDate   SortBy = "due_date"
	SortPriority  SortBy = "priority"
	SortCreatedAt SortBy = "created_at"
	SortUpdatedAt SortBy = "updated_at"
)

// SortOrder is the comparison direction. Manual sorting ignores it.
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Sort is one sort configuration
type Sort struct {
	By    SortBy
	Order SortOrder
}

// SortTasks returns a new slice ordered by the given key. The sort is
// stable: equal keys keep their relative input order. Tasks without a due
// date sort after every dated task ascending, before them descending.
func SortTasks(tasks []models.Task, s Sort) []models.Task {
	out := make([]models.Task, len(tasks))
	copy(out, tasks)

	cmp := compareFunc(s.By)
	if cmp == nil {
		return out
	}
	desc := s.By != SortManual && s.Order == OrderDesc

	sort.SliceStable(out, func(i, j int) bool {
		c := cmp(out[i], out[j])
		if desc {
			return c > 0
		}
		return c < 0
	})
	return out
}

func compareFunc(by SortBy) func(a, b models.Task) int {
	switch by {
	case SortManual:
		return func(a, b models.Task) int { return a.Order - b.Order }
	case SortDueDate:
		return compareDue
	case SortPriority:
		return func(a, b models.Task) int { return a.Priority.Rank() - b.Priority.Rank() }
	case SortCreatedAt:
		return func(a, b models.Task) int { return a.CreatedAt.Compare(b.CreatedAt) }
	case SortUpdatedAt:
		return func(a, b models.Task) int { return a.UpdatedAt.Compare(b.UpdatedAt) }
	default:
		return nil
	}
}

// compareDue treats a missing due date as infinitely far in the future.
func compareDue(a, b models.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}
