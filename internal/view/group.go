package view

import (
	"time"

	"github.com/cone387/ttask/internal/models"
)

// GroupBy selects the grouping strategy. The "status" strategy is custom
// grouping: buckets come from the user's declared group names, not from the
// task status field (the board view handles real status columns).
type GroupBy string

const (
	GroupNone     GroupBy = "none"
	GroupCustom   GroupBy = "status"
	GroupPriority GroupBy = "priority"
	GroupProject  GroupBy = "project"
	GroupTag      GroupBy = "tag"
	GroupDate     GroupBy = "date"
)

// DefaultGroupName is the implicit bucket that receives tasks with no
// custom group, or whose named group no longer exists. It cannot be
// renamed or deleted.
const DefaultGroupName = "Default"

// GroupAssignment is a task's custom-group membership as an explicit
// variant rather than a sentinel string: the zero value is the default
// group.
type GroupAssignment struct {
	name string
}

// NamedGroup returns an assignment to the given group. An empty name is
// the default assignment.
func NamedGroup(name string) GroupAssignment {
	return GroupAssignment{name: name}
}

// DefaultGroup is the assignment to the implicit default bucket.
var DefaultGroup = GroupAssignment{}

func (g GroupAssignment) IsDefault() bool { return g.name == "" }

// Name returns the group name, or DefaultGroupName for the default
// assignment.
func (g GroupAssignment) Name() string {
	if g.name == "" {
		return DefaultGroupName
	}
	return g.name
}

// Field returns the value persisted on the task record: a name, or the
// empty string for the default group.
func (g GroupAssignment) Field() string { return g.name }

// Resolve maps a task's stored custom-group field to an assignment,
// folding names that no longer exist back into the default group.
func Resolve(field string, known []string) GroupAssignment {
	if field == "" {
		return DefaultGroup
	}
	for _, name := range known {
		if name == field {
			return NamedGroup(field)
		}
	}
	return DefaultGroup
}

// GroupedList is one named bucket of tasks in display order
type GroupedList struct {
	Name  string
	Tasks []models.Task
}

// dateBucket names, in display order
const (
	bucketOverdue  = "Overdue"
	bucketToday    = "Today"
	bucketThisWeek = "This Week"
	bucketFuture   = "Future"
	bucketNoDue    = "No Due Date"
)

const (
	bucketTagged   = "Tagged"
	bucketUntagged = "Untagged"
	bucketNoProj   = "No Project"
)

// GroupTasks partitions an already filtered and sorted task list into named
// buckets. groups is the ordered custom group list (only used by the custom
// strategy), resolveProject maps a project id to its display name, and now
// anchors the date buckets. Empty buckets are omitted except under the
// custom strategy, where every declared group stays visible so the user can
// drop tasks into it.
func GroupTasks(tasks []models.Task, by GroupBy, groups []string, resolveProject func(int64) string, now time.Time) []GroupedList {
	switch by {
	case GroupCustom:
		return groupByCustom(tasks, groups)
	case GroupPriority:
		return groupByPriority(tasks)
	case GroupProject:
		return groupByProject(tasks, resolveProject)
	case GroupTag:
		return groupByTag(tasks)
	case GroupDate:
		return groupByDate(tasks, now)
	default:
		return []GroupedList{{Name: "", Tasks: tasks}}
	}
}

func groupByCustom(tasks []models.Task, groups []string) []GroupedList {
	out := make([]GroupedList, 1+len(groups))
	out[0] = GroupedList{Name: DefaultGroupName}
	index := map[string]int{DefaultGroupName: 0}
	for i, name := range groups {
		out[i+1] = GroupedList{Name: name}
		index[name] = i + 1
	}
	for _, t := range tasks {
		i := index[Resolve(t.CustomGroup, groups).Name()]
		out[i].Tasks = append(out[i].Tasks, t)
	}
	return out
}

func groupByPriority(tasks []models.Task) []GroupedList {
	order := []models.Priority{
		models.PriorityUrgent,
		models.PriorityHigh,
		models.PriorityMedium,
		models.PriorityLow,
		models.PriorityNone,
	}
	buckets := make(map[models.Priority][]models.Task)
	for _, t := range tasks {
		buckets[t.Priority] = append(buckets[t.Priority], t)
	}
	var out []GroupedList
	for _, p := range order {
		if len(buckets[p]) > 0 {
			out = append(out, GroupedList{Name: p.Label(), Tasks: buckets[p]})
		}
	}
	return out
}

// groupByProject buckets in first-appearance order of the sorted input so
// the result is deterministic.
func groupByProject(tasks []models.Task, resolve func(int64) string) []GroupedList {
	var out []GroupedList
	index := map[string]int{}
	for _, t := range tasks {
		name := bucketNoProj
		if id := t.ProjectID(); id != 0 {
			if n := resolve(id); n != "" {
				name = n
			}
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, GroupedList{Name: name})
		}
		out[i].Tasks = append(out[i].Tasks, t)
	}
	return out
}

func groupByTag(tasks []models.Task) []GroupedList {
	var tagged, untagged []models.Task
	for _, t := range tasks {
		if len(t.Tags) > 0 {
			tagged = append(tagged, t)
		} else {
			untagged = append(untagged, t)
		}
	}
	var out []GroupedList
	if len(tagged) > 0 {
		out = append(out, GroupedList{Name: bucketTagged, Tasks: tagged})
	}
	if len(untagged) > 0 {
		out = append(out, GroupedList{Name: bucketUntagged, Tasks: untagged})
	}
	return out
}

func groupByDate(tasks []models.Task, now time.Time) []GroupedList {
	names := []string{bucketOverdue, bucketToday, bucketThisWeek, bucketFuture, bucketNoDue}
	buckets := make(map[string][]models.Task)
	for _, t := range tasks {
		b := dateBucket(t.DueDate, now)
		buckets[b] = append(buckets[b], t)
	}
	var out []GroupedList
	for _, n := range names {
		if len(buckets[n]) > 0 {
			out = append(out, GroupedList{Name: n, Tasks: buckets[n]})
		}
	}
	return out
}

// dateBucket places a due date relative to now. A due date exactly at now
// is today, not overdue; exactly seven days out is still this week.
func dateBucket(due *time.Time, now time.Time) string {
	if due == nil {
		return bucketNoDue
	}
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch {
	case due.Before(dayStart):
		return bucketOverdue
	case due.Before(dayStart.Add(24 * time.Hour)):
		return bucketToday
	case !due.After(now.Add(7 * 24 * time.Hour)):
		return bucketThisWeek
	default:
		return bucketFuture
	}
}
