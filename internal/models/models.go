package models

import (
	"encoding/json"
	"time"
)

// Priority is the task priority level
type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	default:
		return false
	}
}

// Rank returns the sort rank, most urgent first (urgent=0 .. none=4).
// Unknown values rank after none.
func (p Priority) Rank() int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	case PriorityNone:
		return 4
	default:
		return 5
	}
}

func (p Priority) Label() string {
	switch p {
	case PriorityUrgent:
		return "Urgent"
	case PriorityHigh:
		return "High"
	case PriorityMedium:
		return "Medium"
	case PriorityLow:
		return "Low"
	default:
		return "No Priority"
	}
}

// Status is the task workflow state. Transitions are unconstrained.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func (s Status) IsValid() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusCompleted
}

func (s Status) Label() string {
	switch s {
	case StatusInProgress:
		return "In Progress"
	case StatusCompleted:
		return "Completed"
	default:
		return "To Do"
	}
}

// Ref is a reference to a project or tag. Depending on which backend call
// produced the payload it arrives as either a bare numeric id or an embedded
// object; Ref accepts both so the store can normalize without branching on
// shape downstream.
type Ref struct {
	ID    int64
	Name  string
	Color string
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		*r = Ref{ID: id}
		return nil
	}
	var obj struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Title string `json:"title"`
		Color string `json:"color"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	name := obj.Name
	if name == "" {
		name = obj.Title
	}
	*r = Ref{ID: obj.ID, Name: name, Color: obj.Color}
	return nil
}

// MarshalJSON always emits the bare id; embedded objects are a read-side
// convenience only.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// Task is the central entity, owned by the backend.
type Task struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Project       *Ref       `json:"project,omitempty"`
	Tags          []Ref      `json:"tags,omitempty"`
	Priority      Priority   `json:"priority"`
	Status        Status     `json:"status"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	DueDate       *time.Time `json:"due_date,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CustomGroup   string     `json:"custom_group,omitempty"`
	Order         int        `json:"order"`
	Starred       bool       `json:"is_starred"`
	SubtasksCount int        `json:"subtasks_count"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ProjectID returns the referenced project id, or 0 if the task has none.
func (t *Task) ProjectID() int64 {
	if t.Project == nil {
		return 0
	}
	return t.Project.ID
}

// TagIDs returns the ids of all referenced tags.
func (t *Task) TagIDs() []int64 {
	if len(t.Tags) == 0 {
		return nil
	}
	ids := make([]int64, len(t.Tags))
	for i, tag := range t.Tags {
		ids[i] = tag.ID
	}
	return ids
}

// Project groups tasks, backend-owned
type Project struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Desc       string    `json:"description,omitempty"`
	Color      string    `json:"color,omitempty"`
	Favorite   bool      `json:"is_favorite"`
	Order      int       `json:"order"`
	TasksCount int       `json:"tasks_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Tag is a label that can be applied to tasks
type Tag struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SystemList is one of the fixed virtual task views that are not
// user-defined projects.
type SystemList string

const (
	SystemInbox     SystemList = "inbox"
	SystemCompleted SystemList = "completed"
	SystemTrash     SystemList = "trash"
)

func (l SystemList) IsValid() bool {
	return l == SystemInbox || l == SystemCompleted || l == SystemTrash
}
