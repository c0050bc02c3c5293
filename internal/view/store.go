package view

import (
	"time"

	"github.com/cone387/ttask/internal/models"
)

// Store holds the task records for the currently selected view, plus side
// lookup tables for project and tag names. It is the normalization
// boundary: embedded project/tag objects arriving from the backend are
// folded into the lookup tables here, so the pipeline stages only ever see
// ids. The store is refreshed wholesale on navigation and mutated in place
// by optimistic updates; it is only ever touched from the event loop.
type Store struct {
	tasks    []models.Task
	projects map[int64]models.Project
	tags     map[int64]models.Tag

	// generation increments on every wholesale refresh so responses from
	// an abandoned view can be recognized and dropped.
	generation uint64
}

func NewStore() *Store {
	return &Store{
		projects: make(map[int64]models.Project),
		tags:     make(map[int64]models.Tag),
	}
}

// SetTasks replaces the task set, absorbing any embedded reference objects
// into the lookup tables, and bumps the generation.
func (s *Store) SetTasks(tasks []models.Task) {
	s.tasks = tasks
	for i := range s.tasks {
		s.absorb(&s.tasks[i])
	}
	s.generation++
}

// SetProjects replaces the project lookup table.
func (s *Store) SetProjects(projects []models.Project) {
	s.projects = make(map[int64]models.Project, len(projects))
	for _, p := range projects {
		s.projects[p.ID] = p
	}
}

// SetTags replaces the tag lookup table.
func (s *Store) SetTags(tags []models.Tag) {
	s.tags = make(map[int64]models.Tag, len(tags))
	for _, t := range tags {
		s.tags[t.ID] = t
	}
}

// absorb copies names carried by embedded reference objects into the
// lookup tables when they are not already known.
func (s *Store) absorb(t *models.Task) {
	if t.Project != nil && t.Project.Name != "" {
		if _, ok := s.projects[t.Project.ID]; !ok {
			s.projects[t.Project.ID] = models.Project{
				ID:    t.Project.ID,
				Name:  t.Project.Name,
				Color: t.Project.Color,
			}
		}
	}
	for _, ref := range t.Tags {
		if ref.Name == "" {
			continue
		}
		if _, ok := s.tags[ref.ID]; !ok {
			s.tags[ref.ID] = models.Tag{ID: ref.ID, Name: ref.Name, Color: ref.Color}
		}
	}
}

func (s *Store) Generation() uint64 { return s.generation }

// Tasks returns the live task slice. Callers must not reorder it; the
// reorder engine owns structural mutation.
func (s *Store) Tasks() []models.Task { return s.tasks }

func (s *Store) Len() int { return len(s.tasks) }

// Find returns a pointer into the store, or nil.
func (s *Store) Find(id int64) *models.Task {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return &s.tasks[i]
		}
	}
	return nil
}

func (s *Store) indexOf(id int64) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// Prepend inserts a freshly created task at the front, matching where the
// backend lists new tasks.
func (s *Store) Prepend(t models.Task) {
	s.absorb(&t)
	s.tasks = append([]models.Task{t}, s.tasks...)
}

// Replace swaps the stored record for an updated one, keyed by id. Unknown
// ids are ignored.
func (s *Store) Replace(t models.Task) {
	if i := s.indexOf(t.ID); i >= 0 {
		s.absorb(&t)
		s.tasks[i] = t
	}
}

// Remove drops a task from the store (the backend keeps it in trash).
func (s *Store) Remove(id int64) {
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
}

// ProjectName resolves a project id for display, empty when unknown.
func (s *Store) ProjectName(id int64) string {
	return s.projects[id].Name
}

// TagName resolves a tag id for display, empty when unknown.
func (s *Store) TagName(id int64) string {
	return s.tags[id].Name
}

// Projects returns the known projects in id order-independent map form.
func (s *Store) Projects() map[int64]models.Project { return s.projects }

// GroupedView runs the full filter, sort and group pipeline over the
// current task set. It is recomputed synchronously from current state, so
// an optimistic mutation is visible in the very next call.
func (s *Store) GroupedView(f Filters, srt Sort, by GroupBy, groups []string, now time.Time) []GroupedList {
	tasks := f.Apply(s.tasks)
	tasks = SortTasks(tasks, srt)
	return GroupTasks(tasks, by, groups, s.ProjectName, now)
}
