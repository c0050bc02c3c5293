package view

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cone387/ttask/internal/models"
)

var (
	ErrEmptyGroupName   = errors.New("group name cannot be empty")
	ErrGroupExists      = errors.New("group already exists")
	ErrGroupUnknown     = errors.New("no such group")
	ErrDefaultImmutable = errors.New("the default group cannot be renamed or deleted")
)

// Persister is the backend write surface the engine needs. Calls are
// fire-and-forget from the UI's perspective beyond success or failure.
type Persister interface {
	UpdateOrder(ctx context.Context, id int64, order int) error
	UpdateGroup(ctx context.Context, id int64, group string) error
	UpdateStatus(ctx context.Context, id int64, status models.Status) error
}

// Phase is the reorder state machine position
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
	PhaseCommitting
	PhaseReverting
)

// Engine owns the view state for one task list: the current filter, sort
// and grouping configuration, the custom group list, and the drag state
// machine. All engine methods except Commit.Persist must be called from
// the event loop.
type Engine struct {
	store   *Store
	persist Persister
	now     func() time.Time

	filters Filters
	sort    Sort
	groupBy GroupBy
	groups  []string

	phase    Phase
	activeID int64
	dragGen  uint64

	// invoked whenever the custom group list or its order changes so the
	// caller can persist it to local preferences
	OnGroupsChanged func([]string)
}

func NewEngine(store *Store, persist Persister) *Engine {
	return &Engine{
		store:   store,
		persist: persist,
		now:     time.Now,
		filters: Filters{Scope: ScopeAll},
		sort:    Sort{By: SortManual, Order: OrderAsc},
		groupBy: GroupNone,
	}
}

func (e *Engine) Store() *Store    { return e.store }
func (e *Engine) Phase() Phase     { return e.phase }
func (e *Engine) Filters() Filters { return e.filters }
func (e *Engine) Sort() Sort       { return e.sort }
func (e *Engine) GroupBy() GroupBy { return e.groupBy }

// Groups returns the declared custom group names in display order, not
// including the implicit default group.
func (e *Engine) Groups() []string { return e.groups }

func (e *Engine) SetFilters(f Filters)  { e.filters = f }
func (e *Engine) SetSort(s Sort)        { e.sort = s }
func (e *Engine) SetGroupBy(by GroupBy) { e.groupBy = by }

// SetGroups installs the custom group list loaded from preferences.
func (e *Engine) SetGroups(groups []string) { e.groups = groups }

// GroupedView computes the rendered view by filtering, sorting and then
// grouping the current store contents.
func (e *Engine) GroupedView() []GroupedList {
	return e.store.GroupedView(e.filters, e.sort, e.groupBy, e.groups, e.now())
}

// Commit is an optimistic change that has been applied locally and awaits
// backend acknowledgement, after which it is either confirmed or reverted.
// Persist may run off the event loop; Confirm and Revert must not.
type Commit struct {
	gen    uint64
	ops    []func(ctx context.Context) error
	revert func()
}

// Persist issues every persistence call concurrently and waits for the
// batch. Any single failure fails the batch; partial successes are not
// distinguished.
func (c *Commit) Persist(ctx context.Context) error {
	if len(c.ops) == 1 {
		return c.ops[0](ctx)
	}
	var wg sync.WaitGroup
	errCh := make(chan error, len(c.ops))
	for _, op := range c.ops {
		wg.Add(1)
		go func(op func(context.Context) error) {
			defer wg.Done()
			if err := op(ctx); err != nil {
				errCh <- err
			}
		}(op)
	}
	wg.Wait()
	close(errCh)
	return <-errCh
}

// Confirm settles a commit after backend acknowledgement.
func (e *Engine) Confirm(c *Commit) {
	e.phase = PhaseIdle
}

// Revert discards a failed commit's optimistic change. The restore is
// skipped when the store has been reloaded since the commit was built;
// the reload is authoritative either way.
func (e *Engine) Revert(c *Commit) {
	e.phase = PhaseReverting
	if c.revert != nil && c.gen == e.store.Generation() {
		c.revert()
	}
	e.phase = PhaseIdle
}

// DragStart begins a drag gesture for the given task.
func (e *Engine) DragStart(id int64) {
	if e.phase != PhaseIdle {
		return
	}
	if e.store.Find(id) == nil {
		return
	}
	e.phase = PhaseDragging
	e.activeID = id
	e.dragGen = e.store.Generation()
}

// DragCancel abandons a drag without mutation.
func (e *Engine) DragCancel() {
	if e.phase == PhaseDragging {
		e.phase = PhaseIdle
		e.activeID = 0
	}
}

// DragEnd resolves a drop onto another task. Within the same group under
// manual sort it is an array move followed by a fresh sequential order
// rewrite of the whole group; across groups under custom grouping it
// rewrites the dragged task's group assignment. A nil return means no
// mutation happened (invalid or no-op drop). The returned commit has
// already been applied to the store.
func (e *Engine) DragEnd(activeID, overID int64) *Commit {
	if e.phase != PhaseDragging || activeID != e.activeID {
		e.phase = PhaseIdle
		return nil
	}
	e.phase = PhaseIdle
	e.activeID = 0
	if e.dragGen != e.store.Generation() || activeID == overID {
		return nil
	}

	grouped := e.GroupedView()
	srcGroup, srcIdx := locate(grouped, activeID)
	dstGroup, dstIdx := locate(grouped, overID)
	if srcGroup < 0 || dstGroup < 0 {
		return nil
	}

	if srcGroup == dstGroup {
		if e.sort.By != SortManual || srcIdx == dstIdx {
			return nil
		}
		return e.commitReorder(grouped[srcGroup].Tasks, srcIdx, dstIdx)
	}
	if e.groupBy != GroupCustom {
		return nil
	}
	return e.commitRegroup(activeID, groupTarget(grouped[dstGroup].Name))
}

// DragEndGroup resolves a drop onto a group by name (its header or empty
// body), appending the task to that group. Only meaningful under custom
// grouping.
func (e *Engine) DragEndGroup(activeID int64, group string) *Commit {
	if e.phase != PhaseDragging || activeID != e.activeID {
		e.phase = PhaseIdle
		return nil
	}
	e.phase = PhaseIdle
	e.activeID = 0
	if e.dragGen != e.store.Generation() || e.groupBy != GroupCustom {
		return nil
	}
	target := groupTarget(group)
	if !target.IsDefault() && !contains(e.groups, target.Field()) {
		return nil
	}
	return e.commitRegroup(activeID, target)
}

// DropOnColumn moves a task to another status column on the board. Drops
// onto the task's current column are a no-op.
func (e *Engine) DropOnColumn(id int64, status models.Status) *Commit {
	if e.phase == PhaseDragging && id == e.activeID {
		e.phase = PhaseIdle
		e.activeID = 0
		if e.dragGen != e.store.Generation() {
			return nil
		}
	}
	t := e.store.Find(id)
	if t == nil || t.Status == status || !status.IsValid() {
		return nil
	}
	prev := t.Status
	t.Status = status
	e.phase = PhaseCommitting
	return &Commit{
		gen: e.store.Generation(),
		ops: []func(context.Context) error{
			func(ctx context.Context) error { return e.persist.UpdateStatus(ctx, id, status) },
		},
		revert: func() {
			if t := e.store.Find(id); t != nil {
				t.Status = prev
			}
		},
	}
}

// commitReorder applies the array move and rewrites order 0..n-1 across
// the affected group, persisting one order update per member.
func (e *Engine) commitReorder(groupTasks []models.Task, from, to int) *Commit {
	ids := make([]int64, len(groupTasks))
	for i, t := range groupTasks {
		ids[i] = t.ID
	}
	ids = moveItem(ids, from, to)

	snapshot := make(map[int64]int, len(ids))
	ops := make([]func(context.Context) error, 0, len(ids))
	for seq, id := range ids {
		t := e.store.Find(id)
		if t == nil {
			continue
		}
		snapshot[id] = t.Order
		t.Order = seq
		id, seq := id, seq
		ops = append(ops, func(ctx context.Context) error {
			return e.persist.UpdateOrder(ctx, id, seq)
		})
	}
	e.phase = PhaseCommitting
	return &Commit{
		gen: e.store.Generation(),
		ops: ops,
		revert: func() {
			for id, order := range snapshot {
				if t := e.store.Find(id); t != nil {
					t.Order = order
				}
			}
		},
	}
}

func (e *Engine) commitRegroup(id int64, target GroupAssignment) *Commit {
	t := e.store.Find(id)
	if t == nil || t.CustomGroup == target.Field() {
		return nil
	}
	prev := t.CustomGroup
	t.CustomGroup = target.Field()
	e.phase = PhaseCommitting
	return &Commit{
		gen: e.store.Generation(),
		ops: []func(context.Context) error{
			func(ctx context.Context) error { return e.persist.UpdateGroup(ctx, id, target.Field()) },
		},
		revert: func() {
			if t := e.store.Find(id); t != nil {
				t.CustomGroup = prev
			}
		},
	}
}

// CreateGroup declares a new, initially empty custom group at the end of
// the display order.
func (e *Engine) CreateGroup(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyGroupName
	}
	if name == DefaultGroupName || contains(e.groups, name) {
		return fmt.Errorf("%w: %s", ErrGroupExists, name)
	}
	e.groups = append(e.groups, name)
	e.groupsChanged()
	return nil
}

// RenameGroup renames a custom group in place, relabeling every member
// task. The relabels are applied optimistically; the returned commit
// persists them. A nil commit with nil error means the rename touched no
// tasks (the group list change alone is persisted locally).
func (e *Engine) RenameGroup(oldName, newName string) (*Commit, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, ErrEmptyGroupName
	}
	if oldName == DefaultGroupName {
		return nil, ErrDefaultImmutable
	}
	pos := indexOf(e.groups, oldName)
	if pos < 0 {
		return nil, fmt.Errorf("%w: %s", ErrGroupUnknown, oldName)
	}
	if newName == DefaultGroupName || contains(e.groups, newName) {
		return nil, fmt.Errorf("%w: %s", ErrGroupExists, newName)
	}
	e.groups[pos] = newName
	e.groupsChanged()

	var members []int64
	for _, t := range e.store.Tasks() {
		if t.CustomGroup == oldName {
			members = append(members, t.ID)
		}
	}
	if len(members) == 0 {
		return nil, nil
	}
	ops := make([]func(context.Context) error, 0, len(members))
	for _, id := range members {
		if t := e.store.Find(id); t != nil {
			t.CustomGroup = newName
		}
		id := id
		ops = append(ops, func(ctx context.Context) error {
			return e.persist.UpdateGroup(ctx, id, newName)
		})
	}
	e.phase = PhaseCommitting
	return &Commit{
		gen: e.store.Generation(),
		ops: ops,
		revert: func() {
			for _, id := range members {
				if t := e.store.Find(id); t != nil {
					t.CustomGroup = oldName
				}
			}
		},
	}, nil
}

// MoveGroup reorders the custom groups themselves. Persisted only to
// local preferences through the change hook, never to the backend.
func (e *Engine) MoveGroup(from, to int) {
	if from < 0 || from >= len(e.groups) || to < 0 || to >= len(e.groups) || from == to {
		return
	}
	e.groups = moveItem(e.groups, from, to)
	e.groupsChanged()
}

func (e *Engine) groupsChanged() {
	if e.OnGroupsChanged != nil {
		e.OnGroupsChanged(append([]string(nil), e.groups...))
	}
}

// groupTarget maps a displayed group name to an assignment.
func groupTarget(name string) GroupAssignment {
	if name == DefaultGroupName {
		return DefaultGroup
	}
	return NamedGroup(name)
}

// moveItem removes the element at from and reinserts it at to.
func moveItem[T any](xs []T, from, to int) []T {
	out := make([]T, 0, len(xs))
	out = append(out, xs[:from]...)
	out = append(out, xs[from+1:]...)
	out = append(out[:to], append([]T{xs[from]}, out[to:]...)...)
	return out
}

func locate(grouped []GroupedList, id int64) (group, index int) {
	for g, gl := range grouped {
		for i, t := range gl.Tasks {
			if t.ID == id {
				return g, i
			}
		}
	}
	return -1, -1
}

func contains(xs []string, s string) bool { return indexOf(xs, s) >= 0 }

func indexOf(xs []string, s string) int {
	for i, x := range xs {
		if x == s {
			return i
		}
	}
	return -1
}
