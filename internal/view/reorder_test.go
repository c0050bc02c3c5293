package view

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/cone387/ttask/internal/models"
)

// fakePersister records writes and can be told to fail
type fakePersister struct {
	mu     sync.Mutex
	orders map[int64]int
	groups map[int64]string
	status map[int64]models.Status
	fail   bool
}

func newFakePersister() *fakePersister {
	return &fakePersister{
		orders: make(map[int64]int),
		groups: make(map[int64]string),
		status: make(map[int64]models.Status),
	}
}

var errBackend = errors.New("backend unavailable")

func (f *fakePersister) UpdateOrder(_ context.Context, id int64, order int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackend
	}
	f.orders[id] = order
	return nil
}

func (f *fakePersister) UpdateGroup(_ context.Context, id int64, group string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackend
	}
	f.groups[id] = group
	return nil
}

func (f *fakePersister) UpdateStatus(_ context.Context, id int64, status models.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errBackend
	}
	f.status[id] = status
	return nil
}

func newTestEngine(t *testing.T, tasks []models.Task) (*Engine, *fakePersister) {
	t.Helper()
	store := NewStore()
	store.SetTasks(tasks)
	p := newFakePersister()
	return NewEngine(store, p), p
}

func viewIDs(e *Engine) []int64 {
	return ids(flatten(e.GroupedView()))
}

func TestDragStartUnknownTaskStaysIdle(t *testing.T) {
	e, _ := newTestEngine(t, []models.Task{task(1)})
	e.DragStart(99)
	if e.Phase() != PhaseIdle {
		t.Fatalf("phase %v, want idle", e.Phase())
	}
}

func TestDragEndSamePositionIsNoOp(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{task(1, withOrder(0)), task(2, withOrder(1))})
	e.DragStart(1)
	if c := e.DragEnd(1, 1); c != nil {
		t.Fatal("drop on self should not produce a commit")
	}
	if len(p.orders) != 0 {
		t.Fatal("no persistence expected")
	}
}

func TestManualReorderRoundTrip(t *testing.T) {
	// [A B C] with orders [0 1 2]; drag C before A
	e, p := newTestEngine(t, []models.Task{
		task(1, withTitle("A"), withOrder(0)),
		task(2, withTitle("B"), withOrder(1)),
		task(3, withTitle("C"), withOrder(2)),
	})
	e.DragStart(3)
	c := e.DragEnd(3, 1)
	if c == nil {
		t.Fatal("expected a commit")
	}
	// optimistic state visible immediately
	if !equalIDs(viewIDs(e), []int64{3, 1, 2}) {
		t.Fatalf("optimistic view %v, want [3 1 2]", viewIDs(e))
	}
	if err := c.Persist(context.Background()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	e.Confirm(c)
	if e.Phase() != PhaseIdle {
		t.Fatalf("phase %v, want idle after confirm", e.Phase())
	}
	// fresh sequential orders 0..n-1 written for every task in the view
	want := map[int64]int{3: 0, 1: 1, 2: 2}
	for id, order := range want {
		if p.orders[id] != order {
			t.Errorf("task %d persisted order %d, want %d", id, p.orders[id], order)
		}
	}
	// re-reading by persisted order reproduces the sequence
	if !equalIDs(viewIDs(e), []int64{3, 1, 2}) {
		t.Fatalf("view %v, want [3 1 2]", viewIDs(e))
	}
}

func TestManualReorderBackendFailureRestoresOrder(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{
		task(1, withTitle("A"), withOrder(0)),
		task(2, withTitle("B"), withOrder(1)),
		task(3, withTitle("C"), withOrder(2)),
	})
	p.fail = true
	e.DragStart(3)
	c := e.DragEnd(3, 1)
	if c == nil {
		t.Fatal("expected a commit")
	}
	if err := c.Persist(context.Background()); err == nil {
		t.Fatal("expected persist failure")
	}
	e.Revert(c)
	if e.Phase() != PhaseIdle {
		t.Fatalf("phase %v, want idle after revert", e.Phase())
	}
	if !equalIDs(viewIDs(e), []int64{1, 2, 3}) {
		t.Fatalf("view %v, want pre-drag [1 2 3]", viewIDs(e))
	}
}

func TestCrossGroupDrag(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{
		task(1, withTitle("X")),
		task(2, withGroup("Work")),
	})
	e.SetGroupBy(GroupCustom)
	e.SetGroups([]string{"Work"})

	e.DragStart(1)
	c := e.DragEnd(1, 2)
	if c == nil {
		t.Fatal("expected a commit")
	}
	grouped := e.GroupedView()
	if !equalIDs(ids(grouped[1].Tasks), []int64{1, 2}) {
		t.Fatalf("Work bucket %v, want [1 2]", ids(grouped[1].Tasks))
	}
	if len(grouped[0].Tasks) != 0 {
		t.Fatalf("default bucket should be empty, got %v", ids(grouped[0].Tasks))
	}
	if err := c.Persist(context.Background()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	e.Confirm(c)
	if p.groups[1] != "Work" {
		t.Fatalf("persisted group %q, want Work", p.groups[1])
	}
}

func TestDropIntoEmptyGroup(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{task(1)})
	e.SetGroupBy(GroupCustom)
	e.SetGroups([]string{"Someday"})

	e.DragStart(1)
	c := e.DragEndGroup(1, "Someday")
	if c == nil {
		t.Fatal("expected a commit")
	}
	if err := c.Persist(context.Background()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	e.Confirm(c)
	if p.groups[1] != "Someday" {
		t.Fatalf("persisted group %q, want Someday", p.groups[1])
	}
}

func TestDropIntoDefaultGroupClearsField(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{task(1, withGroup("Work"))})
	e.SetGroupBy(GroupCustom)
	e.SetGroups([]string{"Work"})

	e.DragStart(1)
	c := e.DragEndGroup(1, DefaultGroupName)
	if c == nil {
		t.Fatal("expected a commit")
	}
	if err := c.Persist(context.Background()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	if g, ok := p.groups[1]; !ok || g != "" {
		t.Fatalf("persisted group %q, want cleared", g)
	}
}

func TestCrossGroupFailureRevertsAssignment(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{task(1, withGroup("Work")), task(2)})
	e.SetGroupBy(GroupCustom)
	e.SetGroups([]string{"Work"})
	p.fail = true

	e.DragStart(1)
	c := e.DragEnd(1, 2)
	if c == nil {
		t.Fatal("expected a commit")
	}
	if err := c.Persist(context.Background()); err == nil {
		t.Fatal("expected failure")
	}
	e.Revert(c)
	if got := e.Store().Find(1).CustomGroup; got != "Work" {
		t.Fatalf("group %q after revert, want Work", got)
	}
}

func TestKanbanColumnDrop(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{task(1, withStatus(models.StatusTodo))})
	c := e.DropOnColumn(1, models.StatusInProgress)
	if c == nil {
		t.Fatal("expected a commit")
	}
	if got := e.Store().Find(1).Status; got != models.StatusInProgress {
		t.Fatalf("optimistic status %q", got)
	}
	if err := c.Persist(context.Background()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	e.Confirm(c)
	if p.status[1] != models.StatusInProgress {
		t.Fatalf("persisted status %q", p.status[1])
	}
	// same column is a no-op
	if c := e.DropOnColumn(1, models.StatusInProgress); c != nil {
		t.Fatal("same-column drop should be a no-op")
	}
}

func TestCreateAndRenameGroup(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{
		task(1, withGroup("Work")),
		task(2, withGroup("Work")),
		task(3),
	})
	e.SetGroupBy(GroupCustom)
	var saved []string
	e.OnGroupsChanged = func(gs []string) { saved = gs }

	if err := e.CreateGroup("Work"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := e.CreateGroup("Work"); !errors.Is(err, ErrGroupExists) {
		t.Fatalf("duplicate create: %v", err)
	}
	if err := e.CreateGroup("  "); !errors.Is(err, ErrEmptyGroupName) {
		t.Fatalf("blank create: %v", err)
	}
	if err := e.CreateGroup("Home"); err != nil {
		t.Fatalf("create Home: %v", err)
	}

	c, err := e.RenameGroup("Work", "Job")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	// position preserved, members relabeled
	if !equalStrings(e.Groups(), []string{"Job", "Home"}) {
		t.Fatalf("groups %v, want [Job Home]", e.Groups())
	}
	if !equalStrings(saved, []string{"Job", "Home"}) {
		t.Fatalf("saved groups %v, want [Job Home]", saved)
	}
	for _, id := range []int64{1, 2} {
		if got := e.Store().Find(id).CustomGroup; got != "Job" {
			t.Errorf("task %d group %q, want Job", id, got)
		}
	}
	if got := e.Store().Find(3).CustomGroup; got != "" {
		t.Errorf("task 3 group %q, want unchanged", got)
	}
	if c == nil {
		t.Fatal("expected a commit for member relabels")
	}
	if err := c.Persist(context.Background()); err != nil {
		t.Fatalf("persist: %v", err)
	}
	e.Confirm(c)
	if p.groups[1] != "Job" || p.groups[2] != "Job" {
		t.Fatalf("persisted groups %v", p.groups)
	}

	if _, err := e.RenameGroup(DefaultGroupName, "Other"); !errors.Is(err, ErrDefaultImmutable) {
		t.Fatalf("default rename: %v", err)
	}
	if _, err := e.RenameGroup("Missing", "X"); !errors.Is(err, ErrGroupUnknown) {
		t.Fatalf("unknown rename: %v", err)
	}
}

func TestMoveGroupIsLocalOnly(t *testing.T) {
	e, p := newTestEngine(t, nil)
	e.SetGroups([]string{"A", "B", "C"})
	var saved []string
	e.OnGroupsChanged = func(gs []string) { saved = gs }

	e.MoveGroup(2, 0)
	if !equalStrings(e.Groups(), []string{"C", "A", "B"}) {
		t.Fatalf("groups %v, want [C A B]", e.Groups())
	}
	if !equalStrings(saved, []string{"C", "A", "B"}) {
		t.Fatalf("saved %v, want [C A B]", saved)
	}
	if len(p.orders)+len(p.groups)+len(p.status) != 0 {
		t.Fatal("group reordering must not reach the backend")
	}
}

func TestStaleDragAfterReloadIsDropped(t *testing.T) {
	e, _ := newTestEngine(t, []models.Task{task(1, withOrder(0)), task(2, withOrder(1))})
	e.DragStart(2)
	// the view reloads underneath the gesture
	e.Store().SetTasks([]models.Task{task(1, withOrder(0)), task(2, withOrder(1))})
	if c := e.DragEnd(2, 1); c != nil {
		t.Fatal("drop from a stale generation must be ignored")
	}
}

func TestRevertSkippedAfterReload(t *testing.T) {
	e, p := newTestEngine(t, []models.Task{task(1, withOrder(0)), task(2, withOrder(1))})
	p.fail = true
	e.DragStart(2)
	c := e.DragEnd(2, 1)
	if c == nil {
		t.Fatal("expected a commit")
	}
	// authoritative reload lands before the failure comes back
	e.Store().SetTasks([]models.Task{task(1, withOrder(0)), task(2, withOrder(1))})
	e.Revert(c)
	if !equalIDs(viewIDs(e), []int64{1, 2}) {
		t.Fatalf("view %v, want reloaded [1 2]", viewIDs(e))
	}
}

func TestNonManualSortIgnoresSameGroupDrop(t *testing.T) {
	e, _ := newTestEngine(t, []models.Task{
		task(1, withPriority(models.PriorityHigh)),
		task(2, withPriority(models.PriorityLow)),
	})
	e.SetSort(Sort{By: SortPriority, Order: OrderAsc})
	e.DragStart(2)
	if c := e.DragEnd(2, 1); c != nil {
		t.Fatal("derived-key sort cannot be manually reordered")
	}
}
