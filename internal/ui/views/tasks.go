package views

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/cone387/ttask/internal/api"
	"github.com/cone387/ttask/internal/models"
	"github.com/cone387/ttask/internal/prefs"
	"github.com/cone387/ttask/internal/ui/keys"
	"github.com/cone387/ttask/internal/ui/styles"
	"github.com/cone387/ttask/internal/view"
)

// clamp returns val clamped between minVal and maxVal
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

// BackToSidebar signals to go back to the list picker
type BackToSidebar struct{}

type rowKind int

const (
	rowHeader rowKind = iota
	rowTask
	rowEmpty // placeholder body of an empty custom group, a drop target
)

type row struct {
	kind  rowKind
	group string
	task  models.Task
}

type inputMode int

const (
	modeNormal inputMode = iota
	modeSearch
	modeAdd
	modeEditTitle
	modeNewGroup
	modeRenameGroup
	modeConfirmDelete
)

// TaskView renders one task list: grouped list, kanban board or timeline,
// driven entirely by the view engine.
type TaskView struct {
	client *api.Client
	engine *view.Engine
	store  *prefs.Store
	p      prefs.Preferences
	log    *slog.Logger

	sel    Selection
	styles *styles.Styles
	keys   keys.KeyMap

	rows    []row
	cursor  int
	scrollY int

	// board cursor (kanban view)
	boardCol int
	boardRow int

	// move mode
	grabbedID    int64
	grabbedGroup string

	mode        inputMode
	searchInput textinput.Model
	titleInput  textinput.Model
	editTaskID  int64
	renameFrom  string
	deleteID    int64
	deleteName  string

	toast    string
	toastErr bool
	loading  bool
	spinner  spinner.Model

	width  int
	height int
}

func NewTaskView(client *api.Client, store *prefs.Store, km keys.KeyMap, sel Selection, log *slog.Logger) *TaskView {
	s := styles.NewStyles()

	search := textinput.New()
	search.Placeholder = "Search tasks..."
	search.CharLimit = 100

	title := textinput.New()
	title.Placeholder = "Task title"
	title.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	p := store.Load()
	engine := view.NewEngine(view.NewStore(), client)
	engine.SetGroupBy(p.GroupBy)
	engine.SetSort(view.Sort{By: p.SortBy, Order: p.SortOrder})
	engine.SetGroups(p.Groups)

	v := &TaskView{
		client:      client,
		engine:      engine,
		store:       store,
		p:           p,
		log:         log,
		sel:         sel,
		styles:      s,
		keys:        km,
		searchInput: search,
		titleInput:  title,
		spinner:     sp,
	}
	engine.OnGroupsChanged = func(groups []string) {
		v.p.Groups = groups
		v.savePrefs()
	}
	return v
}

func (v *TaskView) savePrefs() {
	if err := v.store.Save(v.p); err != nil {
		v.log.Warn("save preferences", "err", err)
	}
}

func (v *TaskView) Init() tea.Cmd {
	v.loading = true
	return tea.Batch(v.loadTasks, v.spinner.Tick)
}

type tasksLoadedMsg struct {
	tasks    []models.Task
	projects []models.Project
	tags     []models.Tag
	err      error
}

type commitResultMsg struct {
	commit *view.Commit
	err    error
}

type taskSavedMsg struct {
	task   models.Task
	err    error
	action string
}

type taskDeletedMsg struct {
	id  int64
	err error
}

func (v *TaskView) loadTasks() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	var tasks []models.Task
	var err error
	if v.sel.Project != nil {
		id := v.sel.Project.ID
		tasks, err = v.client.ListTasks(ctx, &id)
	} else {
		tasks, err = v.client.SystemList(ctx, v.sel.System)
	}
	// names for project and tag buckets; a miss here only degrades labels
	projects, perr := v.client.ListProjects(ctx)
	if perr != nil {
		v.log.Debug("load projects", "err", perr)
	}
	tags, terr := v.client.ListTags(ctx)
	if terr != nil {
		v.log.Debug("load tags", "err", terr)
	}
	return tasksLoadedMsg{tasks: tasks, projects: projects, tags: tags, err: err}
}

// effectiveGroupBy forces date grouping in the timeline view.
func (v *TaskView) effectiveGroupBy() view.GroupBy {
	if v.p.ViewType == prefs.ViewTimeline {
		return view.GroupDate
	}
	return v.engine.GroupBy()
}

func (v *TaskView) grouped() []view.GroupedList {
	if v.p.ViewType == prefs.ViewTimeline {
		prev := v.engine.GroupBy()
		v.engine.SetGroupBy(view.GroupDate)
		defer v.engine.SetGroupBy(prev)
	}
	return v.engine.GroupedView()
}

// rebuildRows flattens the grouped view into renderable rows, dropping the
// bodies of collapsed groups.
func (v *TaskView) rebuildRows() {
	v.rows = v.rows[:0]
	for _, g := range v.grouped() {
		if g.Name != "" {
			v.rows = append(v.rows, row{kind: rowHeader, group: g.Name})
			if v.p.Collapsed[g.Name] {
				continue
			}
		}
		for _, t := range g.Tasks {
			v.rows = append(v.rows, row{kind: rowTask, group: g.Name, task: t})
		}
		if len(g.Tasks) == 0 && g.Name != "" && v.effectiveGroupBy() == view.GroupCustom {
			v.rows = append(v.rows, row{kind: rowEmpty, group: g.Name})
		}
	}
	v.cursor = clamp(v.cursor, 0, max(0, len(v.rows)-1))
}

func (v *TaskView) currentRow() *row {
	if v.cursor < 0 || v.cursor >= len(v.rows) {
		return nil
	}
	return &v.rows[v.cursor]
}

func (v *TaskView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		return v, nil

	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tasksLoadedMsg:
		v.loading = false
		v.engine.Store().SetProjects(msg.projects)
		v.engine.Store().SetTags(msg.tags)
		if msg.err != nil {
			// fall back to an empty list rather than stale data
			v.engine.Store().SetTasks(nil)
			v.showError(msg.err)
		} else {
			v.engine.Store().SetTasks(msg.tasks)
			v.toast = ""
		}
		v.grabbedID = 0
		v.grabbedGroup = ""
		v.rebuildRows()
		return v, nil

	case commitResultMsg:
		if msg.err != nil {
			v.engine.Revert(msg.commit)
			v.showError(msg.err)
			v.loading = true
			v.rebuildRows()
			return v, tea.Batch(v.loadTasks, v.spinner.Tick)
		}
		v.engine.Confirm(msg.commit)
		v.showToast("saved")
		v.rebuildRows()
		return v, nil

	case taskSavedMsg:
		if msg.err != nil {
			v.showError(msg.err)
			return v, nil
		}
		v.engine.Store().Replace(msg.task)
		v.showToast(msg.action)
		v.rebuildRows()
		return v, nil

	case taskCreatedMsg:
		if msg.err != nil {
			v.showError(msg.err)
			return v, nil
		}
		v.engine.Store().Prepend(msg.task)
		v.showToast("task created")
		v.rebuildRows()
		return v, nil

	case taskDeletedMsg:
		if msg.err != nil {
			v.showError(msg.err)
			v.loading = true
			return v, tea.Batch(v.loadTasks, v.spinner.Tick)
		}
		v.engine.Store().Remove(msg.id)
		v.showToast("moved to trash")
		v.rebuildRows()
		return v, nil

	case tea.KeyMsg:
		switch v.mode {
		case modeSearch:
			return v.updateSearch(msg)
		case modeAdd, modeEditTitle, modeNewGroup, modeRenameGroup:
			return v.updateTextEntry(msg)
		case modeConfirmDelete:
			return v.updateConfirmDelete(msg)
		}
		if v.p.ViewType == prefs.ViewKanban {
			return v.updateBoard(msg)
		}
		return v.updateNormal(msg)
	}

	return v, nil
}

func (v *TaskView) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Projects):
		return v, func() tea.Msg { return BackToSidebar{} }

	case key.Matches(msg, v.keys.Up):
		return v.moveCursor(-1)

	case key.Matches(msg, v.keys.Down):
		return v.moveCursor(1)

	case key.Matches(msg, v.keys.Cancel):
		if v.grabbedID != 0 {
			v.engine.DragCancel()
			v.grabbedID = 0
		}
		v.grabbedGroup = ""
		if v.engine.Filters().Search != "" {
			f := v.engine.Filters()
			f.Search = ""
			v.engine.SetFilters(f)
			v.searchInput.SetValue("")
			v.rebuildRows()
		}
		return v, nil

	case key.Matches(msg, v.keys.Search):
		v.mode = modeSearch
		return v, v.searchInput.Focus()

	case key.Matches(msg, v.keys.Add):
		v.mode = modeAdd
		v.titleInput.SetValue("")
		return v, v.titleInput.Focus()

	case key.Matches(msg, v.keys.Grab):
		return v.grab()

	case key.Matches(msg, v.keys.Drop):
		return v.drop()

	case key.Matches(msg, v.keys.Toggle):
		return v.toggleComplete()

	case key.Matches(msg, v.keys.Star):
		return v.toggleStar()

	case key.Matches(msg, v.keys.Edit):
		if r := v.currentRow(); r != nil && r.kind == rowTask {
			v.mode = modeEditTitle
			v.editTaskID = r.task.ID
			v.titleInput.SetValue(r.task.Title)
			return v, v.titleInput.Focus()
		}
		return v, nil

	case key.Matches(msg, v.keys.Delete):
		if r := v.currentRow(); r != nil && r.kind == rowTask {
			v.mode = modeConfirmDelete
			v.deleteID = r.task.ID
			v.deleteName = r.task.Title
		}
		return v, nil

	case key.Matches(msg, v.keys.Collapse):
		if r := v.currentRow(); r != nil && r.kind == rowHeader {
			v.p.Collapsed[r.group] = !v.p.Collapsed[r.group]
			v.savePrefs()
			v.rebuildRows()
		}
		return v, nil

	case key.Matches(msg, v.keys.CycleGroupBy):
		v.cycleGroupBy()
		return v, nil

	case key.Matches(msg, v.keys.CycleSort):
		v.cycleSort()
		return v, nil

	case key.Matches(msg, v.keys.FlipSort):
		v.flipSortOrder()
		return v, nil

	case key.Matches(msg, v.keys.CycleView):
		v.cycleViewType()
		return v, nil

	case key.Matches(msg, v.keys.NewGroup):
		if v.engine.GroupBy() == view.GroupCustom {
			v.mode = modeNewGroup
			v.titleInput.SetValue("")
			return v, v.titleInput.Focus()
		}
		return v, nil

	case key.Matches(msg, v.keys.RenameGroup):
		if r := v.currentRow(); r != nil && r.kind == rowHeader && v.engine.GroupBy() == view.GroupCustom {
			v.mode = modeRenameGroup
			v.renameFrom = r.group
			v.titleInput.SetValue(r.group)
			return v, v.titleInput.Focus()
		}
		return v, nil

	case key.Matches(msg, v.keys.Reload):
		v.loading = true
		return v, tea.Batch(v.loadTasks, v.spinner.Tick)
	}

	return v, nil
}

// moveCursor moves the selection, or in group-move mode shifts the grabbed
// group through the display order.
func (v *TaskView) moveCursor(delta int) (tea.Model, tea.Cmd) {
	if v.grabbedGroup != "" {
		idx := -1
		for i, g := range v.engine.Groups() {
			if g == v.grabbedGroup {
				idx = i
				break
			}
		}
		if idx >= 0 {
			v.engine.MoveGroup(idx, clamp(idx+delta, 0, len(v.engine.Groups())-1))
			v.rebuildRows()
			v.focusHeader(v.grabbedGroup)
		}
		return v, nil
	}
	v.cursor = clamp(v.cursor+delta, 0, max(0, len(v.rows)-1))
	v.ensureVisible()
	return v, nil
}

func (v *TaskView) focusHeader(group string) {
	for i, r := range v.rows {
		if r.kind == rowHeader && r.group == group {
			v.cursor = i
			return
		}
	}
}

// grab picks up the task (or, on a custom group header, the group itself)
// under the cursor.
func (v *TaskView) grab() (tea.Model, tea.Cmd) {
	r := v.currentRow()
	if r == nil {
		return v, nil
	}
	switch r.kind {
	case rowTask:
		v.engine.DragStart(r.task.ID)
		v.grabbedID = r.task.ID
	case rowHeader:
		if v.engine.GroupBy() == view.GroupCustom && r.group != view.DefaultGroupName {
			v.grabbedGroup = r.group
		}
	}
	return v, nil
}

// drop releases the grabbed task onto the row under the cursor.
func (v *TaskView) drop() (tea.Model, tea.Cmd) {
	if v.grabbedGroup != "" {
		// group order is already applied and saved locally on every move
		v.grabbedGroup = ""
		return v, nil
	}
	if v.grabbedID == 0 {
		return v, nil
	}
	r := v.currentRow()
	if r == nil {
		v.engine.DragCancel()
		v.grabbedID = 0
		return v, nil
	}

	var commit *view.Commit
	switch r.kind {
	case rowTask:
		commit = v.engine.DragEnd(v.grabbedID, r.task.ID)
	case rowHeader, rowEmpty:
		commit = v.engine.DragEndGroup(v.grabbedID, r.group)
	}
	v.grabbedID = 0
	if commit == nil {
		v.rebuildRows()
		return v, nil
	}
	v.rebuildRows()
	return v, v.persist(commit)
}

func (v *TaskView) persist(commit *view.Commit) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return commitResultMsg{commit: commit, err: commit.Persist(ctx)}
	}
}

func (v *TaskView) toggleComplete() (tea.Model, tea.Cmd) {
	r := v.currentRow()
	if r == nil || r.kind != rowTask {
		return v, nil
	}
	return v, v.completeCmd(r.task)
}

func (v *TaskView) completeCmd(t models.Task) tea.Cmd {
	id := t.ID
	if t.Status == models.StatusCompleted {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			st := models.StatusTodo
			out, err := v.client.UpdateTask(ctx, id, api.TaskPatch{Status: &st})
			return taskSavedMsg{task: out, err: err, action: "reopened"}
		}
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		out, err := v.client.CompleteTask(ctx, id)
		return taskSavedMsg{task: out, err: err, action: "completed"}
	}
}

func (v *TaskView) toggleStar() (tea.Model, tea.Cmd) {
	r := v.currentRow()
	if r == nil || r.kind != rowTask {
		return v, nil
	}
	return v, v.starCmd(r.task.ID)
}

func (v *TaskView) starCmd(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		out, err := v.client.ToggleStar(ctx, id)
		return taskSavedMsg{task: out, err: err, action: "starred"}
	}
}

type taskCreatedMsg struct {
	task models.Task
	err  error
}

func (v *TaskView) updateTextEntry(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = modeNormal
		v.titleInput.Blur()
		return v, nil
	case "enter":
		text := strings.TrimSpace(v.titleInput.Value())
		mode := v.mode
		v.mode = modeNormal
		v.titleInput.Blur()
		return v.submitTextEntry(mode, text)
	}
	var cmd tea.Cmd
	v.titleInput, cmd = v.titleInput.Update(msg)
	return v, cmd
}

func (v *TaskView) submitTextEntry(mode inputMode, text string) (tea.Model, tea.Cmd) {
	// validation failures never reach the backend
	if text == "" {
		v.showError(errors.New("title cannot be empty"))
		return v, nil
	}
	switch mode {
	case modeAdd:
		in := api.TaskCreate{Title: text}
		if v.sel.Project != nil {
			id := v.sel.Project.ID
			in.Project = &id
		}
		return v, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			t, err := v.client.CreateTask(ctx, in)
			return taskCreatedMsg{task: t, err: err}
		}
	case modeEditTitle:
		id := v.editTaskID
		return v, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			t, err := v.client.UpdateTask(ctx, id, api.TaskPatch{Title: &text})
			return taskSavedMsg{task: t, err: err, action: "renamed"}
		}
	case modeNewGroup:
		if err := v.engine.CreateGroup(text); err != nil {
			v.showError(err)
			return v, nil
		}
		v.showToast("group created")
		v.rebuildRows()
		return v, nil
	case modeRenameGroup:
		commit, err := v.engine.RenameGroup(v.renameFrom, text)
		if err != nil {
			v.showError(err)
			return v, nil
		}
		v.rebuildRows()
		if commit == nil {
			v.showToast("group renamed")
			return v, nil
		}
		return v, v.persist(commit)
	}
	return v, nil
}

func (v *TaskView) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "enter":
		v.mode = modeNormal
		v.searchInput.Blur()
		return v, nil
	}
	var cmd tea.Cmd
	v.searchInput, cmd = v.searchInput.Update(msg)
	f := v.engine.Filters()
	f.Search = v.searchInput.Value()
	v.engine.SetFilters(f)
	v.rebuildRows()
	return v, cmd
}

func (v *TaskView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "enter":
		v.mode = modeNormal
		id := v.deleteID
		return v, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return taskDeletedMsg{id: id, err: v.client.DeleteTask(ctx, id)}
		}
	case "n", "esc":
		v.mode = modeNormal
		return v, nil
	}
	return v, nil
}

func (v *TaskView) cycleGroupBy() {
	cycle := []view.GroupBy{
		view.GroupNone, view.GroupCustom, view.GroupPriority,
		view.GroupProject, view.GroupTag, view.GroupDate,
	}
	cur := v.engine.GroupBy()
	next := cycle[0]
	for i, g := range cycle {
		if g == cur {
			next = cycle[(i+1)%len(cycle)]
			break
		}
	}
	v.engine.SetGroupBy(next)
	v.p.GroupBy = next
	v.savePrefs()
	v.rebuildRows()
}

func (v *TaskView) cycleSort() {
	cycle := []view.SortBy{
		view.SortManual, view.SortDueDate, view.SortPriority,
		view.SortCreatedAt, view.SortUpdatedAt,
	}
	s := v.engine.Sort()
	next := cycle[0]
	for i, b := range cycle {
		if b == s.By {
			next = cycle[(i+1)%len(cycle)]
			break
		}
	}
	s.By = next
	v.engine.SetSort(s)
	v.p.SortBy = next
	v.savePrefs()
	v.rebuildRows()
}

func (v *TaskView) flipSortOrder() {
	s := v.engine.Sort()
	if s.Order == view.OrderAsc {
		s.Order = view.OrderDesc
	} else {
		s.Order = view.OrderAsc
	}
	v.engine.SetSort(s)
	v.p.SortOrder = s.Order
	v.savePrefs()
	v.rebuildRows()
}

func (v *TaskView) cycleViewType() {
	switch v.p.ViewType {
	case prefs.ViewList:
		v.p.ViewType = prefs.ViewKanban
	case prefs.ViewKanban:
		v.p.ViewType = prefs.ViewTimeline
	default:
		v.p.ViewType = prefs.ViewList
	}
	v.savePrefs()
	v.boardCol, v.boardRow = 0, 0
	v.rebuildRows()
}

func (v *TaskView) showToast(text string) {
	v.toast = text
	v.toastErr = false
}

func (v *TaskView) showError(err error) {
	v.log.Warn("operation failed", "err", err)
	v.toast = err.Error()
	v.toastErr = true
}

func (v *TaskView) ensureVisible() {
	visible := v.listHeight()
	if visible <= 0 {
		return
	}
	if v.cursor < v.scrollY {
		v.scrollY = v.cursor
	}
	if v.cursor >= v.scrollY+visible {
		v.scrollY = v.cursor - visible + 1
	}
}

func (v *TaskView) listHeight() int {
	// header, status bar and help line
	return max(1, v.height-5)
}

func (v *TaskView) View() string {
	if v.p.ViewType == prefs.ViewKanban {
		return v.viewBoard()
	}

	var b strings.Builder
	b.WriteString(v.headerLine())
	b.WriteString("\n")

	if v.mode == modeSearch || v.engine.Filters().Search != "" {
		b.WriteString(v.styles.Input.Render(v.searchInput.View()))
		b.WriteString("\n")
	}
	if v.mode == modeAdd || v.mode == modeEditTitle || v.mode == modeNewGroup || v.mode == modeRenameGroup {
		b.WriteString(v.styles.InputFocused.Render(v.titleInput.View()))
		b.WriteString("\n")
	}
	if v.mode == modeConfirmDelete {
		b.WriteString(v.styles.ToastError.Render(fmt.Sprintf("delete %q? (y/n)", v.deleteName)))
		b.WriteString("\n")
	}

	if v.loading {
		b.WriteString(v.styles.Meta.Render(v.spinner.View() + " loading..."))
		b.WriteString("\n")
	} else if len(v.rows) == 0 {
		b.WriteString(v.styles.Meta.Render("no tasks"))
		b.WriteString("\n")
	} else {
		end := min(len(v.rows), v.scrollY+v.listHeight())
		for i := v.scrollY; i < end; i++ {
			b.WriteString(v.renderRow(i))
			b.WriteString("\n")
		}
	}

	b.WriteString(v.statusLine())
	return b.String()
}

func (v *TaskView) headerLine() string {
	title := v.styles.Title.Render(v.sel.Title())
	mode := fmt.Sprintf("view:%s group:%s sort:%s/%s",
		v.p.ViewType, v.effectiveGroupBy(), v.engine.Sort().By, v.engine.Sort().Order)
	return title + "  " + v.styles.TitleMuted.Render(mode)
}

func (v *TaskView) renderRow(i int) string {
	r := v.rows[i]
	selected := i == v.cursor

	switch r.kind {
	case rowHeader:
		count := 0
		for _, other := range v.rows {
			if other.kind == rowTask && other.group == r.group {
				count++
			}
		}
		marker := "▾"
		style := v.styles.GroupHeader
		if v.p.Collapsed[r.group] {
			marker = "▸"
			style = v.styles.GroupCollapsed
		}
		line := fmt.Sprintf("%s %s %s", marker, r.group, v.styles.GroupCount.Render(fmt.Sprintf("(%d)", count)))
		if r.group == v.grabbedGroup {
			return v.styles.TaskGrabbed.Render(line)
		}
		if selected {
			return v.styles.TaskSelected.Render(line)
		}
		return style.Render(line)

	case rowEmpty:
		text := "  (empty, drop tasks here)"
		if selected {
			return v.styles.TaskSelected.Render(text)
		}
		return v.styles.Meta.Render(text)

	default:
		return v.renderTaskLine(r.task, selected)
	}
}

func (v *TaskView) renderTaskLine(t models.Task, selected bool) string {
	check := "[ ]"
	if t.Status == models.StatusCompleted {
		check = "[x]"
	} else if t.Status == models.StatusInProgress {
		check = "[~]"
	}

	var meta []string
	if t.Priority != models.PriorityNone {
		label := "!" + string(t.Priority)
		if t.Priority == models.PriorityUrgent || t.Priority == models.PriorityHigh {
			label = v.styles.PriorityHot.Render(label)
		}
		meta = append(meta, label)
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("Jan 02")
		if t.DueDate.Before(time.Now()) && t.Status != models.StatusCompleted {
			due = v.styles.Overdue.Render(due)
		}
		meta = append(meta, due)
	}
	if id := t.ProjectID(); id != 0 && v.sel.Project == nil {
		if name := v.engine.Store().ProjectName(id); name != "" {
			meta = append(meta, "#"+name)
		}
	}
	if t.SubtasksCount > 0 {
		meta = append(meta, fmt.Sprintf("%d subtasks", t.SubtasksCount))
	}

	line := check + " "
	if t.Starred {
		line += v.styles.Starred.Render("*") + " "
	}
	line += t.Title
	if len(meta) > 0 {
		line += "  " + v.styles.Meta.Render(strings.Join(meta, "  "))
	}

	switch {
	case t.ID == v.grabbedID:
		return v.styles.TaskGrabbed.Render(line)
	case selected:
		return v.styles.TaskSelected.Render(line)
	case t.Status == models.StatusCompleted:
		return v.styles.TaskDone.Render(line)
	default:
		return v.styles.TaskRow.Render(line)
	}
}

func (v *TaskView) statusLine() string {
	var left string
	switch {
	case v.grabbedID != 0:
		left = "moving task: navigate to target, " + v.keys.Drop.Help().Key + " to drop, esc to cancel"
	case v.grabbedGroup != "":
		left = "moving group: j/k to shift, " + v.keys.Drop.Help().Key + " to drop"
	case v.toast != "":
		if v.toastErr {
			return v.styles.ToastError.Render(v.toast)
		}
		return v.styles.Toast.Render(v.toast)
	default:
		left = "a:add  space:done  m:move  g:group  s:sort  v:view  /:search  p:lists  q:quit"
	}
	return v.styles.StatusBar.Render(left)
}
