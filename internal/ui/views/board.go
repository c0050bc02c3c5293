package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cone387/ttask/internal/models"
	"github.com/cone387/ttask/internal/view"
)

var boardStatuses = []models.Status{
	models.StatusTodo,
	models.StatusInProgress,
	models.StatusCompleted,
}

// boardColumns buckets the filtered, sorted tasks by status.
func (v *TaskView) boardColumns() [][]models.Task {
	tasks := view.SortTasks(v.engine.Filters().Apply(v.engine.Store().Tasks()), v.engine.Sort())
	cols := make([][]models.Task, len(boardStatuses))
	for _, t := range tasks {
		for i, st := range boardStatuses {
			if t.Status == st {
				cols[i] = append(cols[i], t)
				break
			}
		}
	}
	return cols
}

func (v *TaskView) boardTask(cols [][]models.Task) *models.Task {
	if v.boardCol < 0 || v.boardCol >= len(cols) {
		return nil
	}
	col := cols[v.boardCol]
	if v.boardRow < 0 || v.boardRow >= len(col) {
		return nil
	}
	return &col[v.boardRow]
}

func (v *TaskView) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := v.boardColumns()

	switch {
	case key.Matches(msg, v.keys.Quit):
		return v, tea.Quit

	case key.Matches(msg, v.keys.Projects):
		return v, func() tea.Msg { return BackToSidebar{} }

	case key.Matches(msg, v.keys.Up):
		v.boardRow = clamp(v.boardRow-1, 0, max(0, len(cols[v.boardCol])-1))
		return v, nil

	case key.Matches(msg, v.keys.Down):
		v.boardRow = clamp(v.boardRow+1, 0, max(0, len(cols[v.boardCol])-1))
		return v, nil

	case key.Matches(msg, v.keys.Left), key.Matches(msg, v.keys.Right):
		delta := 1
		if key.Matches(msg, v.keys.Left) {
			delta = -1
		}
		target := clamp(v.boardCol+delta, 0, len(boardStatuses)-1)
		if target == v.boardCol {
			return v, nil
		}
		if v.grabbedID != 0 {
			// carry the grabbed card into the neighbouring column
			commit := v.engine.DropOnColumn(v.grabbedID, boardStatuses[target])
			v.grabbedID = 0
			v.boardCol = target
			v.boardRow = 0
			if commit == nil {
				return v, nil
			}
			return v, v.persist(commit)
		}
		v.boardCol = target
		v.boardRow = clamp(v.boardRow, 0, max(0, len(cols[target])-1))
		return v, nil

	case key.Matches(msg, v.keys.Grab):
		if t := v.boardTask(cols); t != nil {
			v.engine.DragStart(t.ID)
			v.grabbedID = t.ID
		}
		return v, nil

	case key.Matches(msg, v.keys.Drop), key.Matches(msg, v.keys.Cancel):
		if v.grabbedID != 0 {
			v.engine.DragCancel()
			v.grabbedID = 0
		}
		return v, nil

	case key.Matches(msg, v.keys.Toggle):
		if t := v.boardTask(cols); t != nil {
			return v, v.completeCmd(*t)
		}
		return v, nil

	case key.Matches(msg, v.keys.Star):
		if t := v.boardTask(cols); t != nil {
			return v, v.starCmd(t.ID)
		}
		return v, nil

	case key.Matches(msg, v.keys.Add):
		v.mode = modeAdd
		v.titleInput.SetValue("")
		return v, v.titleInput.Focus()

	case key.Matches(msg, v.keys.CycleView):
		v.cycleViewType()
		return v, nil

	case key.Matches(msg, v.keys.Reload):
		v.loading = true
		return v, tea.Batch(v.loadTasks, v.spinner.Tick)
	}

	return v, nil
}

func (v *TaskView) viewBoard() string {
	cols := v.boardColumns()

	colWidth := max(24, v.width/len(boardStatuses)-2)
	rendered := make([]string, 0, len(boardStatuses))
	for i, st := range boardStatuses {
		var b strings.Builder
		b.WriteString(v.styles.ColumnTitle.Render(fmt.Sprintf("%s (%d)", st.Label(), len(cols[i]))))
		b.WriteString("\n")
		for j, t := range cols[i] {
			card := v.renderCard(t, colWidth-4)
			switch {
			case t.ID == v.grabbedID:
				card = v.styles.TaskGrabbed.Render(card)
			case i == v.boardCol && j == v.boardRow:
				card = v.styles.CardSelected.Width(colWidth - 2).Render(card)
			default:
				card = v.styles.Card.Width(colWidth - 2).Render(card)
			}
			b.WriteString(card)
			b.WriteString("\n")
		}
		style := v.styles.Column
		if i == v.boardCol {
			style = v.styles.ColumnFocused
		}
		rendered = append(rendered, style.Width(colWidth).Render(b.String()))
	}

	board := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	var b strings.Builder
	b.WriteString(v.headerLine())
	b.WriteString("\n")
	if v.mode == modeAdd {
		b.WriteString(v.styles.InputFocused.Render(v.titleInput.View()))
		b.WriteString("\n")
	}
	if v.loading {
		b.WriteString(v.styles.Meta.Render(v.spinner.View() + " loading..."))
		b.WriteString("\n")
	}
	b.WriteString(board)
	b.WriteString("\n")
	b.WriteString(v.boardStatusLine())
	return b.String()
}

// truncate shortens s to fit within width display cells, rune by rune so
// multibyte and wide characters are never cut mid-sequence.
func truncate(s string, width int) string {
	if lipgloss.Width(s) <= width || width <= 3 {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && lipgloss.Width(string(runes))+3 > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}

func (v *TaskView) renderCard(t models.Task, width int) string {
	title := truncate(t.Title, width)
	if t.Starred {
		title = v.styles.Starred.Render("*") + " " + title
	}
	var meta []string
	if t.Priority != models.PriorityNone {
		meta = append(meta, "!"+string(t.Priority))
	}
	if t.DueDate != nil {
		meta = append(meta, t.DueDate.Format("Jan 02"))
	}
	if len(meta) == 0 {
		return title
	}
	return title + "\n" + v.styles.Meta.Render(strings.Join(meta, "  "))
}

func (v *TaskView) boardStatusLine() string {
	if v.grabbedID != 0 {
		return v.styles.StatusBar.Render("moving card: h/l to change column, esc to cancel")
	}
	if v.toast != "" {
		if v.toastErr {
			return v.styles.ToastError.Render(v.toast)
		}
		return v.styles.Toast.Render(v.toast)
	}
	return v.styles.StatusBar.Render("h/l:column  j/k:card  m:grab  a:add  v:view  p:lists  q:quit")
}
