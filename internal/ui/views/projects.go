package views

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/cone387/ttask/internal/api"
	"github.com/cone387/ttask/internal/models"
	"github.com/cone387/ttask/internal/ui/styles"
)

// Selection is a sidebar choice: either a system list or a project
type Selection struct {
	System  models.SystemList // empty when a project is chosen
	Project *models.Project
}

// Title names the selection for the task view header.
func (s Selection) Title() string {
	if s.Project != nil {
		return s.Project.Name
	}
	switch s.System {
	case models.SystemCompleted:
		return "Completed"
	case models.SystemTrash:
		return "Trash"
	default:
		return "Inbox"
	}
}

// SelectionMade signals the user picked a sidebar entry
type SelectionMade struct {
	Selection Selection
}

type sidebarItem struct {
	selection Selection
	count     int
}

func (i sidebarItem) Title() string       { return i.selection.Title() }
func (i sidebarItem) Description() string { return "" }
func (i sidebarItem) FilterValue() string { return i.selection.Title() }

type sidebarDelegate struct {
	styles *styles.Styles
}

func (d sidebarDelegate) Height() int                               { return 1 }
func (d sidebarDelegate) Spacing() int                              { return 0 }
func (d sidebarDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d sidebarDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(sidebarItem)
	if !ok {
		return
	}
	line := it.Title()
	if it.selection.Project != nil {
		line = "# " + line
		if it.count > 0 {
			line = fmt.Sprintf("%s (%d)", line, it.count)
		}
		if it.selection.Project.Favorite {
			line += " " + d.styles.Starred.Render("*")
		}
	}
	if index == m.Index() {
		fmt.Fprint(w, d.styles.ListSelected.Render(line))
		return
	}
	fmt.Fprint(w, d.styles.ListItem.Render(line))
}

type sidebarMode int

const (
	sidebarIdle sidebarMode = iota
	sidebarCreate
	sidebarRename
	sidebarConfirmDelete
)

// SidebarView lists the system views and the user's projects
type SidebarView struct {
	client *api.Client
	list   list.Model
	styles *styles.Styles

	mode    sidebarMode
	newName textinput.Model
	target  *models.Project // project being renamed or deleted

	loading bool
	errText string
	width   int
	height  int
}

func NewSidebarView(client *api.Client) *SidebarView {
	s := styles.NewStyles()

	newName := textinput.New()
	newName.Placeholder = "Project name"
	newName.CharLimit = 100

	l := list.New([]list.Item{}, sidebarDelegate{styles: s}, 0, 0)
	l.Title = "Lists"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.Styles.Title = s.Title

	return &SidebarView{
		client:  client,
		list:    l,
		styles:  s,
		newName: newName,
	}
}

func (v *SidebarView) Init() tea.Cmd {
	v.loading = true
	return v.loadProjects
}

type projectsLoadedMsg struct {
	projects []models.Project
	err      error
}

type projectCreatedMsg struct {
	err error
}

type projectSavedMsg struct {
	err error
}

type projectDeletedMsg struct {
	err error
}

func (v *SidebarView) loadProjects() tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	projects, err := v.client.ListProjects(ctx)
	return projectsLoadedMsg{projects: projects, err: err}
}

func (v *SidebarView) setItems(projects []models.Project) {
	items := []list.Item{
		sidebarItem{selection: Selection{System: models.SystemInbox}},
		sidebarItem{selection: Selection{System: models.SystemCompleted}},
		sidebarItem{selection: Selection{System: models.SystemTrash}},
	}
	for i := range projects {
		p := projects[i]
		items = append(items, sidebarItem{selection: Selection{Project: &p}, count: p.TasksCount})
	}
	v.list.SetItems(items)
}

func (v *SidebarView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.list.SetSize(msg.Width, msg.Height-3)
		return v, nil

	case projectsLoadedMsg:
		v.loading = false
		if msg.err != nil {
			// fall back to an empty sidebar rather than stale data
			v.errText = msg.err.Error()
			v.setItems(nil)
			return v, nil
		}
		v.errText = ""
		v.setItems(msg.projects)
		return v, nil

	case projectCreatedMsg:
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.errText = ""
		return v, v.loadProjects

	case projectSavedMsg:
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.errText = ""
		return v, v.loadProjects

	case projectDeletedMsg:
		if msg.err != nil {
			v.errText = msg.err.Error()
			return v, nil
		}
		v.errText = ""
		return v, v.loadProjects

	case tea.KeyMsg:
		switch v.mode {
		case sidebarCreate, sidebarRename:
			return v.updateInput(msg)
		case sidebarConfirmDelete:
			return v.updateConfirmDelete(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return v, tea.Quit
		case "n":
			v.mode = sidebarCreate
			v.newName.SetValue("")
			return v, v.newName.Focus()
		case "e":
			if p := v.selectedProject(); p != nil {
				v.mode = sidebarRename
				v.target = p
				v.newName.SetValue(p.Name)
				return v, v.newName.Focus()
			}
		case "d":
			if p := v.selectedProject(); p != nil {
				v.mode = sidebarConfirmDelete
				v.target = p
			}
			return v, nil
		case "r":
			v.loading = true
			return v, v.loadProjects
		case "enter":
			if it, ok := v.list.SelectedItem().(sidebarItem); ok {
				sel := it.selection
				return v, func() tea.Msg { return SelectionMade{Selection: sel} }
			}
		}
	}

	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return v, cmd
}

// selectedProject returns the highlighted project, or nil on a system list.
func (v *SidebarView) selectedProject() *models.Project {
	it, ok := v.list.SelectedItem().(sidebarItem)
	if !ok {
		return nil
	}
	return it.selection.Project
}

func (v *SidebarView) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.mode = sidebarIdle
		v.target = nil
		v.newName.Blur()
		return v, nil
	case "enter":
		name := strings.TrimSpace(v.newName.Value())
		if name == "" {
			v.errText = "project name cannot be empty"
			return v, nil
		}
		mode, target := v.mode, v.target
		v.mode = sidebarIdle
		v.target = nil
		v.newName.Blur()
		if mode == sidebarRename {
			id := target.ID
			return v, func() tea.Msg {
				ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				_, err := v.client.UpdateProject(ctx, id, api.ProjectInput{Name: name})
				return projectSavedMsg{err: err}
			}
		}
		return v, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_, err := v.client.CreateProject(ctx, api.ProjectInput{Name: name})
			return projectCreatedMsg{err: err}
		}
	}
	var cmd tea.Cmd
	v.newName, cmd = v.newName.Update(msg)
	return v, cmd
}

func (v *SidebarView) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		id := v.target.ID
		v.mode = sidebarIdle
		v.target = nil
		return v, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return projectDeletedMsg{err: v.client.DeleteProject(ctx, id)}
		}
	case "n", "N", "esc":
		v.mode = sidebarIdle
		v.target = nil
		return v, nil
	}
	return v, nil
}

func (v *SidebarView) View() string {
	switch v.mode {
	case sidebarCreate:
		return lipgloss.JoinVertical(lipgloss.Left,
			v.styles.Title.Render("New project"),
			v.styles.InputFocused.Render(v.newName.View()),
			v.styles.Help.Render("enter: create  esc: cancel"),
		)
	case sidebarRename:
		return lipgloss.JoinVertical(lipgloss.Left,
			v.styles.Title.Render("Rename project"),
			v.styles.InputFocused.Render(v.newName.View()),
			v.styles.Help.Render("enter: save  esc: cancel"),
		)
	case sidebarConfirmDelete:
		prompt := fmt.Sprintf("Delete project %q and its tasks? (y/n)", v.target.Name)
		return lipgloss.JoinVertical(lipgloss.Left,
			v.styles.Title.Render("Delete project"),
			v.styles.ToastError.Render(prompt),
		)
	}
	parts := []string{v.list.View()}
	if v.loading {
		parts = append(parts, v.styles.Meta.Render("loading..."))
	}
	if v.errText != "" {
		parts = append(parts, v.styles.ToastError.Render(v.errText))
	}
	parts = append(parts, v.styles.Help.Render("enter: open  n: new  e: rename  d: delete  r: reload  q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
