package ui

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cone387/ttask/internal/api"
	"github.com/cone387/ttask/internal/models"
	"github.com/cone387/ttask/internal/prefs"
	"github.com/cone387/ttask/internal/ui/keys"
	"github.com/cone387/ttask/internal/ui/views"
)

// Currently active screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenSidebar
	ScreenTasks
)

type App struct {
	client *api.Client
	store  *prefs.Store
	keys   keys.KeyMap
	log    *slog.Logger

	screen  Screen
	login   *views.LoginView
	sidebar *views.SidebarView
	tasks   *views.TaskView

	width  int
	height int
}

// NewApp restores a saved session if one exists, otherwise starts at the
// login screen.
func NewApp(client *api.Client, store *prefs.Store, km keys.KeyMap, log *slog.Logger) *App {
	a := &App{
		client:  client,
		store:   store,
		keys:    km,
		log:     log,
		screen:  ScreenLogin,
		login:   views.NewLoginView(client),
		sidebar: views.NewSidebarView(client),
	}

	if raw := store.Session(); raw != "" {
		var pair api.TokenPair
		if err := json.Unmarshal([]byte(raw), &pair); err != nil {
			log.Warn("discarding unreadable session", "err", err)
			store.ClearSession()
		} else {
			client.SetTokens(pair)
			a.screen = ScreenSidebar
		}
	}
	return a
}

// lastProjectMsg resumes the project that was open when the app last quit.
type lastProjectMsg struct {
	project *models.Project
}

func (a *App) Init() tea.Cmd {
	if a.screen == ScreenLogin {
		return a.login.Init()
	}
	if id := a.store.LastProjectID(); id != 0 {
		return a.resumeProject(id)
	}
	return a.sidebar.Init()
}

func (a *App) resumeProject(id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		projects, err := a.client.ListProjects(ctx)
		if err != nil {
			a.log.Warn("resume last project", "err", err)
			return lastProjectMsg{}
		}
		for i := range projects {
			if projects[i].ID == id {
				return lastProjectMsg{project: &projects[i]}
			}
		}
		return lastProjectMsg{}
	}
}

func (a *App) openSelection(sel views.Selection) tea.Cmd {
	a.screen = ScreenTasks
	a.tasks = views.NewTaskView(a.client, a.store, a.keys, sel, a.log)

	if sel.Project != nil {
		a.store.SaveLastProjectID(sel.Project.ID)
	} else {
		a.store.SaveLastProjectID(0)
	}

	return tea.Batch(
		a.tasks.Init(),
		func() tea.Msg {
			return tea.WindowSizeMsg{Width: a.width, Height: a.height}
		},
	)
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// the sidebar persists across screens, keep its size current
		a.sidebar.Update(msg)

	case views.LoggedIn:
		if raw, err := json.Marshal(msg.Tokens); err == nil {
			if err := a.store.SaveSession(string(raw)); err != nil {
				a.log.Warn("persist session", "err", err)
			}
		}
		a.screen = ScreenSidebar
		return a, tea.Batch(
			a.sidebar.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)

	case lastProjectMsg:
		if msg.project != nil {
			return a, a.openSelection(views.Selection{Project: msg.project})
		}
		a.screen = ScreenSidebar
		return a, a.sidebar.Init()

	case views.SelectionMade:
		return a, a.openSelection(msg.Selection)

	case views.BackToSidebar:
		a.screen = ScreenSidebar
		a.store.SaveLastProjectID(0)
		return a, tea.Batch(
			a.sidebar.Init(),
			func() tea.Msg {
				return tea.WindowSizeMsg{Width: a.width, Height: a.height}
			},
		)
	}

	var cmd tea.Cmd
	switch a.screen {
	case ScreenLogin:
		_, cmd = a.login.Update(msg)
	case ScreenSidebar:
		_, cmd = a.sidebar.Update(msg)
	case ScreenTasks:
		_, cmd = a.tasks.Update(msg)
	}

	return a, cmd
}

func (a *App) View() string {
	switch a.screen {
	case ScreenLogin:
		return a.login.View()
	case ScreenTasks:
		if a.tasks != nil {
			return a.tasks.View()
		}
	}
	return a.sidebar.View()
}
