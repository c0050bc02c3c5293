package keys

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/cone387/ttask/internal/config"
)

// KeyMap holds the application key bindings
type KeyMap struct {
	Quit         key.Binding
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Add          key.Binding
	Edit         key.Binding
	Delete       key.Binding
	Toggle       key.Binding
	Star         key.Binding
	Grab         key.Binding
	Drop         key.Binding
	Cancel       key.Binding
	Search       key.Binding
	CycleGroupBy key.Binding
	CycleSort    key.Binding
	FlipSort     key.Binding
	CycleView    key.Binding
	Reload       key.Binding
	NewGroup     key.Binding
	RenameGroup  key.Binding
	Projects     key.Binding
	Collapse     key.Binding
	Help         key.Binding
}

// FromConfig builds the key map from the user's configured bindings.
func FromConfig(k config.Keymap) KeyMap {
	return KeyMap{
		Quit:         key.NewBinding(key.WithKeys(k.Quit, "ctrl+c"), key.WithHelp(k.Quit, "quit")),
		Up:           key.NewBinding(key.WithKeys(k.Up, "up"), key.WithHelp(k.Up, "up")),
		Down:         key.NewBinding(key.WithKeys(k.Down, "down"), key.WithHelp(k.Down, "down")),
		Left:         key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h", "left")),
		Right:        key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l", "right")),
		Add:          key.NewBinding(key.WithKeys(k.Add), key.WithHelp(k.Add, "add task")),
		Edit:         key.NewBinding(key.WithKeys(k.Edit), key.WithHelp(k.Edit, "edit")),
		Delete:       key.NewBinding(key.WithKeys(k.Delete), key.WithHelp(k.Delete, "delete")),
		Toggle:       key.NewBinding(key.WithKeys(k.Toggle), key.WithHelp("space", "complete")),
		Star:         key.NewBinding(key.WithKeys(k.Star), key.WithHelp(k.Star, "star")),
		Grab:         key.NewBinding(key.WithKeys(k.Grab), key.WithHelp(k.Grab, "move")),
		Drop:         key.NewBinding(key.WithKeys(k.Drop), key.WithHelp(k.Drop, "drop")),
		Cancel:       key.NewBinding(key.WithKeys(k.Cancel), key.WithHelp(k.Cancel, "cancel")),
		Search:       key.NewBinding(key.WithKeys(k.Search), key.WithHelp(k.Search, "search")),
		CycleGroupBy: key.NewBinding(key.WithKeys(k.CycleGroupBy), key.WithHelp(k.CycleGroupBy, "group by")),
		CycleSort:    key.NewBinding(key.WithKeys(k.CycleSort), key.WithHelp(k.CycleSort, "sort")),
		FlipSort:     key.NewBinding(key.WithKeys(k.FlipSort), key.WithHelp(k.FlipSort, "sort order")),
		CycleView:    key.NewBinding(key.WithKeys(k.CycleView), key.WithHelp(k.CycleView, "view")),
		Reload:       key.NewBinding(key.WithKeys(k.Reload), key.WithHelp(k.Reload, "reload")),
		NewGroup:     key.NewBinding(key.WithKeys(k.NewGroup), key.WithHelp(k.NewGroup, "new group")),
		RenameGroup:  key.NewBinding(key.WithKeys(k.RenameGroup), key.WithHelp(k.RenameGroup, "rename group")),
		Projects:     key.NewBinding(key.WithKeys(k.Projects), key.WithHelp(k.Projects, "projects")),
		Collapse:     key.NewBinding(key.WithKeys(k.Collapse), key.WithHelp("tab", "fold group")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}
