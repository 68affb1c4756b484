package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/pders01/riffle/internal/config"
)

// keyMap materializes the configured bindings for key matching and the help
// bubble. Number-key tab jumps and list cursor movement stay hardwired.
type keyMap struct {
	Quit         key.Binding
	Help         key.Binding
	Search       key.Binding
	Refresh      key.Binding
	AddSource    key.Binding
	RenameSource key.Binding
	DeleteSource key.Binding
	ToggleRead   key.Binding
	ToggleStar   key.Binding
	OpenLink     key.Binding
	Back         key.Binding
	NextTab      key.Binding
	PrevTab      key.Binding
	NextArticle  key.Binding
	PrevArticle  key.Binding
	Select       key.Binding
}

func newKeyMap(b config.KeyBindings) keyMap {
	return keyMap{
		Quit:         key.NewBinding(key.WithKeys(b.Quit, "ctrl+c"), key.WithHelp(b.Quit, "quit")),
		Help:         key.NewBinding(key.WithKeys(b.Help), key.WithHelp(b.Help, "help")),
		Search:       key.NewBinding(key.WithKeys(b.Search), key.WithHelp(b.Search, "search")),
		Refresh:      key.NewBinding(key.WithKeys(b.Refresh), key.WithHelp(b.Refresh, "refresh")),
		AddSource:    key.NewBinding(key.WithKeys(b.AddSource), key.WithHelp(b.AddSource, "add source")),
		RenameSource: key.NewBinding(key.WithKeys(b.RenameSource), key.WithHelp(b.RenameSource, "rename source")),
		DeleteSource: key.NewBinding(key.WithKeys(b.DeleteSource), key.WithHelp(b.DeleteSource, "delete source")),
		ToggleRead:   key.NewBinding(key.WithKeys(b.ToggleRead), key.WithHelp(b.ToggleRead, "toggle read")),
		ToggleStar:   key.NewBinding(key.WithKeys(b.ToggleStar), key.WithHelp(b.ToggleStar, "toggle star")),
		OpenLink:     key.NewBinding(key.WithKeys(b.OpenLink), key.WithHelp(b.OpenLink, "open in browser")),
		Back:         key.NewBinding(key.WithKeys(b.Back), key.WithHelp(b.Back, "back")),
		NextTab:      key.NewBinding(key.WithKeys(b.NextTab, "right"), key.WithHelp(b.NextTab+"/→", "next tab")),
		PrevTab:      key.NewBinding(key.WithKeys(b.PrevTab, "left"), key.WithHelp(b.PrevTab+"/←", "prev tab")),
		NextArticle:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "next article")),
		PrevArticle:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "prev article")),
		Select:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Refresh, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Select, k.OpenLink, k.ToggleRead, k.ToggleStar},
		{k.NextTab, k.PrevTab, k.Refresh, k.Search},
		{k.AddSource, k.RenameSource, k.DeleteSource},
		{k.Back, k.Help, k.Quit},
	}
}
