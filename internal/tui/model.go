// Package tui implements the interactive terminal status view backed by a
// running dashboard instance.
package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/ansine/internal/config"
	"github.com/creamcroissant/ansine/internal/metrics"
	"github.com/creamcroissant/ansine/internal/statusclient"
)

// Model is the top-level bubbletea model.
type Model struct {
	client   *statusclient.Client
	interval time.Duration

	snapshot   *metrics.Snapshot
	services   config.ServiceMap
	lastUpdate time.Time

	loading bool
	err     error

	width  int
	height int

	keys keyMap
}

type keyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewModel builds the status view polling client at interval.
func NewModel(client *statusclient.Client, interval time.Duration) Model {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return Model{
		client:   client,
		interval: interval,
		loading:  true,
		keys:     defaultKeyMap(),
	}
}

// Init triggers the first fetch immediately.
func (m Model) Init() tea.Cmd {
	return fetchStatus(m.client)
}
