package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/creamcroissant/ansine/internal/config"
	"github.com/creamcroissant/ansine/internal/metrics"
	"github.com/creamcroissant/ansine/internal/statusclient"
)

type statusMsg struct {
	snapshot *metrics.Snapshot
	services config.ServiceMap
	err      error
}

type tickMsg time.Time

// fetchStatus polls the dashboard API once.
func fetchStatus(client *statusclient.Client) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		snapshot, err := client.Metrics(ctx)
		if err != nil {
			return statusMsg{err: err}
		}
		services, err := client.Services(ctx)
		if err != nil {
			return statusMsg{err: err}
		}
		return statusMsg{snapshot: snapshot, services: services}
	}
}

func scheduleTick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles key presses, resize events and poll results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			m.loading = true
			return m, fetchStatus(m.client)
		}
		return m, nil

	case statusMsg:
		m.loading = false
		if msg.err != nil {
			// keep the last good snapshot on screen alongside the error
			m.err = msg.err
		} else {
			m.err = nil
			m.snapshot = msg.snapshot
			m.services = msg.services
			m.lastUpdate = time.Now()
		}
		return m, scheduleTick(m.interval)

	case tickMsg:
		return m, fetchStatus(m.client)
	}

	return m, nil
}
