package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/creamcroissant/ansine/internal/config"
	"github.com/creamcroissant/ansine/internal/statusclient"
	"github.com/creamcroissant/ansine/internal/tui"
)

var topAddress string

var topCmd = &cobra.Command{
	Use:   "top",
	Short: "Interactive terminal status view",
	Long:  "Poll a running dashboard and render its metrics and services in the terminal.",
	RunE:  runTop,
}

func init() {
	topCmd.Flags().StringVar(&topAddress, "address", "", "dashboard base URL (defaults to the configured listen address)")
	rootCmd.AddCommand(topCmd)
}

func runTop(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	address := topAddress
	if address == "" {
		address = "http://" + cfg.Addr()
	}

	client := statusclient.New(address)
	model := tui.NewModel(client, cfg.Refresh())

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
