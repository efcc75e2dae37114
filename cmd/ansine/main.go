package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Build info - injected via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     "ansine",
	Short:   "Ansine home-server status dashboard",
	Long:    `Ansine serves host metrics and configured service links over HTTP for a small polling front-end.`,
	Version: fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildTime),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file (defaults to $ANSINE_CONFIG, then config.{yaml,json})")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
