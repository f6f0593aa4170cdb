package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/ragdex/internal/version"
)

const defaultAddr = "http://127.0.0.1:8080"

var (
	serverAddr string
	noColor    bool
)

var rootCmd = &cobra.Command{
	Use:           "ragctl",
	Short:         "Command-line client for the ragdex server",
	SilenceUsage:  true,
	SilenceErrors: true,
	Version:       version.String(),
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "addr", envOr("RAGDEX_ADDR", defaultAddr), "ragdex server address")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colored output")

	rootCmd.AddCommand(addCmd, askCmd, statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
