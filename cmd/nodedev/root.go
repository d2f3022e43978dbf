package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ian-griptape-ai/node-development/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "nodedev",
	Short: "nodedev runs YAML loader nodes against a parameter registry",
	Long: `nodedev hosts dataflow nodes that load YAML documents, flatten them into
dotted key paths and mirror the entries as parameter slots.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "nodedev.yaml", "Path to the host configuration file")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

func createLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelInfo
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = slog.LevelDebug
	}
	return logging.New(level)
}
