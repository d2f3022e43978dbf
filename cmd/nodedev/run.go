package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ian-griptape-ai/node-development/internal/cli"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run every configured node once",
	Long:  `Loads the host configuration, runs each node's reconciliation pass once and prints a per-node summary.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		logger := createLogger(cmd)

		if err := cli.RunOnce(context.Background(), configPath, logger, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}
