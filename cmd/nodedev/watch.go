package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ian-griptape-ai/node-development/internal/cli"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run nodes and re-run them when their source documents change",
	Long:  `Runs every configured node once, then watches each node's source document and re-runs the node on change. Stops on Ctrl+C.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		logger := createLogger(cmd)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		err := cli.RunWatch(ctx, configPath, logger, os.Stdout)
		if err != nil && !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Watcher stopped")
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
