package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	nodedev "github.com/ian-griptape-ai/node-development"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of nodedev",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("nodedev version %s\n", strings.TrimSpace(nodedev.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
