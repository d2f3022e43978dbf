package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ian-griptape-ai/node-development/pkg/adapters/file"
	"github.com/ian-griptape-ai/node-development/pkg/domain"
	"github.com/ian-griptape-ai/node-development/pkg/flatten"
)

var flattenCmd = &cobra.Command{
	Use:   "flatten <file>",
	Short: "Flatten a YAML file and print the result",
	Long:  `Loads a YAML file, flattens nested mappings and sequences into dotted and indexed key paths and prints the flat document to stdout.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		filter, _ := cmd.Flags().GetString("filter")

		doc, err := file.NewLoader().Load(context.Background(), args[0])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		flat := flatten.Flatten(doc)
		if filter != "" {
			needle := strings.ToLower(filter)
			kept := make(domain.FlatResult, 0, len(flat))
			for _, e := range flat {
				if strings.Contains(strings.ToLower(e.Key), needle) {
					kept = append(kept, e)
				}
			}
			flat = kept
		}

		out, err := flatten.Marshal(flat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(flattenCmd)
	flattenCmd.Flags().StringP("filter", "f", "", "Keep only keys containing this substring (case-insensitive)")
}
