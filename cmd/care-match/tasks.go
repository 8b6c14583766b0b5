// cmd/care-match/tasks.go
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"carematch/pkg/registry"

	"github.com/spf13/cobra"
)

var tasksCmd = &cobra.Command{
	Use:   "tasks",
	Short: "Print the Zeebe job types served by the worker",
	RunE: func(_ *cobra.Command, _ []string) error {
		out, err := json.MarshalIndent(registry.Builtin(), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal registry: %w", err)
		}
		_, err = fmt.Fprintln(os.Stdout, string(out))
		return err
	},
}

func init() {
	rootCmd.AddCommand(tasksCmd)
}
