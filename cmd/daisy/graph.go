package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daisyflow/daisy/internal/presentation/graph"
	"github.com/daisyflow/daisy/pkg/adapters/file"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Print the workflow as a Mermaid diagram",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		_, g, err := file.Load(path)
		if err != nil {
			return err
		}

		fmt.Println(graph.GenerateMermaid(g, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
