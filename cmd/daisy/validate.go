package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/daisyflow/daisy/internal/validator"
	"github.com/daisyflow/daisy/pkg/adapters/file"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the workflow for problems",
	Long:  `Loads the workflow file and reports nodes that would fail or do nothing when run: empty prompts, missing inputs, unknown operations.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("file")

		_, g, err := file.Load(path)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}

		issues := validator.ValidateGraph(g)
		if len(issues) > 0 {
			fmt.Printf("Found %d issues:\n", len(issues))
			for _, issue := range issues {
				fmt.Printf("- %s\n", issue)
			}
			os.Exit(1)
		}
		fmt.Println("Workflow is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
