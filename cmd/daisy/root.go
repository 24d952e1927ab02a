package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "daisy",
	Short: "Daisy is a node-based AI workflow engine",
	Long:  `Daisy executes visual AI workflows: graphs of text, image and video nodes wired together, with OpenAI and Runway doing the heavy lifting.`,
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
	rootCmd.PersistentFlags().StringP("file", "f", "workflow.yaml", "Workflow file to operate on")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("redis", "", "Redis address for credential storage (default: in-memory)")
}
