package main

import (
	"fmt"
	"strings"

	"github.com/daisyflow/daisy"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of daisy",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("daisy version %s\n", strings.TrimSpace(daisy.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
