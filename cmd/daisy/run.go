package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/daisyflow/daisy/internal/cli"
	"github.com/daisyflow/daisy/internal/logging"
	"github.com/daisyflow/daisy/internal/presentation/tui"
)

var runCmd = &cobra.Command{
	Use:   "run [node-id]",
	Short: "Execute workflow nodes",
	Long: `Loads the workflow file and executes the named node, pulling its inputs
from connected nodes. With no argument, every output node runs in turn.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		headless, _ := cmd.Flags().GetBool("headless")

		level, err := logging.ParseLevel(opts.LogLevel)
		if err != nil {
			return err
		}
		logger := logging.New(level)

		engine, _, err := cli.CreateEngine(opts, logger)
		if err != nil {
			return err
		}

		if !headless {
			tui.PrintBanner()
		}

		var nodeID string
		if len(args) == 1 {
			nodeID = args[0]
		}

		results, err := cli.RunTargets(cmd.Context(), engine, nodeID)
		cli.Render(os.Stdout, results)
		if err != nil {
			return err
		}
		for _, r := range results {
			if r.Err != nil {
				os.Exit(1)
			}
		}
		return nil
	},
}

func init() {
	runCmd.Flags().Bool("headless", false, "Skip the banner, print results only")
	rootCmd.AddCommand(runCmd)
}
