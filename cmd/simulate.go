package cmd

import (
	"fmt"

	"github.com/markusressel/pid2go/cmd/global"
	"github.com/markusressel/pid2go/internal"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/loops"
	"github.com/markusressel/pid2go/internal/report"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/spf13/cobra"
)

var (
	simulateLoopId string
	simulateSteps  int
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the configured control loops offline",
	Long: `Runs all configured control loops for the given number of steps as fast as possible
and prints the resulting error and output graphs. Intended for loops driving simulated plants.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()
		if err := configuration.Validate(); err != nil {
			return err
		}
		if simulateSteps <= 0 {
			return fmt.Errorf("invalid number of steps: %d, must be > 0", simulateSteps)
		}

		loopList, err := internal.Simulate(simulateSteps)
		if err != nil {
			return err
		}

		var statuses []loops.Status
		for idx, loop := range loopList {
			if len(simulateLoopId) > 0 && loop.GetId() != simulateLoopId {
				continue
			}
			statuses = append(statuses, loop.Snapshot())

			if idx > 0 {
				ui.Printfln("")
			}
			ui.Printfln("> %s", loop.GetId())

			samples := loop.Samples()
			graph, err := report.PlotErrors(samples, !global.NoColor)
			if err != nil {
				return err
			}
			ui.Printfln("%s", graph)
			ui.Printfln("")
			ui.Printfln("%s", report.PlotOutput(samples))
		}

		if len(statuses) <= 0 {
			return fmt.Errorf("no loop with id found: %s", simulateLoopId)
		}

		tableString, err := report.LoopStatusTable(statuses, !global.NoColor)
		if err != nil {
			return err
		}
		ui.Printfln("")
		ui.Printfln("%s", tableString)
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringVarP(&simulateLoopId, "id", "i", "", "Only print the results of the loop with this ID")
	simulateCmd.Flags().IntVarP(&simulateSteps, "steps", "n", 100, "Number of cycles to run")
	rootCmd.AddCommand(simulateCmd)
}
