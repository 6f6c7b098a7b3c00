package loop

import (
	"github.com/markusressel/pid2go/cmd/global"
	"github.com/markusressel/pid2go/internal/loops"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/report"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/spf13/cobra"
)

var (
	historyTypes []string
	historyPng   string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Plot the stored history of a control loop",
	Long: `Plots the error components and the output of the last run of a control loop.
Use --type to select the plotted series: proportional, derivative, integral, output.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := loadHistory(loopId)
		if err != nil {
			return err
		}

		var components []pid.ErrorComponent
		plotOutput := len(historyTypes) <= 0
		for _, t := range historyTypes {
			if t == loops.OutputSeries {
				plotOutput = true
				continue
			}
			component, err := pid.ParseErrorComponent(t)
			if err != nil {
				return err
			}
			components = append(components, component)
		}

		plotErrors := len(components) > 0 || len(historyTypes) <= 0
		if plotErrors {
			graph, err := report.PlotErrors(samples, !global.NoColor, components...)
			if err != nil {
				return err
			}
			ui.Printfln("%s", graph)
			ui.Printfln("")
		}
		if plotOutput {
			ui.Printfln("%s", report.PlotOutput(samples))
		}

		if len(historyPng) > 0 {
			if plotErrors && len(components) <= 0 {
				components = pid.ErrorComponents
			}
			var series []report.Series
			for _, component := range components {
				values, err := report.ErrorSeries(samples, component)
				if err != nil {
					return err
				}
				series = append(series, report.Series{Name: string(component), Values: values})
			}
			if plotOutput {
				series = append(series, report.Series{Name: loops.OutputSeries, Values: report.OutputSeries(samples)})
			}

			err = report.SavePNG(historyPng, loopId, series...)
			if err != nil {
				return err
			}
			ui.Success("Saved plot to %s", historyPng)
		}
		return nil
	},
}

func init() {
	addIdFlag(historyCmd)
	historyCmd.Flags().StringSliceVarP(&historyTypes, "type", "t", nil, "Series to plot, one or more of: proportional, derivative, integral, output")
	historyCmd.Flags().StringVarP(&historyPng, "png", "", "", "Additionally render the plot into the given png file")
	Command.AddCommand(historyCmd)
}
