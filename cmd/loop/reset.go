package loop

import (
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the stored history of a control loop",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfig()
		if _, err := getLoopConfig(loopId); err != nil {
			return err
		}

		err := getPersistence().DeleteSamples(loopId)
		if err == nil {
			ui.Success("Done!")
		}

		return err
	},
}

func init() {
	addIdFlag(resetCmd)
	Command.AddCommand(resetCmd)
}
