package loop

import (
	"bytes"

	"github.com/markusressel/pid2go/internal/report"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/markusressel/pid2go/internal/util"
	"github.com/spf13/cobra"
)

var (
	exportOutput string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the stored history of a control loop",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		samples, err := loadHistory(loopId)
		if err != nil {
			return err
		}

		var buf bytes.Buffer
		err = report.Export(&buf, samples, exportFormat)
		if err != nil {
			return err
		}

		path, err := util.ExpandPath(exportOutput)
		if err != nil {
			return err
		}
		err = util.WriteFileAtomic(path, buf.Bytes())
		if err != nil {
			return err
		}

		ui.Success("Exported %d samples to %s", len(samples), path)
		return nil
	},
}

func init() {
	addIdFlag(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Path of the output file")
	_ = exportCmd.MarkFlagRequired("output")
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", report.FormatJson, "Output format, one of: json, yaml, csv")
	Command.AddCommand(exportCmd)
}
