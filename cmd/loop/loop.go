package loop

import (
	"errors"
	"fmt"
	"os"

	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/persistence"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/ui"
	"github.com/spf13/cobra"
)

var loopId string

var Command = &cobra.Command{
	Use:              "loop",
	Short:            "Control loop related commands",
	Long:             ``,
	TraverseChildren: true,
}

func addIdFlag(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&loopId,
		"id", "i",
		"",
		"Loop ID as specified in the config",
	)
	_ = cmd.MarkFlagRequired("id")
}

func loadConfig() {
	configPath := configuration.DetectConfigFile()
	ui.Info("Using configuration file at: %s", configPath)
	configuration.LoadConfig()
	err := configuration.Validate()
	if err != nil {
		ui.Fatal("%v", err)
	}
}

func getLoopConfig(id string) (configuration.LoopConfig, error) {
	for _, config := range configuration.CurrentConfig.Loops {
		if config.ID == id {
			return config, nil
		}
	}
	return configuration.LoopConfig{}, fmt.Errorf("no loop with id found: %s", id)
}

func getPersistence() persistence.Persistence {
	dbPath := configuration.CurrentConfig.DbPath
	ui.Info("Using persistence at: %s", dbPath)
	return persistence.NewPersistence(dbPath)
}

// loadHistory returns the stored history of the loop with the given id
func loadHistory(id string) ([]pid.Sample, error) {
	loadConfig()
	if _, err := getLoopConfig(id); err != nil {
		return nil, err
	}

	samples, err := getPersistence().LoadSamples(id)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no stored history for loop: %s", id)
	}
	return samples, err
}
