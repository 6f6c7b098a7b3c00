package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/markusressel/pid2go/internal/pid"
	"gopkg.in/yaml.v3"
)

const (
	FormatJson = "json"
	FormatYaml = "yaml"
	FormatCsv  = "csv"
)

var Formats = []string{FormatJson, FormatYaml, FormatCsv}

var csvHeader = []string{
	"index", "time", "timeStep",
	"measured", "reference",
	"error", "derivativeError", "integralError",
	"proportionalTerm", "integralTerm", "derivativeTerm",
	"output",
}

// Export writes the given samples to w in the given format
func Export(w io.Writer, samples []pid.Sample, format string) error {
	if samples == nil {
		samples = []pid.Sample{}
	}

	switch format {
	case FormatJson:
		data, err := json.MarshalIndent(samples, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	case FormatYaml:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(samples); err != nil {
			return err
		}
		return encoder.Close()
	case FormatCsv:
		return exportCsv(w, samples)
	default:
		return fmt.Errorf("unsupported export format: %s, use one of: %v", format, Formats)
	}
}

func exportCsv(w io.Writer, samples []pid.Sample) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range samples {
		record := []string{strconv.Itoa(s.Index)}
		for _, value := range []float64{
			s.Time, s.TimeStep,
			s.Measured, s.Reference,
			s.Error, s.DerivativeError, s.IntegralError,
			s.ProportionalTerm, s.IntegralTerm, s.DerivativeTerm,
			s.Output,
		} {
			record = append(record, strconv.FormatFloat(value, 'g', -1, 64))
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
