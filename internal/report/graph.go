package report

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/pid2go/internal/pid"
)

// NoData is rendered instead of a graph for an empty history
const NoData = "no data"

const (
	graphHeight = 15
	graphWidth  = 100
)

var componentColors = map[pid.ErrorComponent]asciigraph.AnsiColor{
	pid.Proportional: asciigraph.Red,
	pid.Derivative:   asciigraph.Blue,
	pid.Integral:     asciigraph.Green,
}

// PlotErrors renders the given error components of the samples as a single graph.
// Without components all of them are plotted.
func PlotErrors(samples []pid.Sample, color bool, components ...pid.ErrorComponent) (string, error) {
	if len(components) <= 0 {
		components = pid.ErrorComponents
	}
	if len(samples) <= 0 {
		return NoData, nil
	}

	var data [][]float64
	var colors []asciigraph.AnsiColor
	var names []string
	for _, component := range components {
		series, err := ErrorSeries(samples, component)
		if err != nil {
			return "", err
		}
		data = append(data, series)
		colors = append(colors, componentColors[component])
		names = append(names, string(component))
	}

	options := []asciigraph.Option{
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption(fmt.Sprintf("Error (%s)", strings.Join(names, ", "))),
	}
	if color {
		options = append(options, asciigraph.SeriesColors(colors...))
	}
	return asciigraph.PlotMany(data, options...), nil
}

// PlotOutput renders the controller output of the samples
func PlotOutput(samples []pid.Sample) string {
	if len(samples) <= 0 {
		return NoData
	}
	return asciigraph.Plot(
		OutputSeries(samples),
		asciigraph.Height(graphHeight),
		asciigraph.Width(graphWidth),
		asciigraph.Caption("Output"),
	)
}

// ErrorSeries extracts a single error component from the given samples
func ErrorSeries(samples []pid.Sample, component pid.ErrorComponent) ([]float64, error) {
	result := make([]float64, 0, len(samples))
	for _, sample := range samples {
		value, err := sample.ErrorValue(component)
		if err != nil {
			return nil, err
		}
		result = append(result, value)
	}
	return result, nil
}

// OutputSeries extracts the controller output from the given samples
func OutputSeries(samples []pid.Sample) []float64 {
	result := make([]float64, 0, len(samples))
	for _, sample := range samples {
		result = append(result, sample.Output)
	}
	return result
}
