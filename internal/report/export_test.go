package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/markusressel/pid2go/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestExport_Json(t *testing.T) {
	// GIVEN
	samples := createSamples(t)

	// WHEN
	var buf bytes.Buffer
	err := Export(&buf, samples, FormatJson)

	// THEN
	assert.NoError(t, err)
	var result []pid.Sample
	require.NoError(t, json.Unmarshal(buf.Bytes(), &result))
	assert.Equal(t, samples, result)
}

func TestExport_Yaml(t *testing.T) {
	// GIVEN
	samples := createSamples(t)

	// WHEN
	var buf bytes.Buffer
	err := Export(&buf, samples, FormatYaml)

	// THEN
	assert.NoError(t, err)
	assert.Contains(t, buf.String(), "derivativeError:")
	var result []pid.Sample
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &result))
	assert.Len(t, result, len(samples))
	assert.Equal(t, samples[2].Output, result[2].Output)
}

func TestExport_Csv(t *testing.T) {
	// GIVEN
	samples := createSamples(t)

	// WHEN
	var buf bytes.Buffer
	err := Export(&buf, samples, FormatCsv)

	// THEN
	assert.NoError(t, err)
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(samples)+1)
	assert.Equal(t, csvHeader, records[0])
	// index, time, timeStep, measured, reference, error
	assert.Equal(t, []string{"2", "3", "1", "3", "5", "2"}, records[3][:6])
}

func TestExport_Empty(t *testing.T) {
	// WHEN
	var buf bytes.Buffer
	err := Export(&buf, nil, FormatJson)

	// THEN
	assert.NoError(t, err)
	assert.Equal(t, "[]\n", buf.String())
}

func TestExport_UnsupportedFormat(t *testing.T) {
	// WHEN
	var buf bytes.Buffer
	err := Export(&buf, nil, "xml")

	// THEN
	assert.EqualError(t, err, "unsupported export format: xml, use one of: [json yaml csv]")
}
