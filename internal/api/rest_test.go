package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/pid2go/internal/configuration"
	"github.com/markusressel/pid2go/internal/loops"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/plant"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func float(v float64) *float64 {
	return &v
}

func createLoop(t *testing.T, id string, reference configuration.ReferenceConfig) *loops.Loop {
	plantId := id + "-plant"
	p, err := plant.NewPlant(configuration.PlantConfig{
		ID:   plantId,
		Type: configuration.PlantTypeIntegrator,
	})
	require.NoError(t, err)
	plant.PlantMap.Set(plantId, p)

	loop, err := loops.NewLoop(configuration.LoopConfig{
		ID:        id,
		Reference: reference,
		P:         float(1),
		I:         float(0.5),
		D:         float(0),
		Sensor:    configuration.SensorConfig{Plant: plantId},
		Actuator:  configuration.ActuatorConfig{Plant: plantId},
	}, 1)
	require.NoError(t, err)
	loops.LoopMap.Set(id, loop)
	return loop
}

func setup(t *testing.T) *echo.Echo {
	loops.LoopMap.Clear()
	plant.PlantMap.Clear()
	t.Cleanup(func() {
		loops.LoopMap.Clear()
		plant.PlantMap.Clear()
	})

	outer := createLoop(t, "outer", configuration.ReferenceConfig{Value: float(2)})
	createLoop(t, "inner", configuration.ReferenceConfig{Loop: "outer"})
	require.NoError(t, outer.Cycle(context.Background()))

	return CreateRestService(prometheus.NewRegistry())
}

func request(e *echo.Echo, method string, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if len(body) > 0 {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIsAlive(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodGet, "/alive", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetLoops(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodGet, "/loop/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result []loops.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "inner", result[0].ID)
	assert.Equal(t, "outer", result[0].ReferenceLoop)
	assert.Equal(t, "outer", result[1].ID)
	assert.Equal(t, 1, result[1].Cycles)
}

func TestGetLoop(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodGet, "/loop/outer/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result loops.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2.0, result.Reference)
	assert.Equal(t, pid.Gains{P: 1, I: 0.5, D: 0}, result.Gains)
	require.NotNil(t, result.Last)
	assert.Equal(t, 0.0, result.Last.Measured)
}

func TestGetLoop_NotFound(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodGet, "/loop/missing/", "")

	// THEN
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var result Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "No item with id 'missing' found", result.Message)
}

func TestGetLoopConfig(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodGet, "/loop/inner/config/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result configuration.LoopConfig
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "outer", result.Reference.Loop)
	assert.Equal(t, "inner-plant", result.Sensor.Plant)
}

func TestGetLoopHistory(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	all := request(e, http.MethodGet, "/loop/outer/history/", "")
	output := request(e, http.MethodGet, "/loop/outer/history/?type=output", "")
	unknown := request(e, http.MethodGet, "/loop/outer/history/?type=power", "")

	// THEN
	assert.Equal(t, http.StatusOK, all.Code)
	var samples []pid.Sample
	require.NoError(t, json.Unmarshal(all.Body.Bytes(), &samples))
	assert.Len(t, samples, 1)

	assert.Equal(t, http.StatusOK, output.Code)
	var series SeriesResponse
	require.NoError(t, json.Unmarshal(output.Body.Bytes(), &series))
	assert.Equal(t, "output", series.Type)
	// error 2, P = 2, I = 0.5 * 2
	assert.Equal(t, []float64{3}, series.Values)

	assert.Equal(t, http.StatusBadRequest, unknown.Code)
}

func TestSetLoopReference(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodPost, "/loop/outer/reference/", `{"value": 7.5}`)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	loop, _ := loops.LoopMap.Get("outer")
	assert.Equal(t, 7.5, loop.Snapshot().Reference)
}

func TestSetLoopReference_Invalid(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	missing := request(e, http.MethodPost, "/loop/outer/reference/", `{}`)
	malformed := request(e, http.MethodPost, "/loop/outer/reference/", `{"value": "abc"}`)
	cascaded := request(e, http.MethodPost, "/loop/inner/reference/", `{"value": 1}`)
	notFound := request(e, http.MethodPost, "/loop/missing/reference/", `{"value": 1}`)

	// THEN
	assert.Equal(t, http.StatusBadRequest, missing.Code)
	assert.Equal(t, http.StatusBadRequest, malformed.Code)
	assert.Equal(t, http.StatusConflict, cascaded.Code)
	assert.Equal(t, http.StatusNotFound, notFound.Code)
}

func TestSetLoopGains(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodPost, "/loop/outer/gains/", `{"d": 0.25}`)
	empty := request(e, http.MethodPost, "/loop/outer/gains/", `{}`)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result loops.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, pid.Gains{P: 1, I: 0.5, D: 0.25}, result.Gains)
	assert.Equal(t, http.StatusBadRequest, empty.Code)
}

func TestResetLoop(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodPost, "/loop/outer/reset/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result loops.Status
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 0.0, result.Integral)
	assert.Equal(t, 1, result.Cycles)
}

func TestGetPlants(t *testing.T) {
	// GIVEN
	e := setup(t)

	// WHEN
	rec := request(e, http.MethodGet, "/plant/", "")
	single := request(e, http.MethodGet, "/plant/outer-plant/", "")

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	var result []PlantStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	require.Len(t, result, 2)
	assert.Equal(t, "inner-plant", result[0].ID)
	assert.Equal(t, configuration.PlantTypeIntegrator, result[0].Type)

	assert.Equal(t, http.StatusOK, single.Code)
}
