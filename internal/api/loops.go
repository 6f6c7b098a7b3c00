package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/pid2go/internal/loops"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/util"
	"github.com/qdm12/reprint"
)

type (
	ReferenceRequest struct {
		Value *float64 `json:"value"`
	}

	GainsRequest struct {
		P *float64 `json:"p"`
		I *float64 `json:"i"`
		D *float64 `json:"d"`
	}

	SeriesResponse struct {
		ID     string    `json:"id"`
		Type   string    `json:"type"`
		Values []float64 `json:"values"`
	}
)

func registerLoopEndpoints(rest *echo.Echo) {
	group := rest.Group("/loop")

	group.GET("/", getLoops)
	group.GET("/:"+urlParamId+"/", getLoop)
	group.GET("/:"+urlParamId+"/config/", getLoopConfig)
	group.GET("/:"+urlParamId+"/history/", getLoopHistory)
	group.POST("/:"+urlParamId+"/reference/", setLoopReference)
	group.POST("/:"+urlParamId+"/gains/", setLoopGains)
	group.POST("/:"+urlParamId+"/reset/", resetLoop)
}

// returns the status of all loops, ordered by id
func getLoops(c echo.Context) error {
	items := loops.LoopMap.Items()
	var data []loops.Status
	for _, id := range util.SortedKeys(items) {
		data = append(data, items[id].Snapshot())
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getLoop(c echo.Context) error {
	id := c.Param(urlParamId)
	loop, exists := loops.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, loop.Snapshot(), indentationChar)
}

func getLoopConfig(c echo.Context) error {
	id := c.Param(urlParamId)
	loop, exists := loops.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	data := reprint.This(loop.GetConfig())
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

// returns the in-memory history of a loop, either all samples
// or a single series selected by the "type" query parameter
func getLoopHistory(c echo.Context) error {
	id := c.Param(urlParamId)
	loop, exists := loops.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	seriesType := c.QueryParam("type")
	if len(seriesType) <= 0 {
		return c.JSONPretty(http.StatusOK, loop.Samples(), indentationChar)
	}

	values, err := loop.Series(seriesType)
	if err != nil {
		return returnBadRequest(c, err)
	}
	return c.JSONPretty(http.StatusOK, SeriesResponse{
		ID:     id,
		Type:   seriesType,
		Values: values,
	}, indentationChar)
}

func setLoopReference(c echo.Context) error {
	id := c.Param(urlParamId)
	loop, exists := loops.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request ReferenceRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}
	if request.Value == nil {
		return returnBadRequest(c, errors.New("missing field: value"))
	}

	if err := loop.SetReference(*request.Value); err != nil {
		return returnLoopError(c, err)
	}
	return c.JSONPretty(http.StatusOK, loop.Snapshot(), indentationChar)
}

func setLoopGains(c echo.Context) error {
	id := c.Param(urlParamId)
	loop, exists := loops.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var request GainsRequest
	if err := c.Bind(&request); err != nil {
		return returnBadRequest(c, err)
	}
	if request.P == nil && request.I == nil && request.D == nil {
		return returnBadRequest(c, errors.New("at least one of p, i or d is required"))
	}

	if err := loop.UpdateGains(request.P, request.I, request.D); err != nil {
		return returnLoopError(c, err)
	}
	return c.JSONPretty(http.StatusOK, loop.Snapshot(), indentationChar)
}

func resetLoop(c echo.Context) error {
	id := c.Param(urlParamId)
	loop, exists := loops.LoopMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	loop.Reset()
	return c.JSONPretty(http.StatusOK, loop.Snapshot(), indentationChar)
}

func returnLoopError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, loops.ErrReferenceIsCascaded):
		return returnConflict(c, err)
	case errors.Is(err, pid.ErrInvalidInput):
		return returnBadRequest(c, err)
	default:
		return returnError(c, err)
	}
}
