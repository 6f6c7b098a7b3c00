package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/markusressel/pid2go/internal/plant"
	"github.com/markusressel/pid2go/internal/util"
)

type PlantStatus struct {
	ID    string  `json:"id"`
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

func registerPlantEndpoints(rest *echo.Echo) {
	group := rest.Group("/plant")

	group.GET("/", getPlants)
	group.GET("/:"+urlParamId+"/", getPlant)
}

func newPlantStatus(p plant.Plant) PlantStatus {
	return PlantStatus{
		ID:    p.GetId(),
		Type:  p.GetConfig().Type,
		Value: p.Measure(),
	}
}

func getPlants(c echo.Context) error {
	items := plant.PlantMap.Items()
	var data []PlantStatus
	for _, id := range util.SortedKeys(items) {
		data = append(data, newPlantStatus(items[id]))
	}
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getPlant(c echo.Context) error {
	id := c.Param(urlParamId)
	p, exists := plant.PlantMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, newPlantStatus(p), indentationChar)
}
