package api

import (
	"net/http"

	"github.com/avern/bmcfand/internal/controller"
	"github.com/labstack/echo/v4"
)

func registerZoneEndpoints(rest *echo.Echo) {
	group := rest.Group("/zone")

	group.GET("/", getZones)
	group.GET("/:"+urlParamName+"/", getZone)
}

// returns the status of all currently controlled zones
func getZones(c echo.Context) error {
	data := controller.ZoneStatusMap.Items()
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getZone(c echo.Context) error {
	name := c.Param(urlParamName)
	data, exists := controller.ZoneStatusMap.Get(name)
	if !exists {
		return returnNotFound(c, name)
	} else {
		return c.JSONPretty(http.StatusOK, data, indentationChar)
	}
}
