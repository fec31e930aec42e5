package cache

import (
	"net/http"

	"genotyper/api/contexts"
	"genotyper/api/log"

	"github.com/labstack/echo"
)

func GetCacheStats(c echo.Context) error {
	log.API.Info("GetCacheStats hit!")
	gc := c.(*contexts.GenotyperContext)
	return c.JSON(http.StatusOK, gc.Cache.Stats())
}
