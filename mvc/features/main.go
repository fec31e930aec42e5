package features

import (
	"net/http"

	"genotyper/api/contexts"
	"genotyper/api/log"
	"genotyper/api/models/dtos"

	"github.com/labstack/echo"
)

func GetFeatureTracks(c echo.Context) error {
	log.API.Info("GetFeatureTracks hit!")
	gc := c.(*contexts.GenotyperContext)

	results, err := gc.Engine.FeatureTracks(gc.Request().Context(), gc.ReferenceIds)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dtos.FeatureTracksResponseDto{
		Status:  http.StatusOK,
		Message: "Success",
		Results: results,
	})
}
