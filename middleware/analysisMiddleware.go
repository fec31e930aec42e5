package middleware

import (
	"genotyper/api/contexts"
	"genotyper/api/utils"

	"github.com/labstack/echo"
)

/*
Echo middleware to prepare the context for an optionally provided `analysisIds` HTTP query parameter
(comma separated). No ids means every analysis with data for the requested references.
*/
func CalibrateOptionalAnalysisIdsAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.GenotyperContext)
		gc.AnalysisIds = append(gc.AnalysisIds, utils.SplitCommaParam(c.QueryParam("analysisIds"))...)
		return next(gc)
	}
}
