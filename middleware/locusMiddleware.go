package middleware

import (
	"genotyper/api/contexts"
	"genotyper/api/utils"

	"github.com/labstack/echo"
)

/*
Echo middleware to prepare the context for an optionally provided `loci` HTTP query parameter
*/
func CalibrateOptionalLociAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.GenotyperContext)
		gc.Loci = append(gc.Loci, utils.SplitCommaParam(c.QueryParam("loci"))...)
		return next(gc)
	}
}
