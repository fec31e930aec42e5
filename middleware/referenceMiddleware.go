package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"genotyper/api/contexts"
	"genotyper/api/utils"

	"github.com/labstack/echo"
)

/*
Echo middleware to prepare the context for an optionally provided `referenceIds` HTTP query parameter
*/
func CalibrateOptionalReferenceIdsAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.GenotyperContext)
		gc.ReferenceIds = append(gc.ReferenceIds, utils.SplitCommaParam(c.QueryParam("referenceIds"))...)
		return next(gc)
	}
}

/*
Echo middleware to ensure a `referenceId` HTTP query parameter was provided
*/
func MandateReferenceIdAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		referenceId := strings.TrimSpace(c.QueryParam("referenceId"))
		if len(referenceId) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'referenceId' query parameter!")
		}

		gc := c.(*contexts.GenotyperContext)
		gc.ReferenceIds = []string{referenceId}
		return next(gc)
	}
}

/*
Echo middleware to ensure a positive integer `position` HTTP query parameter was provided.
The position is forwarded as the window start.
*/
func MandatePositionAttribute(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		positionQP := c.QueryParam("position")
		if len(positionQP) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "Missing 'position' query parameter!")
		}

		position, conversionErr := strconv.Atoi(positionQP)
		if conversionErr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Error converting 'position' query parameter! Check your input")
		}
		if position < 1 {
			return echo.NewHTTPError(http.StatusBadRequest, "Please provide a 'position' greater than 0!")
		}

		gc := c.(*contexts.GenotyperContext)
		gc.Start = position
		gc.Stop = position
		return next(gc)
	}
}

/*
Echo middleware to calibrate the optional `start` and `stop` window. Unparsable values are
treated as absent; a stop before the start is rejected.
*/
func CalibrateWindow(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.GenotyperContext)

		var (
			start int
			stop  int

			startPointer *int // simulate "nullable" int
			stopPointer  *int
		)

		if startQP := c.QueryParam("start"); len(startQP) > 0 {
			if s, conversionErr := strconv.Atoi(startQP); conversionErr == nil {
				start = s
				startPointer = &start
			}
		}

		if stopQP := c.QueryParam("stop"); len(stopQP) > 0 {
			if s, conversionErr := strconv.Atoi(stopQP); conversionErr == nil {
				stop = s
				stopPointer = &stop
			}
		}

		// a missing or non-positive stop means "to the end of the reference",
		// so only a fully specified window can be unbalanced
		if startPointer != nil && stopPointer != nil && stop > 0 && stop < start {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid start and stop positions!")
		}

		gc.Start = start
		gc.Stop = stop
		return next(gc)
	}
}
