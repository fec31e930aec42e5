package middleware

import (
	"math"
	"strconv"

	"genotyper/api/contexts"
	"genotyper/api/models"
	"genotyper/api/models/constants/diagnostic"

	"github.com/labstack/echo"
)

/*
Echo middleware to read the per-request thresholds. Parameters left out fall back to the
configured defaults later on; negative or non-numeric values are ignored and reported as
a ThresholdMisconfiguration diagnostic instead of failing the request.
*/
func CalibrateThresholds(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		gc := c.(*contexts.GenotyperContext)

		t := models.Thresholds{}

		// minQuality is an older name for minCoverage; when both are given the stricter wins
		minCoverage := floatParam(gc, "minCoverage")
		if minQuality := floatParam(gc, "minQuality"); minQuality != nil {
			if minCoverage == nil || *minQuality > *minCoverage {
				minCoverage = minQuality
			}
		}
		t.MinCoverage = minCoverage

		t.MinVariantPercent = floatParam(gc, "minVariantPercent")
		t.MinVariantReadCount = intParam(gc, "minVariantReadCount")
		t.MaxNonCoveredPositions = intParam(gc, "maxNonCoveredPositions")
		t.MinPctForHaplotype = floatParam(gc, "minPctForHaplotype")
		t.MinPctExplained = floatParam(gc, "minPctExplained")
		t.PctDifferentialFilter = floatParam(gc, "pctDifferentialFilter")

		gc.Thresholds = t
		return next(gc)
	}
}

// -- helper functions
func floatParam(gc *contexts.GenotyperContext, name string) *float64 {
	qp := gc.QueryParam(name)
	if len(qp) == 0 {
		return nil
	}

	f, err := strconv.ParseFloat(qp, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		misconfigured(gc, name, qp)
		return nil
	}
	return &f
}

func intParam(gc *contexts.GenotyperContext, name string) *int {
	qp := gc.QueryParam(name)
	if len(qp) == 0 {
		return nil
	}

	i, err := strconv.Atoi(qp)
	if err != nil || i < 0 {
		misconfigured(gc, name, qp)
		return nil
	}
	return &i
}

func misconfigured(gc *contexts.GenotyperContext, name string, value string) {
	gc.Diagnostics = append(gc.Diagnostics,
		diagnostic.New(diagnostic.ThresholdMisconfiguration, "ignoring %s=%q, expected a finite non-negative number", name, value))
}
