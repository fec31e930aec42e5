package haplotypes

import (
	"net/http"

	"genotyper/api/contexts"
	"genotyper/api/log"
	"genotyper/api/models/dtos"
	"genotyper/api/services/engine"
	haplotypeService "genotyper/api/services/haplotypes"

	"github.com/labstack/echo"
)

func GetHaplotypeCalls(c echo.Context) error {
	log.API.Info("GetHaplotypeCalls hit!")
	gc := c.(*contexts.GenotyperContext)

	result, err := explain(gc)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dtos.HaplotypeResponseDto{
		Status:      http.StatusOK,
		Message:     "Success",
		RequestId:   result.RequestId,
		Count:       len(result.Results),
		Results:     result.Results,
		Diagnostics: append(gc.Diagnostics, result.Diagnostics...),
	})
}

// GetHaplotypePublishRows flattens the calls into one row per assigned
// haplotype, ready to be written back by the caller
func GetHaplotypePublishRows(c echo.Context) error {
	log.API.Info("GetHaplotypePublishRows hit!")
	gc := c.(*contexts.GenotyperContext)

	result, err := explain(gc)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dtos.PublishResponseDto{
		Status:    http.StatusOK,
		Message:   "Success",
		RequestId: result.RequestId,
		Results:   haplotypeService.PublishRows(result.Results),
	})
}

func explain(gc *contexts.GenotyperContext) (*engine.HaplotypeResult, error) {
	return gc.Engine.ExplainHaplotypes(gc.Request().Context(), engine.HaplotypeRequest{
		AnalysisIds: gc.AnalysisIds,
		Loci:        gc.Loci,
		Thresholds:  gc.Thresholds,
	})
}
