package alignments

import (
	"net/http"

	"genotyper/api/contexts"
	"genotyper/api/log"
	"genotyper/api/models/dtos"
	"genotyper/api/services/engine"

	"github.com/labstack/echo"
)

func GetAlignments(c echo.Context) error {
	log.API.Info("GetAlignments hit!")
	gc := c.(*contexts.GenotyperContext)

	result, err := gc.Engine.BuildAlignment(gc.Request().Context(), engine.AlignmentRequest{
		ReferenceIds: gc.ReferenceIds,
		AnalysisIds:  gc.AnalysisIds,
		Start:        gc.Start,
		Stop:         gc.Stop,
		Thresholds:   gc.Thresholds,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dtos.AlignmentResponseDto{
		Status:      http.StatusOK,
		Message:     "Success",
		RequestId:   result.RequestId,
		Alignments:  result.Alignments,
		Diagnostics: append(gc.Diagnostics, result.Diagnostics...),
	})
}

// GetCodonMapping resolves one amino acid position to its nucleotide positions
func GetCodonMapping(c echo.Context) error {
	log.API.Info("GetCodonMapping hit!")
	gc := c.(*contexts.GenotyperContext)

	mapping, err := gc.Engine.MapCodon(gc.Request().Context(), gc.ReferenceIds[0], gc.Start)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, mapping)
}
