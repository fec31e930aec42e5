package contexts

import (
	"genotyper/api/models"
	"genotyper/api/models/constants/diagnostic"
	"genotyper/api/services/cache"
	"genotyper/api/services/engine"

	"github.com/labstack/echo"
)

type (
	// "Helper" Context to pass into routes that need
	// the engine and other request-scoped variables
	GenotyperContext struct {
		echo.Context
		Config *models.Config
		Engine *engine.Engine
		Cache  *cache.ResultCache

		AnalysisIds  []string
		ReferenceIds []string
		Loci         []string
		Start        int
		Stop         int
		Thresholds   models.Thresholds

		// recoverable query parameter problems, echoed in the response
		Diagnostics []diagnostic.Diagnostic
	}
)
