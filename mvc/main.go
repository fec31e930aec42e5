package mvc

import (
	"fmt"
	"net/http"

	"genotyper/api/contexts"
	"genotyper/api/log"
	"genotyper/api/models"
	errorDtos "genotyper/api/models/dtos/errors"
	"genotyper/api/services/cache"
	"genotyper/api/services/engine"

	"github.com/labstack/echo"
)

// GenotyperContextMiddleware overrides handlers with the "custom Genotyper"
// context to be able to provide variables and global singletons
func GenotyperContextMiddleware(cfg *models.Config, eng *engine.Engine, rc *cache.ResultCache) echo.MiddlewareFunc {
	return func(h echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cc := &contexts.GenotyperContext{
				Context: c,
				Config:  cfg,
				Engine:  eng,
				Cache:   rc,
			}
			return h(cc)
		}
	}
}

// HTTPErrorHandler renders every error as a GeneralErrorResponseDto.
// Missing input data maps to 404, echo errors keep their status and
// anything else is a 500.
func HTTPErrorHandler(err error, c echo.Context) {
	var response = errorDtos.CreateSimpleInternalServerError(err.Error())

	if engine.IsNoInputData(err) {
		response = errorDtos.CreateSimpleNotFound(err.Error())
	} else if he, ok := err.(*echo.HTTPError); ok {
		response = errorDtos.CreateSimpleFromStatus(he.Code, fmt.Sprint(he.Message))
	} else {
		log.API.WithField("path", c.Path()).Errorf("Request failed : %v", err)
	}

	if c.Response().Committed {
		return
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(response.Code)
		return
	}
	_ = c.JSON(response.Code, response)
}
