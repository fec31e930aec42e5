package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"genotyper/api/contexts"
	"genotyper/api/models/constants/diagnostic"

	"github.com/labstack/echo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run passes a request with the given query through mw and returns the
// context the next handler saw, or the middleware's error
func run(t *testing.T, mw echo.MiddlewareFunc, query string) (*contexts.GenotyperContext, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	gc := &contexts.GenotyperContext{Context: e.NewContext(req, rec)}

	var seen *contexts.GenotyperContext
	err := mw(func(c echo.Context) error {
		seen = c.(*contexts.GenotyperContext)
		return nil
	})(gc)
	return seen, err
}

func statusOf(t *testing.T, err error) int {
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected an echo.HTTPError, got %v", err)
	return httpErr.Code
}

func TestIdAttributes(t *testing.T) {
	gc, err := run(t, CalibrateOptionalAnalysisIdsAttribute, "analysisIds=s2,%20s1,,s2")
	require.Nil(t, err)
	assert.Equal(t, []string{"s2", "s1"}, gc.AnalysisIds)

	gc, err = run(t, CalibrateOptionalAnalysisIdsAttribute, "")
	require.Nil(t, err)
	assert.Empty(t, gc.AnalysisIds)

	gc, err = run(t, CalibrateOptionalReferenceIdsAttribute, "referenceIds=env,gag")
	require.Nil(t, err)
	assert.Equal(t, []string{"env", "gag"}, gc.ReferenceIds)

	gc, err = run(t, CalibrateOptionalLociAttribute, "loci=DRB1")
	require.Nil(t, err)
	assert.Equal(t, []string{"DRB1"}, gc.Loci)
}

func TestMandateReferenceIdAttribute(t *testing.T) {
	gc, err := run(t, MandateReferenceIdAttribute, "referenceId=env")
	require.Nil(t, err)
	assert.Equal(t, []string{"env"}, gc.ReferenceIds)

	_, err = run(t, MandateReferenceIdAttribute, "referenceId=")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestMandatePositionAttribute(t *testing.T) {
	gc, err := run(t, MandatePositionAttribute, "position=12")
	require.Nil(t, err)
	assert.Equal(t, 12, gc.Start)

	for _, query := range []string{"", "position=abc", "position=0", "position=-4"} {
		_, err := run(t, MandatePositionAttribute, query)
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err), query)
	}
}

func TestCalibrateWindow(t *testing.T) {
	gc, err := run(t, CalibrateWindow, "start=10&stop=20")
	require.Nil(t, err)
	assert.Equal(t, 10, gc.Start)
	assert.Equal(t, 20, gc.Stop)

	gc, err = run(t, CalibrateWindow, "start=10")
	require.Nil(t, err)
	assert.Equal(t, 10, gc.Start)
	assert.Equal(t, 0, gc.Stop)

	gc, err = run(t, CalibrateWindow, "start=ten&stop=20")
	require.Nil(t, err)
	assert.Equal(t, 0, gc.Start)

	_, err = run(t, CalibrateWindow, "start=20&stop=10")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestCalibrateThresholds(t *testing.T) {
	t.Run("unset parameters stay nil", func(t *testing.T) {
		gc, err := run(t, CalibrateThresholds, "")
		require.Nil(t, err)
		assert.Nil(t, gc.Thresholds.MinCoverage)
		assert.Nil(t, gc.Thresholds.PctDifferentialFilter)
		assert.Empty(t, gc.Diagnostics)
	})

	t.Run("every threshold is parsed", func(t *testing.T) {
		gc, err := run(t, CalibrateThresholds,
			"minCoverage=20&minVariantPercent=1.5&minVariantReadCount=3&maxNonCoveredPositions=7"+
				"&minPctForHaplotype=2&minPctExplained=50&pctDifferentialFilter=12.5")
		require.Nil(t, err)

		th := gc.Thresholds
		assert.Equal(t, 20.0, *th.MinCoverage)
		assert.Equal(t, 1.5, *th.MinVariantPercent)
		assert.Equal(t, 3, *th.MinVariantReadCount)
		assert.Equal(t, 7, *th.MaxNonCoveredPositions)
		assert.Equal(t, 2.0, *th.MinPctForHaplotype)
		assert.Equal(t, 50.0, *th.MinPctExplained)
		assert.Equal(t, 12.5, *th.PctDifferentialFilter)
	})

	t.Run("minQuality aliases minCoverage and the larger wins", func(t *testing.T) {
		gc, _ := run(t, CalibrateThresholds, "minQuality=30")
		assert.Equal(t, 30.0, *gc.Thresholds.MinCoverage)

		gc, _ = run(t, CalibrateThresholds, "minQuality=30&minCoverage=10")
		assert.Equal(t, 30.0, *gc.Thresholds.MinCoverage)

		gc, _ = run(t, CalibrateThresholds, "minQuality=5&minCoverage=10")
		assert.Equal(t, 10.0, *gc.Thresholds.MinCoverage)
	})

	t.Run("bad values are ignored with a diagnostic", func(t *testing.T) {
		gc, err := run(t, CalibrateThresholds, "minCoverage=-1&minVariantReadCount=lots&minPctExplained=40")
		require.Nil(t, err)

		assert.Nil(t, gc.Thresholds.MinCoverage)
		assert.Nil(t, gc.Thresholds.MinVariantReadCount)
		assert.Equal(t, 40.0, *gc.Thresholds.MinPctExplained)

		require.Len(t, gc.Diagnostics, 2)
		for _, d := range gc.Diagnostics {
			assert.Equal(t, diagnostic.ThresholdMisconfiguration, d.Kind)
		}
		assert.Contains(t, gc.Diagnostics[0].Message, "minCoverage")
	})

	t.Run("NaN and infinite values are rejected", func(t *testing.T) {
		gc, err := run(t, CalibrateThresholds, "minCoverage=NaN&minVariantPercent=Inf&pctDifferentialFilter=-Inf&minQuality=%2BInf")
		require.Nil(t, err)

		assert.Nil(t, gc.Thresholds.MinCoverage)
		assert.Nil(t, gc.Thresholds.MinVariantPercent)
		assert.Nil(t, gc.Thresholds.PctDifferentialFilter)

		require.Len(t, gc.Diagnostics, 4)
		for _, d := range gc.Diagnostics {
			assert.Equal(t, diagnostic.ThresholdMisconfiguration, d.Kind)
		}
	})
}
