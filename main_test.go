package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"genotyper/api/models"
	rk "genotyper/api/models/constants/reference-kind"
	"genotyper/api/models/dtos"
	"genotyper/api/models/indexes"
	"genotyper/api/services/cache"
	"genotyper/api/services/engine"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySource struct {
	references   []indexes.ReferenceSequence
	coverage     []indexes.CoverageRecord
	variants     []indexes.VariantRecord
	features     []indexes.Feature
	rows         []indexes.HaplotypeRow
	observations []indexes.LineageObservation
	failWith     error
}

func (m *memorySource) GetReferences(ctx context.Context, referenceIds []string) ([]indexes.ReferenceSequence, error) {
	out := []indexes.ReferenceSequence{}
	for _, ref := range m.references {
		if len(referenceIds) == 0 || contains(referenceIds, ref.Id) {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (m *memorySource) GetCoverage(ctx context.Context, analysisIds []string, referenceIds []string) ([]indexes.CoverageRecord, error) {
	return m.coverage, nil
}

func (m *memorySource) GetVariants(ctx context.Context, analysisIds []string, referenceIds []string) ([]indexes.VariantRecord, error) {
	return m.variants, m.failWith
}

func (m *memorySource) GetFeatures(ctx context.Context, referenceIds []string) ([]indexes.Feature, error) {
	return m.features, nil
}

func (m *memorySource) GetHaplotypeRows(ctx context.Context, loci []string) ([]indexes.HaplotypeRow, error) {
	return m.rows, nil
}

func (m *memorySource) GetLineageObservations(ctx context.Context, analysisIds []string, loci []string) ([]indexes.LineageObservation, error) {
	return m.observations, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func newTestServer(source *memorySource) http.Handler {
	cfg := &models.Config{SemVer: "1.2.3"}
	cfg.Engine.MaxNonCoveredPositions = -1
	cfg.Engine.PctDifferentialFilter = 10
	cfg.Palette.SynonymousColor = "#0000FF"
	cfg.Palette.NonSynonymousColor = "#FF0000"
	cfg.Palette.FrameshiftColor = "#FF9900"

	rc := cache.NewResultCache(time.Minute)
	return newServer(cfg, engine.NewEngine(source, rc, cfg), rc)
}

func fixture() *memorySource {
	source := &memorySource{
		references: []indexes.ReferenceSequence{{
			Id:            "gag",
			Name:          "Gag",
			Kind:          rk.Protein,
			NtReferenceId: "hxb2",
			ExonMap:       []indexes.Exon{{Start: 790, Stop: 807}},
			Sequence:      "MGARAS",
		}},
		variants: []indexes.VariantRecord{
			{AnalysisId: "s1", ReferenceId: "gag", Position: 3, RefResidue: "A", ReadCounts: map[string]int{"T": 95, "S": 5}, Percent: 50},
		},
		features: []indexes.Feature{
			{ReferenceId: "gag", Name: "p17", Category: "Region", Start: 1, Stop: 4},
		},
		rows: []indexes.HaplotypeRow{
			{HaplotypeName: "H1", Locus: "L", MarkerName: "m1", IsRequired: true},
			{HaplotypeName: "H2", Locus: "L", MarkerName: "m2", IsRequired: true},
		},
		observations: []indexes.LineageObservation{
			{AnalysisId: "s1", Locus: "L", LineageSetKey: "m1", PercentOfLocus: 55},
			{AnalysisId: "s1", Locus: "L", LineageSetKey: "m2", PercentOfLocus: 45},
		},
	}
	for nt := 790; nt <= 807; nt++ {
		source.coverage = append(source.coverage, indexes.CoverageRecord{
			AnalysisId: "s1", ReferenceId: "hxb2", Position: nt, AdjustedDepth: 40,
		})
	}
	return source
}

func get(t *testing.T, handler http.Handler, target string, out interface{}) int {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if out != nil {
		require.Nil(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

func TestServiceInfo(t *testing.T) {
	server := newTestServer(fixture())

	var info map[string]interface{}
	assert.Equal(t, http.StatusOK, get(t, server, "/service-info", &info))
	assert.Equal(t, "1.2.3", info["version"])

	var welcome string
	assert.Equal(t, http.StatusOK, get(t, server, "/", &welcome))
	assert.NotEmpty(t, welcome)
}

func TestAlignmentsRoute(t *testing.T) {
	server := newTestServer(fixture())

	var response dtos.AlignmentResponseDto
	code := get(t, server, "/alignments?referenceIds=gag&analysisIds=s1&minCoverage=oops", &response)
	require.Equal(t, http.StatusOK, code)

	assert.NotEmpty(t, response.RequestId)
	require.Len(t, response.Alignments, 1)
	alignment := response.Alignments[0]
	assert.Equal(t, "gag", alignment.ReferenceId)
	require.Len(t, alignment.Samples, 1)
	assert.Equal(t, "T", string(alignment.Samples[0].Cells[2].Glyph))
	assert.Len(t, alignment.Tracks, 1)

	require.Len(t, response.Diagnostics, 1)
	assert.Equal(t, "ThresholdMisconfiguration", string(response.Diagnostics[0].Kind))
}

func TestAlignmentsWindow(t *testing.T) {
	server := newTestServer(fixture())

	var response dtos.AlignmentResponseDto
	require.Equal(t, http.StatusOK, get(t, server, "/alignments?start=2&stop=4", &response))
	assert.Len(t, response.Alignments[0].Samples[0].Cells, 3)

	var failure dtos.GeneralErrorResponseDto
	assert.Equal(t, http.StatusBadRequest, get(t, server, "/alignments?start=4&stop=2", &failure))
	assert.Equal(t, 400, failure.Code)
	assert.NotEmpty(t, failure.Errors)
}

func TestAlignmentsErrors(t *testing.T) {
	var failure dtos.GeneralErrorResponseDto

	empty := fixture()
	empty.references = nil
	assert.Equal(t, http.StatusNotFound, get(t, newTestServer(empty), "/alignments", &failure))
	assert.Equal(t, "Not Found", failure.Message)

	broken := fixture()
	broken.failWith = errors.New("connection refused")
	assert.Equal(t, http.StatusInternalServerError, get(t, newTestServer(broken), "/alignments", &failure))
	assert.Contains(t, failure.Errors[0].Message, "connection refused")
}

func TestCodonsRoute(t *testing.T) {
	server := newTestServer(fixture())

	var mapping dtos.CodonMappingResponseDto
	require.Equal(t, http.StatusOK, get(t, server, "/codons?referenceId=gag&position=2", &mapping))
	assert.Equal(t, []int{793, 794, 795}, mapping.NtPositions)
	assert.Equal(t, "hxb2", mapping.NtReferenceId)
	assert.Equal(t, "G", mapping.ReferenceResidue)

	assert.Equal(t, http.StatusBadRequest, get(t, server, "/codons?referenceId=gag", nil))
	assert.Equal(t, http.StatusBadRequest, get(t, server, "/codons?position=2", nil))
	assert.Equal(t, http.StatusNotFound, get(t, server, "/codons?referenceId=pol&position=2", nil))
}

func TestFeatureTracksRoute(t *testing.T) {
	var response dtos.FeatureTracksResponseDto
	require.Equal(t, http.StatusOK, get(t, newTestServer(fixture()), "/features/tracks?referenceIds=gag", &response))
	require.Len(t, response.Results["gag"], 1)
	assert.Equal(t, "p17", response.Results["gag"][0].Spans[0].Label)
}

func TestHaplotypeRoutes(t *testing.T) {
	server := newTestServer(fixture())

	var calls dtos.HaplotypeResponseDto
	require.Equal(t, http.StatusOK, get(t, server, "/haplotypes/calls?analysisIds=s1&loci=L", &calls))
	require.Equal(t, 1, calls.Count)
	assert.Equal(t, "H1", calls.Results[0].Haplotype1.Name)
	assert.Equal(t, "H2", calls.Results[0].Haplotype2.Name)
	assert.Equal(t, 100.0, calls.Results[0].TotalPctPresent)

	var publish dtos.PublishResponseDto
	require.Equal(t, http.StatusOK, get(t, server, "/haplotypes/publish?analysisIds=s1", &publish))
	assert.Len(t, publish.Results, 2)

	empty := fixture()
	empty.rows, empty.observations = nil, nil
	assert.Equal(t, http.StatusNotFound, get(t, newTestServer(empty), "/haplotypes/calls", nil))
}

func TestCacheStatsRoute(t *testing.T) {
	server := newTestServer(fixture())

	get(t, server, "/haplotypes/calls", nil)
	get(t, server, "/haplotypes/calls", nil)

	var stats cache.Stats
	require.Equal(t, http.StatusOK, get(t, server, "/cache/stats", &stats))
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
}
