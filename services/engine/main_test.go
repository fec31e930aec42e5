package engine

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"genotyper/api/models"
	rk "genotyper/api/models/constants/reference-kind"
	"genotyper/api/models/indexes"
	"genotyper/api/services/cache"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	references   []indexes.ReferenceSequence
	coverage     []indexes.CoverageRecord
	variants     []indexes.VariantRecord
	features     []indexes.Feature
	rows         []indexes.HaplotypeRow
	observations []indexes.LineageObservation

	coverageIds []string
	fetches     int32
	failWith    error
}

func (f *fakeSource) GetReferences(ctx context.Context, referenceIds []string) ([]indexes.ReferenceSequence, error) {
	atomic.AddInt32(&f.fetches, 1)
	out := []indexes.ReferenceSequence{}
	for _, ref := range f.references {
		if len(referenceIds) == 0 || contains(referenceIds, ref.Id) {
			out = append(out, ref)
		}
	}
	return out, nil
}

func (f *fakeSource) GetCoverage(ctx context.Context, analysisIds []string, referenceIds []string) ([]indexes.CoverageRecord, error) {
	f.coverageIds = referenceIds
	return f.coverage, nil
}

func (f *fakeSource) GetVariants(ctx context.Context, analysisIds []string, referenceIds []string) ([]indexes.VariantRecord, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.variants, nil
}

func (f *fakeSource) GetFeatures(ctx context.Context, referenceIds []string) ([]indexes.Feature, error) {
	return f.features, nil
}

func (f *fakeSource) GetHaplotypeRows(ctx context.Context, loci []string) ([]indexes.HaplotypeRow, error) {
	return f.rows, nil
}

func (f *fakeSource) GetLineageObservations(ctx context.Context, analysisIds []string, loci []string) ([]indexes.LineageObservation, error) {
	return f.observations, nil
}

func contains(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}

func newFixture() *fakeSource {
	source := &fakeSource{
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
			{ReferenceId: "gag", Name: "SL9", Category: "Epitope", Start: 3, Stop: 5},
		},
		rows: []indexes.HaplotypeRow{
			{HaplotypeName: "H1", Locus: "L", MarkerName: "m1", IsRequired: true},
			{HaplotypeName: "H1", Locus: "L", MarkerName: "m2", IsRequired: true},
			{HaplotypeName: "H2", Locus: "L", MarkerName: "m3", IsRequired: true},
		},
		observations: []indexes.LineageObservation{
			{AnalysisId: "s1", Locus: "L", LineageSetKey: "m1;m2", PercentOfLocus: 40},
			{AnalysisId: "s1", Locus: "L", LineageSetKey: "m3", PercentOfLocus: 60},
		},
	}
	for nt := 790; nt <= 807; nt++ {
		source.coverage = append(source.coverage, indexes.CoverageRecord{
			AnalysisId: "s1", ReferenceId: "hxb2", Position: nt, AdjustedDepth: 40,
		})
	}
	return source
}

func newEngine(source RecordSource) *Engine {
	cfg := &models.Config{}
	cfg.Engine.MaxNonCoveredPositions = -1
	cfg.Engine.PctDifferentialFilter = 10
	cfg.Palette.SynonymousColor = "#0000FF"
	cfg.Palette.NonSynonymousColor = "#FF0000"
	cfg.Palette.FrameshiftColor = "#FF9900"
	return NewEngine(source, cache.NewResultCache(time.Minute), cfg)
}

func TestBuildAlignment(t *testing.T) {
	source := newFixture()
	e := newEngine(source)

	result, err := e.BuildAlignment(context.Background(), AlignmentRequest{
		ReferenceIds: []string{"gag", "missing"},
		AnalysisIds:  []string{"s1"},
	})
	assert.Nil(t, err)
	assert.NotEmpty(t, result.RequestId)

	assert.Equal(t, []string{"hxb2"}, source.coverageIds, "coverage is fetched by nucleotide reference")

	assert.Len(t, result.Alignments, 1)
	alignment := result.Alignments[0]
	assert.Equal(t, 1, alignment.Start)
	assert.Equal(t, 6, alignment.Stop)
	assert.Len(t, alignment.Samples, 1)
	assert.Equal(t, "T", string(alignment.Samples[0].Cells[2].Glyph))
	assert.Len(t, alignment.Tracks, 2)

	assert.Len(t, result.Diagnostics, 1)
	assert.Contains(t, result.Diagnostics[0].Message, "missing")
}

func TestBuildAlignmentDefaultsAnalyses(t *testing.T) {
	e := newEngine(newFixture())

	result, err := e.BuildAlignment(context.Background(), AlignmentRequest{ReferenceIds: []string{"gag"}, Start: 2, Stop: 4})
	assert.Nil(t, err)
	assert.Equal(t, "s1", result.Alignments[0].Samples[0].AnalysisId)
	assert.Len(t, result.Alignments[0].Samples[0].Cells, 3)
}

func TestBuildAlignmentCaching(t *testing.T) {
	source := newFixture()
	e := newEngine(source)
	request := AlignmentRequest{ReferenceIds: []string{"gag"}, AnalysisIds: []string{"s1"}}

	first, err := e.BuildAlignment(context.Background(), request)
	assert.Nil(t, err)
	second, err := e.BuildAlignment(context.Background(), request)
	assert.Nil(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&source.fetches))
	assert.NotEqual(t, first.RequestId, second.RequestId)

	a, _ := json.Marshal(first.Alignments)
	b, _ := json.Marshal(second.Alignments)
	assert.Equal(t, string(a), string(b))

	stats := e.Cache.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, 1, stats.Entries)
}

func TestBuildAlignmentNoReferences(t *testing.T) {
	e := newEngine(&fakeSource{})

	_, err := e.BuildAlignment(context.Background(), AlignmentRequest{ReferenceIds: []string{"nope"}})
	assert.True(t, IsNoInputData(err))
	assert.Contains(t, err.Error(), "nope")
}

func TestBuildAlignmentSourceFailure(t *testing.T) {
	source := newFixture()
	source.failWith = errors.New("connection refused")
	e := newEngine(source)

	_, err := e.BuildAlignment(context.Background(), AlignmentRequest{ReferenceIds: []string{"gag"}})
	assert.NotNil(t, err)
	assert.False(t, IsNoInputData(err))
	assert.Contains(t, err.Error(), "fetching variants")
}

func TestExplainHaplotypes(t *testing.T) {
	e := newEngine(newFixture())

	result, err := e.ExplainHaplotypes(context.Background(), HaplotypeRequest{AnalysisIds: []string{"s1"}, Loci: []string{"L"}})
	assert.Nil(t, err)
	assert.Len(t, result.Results, 1)
	assert.Equal(t, "H1", result.Results[0].Haplotype1.Name)
	assert.Equal(t, "H2", result.Results[0].Haplotype2.Name)
	assert.Equal(t, 100.0, result.Results[0].TotalPctPresent)
}

func TestExplainHaplotypesNoInput(t *testing.T) {
	e := newEngine(&fakeSource{})

	_, err := e.ExplainHaplotypes(context.Background(), HaplotypeRequest{Loci: []string{"L"}})
	assert.True(t, IsNoInputData(err))
}

func TestAnalyze(t *testing.T) {
	e := newEngine(newFixture())

	result, err := e.Analyze(context.Background(), AnalysisRequest{
		Alignment:  AlignmentRequest{ReferenceIds: []string{"gag"}},
		Haplotypes: HaplotypeRequest{AnalysisIds: []string{"s1"}},
	})
	assert.Nil(t, err)
	assert.Len(t, result.Alignment.Alignments, 1)
	assert.Len(t, result.Haplotypes.Results, 1)
}

func TestMapCodon(t *testing.T) {
	e := newEngine(newFixture())

	mapping, err := e.MapCodon(context.Background(), "gag", 2)
	assert.Nil(t, err)
	assert.Equal(t, []int{793, 794, 795}, mapping.NtPositions)
	assert.Equal(t, "hxb2", mapping.NtReferenceId)
	assert.Equal(t, "G", mapping.ReferenceResidue)
	assert.True(t, mapping.IsComplete)

	_, err = e.MapCodon(context.Background(), "pol", 2)
	assert.True(t, IsNoInputData(err))
}

func TestFeatureTracks(t *testing.T) {
	e := newEngine(newFixture())

	results, err := e.FeatureTracks(context.Background(), []string{"gag"})
	assert.Nil(t, err)
	assert.Len(t, results["gag"], 2)
	assert.Equal(t, "p17", results["gag"][0].Spans[0].Label)
}
