package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"genotyper/api/log"
	"genotyper/api/models"
	"genotyper/api/models/constants/diagnostic"
	"genotyper/api/models/dtos"
	"genotyper/api/models/indexes"
	"genotyper/api/services/cache"
	"genotyper/api/services/consensus"
	"genotyper/api/services/exons"
	"genotyper/api/services/haplotypes"
	"genotyper/api/services/tracks"
)

type (
	Engine struct {
		Source   RecordSource
		Cache    *cache.ResultCache
		Defaults models.Thresholds
		Palette  consensus.Palette
	}

	AlignmentRequest struct {
		ReferenceIds []string          `json:"referenceIds"`
		AnalysisIds  []string          `json:"analysisIds"`
		Start        int               `json:"start"`
		Stop         int               `json:"stop"`
		Thresholds   models.Thresholds `json:"thresholds"`
	}

	AlignmentResult struct {
		RequestId   string                    `json:"requestId"`
		Alignments  []dtos.ReferenceAlignment `json:"alignments"`
		Diagnostics []diagnostic.Diagnostic   `json:"diagnostics"`
	}

	HaplotypeRequest struct {
		AnalysisIds []string          `json:"analysisIds"`
		Loci        []string          `json:"loci"`
		Thresholds  models.Thresholds `json:"thresholds"`
	}

	HaplotypeResult struct {
		RequestId   string                     `json:"requestId"`
		Results     []dtos.HaplotypeCallResult `json:"results"`
		Diagnostics []diagnostic.Diagnostic    `json:"diagnostics"`
	}

	AnalysisRequest struct {
		Alignment  AlignmentRequest
		Haplotypes HaplotypeRequest
	}

	AnalysisResult struct {
		Alignment  *AlignmentResult
		Haplotypes *HaplotypeResult
	}
)

func NewEngine(source RecordSource, rc *cache.ResultCache, cfg *models.Config) *Engine {
	return &Engine{
		Source:   source,
		Cache:    rc,
		Defaults: models.ThresholdsFromConfig(cfg),
		Palette:  consensus.PaletteFromConfig(cfg),
	}
}

// -- alignment pipeline

// BuildAlignment loads the references, then their coverage, variants and
// features concurrently, and renders one alignment per reference found.
func (e *Engine) BuildAlignment(ctx context.Context, request AlignmentRequest) (*AlignmentResult, error) {
	request.Thresholds = request.Thresholds.Merge(e.Defaults)
	requestId := uuid.New().String()
	logger := log.Engine.WithField("requestId", requestId)

	cacheKey, cacheErr := cache.Key("alignment", request)
	if cacheErr == nil {
		if cached, found := e.Cache.Get(cacheKey); found {
			logger.Debug("Alignment served from cache")
			result := *cached.(*AlignmentResult)
			result.RequestId = requestId
			return &result, nil
		}
	}

	started := time.Now()

	references, err := e.Source.GetReferences(ctx, request.ReferenceIds)
	if err != nil {
		return nil, errors.Wrap(err, "fetching references")
	}
	if len(references) == 0 {
		return nil, &NoInputDataError{RecordSet: "references", Ids: request.ReferenceIds}
	}

	diagnostics := []diagnostic.Diagnostic{}
	found := map[string]bool{}
	coverageIds := []string{}
	referenceIds := []string{}
	for _, ref := range references {
		found[ref.Id] = true
		referenceIds = append(referenceIds, ref.Id)
		coverageIds = appendUnique(coverageIds, ref.CoverageReferenceId())
	}
	for _, id := range request.ReferenceIds {
		if !found[id] {
			diagnostics = append(diagnostics, diagnostic.New(diagnostic.MissingReferenceData, "reference %s not found", id))
		}
	}

	var (
		coverage []indexes.CoverageRecord
		variants []indexes.VariantRecord
		features []indexes.Feature
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		coverage, err = e.Source.GetCoverage(gctx, request.AnalysisIds, coverageIds)
		return errors.Wrap(err, "fetching coverage")
	})
	g.Go(func() error {
		var err error
		variants, err = e.Source.GetVariants(gctx, request.AnalysisIds, referenceIds)
		return errors.Wrap(err, "fetching variants")
	})
	g.Go(func() error {
		var err error
		features, err = e.Source.GetFeatures(gctx, referenceIds)
		return errors.Wrap(err, "fetching features")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysisIds := request.AnalysisIds
	if len(analysisIds) == 0 {
		analysisIds = observedAnalyses(coverage, variants)
	}

	caller := consensus.NewCaller(request.Thresholds, e.Palette)
	result := &AlignmentResult{
		Alignments:  make([]dtos.ReferenceAlignment, 0, len(references)),
		Diagnostics: diagnostics,
	}
	for i := range references {
		ref := &references[i]
		snapshot := consensus.NewSnapshot(ref, request.Start, request.Stop, analysisIds, coverage, variants)

		alignment := caller.BuildAlignment(snapshot)
		alignment.Tracks = tracks.Rows(tracks.PackFeatures(featuresInWindow(features, ref.Id, snapshot.Start, snapshot.Stop)))

		result.Alignments = append(result.Alignments, alignment)
		result.Diagnostics = append(result.Diagnostics, snapshot.Diagnostics...)
		for _, row := range alignment.Samples {
			result.Diagnostics = append(result.Diagnostics, row.Diagnostics...)
		}
	}

	logger.WithField("references", len(references)).
		WithField("analyses", len(analysisIds)).
		WithField("elapsed", time.Since(started).String()).
		Info("Alignment built")

	if cacheErr == nil {
		e.Cache.Set(cacheKey, result)
	}

	out := *result
	out.RequestId = requestId
	return &out, nil
}

// FeatureTracks packs the features of each reference independently
func (e *Engine) FeatureTracks(ctx context.Context, referenceIds []string) (map[string][]dtos.TrackRow, error) {
	features, err := e.Source.GetFeatures(ctx, referenceIds)
	if err != nil {
		return nil, errors.Wrap(err, "fetching features")
	}

	byReference := map[string][]indexes.Feature{}
	for _, feature := range features {
		byReference[feature.ReferenceId] = append(byReference[feature.ReferenceId], feature)
	}

	results := map[string][]dtos.TrackRow{}
	for referenceId, group := range byReference {
		results[referenceId] = tracks.Rows(tracks.PackFeatures(group))
	}
	return results, nil
}

// MapCodon resolves a position of one reference into nucleotide positions
func (e *Engine) MapCodon(ctx context.Context, referenceId string, position int) (*dtos.CodonMappingResponseDto, error) {
	references, err := e.Source.GetReferences(ctx, []string{referenceId})
	if err != nil {
		return nil, errors.Wrap(err, "fetching references")
	}
	for i := range references {
		ref := &references[i]
		if ref.Id != referenceId {
			continue
		}

		mapping := exons.MapCodon(ref, position)
		return &dtos.CodonMappingResponseDto{
			ReferenceId:      ref.Id,
			Position:         position,
			NtReferenceId:    ref.CoverageReferenceId(),
			NtPositions:      mapping.NtPositions,
			ExonsTouched:     mapping.ExonsTouched,
			IsComplete:       mapping.IsComplete(),
			ReferenceResidue: ref.ResidueAt(position),
		}, nil
	}
	return nil, &NoInputDataError{RecordSet: "references", Ids: []string{referenceId}}
}

// -- haplotype pipeline

// ExplainHaplotypes loads definitions and observations concurrently and
// explains every (analysis, locus) group.
func (e *Engine) ExplainHaplotypes(ctx context.Context, request HaplotypeRequest) (*HaplotypeResult, error) {
	request.Thresholds = request.Thresholds.Merge(e.Defaults)
	requestId := uuid.New().String()
	logger := log.Engine.WithField("requestId", requestId)

	cacheKey, cacheErr := cache.Key("haplotypes", request)
	if cacheErr == nil {
		if cached, found := e.Cache.Get(cacheKey); found {
			logger.Debug("Haplotypes served from cache")
			result := *cached.(*HaplotypeResult)
			result.RequestId = requestId
			return &result, nil
		}
	}

	var (
		rows         []indexes.HaplotypeRow
		observations []indexes.LineageObservation
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = e.Source.GetHaplotypeRows(gctx, request.Loci)
		return errors.Wrap(err, "fetching haplotype definitions")
	})
	g.Go(func() error {
		var err error
		observations, err = e.Source.GetLineageObservations(gctx, request.AnalysisIds, request.Loci)
		return errors.Wrap(err, "fetching lineage observations")
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(rows) == 0 && len(observations) == 0 {
		return nil, &NoInputDataError{RecordSet: "haplotype definitions or lineage observations", Ids: request.Loci}
	}

	definitions := haplotypes.DefinitionsFromRows(rows)
	results, diagnostics := haplotypes.ExplainAll(observations, definitions, request.Thresholds)

	logger.WithField("definitions", len(definitions)).
		WithField("observations", len(observations)).
		WithField("results", len(results)).
		Info("Haplotypes explained")

	result := &HaplotypeResult{Results: results, Diagnostics: diagnostics}
	if cacheErr == nil {
		e.Cache.Set(cacheKey, result)
	}

	out := *result
	out.RequestId = requestId
	return &out, nil
}

// Analyze runs both pipelines concurrently; they share no state
func (e *Engine) Analyze(ctx context.Context, request AnalysisRequest) (*AnalysisResult, error) {
	result := &AnalysisResult{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		alignment, err := e.BuildAlignment(gctx, request.Alignment)
		result.Alignment = alignment
		return err
	})
	g.Go(func() error {
		explained, err := e.ExplainHaplotypes(gctx, request.Haplotypes)
		result.Haplotypes = explained
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// -- helpers

func appendUnique(list []string, value string) []string {
	for _, v := range list {
		if v == value {
			return list
		}
	}
	return append(list, value)
}

func observedAnalyses(coverage []indexes.CoverageRecord, variants []indexes.VariantRecord) []string {
	seen := map[string]bool{}
	for _, record := range coverage {
		seen[record.AnalysisId] = true
	}
	for _, record := range variants {
		seen[record.AnalysisId] = true
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func featuresInWindow(features []indexes.Feature, referenceId string, start int, stop int) []indexes.Feature {
	out := []indexes.Feature{}
	for _, feature := range features {
		if feature.ReferenceId == referenceId && feature.Start <= stop && feature.Stop >= start {
			out = append(out, feature)
		}
	}
	return out
}
