package engine

import (
	"context"

	"genotyper/api/models/indexes"
)

// RecordSource supplies the read-only record sets the engine joins.
// Empty id slices mean "no filter".
type RecordSource interface {
	GetReferences(ctx context.Context, referenceIds []string) ([]indexes.ReferenceSequence, error)
	GetCoverage(ctx context.Context, analysisIds []string, referenceIds []string) ([]indexes.CoverageRecord, error)
	GetVariants(ctx context.Context, analysisIds []string, referenceIds []string) ([]indexes.VariantRecord, error)
	GetFeatures(ctx context.Context, referenceIds []string) ([]indexes.Feature, error)
	GetHaplotypeRows(ctx context.Context, loci []string) ([]indexes.HaplotypeRow, error)
	GetLineageObservations(ctx context.Context, analysisIds []string, loci []string) ([]indexes.LineageObservation, error)
}
