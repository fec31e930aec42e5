package elasticsearch

import (
	"context"

	rk "genotyper/api/models/constants/reference-kind"
	"genotyper/api/models/indexes"
)

var (
	byPosition = []map[string]string{
		{"analysisId": "asc"},
		{"referenceId": "asc"},
		{"position": "asc"},
		{"insertIndex": "asc"},
	}
	byHaplotype = []map[string]string{
		{"locus": "asc"},
		{"haplotypeName": "asc"},
		{"_doc": "asc"},
	}
)

func (r *Repository) GetReferences(ctx context.Context, referenceIds []string) ([]indexes.ReferenceSequence, error) {
	query := filterQuery(map[string][]string{"id": referenceIds}, []map[string]string{{"id": "asc"}})
	references, err := searchRecords[indexes.ReferenceSequence](ctx, r, ReferencesIndex, query)
	if err != nil {
		return nil, err
	}

	// indexed documents spell the kind loosely ("nt", "DNA", ...)
	for i := range references {
		references[i].Kind = rk.CastToReferenceKind(string(references[i].Kind))
	}
	return references, nil
}

func (r *Repository) GetCoverage(ctx context.Context, analysisIds []string, referenceIds []string) ([]indexes.CoverageRecord, error) {
	query := filterQuery(map[string][]string{
		"analysisId":  analysisIds,
		"referenceId": referenceIds,
	}, byPosition)
	return searchRecords[indexes.CoverageRecord](ctx, r, CoverageIndex, query)
}

func (r *Repository) GetVariants(ctx context.Context, analysisIds []string, referenceIds []string) ([]indexes.VariantRecord, error) {
	query := filterQuery(map[string][]string{
		"analysisId":  analysisIds,
		"referenceId": referenceIds,
	}, byPosition)
	return searchRecords[indexes.VariantRecord](ctx, r, VariantsIndex, query)
}

func (r *Repository) GetFeatures(ctx context.Context, referenceIds []string) ([]indexes.Feature, error) {
	query := filterQuery(map[string][]string{"referenceId": referenceIds}, []map[string]string{
		{"referenceId": "asc"},
		{"start": "asc"},
	})
	return searchRecords[indexes.Feature](ctx, r, FeaturesIndex, query)
}

// GetHaplotypeRows returns denormalized marker rows grouped by haplotype,
// markers in indexing order.
func (r *Repository) GetHaplotypeRows(ctx context.Context, loci []string) ([]indexes.HaplotypeRow, error) {
	query := filterQuery(map[string][]string{"locus": loci}, byHaplotype)
	return searchRecords[indexes.HaplotypeRow](ctx, r, HaplotypesIndex, query)
}

func (r *Repository) GetLineageObservations(ctx context.Context, analysisIds []string, loci []string) ([]indexes.LineageObservation, error) {
	query := filterQuery(map[string][]string{
		"analysisId": analysisIds,
		"locus":      loci,
	}, []map[string]string{
		{"analysisId": "asc"},
		{"locus": "asc"},
	})
	return searchRecords[indexes.LineageObservation](ctx, r, LineagesIndex, query)
}
