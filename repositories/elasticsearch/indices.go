package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"genotyper/api/log"
	"genotyper/api/models/indexes"
)

var indexMappings = map[string]map[string]interface{}{
	ReferencesIndex: indexes.REFERENCE_INDEX_MAPPING,
	CoverageIndex:   indexes.COVERAGE_INDEX_MAPPING,
	VariantsIndex:   indexes.VARIANT_INDEX_MAPPING,
	FeaturesIndex:   indexes.FEATURE_INDEX_MAPPING,
	HaplotypesIndex: indexes.HAPLOTYPE_INDEX_MAPPING,
	LineagesIndex:   indexes.LINEAGE_INDEX_MAPPING,
}

// EnsureIndices creates any missing index with its mapping and returns
// the names of the indices it created.
func (r *Repository) EnsureIndices(ctx context.Context) ([]string, error) {
	created := []string{}
	es := r.Es7Client

	for _, index := range []string{ReferencesIndex, CoverageIndex, VariantsIndex, FeaturesIndex, HaplotypesIndex, LineagesIndex} {
		name := r.IndexName(index)

		exists, err := es.Indices.Exists([]string{name}, es.Indices.Exists.WithContext(ctx))
		if err != nil {
			return created, errors.Wrapf(err, "checking index %s", name)
		}
		if exists.Body != nil {
			exists.Body.Close()
		}
		if exists.StatusCode == http.StatusOK {
			continue
		}

		var buf bytes.Buffer
		if err := json.NewEncoder(&buf).Encode(map[string]interface{}{"mappings": indexMappings[index]}); err != nil {
			return created, errors.Wrapf(err, "encoding mapping for %s", name)
		}

		res, err := es.Indices.Create(name,
			es.Indices.Create.WithContext(ctx),
			es.Indices.Create.WithBody(&buf),
		)
		if err != nil {
			return created, errors.Wrapf(err, "creating index %s", name)
		}
		if res.Body != nil {
			res.Body.Close()
		}
		if res.IsError() {
			return created, errors.Errorf("creating index %s: %s", name, res.Status())
		}

		log.Repository.Infof("Created index %s", name)
		created = append(created, name)
	}

	return created, nil
}
