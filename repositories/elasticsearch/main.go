package elasticsearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/Jeffail/gabs"
	es7 "github.com/elastic/go-elasticsearch/v7"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"genotyper/api/log"
	"genotyper/api/models"
)

const (
	ReferencesIndex = "references"
	CoverageIndex   = "coverage"
	VariantsIndex   = "variants"
	FeaturesIndex   = "features"
	HaplotypesIndex = "haplotypes"
	LineagesIndex   = "lineages"
)

type Repository struct {
	Es7Client *es7.Client
	Config    *models.Config
}

func NewRepository(es *es7.Client, cfg *models.Config) *Repository {
	return &Repository{
		Es7Client: es,
		Config:    cfg,
	}
}

// IndexName prefixes a logical index with the configured prefix
func (r *Repository) IndexName(index string) string {
	if r.Config.Elasticsearch.IndexPrefix == "" {
		return index
	}
	return fmt.Sprintf("%s-%s", r.Config.Elasticsearch.IndexPrefix, index)
}

func (r *Repository) maxHits() int {
	if r.Config.Elasticsearch.MaxHits > 0 {
		return r.Config.Elasticsearch.MaxHits
	}
	return 10000
}

// search runs query against index and returns the raw hits. A missing
// index yields no hits.
func (r *Repository) search(ctx context.Context, index string, query map[string]interface{}) ([]*gabs.Container, error) {
	name := r.IndexName(index)
	query["size"] = r.maxHits()

	// encode the query
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(query); err != nil {
		return nil, errors.Wrapf(err, "encoding %s query", name)
	}

	if r.Config.Debug {
		// view the outbound elasticsearch query
		log.Repository.Debugf("%s query : %s", name, buf.String())
	}

	es := r.Es7Client
	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(name),
		es.Search.WithBody(&buf),
		es.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "searching %s", name)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		log.Repository.Warnf("Index %s not found", name)
		return []*gabs.Container{}, nil
	}
	if res.IsError() {
		return nil, errors.Errorf("searching %s: %s", name, res.String())
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s response", name)
	}

	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s response", name)
	}

	hits, err := parsed.Path("hits.hits").Children()
	if err != nil {
		// no hits array at all
		return []*gabs.Container{}, nil
	}

	if total, ok := parsed.Path("hits.total.value").Data().(float64); ok && int(total) > len(hits) {
		log.Repository.Warnf("%s matched %d documents, only %d returned", name, int(total), len(hits))
	}

	return hits, nil
}

// decodeSources maps each hit's _source onto T
func decodeSources[T any](hits []*gabs.Container) ([]T, error) {
	out := make([]T, 0, len(hits))
	for _, hit := range hits {
		var record T
		if err := mapstructure.Decode(hit.Path("_source").Data(), &record); err != nil {
			return nil, errors.Wrap(err, "decoding _source")
		}
		out = append(out, record)
	}
	return out, nil
}

func searchRecords[T any](ctx context.Context, r *Repository, index string, query map[string]interface{}) ([]T, error) {
	hits, err := r.search(ctx, index, query)
	if err != nil {
		return nil, err
	}
	return decodeSources[T](hits)
}

// -- query building

// filterQuery ANDs a terms filter for every non-empty value list
func filterQuery(terms map[string][]string, sortBy []map[string]string) map[string]interface{} {
	filters := []map[string]interface{}{}

	// stable field order keeps outbound queries reproducible
	fields := make([]string, 0, len(terms))
	for field := range terms {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		values := terms[field]
		if len(values) == 0 {
			continue
		}
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{
				field: values,
			},
		})
	}

	query := map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"filter": filters,
			},
		},
	}
	if len(sortBy) > 0 {
		query["sort"] = sortBy
	}
	return query
}
