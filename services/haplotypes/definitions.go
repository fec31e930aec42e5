package haplotypes

import (
	"sort"
	"strings"

	"genotyper/api/models/indexes"
)

// DefinitionsFromRows groups denormalized marker rows into definitions,
// keeping first-seen order of haplotypes and markers. A marker listed
// twice collapses into one; required wins.
func DefinitionsFromRows(rows []indexes.HaplotypeRow) []indexes.HaplotypeDefinition {
	type definitionKey struct{ locus, name string }

	order := []definitionKey{}
	byKey := map[definitionKey]*indexes.HaplotypeDefinition{}

	for _, row := range rows {
		name := strings.TrimSpace(row.HaplotypeName)
		if name == "" {
			continue
		}
		k := definitionKey{locus: row.Locus, name: name}
		definition, ok := byKey[k]
		if !ok {
			definition = &indexes.HaplotypeDefinition{Name: name, Locus: row.Locus, Markers: []indexes.HaplotypeMarker{}}
			byKey[k] = definition
			order = append(order, k)
		}

		marker := strings.TrimSpace(row.MarkerName)
		if marker == "" {
			continue
		}
		merged := false
		for i := range definition.Markers {
			if definition.Markers[i].Name == marker {
				definition.Markers[i].IsRequired = definition.Markers[i].IsRequired || row.IsRequired
				merged = true
				break
			}
		}
		if !merged {
			definition.Markers = append(definition.Markers, indexes.HaplotypeMarker{Name: marker, IsRequired: row.IsRequired})
		}
	}

	definitions := make([]indexes.HaplotypeDefinition, 0, len(order))
	for _, k := range order {
		definitions = append(definitions, *byKey[k])
	}
	return definitions
}

// ParseLineageKey splits a marker-set key on ';' (or ',') into its sorted,
// distinct markers. ok is false when the key has no markers or an empty
// token.
func ParseLineageKey(key string) (markers []string, ok bool) {
	normalized := strings.ReplaceAll(key, ",", ";")
	if strings.TrimSpace(normalized) == "" {
		return nil, false
	}

	seen := map[string]bool{}
	for _, token := range strings.Split(normalized, ";") {
		token = strings.TrimSpace(token)
		if token == "" {
			return nil, false
		}
		if !seen[token] {
			seen[token] = true
			markers = append(markers, token)
		}
	}
	sort.Strings(markers)
	return markers, true
}

// CanonicalLineageKey is the sorted ';' join of markers
func CanonicalLineageKey(markers []string) string {
	sorted := append([]string{}, markers...)
	sort.Strings(sorted)
	return strings.Join(sorted, ";")
}
