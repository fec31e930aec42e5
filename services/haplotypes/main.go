package haplotypes

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"genotyper/api/models"
	"genotyper/api/models/constants/diagnostic"
	"genotyper/api/models/dtos"
	"genotyper/api/models/indexes"
)

const (
	CommentNoMatch         = "No Match"
	CommentHighestMatches  = "Highest # Matches"
	CommentHighestExplains = "Highest % Explained"

	pctTolerance = 1e-9
)

type (
	parsedObservation struct {
		markers []string
		percent float64
	}

	matchedHaplotype struct {
		definition indexes.HaplotypeDefinition
		matched    []string
	}

	candidatePair struct {
		first, second   *matchedHaplotype
		union           map[string]bool
		totalMatches    int
		totalPctPresent float64
	}
)

func (m *matchedHaplotype) assignment() *dtos.HaplotypeAssignment {
	total := len(m.definition.Markers)
	return &dtos.HaplotypeAssignment{
		Name:           m.definition.Name,
		MatchedMarkers: append([]string{}, m.matched...),
		TotalMarkers:   total,
		MatchFraction:  float64(len(m.matched)) / float64(total),
	}
}

func (p *candidatePair) key() string {
	return p.first.definition.Name + "|" + p.second.definition.Name
}

// Explain picks the haplotype pair(s) that best account for the lineage
// observations of one analysis at one locus. Definitions for other loci
// are ignored. A single "No Match" result is returned when nothing fits.
func Explain(analysisId string, locus string, observations []indexes.LineageObservation,
	definitions []indexes.HaplotypeDefinition, thresholds models.Thresholds) ([]dtos.HaplotypeCallResult, []diagnostic.Diagnostic) {

	diagnostics := []diagnostic.Diagnostic{}

	// -- parse observations
	parsed := []parsedObservation{}
	observedMarkers := map[string]bool{}
	totalObservedPct := 0.0
	for _, observation := range observations {
		totalObservedPct += observation.PercentOfLocus

		markers, ok := ParseLineageKey(observation.LineageSetKey)
		if !ok {
			diagnostics = append(diagnostics, diagnostic.New(diagnostic.AmbiguousLineageKey,
				"%s/%s: cannot parse lineage key %q", analysisId, locus, observation.LineageSetKey))
			continue
		}
		parsed = append(parsed, parsedObservation{markers: markers, percent: observation.PercentOfLocus})
		for _, marker := range markers {
			observedMarkers[marker] = true
		}
	}

	// -- step 1: per-haplotype matching
	matches := []*matchedHaplotype{}
	for _, definition := range definitions {
		if definition.Locus != locus {
			continue
		}
		if len(definition.Markers) == 0 {
			diagnostics = append(diagnostics, diagnostic.New(diagnostic.InconsistentHaplotypeDefinition,
				"haplotype %s at %s has no markers", definition.Name, locus))
			continue
		}
		if m := matchHaplotype(definition, observedMarkers, thresholds.MinPctForHaplotype); m != nil {
			matches = append(matches, m)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].definition.Name < matches[j].definition.Name
	})

	// -- step 2: pairwise scoring, self-pairs included
	pairs := []*candidatePair{}
	for i := range matches {
		for j := i; j < len(matches); j++ {
			pair := scorePair(matches[i], matches[j], parsed)
			if thresholds.MinPctExplained != nil && pair.totalPctPresent < *thresholds.MinPctExplained-pctTolerance {
				continue
			}
			pairs = append(pairs, pair)
		}
	}

	comments := make([]string, 0, len(diagnostics))
	for _, d := range diagnostics {
		comments = append(comments, d.String())
	}

	if len(pairs) == 0 {
		return []dtos.HaplotypeCallResult{noMatch(analysisId, locus, totalObservedPct, comments)}, diagnostics
	}

	// -- step 3: ranking
	bestCount, bestPct := 0, math.Inf(-1)
	for _, pair := range pairs {
		if len(pair.union) > bestCount {
			bestCount = len(pair.union)
		}
		if pair.totalPctPresent > bestPct {
			bestPct = pair.totalPctPresent
		}
	}
	byCount := map[string]bool{}
	byPct := map[string]bool{}
	for _, pair := range pairs {
		if len(pair.union) == bestCount {
			byCount[pair.key()] = true
		}
		if math.Abs(pair.totalPctPresent-bestPct) <= pctTolerance {
			byPct[pair.key()] = true
		}
	}

	// -- step 4: selection
	selected := []*candidatePair{}
	for _, pair := range pairs {
		if byCount[pair.key()] && byPct[pair.key()] {
			selected = append(selected, pair)
		}
	}
	if len(selected) == 0 {
		for _, pair := range pairs {
			if byCount[pair.key()] || byPct[pair.key()] {
				selected = append(selected, pair)
			}
		}
	}
	if len(selected) > 1 && thresholds.PctDifferentialFilter != nil {
		filter := *thresholds.PctDifferentialFilter
		kept := []*candidatePair{}
		for _, pair := range selected {
			if byCount[pair.key()] && bestPct-pair.totalPctPresent > filter+pctTolerance {
				continue
			}
			kept = append(kept, pair)
		}
		selected = kept
	}

	// -- step 5: output
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if a.totalPctPresent != b.totalPctPresent {
			return a.totalPctPresent > b.totalPctPresent
		}
		if a.totalMatches != b.totalMatches {
			return a.totalMatches > b.totalMatches
		}
		return a.key() < b.key()
	})

	results := make([]dtos.HaplotypeCallResult, 0, len(selected))
	for _, pair := range selected {
		// re-walk against the chosen union; the score above used the same rule
		totalMatches, totalPct := explained(pair.union, parsed)

		resultComments := []string{}
		if len(selected) > 1 {
			resultComments = append(resultComments, fmt.Sprintf("Multiple Matches: %d", len(selected)))
		}
		if byCount[pair.key()] {
			resultComments = append(resultComments, CommentHighestMatches)
		}
		if byPct[pair.key()] {
			resultComments = append(resultComments, CommentHighestExplains)
		}
		resultComments = append(resultComments, comments...)

		results = append(results, dtos.HaplotypeCallResult{
			AnalysisId:       analysisId,
			Locus:            locus,
			Haplotype1:       pair.first.assignment(),
			Haplotype2:       pair.second.assignment(),
			MarkersExplained: len(pair.union),
			TotalMatches:     totalMatches,
			TotalPctPresent:  totalPct,
			TotalObservedPct: totalObservedPct,
			Comments:         resultComments,
		})
	}

	return results, diagnostics
}

func matchHaplotype(definition indexes.HaplotypeDefinition, observed map[string]bool, minPct *float64) *matchedHaplotype {
	matched := []string{}
	for _, marker := range definition.Markers {
		if observed[marker.Name] {
			matched = append(matched, marker.Name)
		} else if marker.IsRequired {
			return nil
		}
	}
	if len(matched) == 0 {
		return nil
	}

	if minPct != nil {
		pct := 100 * float64(len(matched)) / float64(len(definition.Markers))
		if pct < *minPct-pctTolerance {
			return nil
		}
	}

	return &matchedHaplotype{definition: definition, matched: matched}
}

func scorePair(first *matchedHaplotype, second *matchedHaplotype, observations []parsedObservation) *candidatePair {
	union := map[string]bool{}
	for _, marker := range first.matched {
		union[marker] = true
	}
	for _, marker := range second.matched {
		union[marker] = true
	}

	pair := &candidatePair{first: first, second: second, union: union}
	pair.totalMatches, pair.totalPctPresent = explained(union, observations)
	return pair
}

// explained counts the observations sharing at least one marker with union
func explained(union map[string]bool, observations []parsedObservation) (int, float64) {
	count, pct := 0, 0.0
	for _, observation := range observations {
		for _, marker := range observation.markers {
			if union[marker] {
				count++
				pct += observation.percent
				break
			}
		}
	}
	return count, pct
}

func noMatch(analysisId string, locus string, totalObservedPct float64, comments []string) dtos.HaplotypeCallResult {
	return dtos.HaplotypeCallResult{
		AnalysisId:       analysisId,
		Locus:            locus,
		TotalObservedPct: totalObservedPct,
		Comments:         append([]string{CommentNoMatch}, comments...),
	}
}

// -- batch helpers

// ExplainAll explains every (analysisId, locus) group of observations,
// ordered by analysis then locus.
func ExplainAll(observations []indexes.LineageObservation, definitions []indexes.HaplotypeDefinition,
	thresholds models.Thresholds) ([]dtos.HaplotypeCallResult, []diagnostic.Diagnostic) {

	type groupKey struct{ analysisId, locus string }
	groups := map[groupKey][]indexes.LineageObservation{}
	keys := []groupKey{}
	for _, observation := range observations {
		k := groupKey{observation.AnalysisId, observation.Locus}
		if _, ok := groups[k]; !ok {
			keys = append(keys, k)
		}
		groups[k] = append(groups[k], observation)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].analysisId != keys[j].analysisId {
			return keys[i].analysisId < keys[j].analysisId
		}
		return keys[i].locus < keys[j].locus
	})

	results := []dtos.HaplotypeCallResult{}
	diagnostics := []diagnostic.Diagnostic{}
	for _, k := range keys {
		groupResults, groupDiagnostics := Explain(k.analysisId, k.locus, groups[k], definitions, thresholds)
		results = append(results, groupResults...)
		diagnostics = append(diagnostics, groupDiagnostics...)
	}
	return results, diagnostics
}

// PublishRows flattens results into one row per assigned haplotype.
// Self-pairs publish once; "No Match" results publish an empty name.
func PublishRows(results []dtos.HaplotypeCallResult) []dtos.PublishRow {
	rows := []dtos.PublishRow{}
	for _, result := range results {
		comment := strings.Join(result.Comments, "; ")

		if result.IsNoMatch() {
			rows = append(rows, dtos.PublishRow{AnalysisId: result.AnalysisId, Locus: result.Locus, Comment: comment})
			continue
		}

		for i, assignment := range []*dtos.HaplotypeAssignment{result.Haplotype1, result.Haplotype2} {
			if assignment == nil || (i == 1 && result.Haplotype1 != nil && assignment.Name == result.Haplotype1.Name) {
				continue
			}
			rows = append(rows, dtos.PublishRow{
				AnalysisId:      result.AnalysisId,
				Locus:           result.Locus,
				HaplotypeName:   assignment.Name,
				MatchedFraction: assignment.MatchFraction,
				Comment:         comment,
			})
		}
	}
	return rows
}
