package consensus

import (
	"sort"

	"genotyper/api/models/constants/diagnostic"
	"genotyper/api/models/indexes"
	"genotyper/api/services/exons"
)

type (
	// Snapshot is the read-only input of one alignment over one reference
	Snapshot struct {
		Reference   *indexes.ReferenceSequence
		Start       int
		Stop        int
		AnalysisIds []string
		Diagnostics []diagnostic.Diagnostic

		coverage map[string]map[indexes.GenomicPosition]float64
		variants map[string]map[indexes.GenomicPosition]indexes.VariantRecord
	}
)

// NewSnapshot indexes the records that belong to ref. Coverage rows are
// matched against the reference's coverage sequence, variants against the
// reference itself; a stop of 0 means the end of the reference.
func NewSnapshot(ref *indexes.ReferenceSequence, start int, stop int, analysisIds []string,
	coverage []indexes.CoverageRecord, variants []indexes.VariantRecord) *Snapshot {

	s := &Snapshot{
		Reference:   ref,
		AnalysisIds: analysisIds,
		Diagnostics: []diagnostic.Diagnostic{},
		coverage:    map[string]map[indexes.GenomicPosition]float64{},
		variants:    map[string]map[indexes.GenomicPosition]indexes.VariantRecord{},
	}

	length := exons.ProteinLength(ref)
	s.Start, s.Stop = start, stop
	if s.Start < 1 {
		s.Start = 1
	}
	if s.Stop <= 0 {
		s.Stop = length
	}
	if s.Stop > length {
		s.Diagnostics = append(s.Diagnostics, diagnostic.New(diagnostic.MissingReferenceData,
			"%s: positions %d-%d are outside the reference (length %d)", ref.Id, length+1, s.Stop, length))
		s.Stop = length
	}

	coverageRef := ref.CoverageReferenceId()
	for _, record := range coverage {
		if record.ReferenceId != coverageRef {
			continue
		}
		if _, ok := s.coverage[record.AnalysisId]; !ok {
			s.coverage[record.AnalysisId] = map[indexes.GenomicPosition]float64{}
		}
		depth := record.AdjustedDepth
		if depth < 0 {
			depth = 0
		}
		s.coverage[record.AnalysisId][record.Key()] = depth
	}

	for _, record := range variants {
		if record.ReferenceId != ref.Id {
			continue
		}
		if _, ok := s.variants[record.AnalysisId]; !ok {
			s.variants[record.AnalysisId] = map[indexes.GenomicPosition]indexes.VariantRecord{}
		}
		s.variants[record.AnalysisId][record.Key()] = record
	}

	return s
}

func (s *Snapshot) depthLookup(analysisId string, insertIndex int) exons.DepthLookup {
	rows := s.coverage[analysisId]
	coverageRef := s.Reference.CoverageReferenceId()
	return func(ntPosition int) (float64, bool) {
		depth, ok := rows[indexes.GenomicPosition{ReferenceId: coverageRef, Position: ntPosition, InsertIndex: insertIndex}]
		return depth, ok
	}
}

// CoverageAt is the average depth backing key. Protein positions average
// over their codon; inserts after a protein position share the codon's
// depth since coverage is only recorded per nucleotide.
func (s *Snapshot) CoverageAt(analysisId string, key indexes.GenomicPosition) float64 {
	if s.Reference.IsProtein() {
		return exons.AverageCoverage(exons.MapCodon(s.Reference, key.Position), s.depthLookup(analysisId, 0))
	}
	return exons.AverageCoverage(exons.MapCodon(s.Reference, key.Position), s.depthLookup(analysisId, key.InsertIndex))
}

func (s *Snapshot) VariantAt(analysisId string, key indexes.GenomicPosition) *indexes.VariantRecord {
	key.ReferenceId = s.Reference.Id
	if record, ok := s.variants[analysisId][key]; ok {
		return &record
	}
	return nil
}

// Columns lists every primary position of the window followed, in order,
// by the inserts any analysis observed after it.
func (s *Snapshot) Columns() []indexes.GenomicPosition {
	seen := map[indexes.GenomicPosition]bool{}
	columns := []indexes.GenomicPosition{}
	add := func(key indexes.GenomicPosition) {
		key.ReferenceId = s.Reference.Id
		if key.Position < s.Start || key.Position > s.Stop || seen[key] {
			return
		}
		seen[key] = true
		columns = append(columns, key)
	}

	for position := s.Start; position <= s.Stop; position++ {
		add(indexes.GenomicPosition{Position: position})
	}
	for _, analysisId := range s.AnalysisIds {
		for key := range s.variants[analysisId] {
			if key.InsertIndex > 0 {
				add(key)
			}
		}
		if !s.Reference.IsProtein() {
			for key := range s.coverage[analysisId] {
				if key.InsertIndex > 0 {
					add(key)
				}
			}
		}
	}

	sort.Slice(columns, func(i, j int) bool {
		return columns[i].Less(columns[j])
	})
	return columns
}
