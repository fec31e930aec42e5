package exons

import (
	"genotyper/api/models/indexes"
)

const codonLength = 3

type (
	// CodonMapping is the nucleotide footprint of one amino acid position.
	// NtPositions may hold fewer than 3 entries when the exon map runs out.
	CodonMapping struct {
		AaPosition   int   `json:"aaPosition"`
		NtPositions  []int `json:"ntPositions"`
		ExonsTouched []int `json:"exonsTouched"`
	}

	// DepthLookup returns the depth at a nucleotide position and whether a
	// coverage row exists for it.
	DepthLookup func(ntPosition int) (float64, bool)
)

func (m CodonMapping) IsComplete() bool {
	return len(m.NtPositions) == codonLength
}

func (m CodonMapping) SpansJunction() bool {
	return len(m.ExonsTouched) > 1
}

// MapCodon translates a 1-based amino acid position into the nucleotide
// positions of its codon by walking the exon map in stored order.
// Nucleotide references map onto themselves.
func MapCodon(ref *indexes.ReferenceSequence, aaPosition int) CodonMapping {
	mapping := CodonMapping{
		AaPosition:   aaPosition,
		NtPositions:  []int{},
		ExonsTouched: []int{},
	}
	if ref == nil || aaPosition < 1 {
		return mapping
	}

	if !ref.IsProtein() {
		mapping.NtPositions = append(mapping.NtPositions, aaPosition)
		return mapping
	}

	target := codonLength*aaPosition - 2
	cumulativeStart := 1
	for exonIndex, exon := range ref.ExonMap {
		exonLength := exon.Length()
		cumulativeEnd := cumulativeStart + exonLength - 1

		touched := false
		for target >= cumulativeStart && target <= cumulativeEnd && len(mapping.NtPositions) < codonLength {
			var ntPosition int
			if ref.IsComplement {
				ntPosition = exon.Stop - (target - cumulativeStart)
			} else {
				ntPosition = target - cumulativeStart + exon.Start
			}
			mapping.NtPositions = append(mapping.NtPositions, ntPosition)
			touched = true
			target++
		}
		if touched {
			mapping.ExonsTouched = append(mapping.ExonsTouched, exonIndex)
		}

		if len(mapping.NtPositions) == codonLength {
			break
		}
		cumulativeStart = cumulativeEnd + 1
	}

	return mapping
}

// LocateNucleotide is the inverse of MapCodon: it returns the amino acid
// position containing ntPosition, the 0-based frame within that codon and
// the exon holding it.
func LocateNucleotide(ref *indexes.ReferenceSequence, ntPosition int) (aaPosition int, frame int, exonIndex int, ok bool) {
	if ref == nil {
		return 0, 0, -1, false
	}
	if !ref.IsProtein() {
		if ntPosition < 1 {
			return 0, 0, -1, false
		}
		return ntPosition, 0, -1, true
	}

	cumulativeStart := 1
	for i, exon := range ref.ExonMap {
		if ntPosition >= exon.Start && ntPosition <= exon.Stop {
			var offset int
			if ref.IsComplement {
				offset = cumulativeStart + (exon.Stop - ntPosition)
			} else {
				offset = cumulativeStart + (ntPosition - exon.Start)
			}
			return (offset-1)/codonLength + 1, (offset - 1) % codonLength, i, true
		}
		cumulativeStart += exon.Length()
	}

	return 0, 0, -1, false
}

// CodingLength is the summed length of all exons
func CodingLength(ref *indexes.ReferenceSequence) int {
	total := 0
	for _, exon := range ref.ExonMap {
		total += exon.Length()
	}
	return total
}

// ProteinLength is the number of complete codons covered by the exon map,
// or the sequence length for references without one.
func ProteinLength(ref *indexes.ReferenceSequence) int {
	if !ref.IsProtein() || len(ref.ExonMap) == 0 {
		return len(ref.Sequence)
	}
	return CodingLength(ref) / codonLength
}

// AverageCoverage is the mean depth over the resolved nucleotides of the
// codon. Missing coverage rows count as zero; the divisor is the number of
// resolved positions, so truncated codons are not diluted.
func AverageCoverage(mapping CodonMapping, lookup DepthLookup) float64 {
	if len(mapping.NtPositions) == 0 || lookup == nil {
		return 0
	}

	total := 0.0
	for _, ntPosition := range mapping.NtPositions {
		if depth, found := lookup(ntPosition); found && depth > 0 {
			total += depth
		}
	}

	return total / float64(len(mapping.NtPositions))
}
