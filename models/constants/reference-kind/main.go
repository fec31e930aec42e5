package referenceKind

import (
	"genotyper/api/models/constants"
	"strings"
)

const (
	Protein    constants.ReferenceKind = "protein"
	Nucleotide constants.ReferenceKind = "nucleotide"
)

func CastToReferenceKind(text string) constants.ReferenceKind {
	switch strings.ToLower(text) {
	case "nt", "dna", "nucleotide":
		return Nucleotide
	default:
		// exon maps are only meaningful for protein references,
		// which is the common case
		return Protein
	}
}
