package glyph

import (
	"genotyper/api/models/constants"
)

const (
	NoCoverage constants.Glyph = ":"
	Match      constants.Glyph = "."
	Gap        constants.Glyph = "-"
	Ambiguous  constants.Glyph = "X"
)

// NoCall returns the glyph for a position that is covered but has no
// (passing) variant call.
func NoCall(insertIndex int) constants.Glyph {
	if insertIndex > 0 {
		return Gap
	}
	return Match
}

// Uncovered returns the glyph for a position without sufficient coverage.
func Uncovered(insertIndex int) constants.Glyph {
	if insertIndex > 0 {
		return Gap
	}
	return NoCoverage
}
