package consensus

import (
	"fmt"
	"sort"
	"strings"

	"genotyper/api/models"
	"genotyper/api/models/constants"
	callState "genotyper/api/models/constants/call-state"
	"genotyper/api/models/constants/diagnostic"
	"genotyper/api/models/constants/glyph"
	"genotyper/api/models/dtos"
	"genotyper/api/models/indexes"
)

const (
	SynonymousCollapsePct = 95.0
	DominantAllelePct     = 85.0
	FrameshiftIndelRatio  = 0.3
)

type (
	// Call is the decided display of one sample at one position
	Call struct {
		Position    int
		InsertIndex int
		State       constants.CallState
		Glyph       constants.Glyph
		Coverage    float64
		Frameshift  bool
		Color       string
		Tooltip     string
	}

	Caller struct {
		Thresholds models.Thresholds
		Palette    Palette
	}
)

func NewCaller(thresholds models.Thresholds, palette Palette) *Caller {
	return &Caller{
		Thresholds: thresholds,
		Palette:    palette,
	}
}

func (c Call) Cell() dtos.Cell {
	return dtos.Cell{
		Position:    c.Position,
		InsertIndex: c.InsertIndex,
		Glyph:       c.Glyph,
		State:       c.State,
		Color:       c.Color,
		Tooltip:     c.Tooltip,
		Coverage:    c.Coverage,
		Frameshift:  c.Frameshift,
	}
}

// CallPosition walks the NoCoverage -> NoVariant -> BelowThreshold ->
// Called decision for one key. variant may be nil.
func (c *Caller) CallPosition(key indexes.GenomicPosition, coverage float64, variant *indexes.VariantRecord) Call {
	call := Call{
		Position:    key.Position,
		InsertIndex: key.InsertIndex,
		Coverage:    coverage,
	}
	label := positionLabel(key)

	if coverage <= 0 || coverage < c.Thresholds.MinCoverageOrDefault() {
		call.State = callState.NoCoverage
		call.Glyph = glyph.Uncovered(key.InsertIndex)
		call.Tooltip = fmt.Sprintf("%s\nNo coverage (%.1f)", label, coverage)
		return call
	}

	if variant == nil {
		call.State = callState.NoVariant
		call.Glyph = glyph.NoCall(key.InsertIndex)
		call.Tooltip = fmt.Sprintf("%s\nCoverage: %.1f", label, coverage)
		return call
	}

	if !c.passes(variant) {
		call.State = callState.BelowThreshold
		call.Glyph = glyph.NoCall(key.InsertIndex)
		call.Tooltip = fmt.Sprintf("%s\nCoverage: %.1f\nBelow threshold: %.1f%% of reads, %d reads",
			label, coverage, variant.Percent, variant.VariantReads())
		return call
	}

	residue, frameshift := DisplayResidue(*variant)
	call.State = callState.Called
	call.Glyph = constants.Glyph(residue)
	call.Frameshift = frameshift
	call.Color = c.Palette.ColorFor(residue, variant.RefResidue, frameshift, coverage)
	call.Tooltip = calledTooltip(label, coverage, *variant, frameshift)
	return call
}

func (c *Caller) passes(variant *indexes.VariantRecord) bool {
	if variant.Percent < c.Thresholds.MinVariantPercentOrDefault() {
		return false
	}
	if variant.VariantReads() < c.Thresholds.MinVariantReadCountOrDefault() {
		return false
	}
	return true
}

// DisplayResidue collapses a passing variant into the residue shown for it.
func DisplayResidue(variant indexes.VariantRecord) (residue string, frameshift bool) {
	if variant.SynonymousFraction > SynonymousCollapsePct {
		return variant.RefResidue, false
	}

	observed := nonReferenceResidues(variant)
	switch len(observed) {
	case 0:
		return variant.RefResidue, false
	case 1:
		return observed[0], false
	}

	// rank by read count, ties alphabetically
	sort.SliceStable(observed, func(i, j int) bool {
		ci, cj := variant.ReadCounts[observed[i]], variant.ReadCounts[observed[j]]
		if ci != cj {
			return ci > cj
		}
		return observed[i] < observed[j]
	})

	// reference reads do not dilute the dominant variant
	total := 0
	for _, residue := range observed {
		total += variant.ReadCounts[residue]
	}
	if total > 0 {
		topPct := 100 * float64(variant.ReadCounts[observed[0]]) / float64(total)
		if topPct > DominantAllelePct {
			return observed[0], false
		}
	}

	if variant.Percent > 0 && variant.IndelFraction/variant.Percent > FrameshiftIndelRatio {
		frameshift = true
	}
	return string(glyph.Ambiguous), frameshift
}

// nonReferenceResidues is the sorted set of distinct observed residues
// other than the reference; read-count keys count as observed.
func nonReferenceResidues(variant indexes.VariantRecord) []string {
	seen := map[string]bool{}
	for _, residue := range variant.ObservedResidues {
		seen[residue] = true
	}
	for residue := range variant.ReadCounts {
		seen[residue] = true
	}

	out := []string{}
	for residue := range seen {
		if residue == "" || strings.EqualFold(residue, variant.RefResidue) {
			continue
		}
		out = append(out, residue)
	}
	sort.Strings(out)
	return out
}

func positionLabel(key indexes.GenomicPosition) string {
	if key.InsertIndex > 0 {
		return fmt.Sprintf("Position %d.%d", key.Position, key.InsertIndex)
	}
	return fmt.Sprintf("Position %d", key.Position)
}

func calledTooltip(label string, coverage float64, variant indexes.VariantRecord, frameshift bool) string {
	residues := make([]string, 0, len(variant.ReadCounts))
	for residue := range variant.ReadCounts {
		residues = append(residues, residue)
	}
	sort.Strings(residues)

	counts := make([]string, 0, len(residues))
	for _, residue := range residues {
		counts = append(counts, fmt.Sprintf("%s (%d)", residue, variant.ReadCounts[residue]))
	}

	lines := []string{
		label,
		fmt.Sprintf("Coverage: %.1f", coverage),
		fmt.Sprintf("Reference: %s", variant.RefResidue),
		fmt.Sprintf("Observed: %s", strings.Join(counts, ", ")),
		fmt.Sprintf("Percent: %.1f", variant.Percent),
	}
	if frameshift {
		lines = append(lines, "Possible frameshift")
	}
	return strings.Join(lines, "\n")
}

// -- alignment

// BuildAlignment renders the reference row and one row per analysis over
// the snapshot's window. Columns are every primary position plus every
// observed insert, ordered by (position, insertIndex).
func (c *Caller) BuildAlignment(snapshot *Snapshot) dtos.ReferenceAlignment {
	ref := snapshot.Reference
	columns := snapshot.Columns()

	alignment := dtos.ReferenceAlignment{
		ReferenceId:   ref.Id,
		ReferenceName: ref.Name,
		Start:         snapshot.Start,
		Stop:          snapshot.Stop,
		Reference:     referenceRow(ref, columns),
		Samples:       []dtos.AlignmentRow{},
		Tracks:        []dtos.TrackRow{},
	}

	for _, analysisId := range snapshot.AnalysisIds {
		row := dtos.AlignmentRow{
			AnalysisId: analysisId,
			Label:      analysisId,
			Cells:      make([]dtos.Cell, 0, len(columns)),
		}

		for _, key := range columns {
			call := c.CallPosition(key, snapshot.CoverageAt(analysisId, key), snapshot.VariantAt(analysisId, key))
			if call.State == callState.NoCoverage && key.InsertIndex == 0 {
				row.NonCoveredCount++
			}
			row.Cells = append(row.Cells, call.Cell())
		}

		if limit := c.Thresholds.MaxNonCoveredPositions; limit != nil && row.NonCoveredCount > *limit {
			row.Suppressed = true
			row.Diagnostics = append(row.Diagnostics, diagnostic.New(diagnostic.MissingReferenceData,
				"%s has %d positions without coverage (max %d)", analysisId, row.NonCoveredCount, *limit))
		}

		alignment.Samples = append(alignment.Samples, row)
	}

	return alignment
}

func referenceRow(ref *indexes.ReferenceSequence, columns []indexes.GenomicPosition) dtos.AlignmentRow {
	row := dtos.AlignmentRow{
		Label: ref.Name,
		Cells: make([]dtos.Cell, 0, len(columns)),
	}
	if row.Label == "" {
		row.Label = ref.Id
	}

	for _, key := range columns {
		cell := dtos.Cell{Position: key.Position, InsertIndex: key.InsertIndex}
		residue := ref.ResidueAt(key.Position)
		switch {
		case key.InsertIndex > 0:
			cell.Glyph = glyph.Gap
			cell.State = callState.NoVariant
		case residue == "":
			cell.Glyph = glyph.NoCoverage
			cell.State = callState.NoCoverage
			row.NonCoveredCount++
		default:
			cell.Glyph = constants.Glyph(residue)
			cell.State = callState.Called
		}
		row.Cells = append(row.Cells, cell)
	}
	return row
}
