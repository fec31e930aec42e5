package tracks

import (
	"fmt"
	"sort"
	"strings"

	featureCategory "genotyper/api/models/constants/feature-category"
	"genotyper/api/models/dtos"
	"genotyper/api/models/indexes"
)

type (
	// TrackCell is one occupied position of a packed feature
	TrackCell struct {
		Position     int
		Value        string
		Label        string
		IsStart      bool
		IsStop       bool
		Tooltip      string
		Color        string
		FeatureIndex int
	}

	// Window is the closed interval a feature reserves on its track,
	// including one spacer column before it and room for its label.
	Window struct {
		Start int
		Stop  int
	}

	Track struct {
		Index    int
		Cells    map[int]TrackCell
		Reserved []Window
	}
)

func (w Window) Overlaps(other Window) bool {
	return w.Start <= other.Stop && w.Stop >= other.Start
}

// ReservedWindow is [start-1, start+max(length, len(name))-1]
func ReservedWindow(feature indexes.Feature) Window {
	effectiveLength := feature.Stop - feature.Start + 1
	if len(feature.Name) > effectiveLength {
		effectiveLength = len(feature.Name)
	}
	return Window{Start: feature.Start - 1, Stop: feature.Start + effectiveLength - 1}
}

func (t *Track) fits(w Window) bool {
	for _, reserved := range t.Reserved {
		if reserved.Overlaps(w) {
			return false
		}
	}
	return true
}

func (t *Track) place(featureIndex int, feature indexes.Feature) {
	t.Reserved = append(t.Reserved, ReservedWindow(feature))

	color := featureCategory.ColorFor(feature.Category)
	tooltip := Tooltip(feature)
	for position := feature.Start; position <= feature.Stop; position++ {
		offset := position - feature.Start
		value := ""
		if offset < len(feature.Name) {
			value = string(feature.Name[offset])
		}
		t.Cells[position] = TrackCell{
			Position:     position,
			Value:        value,
			Label:        feature.Name,
			IsStart:      position == feature.Start,
			IsStop:       position == feature.Stop,
			Tooltip:      tooltip,
			Color:        color,
			FeatureIndex: featureIndex,
		}
	}
}

// PackFeatures assigns every feature to the first track whose reserved
// windows it does not overlap, opening a new track when none fits.
// Features are visited by start position; equal starts keep input order.
// Visiting by start keeps the track count equal to the deepest overlap,
// which input order does not guarantee.
func PackFeatures(features []indexes.Feature) []*Track {
	order := make([]int, len(features))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return features[order[a]].Start < features[order[b]].Start
	})

	tracks := []*Track{}
	for _, featureIndex := range order {
		feature := features[featureIndex]
		window := ReservedWindow(feature)

		var target *Track
		for _, track := range tracks {
			if track.fits(window) {
				target = track
				break
			}
		}
		if target == nil {
			target = &Track{Index: len(tracks), Cells: map[int]TrackCell{}}
			tracks = append(tracks, target)
		}
		target.place(featureIndex, feature)
	}

	return tracks
}

func Tooltip(feature indexes.Feature) string {
	lines := []string{
		feature.Name,
		fmt.Sprintf("Category: %s", feature.Category),
		fmt.Sprintf("Start: %d", feature.Start),
		fmt.Sprintf("Stop: %d", feature.Stop),
	}
	if feature.Description != "" {
		lines = append(lines, feature.Description)
	}
	return strings.Join(lines, "\n")
}

// Spans merges the cells of each placed feature into one styled span,
// ordered by start position.
func (t *Track) Spans() []dtos.TrackSpan {
	positions := make([]int, 0, len(t.Cells))
	for position := range t.Cells {
		positions = append(positions, position)
	}
	sort.Ints(positions)

	spans := []dtos.TrackSpan{}
	for _, position := range positions {
		cell := t.Cells[position]
		if cell.IsStart {
			spans = append(spans, dtos.TrackSpan{
				Start:   position,
				Label:   cell.Label,
				Color:   cell.Color,
				Tooltip: cell.Tooltip,
			})
		}
		spans[len(spans)-1].Stop = position
	}
	return spans
}

// Rows renders packed tracks for transport
func Rows(tracks []*Track) []dtos.TrackRow {
	rows := make([]dtos.TrackRow, 0, len(tracks))
	for _, track := range tracks {
		rows = append(rows, dtos.TrackRow{Index: track.Index, Spans: track.Spans()})
	}
	return rows
}
