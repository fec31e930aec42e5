package dtos

import (
	"genotyper/api/models/constants"
	"genotyper/api/models/constants/diagnostic"
	"time"
)

// -- general

type GeneralErrorResponseDto struct {
	Code      int            `json:"code"`
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Errors    []GeneralError `json:"errors"`
}
type GeneralError struct {
	Message string `json:"message"`
}

// -- alignment

type Cell struct {
	Position    int                 `json:"position"`
	InsertIndex int                 `json:"insertIndex"`
	Glyph       constants.Glyph     `json:"glyph"`
	State       constants.CallState `json:"state"`
	Color       string              `json:"color,omitempty"`
	Tooltip     string              `json:"tooltip,omitempty"`
	Coverage    float64             `json:"coverage"`
	Frameshift  bool                `json:"frameshift,omitempty"`
}

type AlignmentRow struct {
	AnalysisId      string                  `json:"analysisId,omitempty"`
	Label           string                  `json:"label"`
	Cells           []Cell                  `json:"cells"`
	NonCoveredCount int                     `json:"nonCoveredCount"`
	Suppressed      bool                    `json:"suppressed,omitempty"`
	Diagnostics     []diagnostic.Diagnostic `json:"diagnostics,omitempty"`
}

type ReferenceAlignment struct {
	ReferenceId   string         `json:"referenceId"`
	ReferenceName string         `json:"referenceName"`
	Start         int            `json:"start"`
	Stop          int            `json:"stop"`
	Reference     AlignmentRow   `json:"reference"`
	Samples       []AlignmentRow `json:"samples"`
	Tracks        []TrackRow     `json:"tracks"`
}

type TrackSpan struct {
	Start   int    `json:"start"`
	Stop    int    `json:"stop"`
	Label   string `json:"label"`
	Color   string `json:"color"`
	Tooltip string `json:"tooltip"`
}

type TrackRow struct {
	Index int         `json:"index"`
	Spans []TrackSpan `json:"spans"`
}

type AlignmentResponseDto struct {
	Status      int                     `json:"status"`
	Message     string                  `json:"message"`
	RequestId   string                  `json:"requestId"`
	Alignments  []ReferenceAlignment    `json:"alignments"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics,omitempty"`
}

type FeatureTracksResponseDto struct {
	Status  int                   `json:"status"`
	Message string                `json:"message"`
	Results map[string][]TrackRow `json:"results"` // referenceId -> tracks
}

type CodonMappingResponseDto struct {
	ReferenceId      string `json:"referenceId"`
	Position         int    `json:"position"`
	NtReferenceId    string `json:"ntReferenceId"`
	NtPositions      []int  `json:"ntPositions"`
	ExonsTouched     []int  `json:"exonsTouched"`
	IsComplete       bool   `json:"isComplete"`
	ReferenceResidue string `json:"referenceResidue"`
}

// -- haplotypes

type HaplotypeAssignment struct {
	Name           string   `json:"name"`
	MatchedMarkers []string `json:"matchedMarkers"`
	TotalMarkers   int      `json:"totalMarkers"`
	MatchFraction  float64  `json:"matchFraction"`
}

type HaplotypeCallResult struct {
	AnalysisId       string               `json:"analysisId"`
	Locus            string               `json:"locus"`
	Haplotype1       *HaplotypeAssignment `json:"haplotype1"`
	Haplotype2       *HaplotypeAssignment `json:"haplotype2"`
	MarkersExplained int                  `json:"markersExplained"`
	TotalMatches     int                  `json:"totalMatches"`
	TotalPctPresent  float64              `json:"totalPctPresent"`
	TotalObservedPct float64              `json:"totalObservedPct"`
	Comments         []string             `json:"comments"`
}

func (r HaplotypeCallResult) IsNoMatch() bool {
	return r.Haplotype1 == nil && r.Haplotype2 == nil
}

type HaplotypeResponseDto struct {
	Status      int                     `json:"status"`
	Message     string                  `json:"message"`
	RequestId   string                  `json:"requestId"`
	Count       int                     `json:"count"`
	Results     []HaplotypeCallResult   `json:"results"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics,omitempty"`
}

type PublishRow struct {
	AnalysisId      string  `json:"analysisId"`
	Locus           string  `json:"locus"`
	HaplotypeName   string  `json:"haplotypeName"`
	MatchedFraction float64 `json:"matchedFraction"`
	Comment         string  `json:"comment"`
}

type PublishResponseDto struct {
	Status    int          `json:"status"`
	Message   string       `json:"message"`
	RequestId string       `json:"requestId"`
	Results   []PublishRow `json:"results"`
}
