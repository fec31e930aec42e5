package indexes

import (
	"fmt"
	"genotyper/api/models/constants"
	rk "genotyper/api/models/constants/reference-kind"
	"strings"
)

// -- references

type Exon struct {
	Start int `json:"start" mapstructure:"start"`
	Stop  int `json:"stop" mapstructure:"stop"`
}

func (e Exon) Length() int {
	if e.Stop < e.Start {
		return 0
	}
	return e.Stop - e.Start + 1
}

type ReferenceSequence struct {
	Id            string                  `json:"id" mapstructure:"id"`
	Name          string                  `json:"name" mapstructure:"name"`
	Kind          constants.ReferenceKind `json:"kind" mapstructure:"kind"`
	NtReferenceId string                  `json:"ntReferenceId" mapstructure:"ntReferenceId"`
	ExonMap       []Exon                  `json:"exonMap" mapstructure:"exonMap"`
	Sequence      string                  `json:"sequence" mapstructure:"sequence"`
	IsComplement  bool                    `json:"isComplement" mapstructure:"isComplement"`
}

func (r *ReferenceSequence) IsProtein() bool {
	return r.Kind != rk.Nucleotide
}

// CoverageReferenceId is the reference whose coverage rows describe this
// sequence: the parent nucleotide sequence for proteins, itself otherwise.
func (r *ReferenceSequence) CoverageReferenceId() string {
	if r.IsProtein() && r.NtReferenceId != "" {
		return r.NtReferenceId
	}
	return r.Id
}

// ResidueAt returns the 1-based residue, or "" when out of range
func (r *ReferenceSequence) ResidueAt(position int) string {
	if position < 1 || position > len(r.Sequence) {
		return ""
	}
	return string(r.Sequence[position-1])
}

// -- positions

type GenomicPosition struct {
	ReferenceId string `json:"referenceId"`
	Position    int    `json:"position"`
	InsertIndex int    `json:"insertIndex"`
}

func (p GenomicPosition) Less(other GenomicPosition) bool {
	if p.ReferenceId != other.ReferenceId {
		return p.ReferenceId < other.ReferenceId
	}
	if p.Position != other.Position {
		return p.Position < other.Position
	}
	return p.InsertIndex < other.InsertIndex
}

func (p GenomicPosition) String() string {
	if p.InsertIndex > 0 {
		return fmt.Sprintf("%s:%d.%d", p.ReferenceId, p.Position, p.InsertIndex)
	}
	return fmt.Sprintf("%s:%d", p.ReferenceId, p.Position)
}

// -- per-sample records

type CoverageRecord struct {
	AnalysisId    string  `json:"analysisId" mapstructure:"analysisId"`
	ReferenceId   string  `json:"referenceId" mapstructure:"referenceId"`
	Position      int     `json:"position" mapstructure:"position"`
	InsertIndex   int     `json:"insertIndex" mapstructure:"insertIndex"`
	AdjustedDepth float64 `json:"adjustedDepth" mapstructure:"adjustedDepth"`
}

func (c CoverageRecord) Key() GenomicPosition {
	return GenomicPosition{ReferenceId: c.ReferenceId, Position: c.Position, InsertIndex: c.InsertIndex}
}

type VariantRecord struct {
	AnalysisId         string         `json:"analysisId" mapstructure:"analysisId"`
	ReferenceId        string         `json:"referenceId" mapstructure:"referenceId"`
	Position           int            `json:"position" mapstructure:"position"`
	InsertIndex        int            `json:"insertIndex" mapstructure:"insertIndex"`
	RefResidue         string         `json:"refResidue" mapstructure:"refResidue"`
	ObservedResidues   []string       `json:"observedResidues" mapstructure:"observedResidues"`
	ReadCounts         map[string]int `json:"readCounts" mapstructure:"readCounts"`
	Percent            float64        `json:"percent" mapstructure:"percent"`
	IndelFraction      float64        `json:"indelFraction" mapstructure:"indelFraction"`
	SynonymousFraction float64        `json:"synonymousFraction" mapstructure:"synonymousFraction"`
}

func (v VariantRecord) Key() GenomicPosition {
	return GenomicPosition{ReferenceId: v.ReferenceId, Position: v.Position, InsertIndex: v.InsertIndex}
}

// TotalReads is the number of reads across all residues, reference included
func (v VariantRecord) TotalReads() int {
	total := 0
	for _, count := range v.ReadCounts {
		total += count
	}
	return total
}

// VariantReads is the number of reads supporting a residue other than the reference
func (v VariantRecord) VariantReads() int {
	total := 0
	for residue, count := range v.ReadCounts {
		if residue == "" || strings.EqualFold(residue, v.RefResidue) {
			continue
		}
		total += count
	}
	return total
}

// -- annotations

type Feature struct {
	ReferenceId string `json:"referenceId" mapstructure:"referenceId"`
	Name        string `json:"name" mapstructure:"name"`
	Category    string `json:"category" mapstructure:"category"`
	Start       int    `json:"start" mapstructure:"start"`
	Stop        int    `json:"stop" mapstructure:"stop"`
	Description string `json:"description" mapstructure:"description"`
}

// -- haplotypes & lineages

type LineageObservation struct {
	AnalysisId     string  `json:"analysisId" mapstructure:"analysisId"`
	Locus          string  `json:"locus" mapstructure:"locus"`
	LineageSetKey  string  `json:"lineageSetKey" mapstructure:"lineageSetKey"`
	TotalReads     int     `json:"totalReads" mapstructure:"totalReads"`
	PercentOfLocus float64 `json:"percentOfLocus" mapstructure:"percentOfLocus"`
}

type HaplotypeRow struct {
	HaplotypeName string `json:"haplotypeName" mapstructure:"haplotypeName"`
	Locus         string `json:"locus" mapstructure:"locus"`
	MarkerName    string `json:"markerName" mapstructure:"markerName"`
	IsRequired    bool   `json:"isRequired" mapstructure:"isRequired"`
}

type HaplotypeMarker struct {
	Name       string `json:"name"`
	IsRequired bool   `json:"isRequired"`
}

type HaplotypeDefinition struct {
	Name    string            `json:"name"`
	Locus   string            `json:"locus"`
	Markers []HaplotypeMarker `json:"markers"`
}

// -- index mappings, used when the indices are provisioned

var MAPPING_FIELDS_KEYWORD_IG256 = map[string]interface{}{
	"keyword": map[string]interface{}{
		"type":         "keyword",
		"ignore_above": 256,
	},
}
var MAPPING_TEXT = map[string]interface{}{"type": "text", "fields": MAPPING_FIELDS_KEYWORD_IG256}
var MAPPING_KEYWORD = map[string]interface{}{"type": "keyword"}
var MAPPING_LONG = map[string]interface{}{"type": "long"}
var MAPPING_FLOAT64 = map[string]interface{}{"type": "double"}
var MAPPING_BOOL = map[string]interface{}{"type": "boolean"}

var COVERAGE_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"analysisId":    MAPPING_KEYWORD,
		"referenceId":   MAPPING_KEYWORD,
		"position":      MAPPING_LONG,
		"insertIndex":   MAPPING_LONG,
		"adjustedDepth": MAPPING_FLOAT64,
	},
}

var VARIANT_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"analysisId":         MAPPING_KEYWORD,
		"referenceId":        MAPPING_KEYWORD,
		"position":           MAPPING_LONG,
		"insertIndex":        MAPPING_LONG,
		"refResidue":         MAPPING_KEYWORD,
		"observedResidues":   MAPPING_KEYWORD,
		"readCounts":         map[string]interface{}{"type": "object", "dynamic": true},
		"percent":            MAPPING_FLOAT64,
		"indelFraction":      MAPPING_FLOAT64,
		"synonymousFraction": MAPPING_FLOAT64,
	},
}

var LINEAGE_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"analysisId":     MAPPING_KEYWORD,
		"locus":          MAPPING_KEYWORD,
		"lineageSetKey":  MAPPING_TEXT,
		"totalReads":     MAPPING_LONG,
		"percentOfLocus": MAPPING_FLOAT64,
	},
}

var HAPLOTYPE_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"haplotypeName": MAPPING_KEYWORD,
		"locus":         MAPPING_KEYWORD,
		"markerName":    MAPPING_KEYWORD,
		"isRequired":    MAPPING_BOOL,
	},
}

var REFERENCE_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"id":            MAPPING_KEYWORD,
		"name":          MAPPING_TEXT,
		"kind":          MAPPING_KEYWORD,
		"ntReferenceId": MAPPING_KEYWORD,
		"exonMap": map[string]interface{}{
			"properties": map[string]interface{}{
				"start": MAPPING_LONG,
				"stop":  MAPPING_LONG,
			},
		},
		"sequence":     map[string]interface{}{"type": "keyword", "index": false},
		"isComplement": MAPPING_BOOL,
	},
}

var FEATURE_INDEX_MAPPING = map[string]interface{}{
	"properties": map[string]interface{}{
		"referenceId": MAPPING_KEYWORD,
		"name":        MAPPING_TEXT,
		"category":    MAPPING_KEYWORD,
		"start":       MAPPING_LONG,
		"stop":        MAPPING_LONG,
		"description": MAPPING_TEXT,
	},
}
