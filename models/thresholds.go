package models

// Thresholds holds the caller-supplied filters for one engine invocation.
// A nil field means "not set"; each consumer documents its own fallback.
type Thresholds struct {
	MinCoverage            *float64 `json:"minCoverage,omitempty"`
	MinVariantPercent      *float64 `json:"minVariantPercent,omitempty"`
	MinVariantReadCount    *int     `json:"minVariantReadCount,omitempty"`
	MaxNonCoveredPositions *int     `json:"maxNonCoveredPositions,omitempty"`
	MinPctForHaplotype     *float64 `json:"minPctForHaplotype,omitempty"`
	MinPctExplained        *float64 `json:"minPctExplained,omitempty"`
	PctDifferentialFilter  *float64 `json:"pctDifferentialFilter,omitempty"`
}

const DefaultPctDifferentialFilter float64 = 10

// ThresholdsFromConfig converts the configured defaults; negative values
// are treated as unset.
func ThresholdsFromConfig(cfg *Config) Thresholds {
	t := Thresholds{}
	if cfg == nil {
		t.PctDifferentialFilter = FloatPtr(DefaultPctDifferentialFilter)
		return t
	}

	e := cfg.Engine
	t.MinCoverage = nonNegativeFloat(e.MinCoverage)
	t.MinVariantPercent = nonNegativeFloat(e.MinVariantPercent)
	t.MinVariantReadCount = nonNegativeInt(e.MinVariantReadCount)
	t.MaxNonCoveredPositions = nonNegativeInt(e.MaxNonCoveredPositions)
	t.MinPctForHaplotype = nonNegativeFloat(e.MinPctForHaplotype)
	t.MinPctExplained = nonNegativeFloat(e.MinPctExplained)
	t.PctDifferentialFilter = nonNegativeFloat(e.PctDifferentialFilter)
	return t
}

// Merge returns a copy of t where every unset field is taken from defaults.
func (t Thresholds) Merge(defaults Thresholds) Thresholds {
	out := t
	if out.MinCoverage == nil {
		out.MinCoverage = defaults.MinCoverage
	}
	if out.MinVariantPercent == nil {
		out.MinVariantPercent = defaults.MinVariantPercent
	}
	if out.MinVariantReadCount == nil {
		out.MinVariantReadCount = defaults.MinVariantReadCount
	}
	if out.MaxNonCoveredPositions == nil {
		out.MaxNonCoveredPositions = defaults.MaxNonCoveredPositions
	}
	if out.MinPctForHaplotype == nil {
		out.MinPctForHaplotype = defaults.MinPctForHaplotype
	}
	if out.MinPctExplained == nil {
		out.MinPctExplained = defaults.MinPctExplained
	}
	if out.PctDifferentialFilter == nil {
		out.PctDifferentialFilter = defaults.PctDifferentialFilter
	}
	return out
}

// -- resolution helpers

func (t Thresholds) MinCoverageOrDefault() float64 {
	if t.MinCoverage == nil {
		return 0
	}
	return *t.MinCoverage
}

func (t Thresholds) MinVariantPercentOrDefault() float64 {
	if t.MinVariantPercent == nil {
		return 0
	}
	return *t.MinVariantPercent
}

func (t Thresholds) MinVariantReadCountOrDefault() int {
	if t.MinVariantReadCount == nil {
		return 0
	}
	return *t.MinVariantReadCount
}

func FloatPtr(f float64) *float64 {
	return &f
}

func IntPtr(i int) *int {
	return &i
}

func nonNegativeFloat(f float64) *float64 {
	if f < 0 {
		return nil
	}
	return FloatPtr(f)
}

func nonNegativeInt(i int) *int {
	if i < 0 {
		return nil
	}
	return IntPtr(i)
}
