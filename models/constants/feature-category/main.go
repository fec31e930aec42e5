package featureCategory

import (
	"genotyper/api/models/constants"
	"strings"
)

const (
	Epitope        constants.FeatureCategory = "Epitope"
	Domain         constants.FeatureCategory = "Domain"
	DrugResistance constants.FeatureCategory = "Drug Resistance"
	Glycosylation  constants.FeatureCategory = "Glycosylation"
	Region         constants.FeatureCategory = "Region"
	Other          constants.FeatureCategory = "Other"
)

const DefaultColor = "#888888"

var categoryColors = map[constants.FeatureCategory]string{
	Epitope:        "#3366CC",
	Domain:         "#109618",
	DrugResistance: "#DC3912",
	Glycosylation:  "#990099",
	Region:         "#FF9900",
	Other:          DefaultColor,
}

func CastToFeatureCategory(text string) constants.FeatureCategory {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "epitope":
		return Epitope
	case "domain":
		return Domain
	case "drug resistance", "drugresistance", "drug_resistance":
		return DrugResistance
	case "glycosylation":
		return Glycosylation
	case "region":
		return Region
	default:
		return Other
	}
}

// ColorFor returns the display color of a raw category string
func ColorFor(text string) string {
	if color, ok := categoryColors[CastToFeatureCategory(text)]; ok {
		return color
	}
	return DefaultColor
}
