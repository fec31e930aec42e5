package constants

/*
	Defines a set of base level
	constants and enums to be used
	throughout the genotyper and its
	associated services.
*/
type CallState string
type DiagnosticKind string
type FeatureCategory string
type ReferenceKind string
type Glyph string
