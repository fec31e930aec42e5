package diagnostic

import (
	"fmt"
	"genotyper/api/models/constants"
)

const (
	MissingReferenceData            constants.DiagnosticKind = "MissingReferenceData"
	InconsistentHaplotypeDefinition constants.DiagnosticKind = "InconsistentHaplotypeDefinition"
	AmbiguousLineageKey             constants.DiagnosticKind = "AmbiguousLineageKey"
	ThresholdMisconfiguration       constants.DiagnosticKind = "ThresholdMisconfiguration"
)

type Diagnostic struct {
	Kind    constants.DiagnosticKind `json:"kind"`
	Message string                   `json:"message"`
}

func New(kind constants.DiagnosticKind, format string, a ...interface{}) Diagnostic {
	return Diagnostic{
		Kind:    kind,
		Message: fmt.Sprintf(format, a...),
	}
}

// String renders the diagnostic the way it is attached to free-text comments
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s", d.Kind, d.Message)
}
