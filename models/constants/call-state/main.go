package callState

import (
	"genotyper/api/models/constants"
)

const (
	NoCoverage     constants.CallState = "NoCoverage"
	NoVariant      constants.CallState = "NoVariant"
	BelowThreshold constants.CallState = "BelowThreshold"
	Called         constants.CallState = "Called"
)
