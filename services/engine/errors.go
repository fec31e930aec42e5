package engine

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoInputData marks requests for which an entire record set is absent
var ErrNoInputData = errors.New("no input data")

type NoInputDataError struct {
	RecordSet string
	Ids       []string
}

func (e *NoInputDataError) Error() string {
	if len(e.Ids) == 0 {
		return fmt.Sprintf("no %s found", e.RecordSet)
	}
	return fmt.Sprintf("no %s found for %v", e.RecordSet, e.Ids)
}

func (e *NoInputDataError) Is(target error) bool {
	return target == ErrNoInputData
}

func IsNoInputData(err error) bool {
	return errors.Is(err, ErrNoInputData)
}
