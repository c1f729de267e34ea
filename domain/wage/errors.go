package wage

import (
	"fmt"

	"mincerdash/domain/core"
)

// InvalidCriteriaError reports an inverted education range
type InvalidCriteriaError struct {
	Min int
	Max int
}

func (e *InvalidCriteriaError) Error() string {
	return fmt.Sprintf("%v: education minimum %d exceeds maximum %d", core.ErrInvalidCriteria, e.Min, e.Max)
}

func (e *InvalidCriteriaError) Unwrap() error {
	return core.ErrInvalidCriteria
}
