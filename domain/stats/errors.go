package stats

import (
	"fmt"

	"mincerdash/domain/core"
)

// InsufficientDataError reports that OLS is underdetermined or singular for
// the current view.
type InsufficientDataError struct {
	Observations int
	Parameters   int
	Reason       string
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("%v: %s (n=%d, k=%d)", core.ErrInsufficientData, e.Reason, e.Observations, e.Parameters)
}

func (e *InsufficientDataError) Unwrap() error {
	return core.ErrInsufficientData
}
