package core

import (
	"errors"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound = errors.New("resource not found")

	// Pipeline errors
	ErrInvalidCriteria  = errors.New("invalid filter criteria")
	ErrInsufficientData = errors.New("insufficient data for analysis")
	ErrExportEncoding   = errors.New("export encoding failed")
)

// IsNotFoundError reports whether err is a not-found error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInsufficientData reports whether the regression could not be fitted
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

// IsExportEncoding reports whether an artifact failed to serialize
func IsExportEncoding(err error) bool {
	return errors.Is(err, ErrExportEncoding)
}
