package artifacts

import (
	"fmt"

	"mincerdash/domain/core"
)

// ExportEncodingError reports that an artifact could not be serialized.
type ExportEncodingError struct {
	Kind  core.ArtifactKind
	Cause error
}

// EncodingFailed wraps cause as an ExportEncodingError for kind
func EncodingFailed(kind core.ArtifactKind, cause error) error {
	return &ExportEncodingError{Kind: kind, Cause: cause}
}

func (e *ExportEncodingError) Error() string {
	return fmt.Sprintf("%v: %s: %v", core.ErrExportEncoding, e.Kind, e.Cause)
}

func (e *ExportEncodingError) Unwrap() []error {
	return []error{core.ErrExportEncoding, e.Cause}
}
