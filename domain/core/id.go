package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to v4 if v7 fails
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// ExportID identifies a single download of a report or workbook.
type ExportID ID

// NewExportID creates a time-ordered export identifier
func NewExportID() ExportID { return ExportID(NewID()) }

func (id ExportID) String() string { return ID(id).String() }

// ParseExportID parses a string into ExportID
func ParseExportID(s string) (ExportID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("export ID cannot be empty")
	}
	if _, err := uuid.Parse(s); err != nil {
		return "", fmt.Errorf("invalid export ID %q: %w", s, err)
	}
	return ExportID(s), nil
}

// ArtifactKind defines the kinds of exported artifacts
type ArtifactKind string

const (
	ArtifactReport   ArtifactKind = "report"
	ArtifactWorkbook ArtifactKind = "workbook"
)
