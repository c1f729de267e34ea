package artifacts

import (
	"bytes"
	"errors"
	"fmt"
	"time"
	"unicode/utf8"

	"mincerdash/domain/core"
)

// Schema defines how an artifact kind is named and checked before download
type Schema struct {
	Kind         core.ArtifactKind
	Extension    string
	MIMEType     string
	ValidateFunc func(*Artifact) error
}

// xlsx files are zip archives
var zipMagic = []byte("PK\x03\x04")

// Registry maps artifact kinds to their schemas
var Registry = map[core.ArtifactKind]Schema{
	core.ArtifactReport: {
		Kind:         core.ArtifactReport,
		Extension:    "txt",
		MIMEType:     MIMEText,
		ValidateFunc: validateReport,
	},
	core.ArtifactWorkbook: {
		Kind:         core.ArtifactWorkbook,
		Extension:    "xlsx",
		MIMEType:     MIMEXLSX,
		ValidateFunc: validateWorkbook,
	},
}

// GetSchema returns the schema for an artifact kind
func GetSchema(kind core.ArtifactKind) (Schema, error) {
	schema, exists := Registry[kind]
	if !exists {
		return Schema{}, fmt.Errorf("unknown artifact kind: %s", kind)
	}
	return schema, nil
}

// Validate checks a against its schema. Failures are ExportEncodingErrors.
func Validate(a *Artifact) error {
	schema, err := GetSchema(a.Kind)
	if err != nil {
		return EncodingFailed(a.Kind, err)
	}
	if err := schema.ValidateFunc(a); err != nil {
		return EncodingFailed(a.Kind, err)
	}
	return nil
}

func validateReport(a *Artifact) error {
	if len(a.Data) == 0 {
		return errors.New("report is empty")
	}
	if !utf8.Valid(a.Data) {
		return errors.New("report is not valid UTF-8")
	}
	return nil
}

func validateWorkbook(a *Artifact) error {
	if !bytes.HasPrefix(a.Data, zipMagic) {
		return errors.New("workbook is not an xlsx archive")
	}
	return nil
}

func newArtifact(kind core.ArtifactKind, name string, at time.Time, data []byte) *Artifact {
	schema := Registry[kind]
	return &Artifact{
		ID:       core.NewExportID(),
		Kind:     kind,
		Filename: Filename(name, at, schema.Extension),
		MIMEType: schema.MIMEType,
		Data:     data,
	}
}
