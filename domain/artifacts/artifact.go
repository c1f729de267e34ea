package artifacts

import (
	"fmt"
	"strings"
	"time"

	"mincerdash/domain/core"
	"mincerdash/domain/wage"
)

// MIME types of downloadable artifacts
const (
	MIMEText = "text/plain; charset=utf-8"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// FilenameTimeLayout is the YYYYMMDDHHMMSS suffix of export filenames
const FilenameTimeLayout = "20060102150405"

// Artifact is an export held in memory until it is handed to the caller.
type Artifact struct {
	ID       core.ExportID
	Kind     core.ArtifactKind
	Filename string
	MIMEType string
	Data     []byte
}

// Filename builds "<name>_<YYYYMMDDHHMMSS>.<ext>"
func Filename(name string, at time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", name, at.Format(FilenameTimeLayout), ext)
}

// Record is one ledger entry describing a completed export
type Record struct {
	ID           core.ExportID     `json:"id" db:"id"`
	Kind         core.ArtifactKind `json:"kind" db:"kind"`
	Filename     string            `json:"filename" db:"filename"`
	Genders      string            `json:"genders" db:"genders"`
	EducationMin int               `json:"education_min" db:"education_min"`
	EducationMax int               `json:"education_max" db:"education_max"`
	SampleSize   int               `json:"sample_size" db:"sample_size"`
	Robust       bool              `json:"robust" db:"robust"`
	Seed         int64             `json:"seed" db:"seed"`
	SizeBytes    int               `json:"size_bytes" db:"size_bytes"`
	CreatedAt    time.Time         `json:"created_at" db:"created_at"`
}

// NewRecord describes artifact a built from the given criteria and sample
func NewRecord(a *Artifact, c wage.FilterCriteria, sampleSize int, robust bool, seed int64, at time.Time) Record {
	return Record{
		ID:           a.ID,
		Kind:         a.Kind,
		Filename:     a.Filename,
		Genders:      strings.Join(c.GenderLabels(), ","),
		EducationMin: c.EducationMin,
		EducationMax: c.EducationMax,
		SampleSize:   sampleSize,
		Robust:       robust,
		Seed:         seed,
		SizeBytes:    len(a.Data),
		CreatedAt:    at.UTC(),
	}
}

// NewReport wraps report text as a downloadable .txt artifact
func NewReport(name string, at time.Time, text string) *Artifact {
	return newArtifact(core.ArtifactReport, name, at, []byte(text))
}

// NewWorkbook wraps xlsx bytes as a downloadable artifact
func NewWorkbook(name string, at time.Time, data []byte) *Artifact {
	return newArtifact(core.ArtifactWorkbook, name, at, data)
}
