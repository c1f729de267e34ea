package ports

import (
	"context"

	"mincerdash/domain/artifacts"
	"mincerdash/domain/core"
)

// ExportLedger records completed downloads
type ExportLedger interface {
	Record(ctx context.Context, record artifacts.Record) error
	Get(ctx context.Context, id core.ExportID) (*artifacts.Record, error)
	Recent(ctx context.Context, limit int) ([]artifacts.Record, error)
}
