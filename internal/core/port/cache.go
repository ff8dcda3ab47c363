package port

import (
	"context"

	"github.com/bowenxiang/blockorder-bsc-service/internal/core/entity"
)

// ReportCache stores completed ordering reports keyed by block number.
// GetReport returns (nil, nil) on a miss.
type ReportCache interface {
	GetReport(ctx context.Context, number uint64) (*entity.OrderingReport, error)
	PutReport(ctx context.Context, report *entity.OrderingReport) error
}
