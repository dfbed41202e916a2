package service

import (
	"context"

	"github.com/binroute/backend/internal/models"
)

// CollectorRepository is the narrow store surface the engine needs for
// collector lookups. The concrete implementation lives in internal/db.
type CollectorRepository interface {
	FindByAreaAndStatus(ctx context.Context, areaID, status string) ([]models.Collector, error)
	Save(ctx context.Context, c models.Collector) error
}

// GrievanceRepository is the narrow store surface the engine needs for
// grievance reads, single-record writes and audit-note appends.
type GrievanceRepository interface {
	FindByAreaAndStatuses(ctx context.Context, areaID string, statuses []string) ([]models.Grievance, error)
	FindByAssigneeAndStatus(ctx context.Context, collectorID, status string) ([]models.Grievance, error)
	Get(ctx context.Context, id string) (models.Grievance, error)
	Save(ctx context.Context, g models.Grievance) error
	AppendNote(ctx context.Context, n models.GrievanceNote) error
}
