package notify

import (
	"context"
	"time"
)

// Event describes one grievance assignment change pushed to the external
// notification service. The engine never sees this package; handlers fire
// events after a reassignment run completes.
type Event struct {
	GrievanceID   string    `json:"grievance_id"`
	CollectorID   string    `json:"collector_id"`
	CollectorName string    `json:"collector_name"`
	AreaID        string    `json:"area_id"`
	Reason        string    `json:"reason"`
	OccurredAt    time.Time `json:"occurred_at"`
}

type Notifier interface {
	AssignmentChanged(ctx context.Context, ev Event) error
}
