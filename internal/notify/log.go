package notify

import (
	"context"

	"github.com/rs/zerolog"
)

// LogNotifier stands in when no notification service is configured.
type LogNotifier struct {
	Logger zerolog.Logger
}

func (n LogNotifier) AssignmentChanged(ctx context.Context, ev Event) error {
	n.Logger.Info().
		Str("grievance_id", ev.GrievanceID).
		Str("collector_id", ev.CollectorID).
		Str("area_id", ev.AreaID).
		Str("reason", ev.Reason).
		Msg("assignment notification")
	return nil
}
