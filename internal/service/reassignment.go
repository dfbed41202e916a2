package service

import (
	"context"
	"fmt"
	"time"

	"github.com/binroute/backend/internal/models"
)

type AssignmentResult struct {
	GrievanceID   string          `json:"grievance_id"`
	CollectorID   string          `json:"collector_id"`
	CollectorName string          `json:"collector_name"`
	Severity      models.Severity `json:"severity"`
	Reason        string          `json:"reason"`
}

type OptimizationMetrics struct {
	TotalGrievances     int     `json:"total_grievances"`
	AvailableCollectors int     `json:"available_collectors"`
	AvgWorkloadBefore   float64 `json:"avg_workload_before"`
	AvgWorkloadAfter    float64 `json:"avg_workload_after"`
}

type ReassignmentResult struct {
	Success         bool                 `json:"success"`
	Message         string               `json:"message"`
	ReassignedCount int                  `json:"reassigned_count"`
	Assignments     []AssignmentResult   `json:"assignments,omitempty"`
	Metrics         *OptimizationMetrics `json:"optimization_metrics,omitempty"`
	Warnings        []string             `json:"warnings,omitempty"`
}

// TriggerReevaluation runs one reassignment pass over the area: it filters
// candidate collectors and grievances, snapshots collector workloads, then
// walks the grievances in priority order assigning each to the selected
// collector and updating the snapshot in place so later picks see earlier
// picks' effects.
//
// Calls for the same area are serialized; calls for distinct areas run
// concurrently. The pass is deliberately not transactional: a persistence
// failure for one grievance is logged and skipped while the snapshot keeps
// the optimistic update, so the remaining decisions are unaffected.
func (e *Engine) TriggerReevaluation(ctx context.Context, areaID string, opts Options) (ReassignmentResult, error) {
	lock := e.areaLock(areaID)
	lock.Lock()
	defer lock.Unlock()

	collectors, err := e.EligibleCollectors(ctx, areaID, opts.ExcludeCollectorID)
	if err != nil {
		return ReassignmentResult{Message: "failed to load collectors"}, err
	}
	if len(collectors) == 0 {
		return ReassignmentResult{Message: "no available collectors"}, nil
	}

	grievances, err := e.EligibleGrievances(ctx, areaID, opts)
	if err != nil {
		return ReassignmentResult{Message: "failed to load grievances"}, err
	}
	if len(grievances) == 0 {
		return ReassignmentResult{Success: true, Message: "nothing to reassign"}, nil
	}

	entries, warnings := e.ComputeWorkloads(ctx, collectors)
	avgBefore := averageWorkload(entries)

	result := ReassignmentResult{Success: true, Warnings: warnings}
	for _, g := range grievances {
		if ctx.Err() != nil {
			// Cancellation stops further picks; committed assignments stay.
			e.logger.Warn().Str("area_id", areaID).Msg("reassignment pass interrupted")
			break
		}

		idx := SelectCollector(g, entries, opts.Urgent)
		if idx < 0 {
			// Pool exhausted for this grievance; keep scanning the rest.
			continue
		}
		chosen := entries[idx]

		reason := ReasonLoadBalancing
		if opts.Urgent || g.Severity == models.SeverityCritical {
			reason = ReasonUrgent
		}

		entries[idx].CurrentGrievances++
		entries[idx].AvailableCapacity--
		entries[idx].WorkloadScore += g.Severity.Weight()

		if err := e.applyAssignment(ctx, g, chosen, reason); err != nil {
			e.logger.Error().Err(err).Str("grievance_id", g.ID).Str("collector_id", chosen.CollectorID).Msg("assignment write failed")
			continue
		}

		result.Assignments = append(result.Assignments, AssignmentResult{
			GrievanceID:   g.ID,
			CollectorID:   chosen.CollectorID,
			CollectorName: chosen.CollectorName,
			Severity:      g.Severity,
			Reason:        reason,
		})
		result.ReassignedCount++
	}

	result.Metrics = &OptimizationMetrics{
		TotalGrievances:     len(grievances),
		AvailableCollectors: len(collectors),
		AvgWorkloadBefore:   avgBefore,
		AvgWorkloadAfter:    averageWorkload(entries),
	}
	result.Message = fmt.Sprintf("reassigned %d of %d grievances", result.ReassignedCount, len(grievances))
	return result, nil
}

// applyAssignment persists one assignment: the single-record grievance update
// plus the audit note. Each write is atomic at the store level.
func (e *Engine) applyAssignment(ctx context.Context, g models.Grievance, chosen WorkloadEntry, reason string) error {
	g.AssignedTo = &chosen.CollectorID
	if g.Status == models.GrievanceOpen {
		g.Status = models.GrievanceInProgress
	}
	if err := e.grievances.Save(ctx, g); err != nil {
		return err
	}
	return e.grievances.AppendNote(ctx, models.GrievanceNote{
		GrievanceID: g.ID,
		Content:     fmt.Sprintf("Assigned to %s (%s)", chosen.CollectorName, reason),
		Author:      "system",
		AuthorRole:  "system",
		NoteType:    "assignment",
		CreatedAt:   time.Now().UTC(),
	})
}
