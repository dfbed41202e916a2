package service

import (
	"context"
	"sort"

	"github.com/binroute/backend/internal/models"
)

// Options steers one reassignment pass.
type Options struct {
	// Urgent restricts the pass to high-severity, escalated or unassigned
	// grievances and switches selection to minimum-workload picks.
	Urgent bool
	// TriggeringGrievanceID is always included in an urgent pass even when
	// it does not match the urgent restriction.
	TriggeringGrievanceID string
	// ExcludeCollectorID removes one collector from the candidate pool,
	// e.g. the one a grievance is being moved away from.
	ExcludeCollectorID string
}

// EligibleCollectors returns the available collectors servicing the area,
// minus the excluded one. An empty result is an expected outcome, not an error.
func (e *Engine) EligibleCollectors(ctx context.Context, areaID, excludeID string) ([]models.Collector, error) {
	collectors, err := e.collectors.FindByAreaAndStatus(ctx, areaID, models.CollectorAvailable)
	if err != nil {
		return nil, err
	}
	return excludeCollector(collectors, excludeID), nil
}

// EligibleGrievances returns the area's open/in-progress grievances in
// processing order: priority score descending, oldest first on ties. The
// ordering fixes the orchestrator's loop order and must stay deterministic.
func (e *Engine) EligibleGrievances(ctx context.Context, areaID string, opts Options) ([]models.Grievance, error) {
	grievances, err := e.grievances.FindByAreaAndStatuses(ctx, areaID, []string{models.GrievanceOpen, models.GrievanceInProgress})
	if err != nil {
		return nil, err
	}
	if opts.Urgent {
		grievances = filterUrgent(grievances, opts.TriggeringGrievanceID)
	}
	sortByProcessingOrder(grievances)
	return grievances, nil
}

func excludeCollector(collectors []models.Collector, excludeID string) []models.Collector {
	if excludeID == "" {
		return collectors
	}
	out := make([]models.Collector, 0, len(collectors))
	for _, c := range collectors {
		if c.ID != excludeID {
			out = append(out, c)
		}
	}
	return out
}

// filterUrgent keeps grievances that are high severity, escalated or
// unassigned. The triggering grievance is unioned in regardless.
func filterUrgent(grievances []models.Grievance, triggeringID string) []models.Grievance {
	out := make([]models.Grievance, 0, len(grievances))
	for _, g := range grievances {
		if g.ID == triggeringID && triggeringID != "" {
			out = append(out, g)
			continue
		}
		if g.Severity == models.SeverityCritical || g.Severity == models.SeverityHigh || g.IsEscalated || g.AssignedTo == nil {
			out = append(out, g)
		}
	}
	return out
}

func sortByProcessingOrder(grievances []models.Grievance) {
	sort.SliceStable(grievances, func(i, j int) bool {
		if grievances[i].PriorityScore != grievances[j].PriorityScore {
			return grievances[i].PriorityScore > grievances[j].PriorityScore
		}
		return grievances[i].CreatedAt.Before(grievances[j].CreatedAt)
	})
}
