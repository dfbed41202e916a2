package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/binroute/backend/internal/models"
)

// WorkloadEntry is the engine's mutable per-collector snapshot for one
// reassignment pass. It is derived, never persisted.
type WorkloadEntry struct {
	CollectorID       string `json:"collector_id"`
	CollectorName     string `json:"collector_name"`
	CurrentGrievances int    `json:"current_grievances"`
	WorkloadScore     int    `json:"workload_score"`
	Capacity          int    `json:"capacity"`
	AvailableCapacity int    `json:"available_capacity"`
}

// ComputeWorkloads derives a workload entry for each collector from its
// in-progress grievances, ordered by available capacity descending.
//
// A failed lookup for one collector does not abort the batch: that collector
// is treated as fully loaded and the failure is returned as a warning.
func (e *Engine) ComputeWorkloads(ctx context.Context, collectors []models.Collector) ([]WorkloadEntry, []string) {
	entries := make([]WorkloadEntry, 0, len(collectors))
	var warnings []string

	for _, c := range collectors {
		entry := WorkloadEntry{
			CollectorID:   c.ID,
			CollectorName: c.Name,
			Capacity:      e.policy.Capacity,
		}

		active, err := e.grievances.FindByAssigneeAndStatus(ctx, c.ID, models.GrievanceInProgress)
		if err != nil {
			e.logger.Warn().Err(err).Str("collector_id", c.ID).Msg("workload lookup failed")
			warnings = append(warnings, fmt.Sprintf("workload lookup failed for collector %s: %v", c.ID, err))
			entry.CurrentGrievances = entry.Capacity
			entry.AvailableCapacity = 0
			entries = append(entries, entry)
			continue
		}

		score := 0
		for _, g := range active {
			score += g.Severity.Weight()
		}
		entry.CurrentGrievances = len(active)
		entry.WorkloadScore = score
		entry.AvailableCapacity = entry.Capacity - len(active)
		if entry.AvailableCapacity < 0 {
			entry.AvailableCapacity = 0
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].AvailableCapacity > entries[j].AvailableCapacity
	})
	return entries, warnings
}

func averageWorkload(entries []WorkloadEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0
	for _, en := range entries {
		sum += en.WorkloadScore
	}
	return float64(sum) / float64(len(entries))
}

func workloadVariance(entries []WorkloadEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	avg := averageWorkload(entries)
	acc := 0.0
	for _, en := range entries {
		d := float64(en.WorkloadScore) - avg
		acc += d * d
	}
	return acc / float64(len(entries))
}
