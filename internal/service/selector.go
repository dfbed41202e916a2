package service

import "github.com/binroute/backend/internal/models"

// SelectCollector picks the workload entry to receive one grievance, or -1
// when no entry has spare capacity. Selection only; the caller mutates.
//
// Urgent passes and Critical grievances go to the least-burdened collector
// (minimum workload score) for the fastest turnaround; routine grievances go
// to the collector with the most spare capacity so urgent headroom is
// preserved. Ties keep the first candidate seen, which makes the whole pass
// deterministic for a given snapshot.
func SelectCollector(g models.Grievance, entries []WorkloadEntry, urgent bool) int {
	best := -1
	for i, en := range entries {
		if en.AvailableCapacity <= 0 {
			continue
		}
		if best == -1 {
			best = i
			continue
		}
		if urgent || g.Severity == models.SeverityCritical {
			if en.WorkloadScore < entries[best].WorkloadScore {
				best = i
			}
		} else {
			if en.AvailableCapacity > entries[best].AvailableCapacity {
				best = i
			}
		}
	}
	return best
}
