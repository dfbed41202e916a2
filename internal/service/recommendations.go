package service

import (
	"context"
	"fmt"

	"github.com/binroute/backend/internal/models"
)

type WorkloadMetrics struct {
	AverageWorkload  float64 `json:"average_workload"`
	WorkloadVariance float64 `json:"workload_variance"`
	IsBalanced       bool    `json:"is_balanced"`
}

type Recommendation struct {
	Type     string `json:"type"`
	Priority string `json:"priority"`
	Message  string `json:"message"`
}

type RecommendationReport struct {
	AreaID               string           `json:"area_id"`
	TotalCollectors      int              `json:"total_collectors"`
	TotalGrievances      int              `json:"total_grievances"`
	UnassignedGrievances int              `json:"unassigned_grievances"`
	CriticalGrievances   int              `json:"critical_grievances"`
	EscalatedGrievances  int              `json:"escalated_grievances"`
	WorkloadMetrics      WorkloadMetrics  `json:"workload_metrics"`
	Recommendations      []Recommendation `json:"recommendations"`
}

// GetOptimizationRecommendations analyzes the area's current state without
// mutating anything: unchanged underlying data yields identical output.
// It may observe transiently stale numbers while a reassignment pass is in
// flight; it takes no lock by design.
func (e *Engine) GetOptimizationRecommendations(ctx context.Context, areaID string) (RecommendationReport, error) {
	collectors, err := e.EligibleCollectors(ctx, areaID, "")
	if err != nil {
		return RecommendationReport{}, err
	}
	grievances, err := e.EligibleGrievances(ctx, areaID, Options{})
	if err != nil {
		return RecommendationReport{}, err
	}
	entries, _ := e.ComputeWorkloads(ctx, collectors)

	report := RecommendationReport{
		AreaID:          areaID,
		TotalCollectors: len(collectors),
		TotalGrievances: len(grievances),
		Recommendations: []Recommendation{},
	}

	urgentBacklog := 0
	for _, g := range grievances {
		if g.AssignedTo == nil {
			report.UnassignedGrievances++
		}
		if g.Severity == models.SeverityCritical {
			report.CriticalGrievances++
		}
		if g.IsEscalated {
			report.EscalatedGrievances++
		}
		if g.Severity == models.SeverityCritical || g.IsEscalated {
			urgentBacklog++
		}
	}

	variance := workloadVariance(entries)
	report.WorkloadMetrics = WorkloadMetrics{
		AverageWorkload:  averageWorkload(entries),
		WorkloadVariance: variance,
		IsBalanced:       variance < e.policy.VarianceThreshold,
	}

	if report.UnassignedGrievances > 0 {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Type:     "assignment",
			Priority: "high",
			Message:  fmt.Sprintf("%d grievances have no collector assigned", report.UnassignedGrievances),
		})
	}
	if min, max, ok := workloadSpread(entries); ok && max-min > e.policy.RebalanceGap {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Type:     "rebalance",
			Priority: "medium",
			Message:  fmt.Sprintf("workload spread of %d between busiest and idlest collector", max-min),
		})
	}
	for _, en := range entries {
		if en.AvailableCapacity <= 0 {
			report.Recommendations = append(report.Recommendations, Recommendation{
				Type:     "capacity",
				Priority: "high",
				Message:  "at least one collector has exhausted its capacity",
			})
			break
		}
	}
	if urgentBacklog > 0 {
		report.Recommendations = append(report.Recommendations, Recommendation{
			Type:     "urgent",
			Priority: "critical",
			Message:  fmt.Sprintf("%d critical or escalated grievances need an urgent pass", urgentBacklog),
		})
	}
	return report, nil
}

func workloadSpread(entries []WorkloadEntry) (min, max int, ok bool) {
	if len(entries) == 0 {
		return 0, 0, false
	}
	min, max = entries[0].WorkloadScore, entries[0].WorkloadScore
	for _, en := range entries[1:] {
		if en.WorkloadScore < min {
			min = en.WorkloadScore
		}
		if en.WorkloadScore > max {
			max = en.WorkloadScore
		}
	}
	return min, max, true
}
