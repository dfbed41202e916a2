package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/binroute/backend/internal/models"
)

func strptr(s string) *string { return &s }

func TestComputeWorkloadsScoresBySeverity(t *testing.T) {
	grievances := &fakeGrievanceRepo{
		grievances: []models.Grievance{
			{ID: "G1", AreaID: "W1", Severity: models.SeverityCritical, Status: models.GrievanceInProgress, AssignedTo: strptr("C1")},
			{ID: "G2", AreaID: "W1", Severity: models.SeverityMedium, Status: models.GrievanceInProgress, AssignedTo: strptr("C1")},
			{ID: "G3", AreaID: "W1", Severity: models.SeverityLow, Status: models.GrievanceResolved, AssignedTo: strptr("C1")},
		},
	}
	e := NewEngine(&fakeCollectorRepo{}, grievances, zerolog.Nop(), Policy{Capacity: 10})

	entries, warnings := e.ComputeWorkloads(context.Background(), []models.Collector{
		{ID: "C1", Name: "Arjun"},
	})
	require.Empty(t, warnings)
	require.Len(t, entries, 1)
	require.Equal(t, 2, entries[0].CurrentGrievances)
	require.Equal(t, 6, entries[0].WorkloadScore)
	require.Equal(t, 8, entries[0].AvailableCapacity)
}

func TestComputeWorkloadsOrdersByAvailableCapacity(t *testing.T) {
	grievances := &fakeGrievanceRepo{
		grievances: []models.Grievance{
			{ID: "G1", AreaID: "W1", Severity: models.SeverityLow, Status: models.GrievanceInProgress, AssignedTo: strptr("C1")},
			{ID: "G2", AreaID: "W1", Severity: models.SeverityLow, Status: models.GrievanceInProgress, AssignedTo: strptr("C1")},
			{ID: "G3", AreaID: "W1", Severity: models.SeverityLow, Status: models.GrievanceInProgress, AssignedTo: strptr("C3")},
		},
	}
	e := NewEngine(&fakeCollectorRepo{}, grievances, zerolog.Nop(), Policy{Capacity: 5})

	entries, _ := e.ComputeWorkloads(context.Background(), []models.Collector{
		{ID: "C1"}, {ID: "C2"}, {ID: "C3"},
	})
	require.Equal(t, []string{"C2", "C3", "C1"}, []string{entries[0].CollectorID, entries[1].CollectorID, entries[2].CollectorID})
}

func TestComputeWorkloadsLookupFailureIsNotFatal(t *testing.T) {
	grievances := &fakeGrievanceRepo{
		lookupErr: map[string]error{"C1": errors.New("connection reset")},
	}
	e := NewEngine(&fakeCollectorRepo{}, grievances, zerolog.Nop(), Policy{Capacity: 10})

	entries, warnings := e.ComputeWorkloads(context.Background(), []models.Collector{
		{ID: "C1"}, {ID: "C2"},
	})
	require.Len(t, entries, 2)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0], "C1")

	// The failed collector sorts last with zero spare capacity.
	require.Equal(t, "C2", entries[0].CollectorID)
	require.Equal(t, "C1", entries[1].CollectorID)
	require.Equal(t, 0, entries[1].AvailableCapacity)
	require.Equal(t, 10, entries[1].CurrentGrievances)
}
