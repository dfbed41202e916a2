package service

import (
	"sync"

	"github.com/rs/zerolog"
)

const (
	ReasonUrgent        = "Urgent reassignment"
	ReasonLoadBalancing = "Load balancing"
)

// Policy carries the tunable assignment constants.
type Policy struct {
	// Capacity is the maximum number of concurrently assigned grievances
	// per collector.
	Capacity int
	// VarianceThreshold is the workload-score variance below which an area
	// is considered balanced.
	VarianceThreshold float64
	// RebalanceGap is the max-min workload-score spread above which a
	// rebalance recommendation is emitted.
	RebalanceGap int
}

func DefaultPolicy() Policy {
	return Policy{Capacity: 10, VarianceThreshold: 2, RebalanceGap: 5}
}

// Engine runs grievance reassignment and workload analysis for an area.
// It holds no per-call state; the per-area locks only serialize concurrent
// reassignment passes over the same area.
type Engine struct {
	collectors CollectorRepository
	grievances GrievanceRepository
	logger     zerolog.Logger
	policy     Policy

	mu        sync.Mutex
	areaLocks map[string]*sync.Mutex
}

func NewEngine(collectors CollectorRepository, grievances GrievanceRepository, logger zerolog.Logger, policy Policy) *Engine {
	if policy.Capacity <= 0 {
		policy.Capacity = DefaultPolicy().Capacity
	}
	if policy.VarianceThreshold <= 0 {
		policy.VarianceThreshold = DefaultPolicy().VarianceThreshold
	}
	if policy.RebalanceGap <= 0 {
		policy.RebalanceGap = DefaultPolicy().RebalanceGap
	}
	return &Engine{
		collectors: collectors,
		grievances: grievances,
		logger:     logger,
		policy:     policy,
		areaLocks:  make(map[string]*sync.Mutex),
	}
}

// areaLock returns the mutex serializing reassignment passes for one area.
// Passes for distinct areas run concurrently.
func (e *Engine) areaLock(areaID string) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	l, ok := e.areaLocks[areaID]
	if !ok {
		l = &sync.Mutex{}
		e.areaLocks[areaID] = l
	}
	return l
}
