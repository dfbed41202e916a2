package service

import (
	"context"
	"errors"
	"sync"

	"github.com/binroute/backend/internal/models"
)

var errNotFound = errors.New("not found")

type fakeCollectorRepo struct {
	mu         sync.Mutex
	collectors []models.Collector
	findErr    error
	saved      []models.Collector
}

func (f *fakeCollectorRepo) FindByAreaAndStatus(ctx context.Context, areaID, status string) ([]models.Collector, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.Collector
	for _, c := range f.collectors {
		if c.Status != status {
			continue
		}
		for _, a := range c.ServiceAreas {
			if a == areaID {
				out = append(out, c)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeCollectorRepo) Save(ctx context.Context, c models.Collector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saved = append(f.saved, c)
	for i := range f.collectors {
		if f.collectors[i].ID == c.ID {
			f.collectors[i] = c
			return nil
		}
	}
	f.collectors = append(f.collectors, c)
	return nil
}

type fakeGrievanceRepo struct {
	mu         sync.Mutex
	grievances []models.Grievance
	notes      []models.GrievanceNote

	lookupErr map[string]error // keyed by collector ID
	saveErr   map[string]error // keyed by grievance ID
	onSave    func(g models.Grievance)
}

func (f *fakeGrievanceRepo) FindByAreaAndStatuses(ctx context.Context, areaID string, statuses []string) ([]models.Grievance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Grievance
	for _, g := range f.grievances {
		if g.AreaID != areaID {
			continue
		}
		for _, s := range statuses {
			if g.Status == s {
				out = append(out, g)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeGrievanceRepo) FindByAssigneeAndStatus(ctx context.Context, collectorID, status string) ([]models.Grievance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.lookupErr[collectorID]; err != nil {
		return nil, err
	}
	var out []models.Grievance
	for _, g := range f.grievances {
		if g.AssignedTo != nil && *g.AssignedTo == collectorID && g.Status == status {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGrievanceRepo) Get(ctx context.Context, id string) (models.Grievance, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.grievances {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Grievance{}, errNotFound
}

func (f *fakeGrievanceRepo) Save(ctx context.Context, g models.Grievance) error {
	f.mu.Lock()
	if err := f.saveErr[g.ID]; err != nil {
		f.mu.Unlock()
		return err
	}
	for i := range f.grievances {
		if f.grievances[i].ID == g.ID {
			f.grievances[i] = g
			break
		}
	}
	hook := f.onSave
	f.mu.Unlock()
	if hook != nil {
		hook(g)
	}
	return nil
}

func (f *fakeGrievanceRepo) AppendNote(ctx context.Context, n models.GrievanceNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notes = append(f.notes, n)
	return nil
}

func (f *fakeGrievanceRepo) get(id string) models.Grievance {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.grievances {
		if g.ID == id {
			return g
		}
	}
	return models.Grievance{}
}
