package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/binroute/backend/internal/models"
)

// CollectorRepo implements service.CollectorRepository.
type CollectorRepo struct {
	pool *pgxpool.Pool
}

func (r *CollectorRepo) FindByAreaAndStatus(ctx context.Context, areaID, status string) ([]models.Collector, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, service_areas, status, updated_at
		FROM collectors
		WHERE $1 = ANY(service_areas) AND status = $2
		ORDER BY id ASC
	`, areaID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Collector
	for rows.Next() {
		var c models.Collector
		if err := rows.Scan(&c.ID, &c.Name, &c.ServiceAreas, &c.Status, &c.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CollectorRepo) Save(ctx context.Context, c models.Collector) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO collectors (id, name, service_areas, status, updated_at)
		VALUES ($1,$2,$3,$4,NOW())
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			service_areas = EXCLUDED.service_areas,
			status = EXCLUDED.status,
			updated_at = NOW()
	`, c.ID, c.Name, c.ServiceAreas, c.Status)
	return err
}

// GrievanceRepo implements service.GrievanceRepository.
type GrievanceRepo struct {
	pool *pgxpool.Pool
}

func (r *GrievanceRepo) FindByAreaAndStatuses(ctx context.Context, areaID string, statuses []string) ([]models.Grievance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, area_id, severity, status, assigned_to, is_escalated, priority_score, created_at, resolved_at
		FROM grievances
		WHERE area_id = $1 AND status = ANY($2)
		ORDER BY priority_score DESC, created_at ASC
	`, areaID, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrievances(rows)
}

func (r *GrievanceRepo) FindByAssigneeAndStatus(ctx context.Context, collectorID, status string) ([]models.Grievance, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, area_id, severity, status, assigned_to, is_escalated, priority_score, created_at, resolved_at
		FROM grievances
		WHERE assigned_to = $1 AND status = $2
		ORDER BY created_at ASC
	`, collectorID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrievances(rows)
}

func (r *GrievanceRepo) Get(ctx context.Context, id string) (models.Grievance, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, area_id, severity, status, assigned_to, is_escalated, priority_score, created_at, resolved_at
		FROM grievances WHERE id = $1
	`, id)
	var g models.Grievance
	var severity string
	if err := row.Scan(&g.ID, &g.AreaID, &severity, &g.Status, &g.AssignedTo, &g.IsEscalated, &g.PriorityScore, &g.CreatedAt, &g.ResolvedAt); err != nil {
		return models.Grievance{}, err
	}
	g.Severity = models.Severity(severity)
	return g, nil
}

// Save is a single-record update; it is atomic at the store level even
// though the surrounding reassignment pass is not transactional.
func (r *GrievanceRepo) Save(ctx context.Context, g models.Grievance) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE grievances
		SET severity = $1, status = $2, assigned_to = $3, is_escalated = $4,
			priority_score = $5, resolved_at = $6
		WHERE id = $7
	`, string(g.Severity), g.Status, g.AssignedTo, g.IsEscalated, g.PriorityScore, g.ResolvedAt, g.ID)
	return err
}

// AppendNote only ever inserts; the notes log is append-only.
func (r *GrievanceRepo) AppendNote(ctx context.Context, n models.GrievanceNote) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO grievance_notes (grievance_id, content, author, author_role, note_type, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, n.GrievanceID, n.Content, n.Author, n.AuthorRole, n.NoteType, n.CreatedAt)
	return err
}
