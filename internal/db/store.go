package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/binroute/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Collectors returns the narrow repository view consumed by the engine.
func (s *Store) Collectors() *CollectorRepo {
	return &CollectorRepo{pool: s.Pool}
}

// Grievances returns the narrow repository view consumed by the engine.
func (s *Store) Grievances() *GrievanceRepo {
	return &GrievanceRepo{pool: s.Pool}
}

func (s *Store) InsertCollectors(ctx context.Context, collectors []models.Collector) (int64, error) {
	rows := make([][]any, 0, len(collectors))
	for _, c := range collectors {
		rows = append(rows, []any{c.ID, c.Name, c.ServiceAreas, c.Status, c.UpdatedAt})
	}
	return s.Pool.CopyFrom(ctx, pgx.Identifier{"collectors"}, []string{"id", "name", "service_areas", "status", "updated_at"}, pgx.CopyFromRows(rows))
}

func (s *Store) InsertGrievances(ctx context.Context, grievances []models.Grievance) (int64, error) {
	rows := make([][]any, 0, len(grievances))
	for _, g := range grievances {
		rows = append(rows, []any{g.ID, g.AreaID, string(g.Severity), g.Status, g.AssignedTo, g.IsEscalated, g.PriorityScore, g.CreatedAt})
	}
	return s.Pool.CopyFrom(ctx, pgx.Identifier{"grievances"}, []string{"id", "area_id", "severity", "status", "assigned_to", "is_escalated", "priority_score", "created_at"}, pgx.CopyFromRows(rows))
}

func (s *Store) GetCollector(ctx context.Context, id string) (models.Collector, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, name, service_areas, status, updated_at FROM collectors WHERE id = $1`, id)
	var c models.Collector
	if err := row.Scan(&c.ID, &c.Name, &c.ServiceAreas, &c.Status, &c.UpdatedAt); err != nil {
		return models.Collector{}, err
	}
	return c, nil
}

func (s *Store) ListCollectors(ctx context.Context, areaID, status string) ([]models.Collector, error) {
	query := `SELECT id, name, service_areas, status, updated_at FROM collectors`
	var args []any
	var wheres []string
	if areaID != "" {
		args = append(args, areaID)
		wheres = append(wheres, fmt.Sprintf("$%d = ANY(service_areas)", len(args)))
	}
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY id ASC"

	rows, err := s.Pool.Query(ctx, query, args...)
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

func (s *Store) ListGrievances(ctx context.Context, status, severity, areaID, q string, limit, offset int) ([]models.Grievance, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT id, area_id, severity, status, assigned_to, is_escalated, priority_score, created_at, resolved_at FROM grievances`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if severity != "" {
		args = append(args, severity)
		wheres = append(wheres, fmt.Sprintf("severity = $%d", len(args)))
	}
	if areaID != "" {
		args = append(args, areaID)
		wheres = append(wheres, fmt.Sprintf("area_id = $%d", len(args)))
	}
	if q != "" {
		args = append(args, "%"+q+"%")
		wheres = append(wheres, fmt.Sprintf("id ILIKE $%d", len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY priority_score DESC, created_at ASC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanGrievances(rows)
}

func (s *Store) GetGrievanceNotes(ctx context.Context, grievanceID string) ([]models.GrievanceNote, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT id, grievance_id, content, author, author_role, note_type, created_at
		FROM grievance_notes WHERE grievance_id = $1 ORDER BY created_at ASC
	`, grievanceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.GrievanceNote
	for rows.Next() {
		var n models.GrievanceNote
		if err := rows.Scan(&n.ID, &n.GrievanceID, &n.Content, &n.Author, &n.AuthorRole, &n.NoteType, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) CreateRun(ctx context.Context, areaID, status string) (string, error) {
	var id string
	err := s.Pool.QueryRow(ctx, `INSERT INTO runs (area_id, status, started_at) VALUES ($1, $2, NOW()) RETURNING id`, areaID, status).Scan(&id)
	return id, err
}

func (s *Store) FinishRun(ctx context.Context, runID, status string, summary []byte) error {
	_, err := s.Pool.Exec(ctx, `UPDATE runs SET status = $1, summary = $2, finished_at = NOW() WHERE id = $3`, status, summary, runID)
	return err
}

func (s *Store) GetLatestRun(ctx context.Context) (map[string]any, error) {
	row := s.Pool.QueryRow(ctx, `SELECT id, area_id, started_at, finished_at, status, summary FROM runs ORDER BY started_at DESC LIMIT 1`)
	var (
		id       string
		areaID   string
		started  time.Time
		finished *time.Time
		status   string
		summary  []byte
	)
	if err := row.Scan(&id, &areaID, &started, &finished, &status, &summary); err != nil {
		return nil, err
	}
	return map[string]any{
		"id":          id,
		"area_id":     areaID,
		"started_at":  started,
		"finished_at": finished,
		"status":      status,
		"summary":     summary,
	}, nil
}

func scanGrievances(rows pgx.Rows) ([]models.Grievance, error) {
	var out []models.Grievance
	for rows.Next() {
		var g models.Grievance
		var severity string
		if err := rows.Scan(&g.ID, &g.AreaID, &severity, &g.Status, &g.AssignedTo, &g.IsEscalated, &g.PriorityScore, &g.CreatedAt, &g.ResolvedAt); err != nil {
			return nil, err
		}
		g.Severity = models.Severity(severity)
		out = append(out, g)
	}
	return out, rows.Err()
}
