// Package db is an optional sink for report runs: when DATABASE_URL is
// configured, every generated report is recorded as a run plus its rows, so
// report history survives the process.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kommo_pulse/backend/internal/report"
)

var ErrNoRuns = errors.New("db: no runs recorded")

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

// InitSchema creates the report tables when they do not exist yet.
func (s *Store) InitSchema(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS report_runs (
	id          UUID PRIMARY KEY,
	kind        TEXT NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ,
	status      TEXT NOT NULL,
	row_count   INTEGER NOT NULL DEFAULT 0,
	summary     JSONB
);
CREATE TABLE IF NOT EXISTS report_rows (
	run_id  UUID NOT NULL REFERENCES report_runs (id),
	row_num INTEGER NOT NULL,
	data    JSONB NOT NULL,
	PRIMARY KEY (run_id, row_num)
)`)
	return err
}

func (s *Store) CreateRun(ctx context.Context, kind string) (string, error) {
	id := uuid.NewString()
	_, err := s.Pool.Exec(ctx,
		`INSERT INTO report_runs (id, kind, started_at, status) VALUES ($1, $2, $3, 'RUNNING')`,
		id, kind, time.Now().UTC())
	return id, err
}

func (s *Store) FinishRun(ctx context.Context, runID, status string, rowCount int, summary any) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	_, err = s.Pool.Exec(ctx,
		`UPDATE report_runs SET finished_at = $2, status = $3, row_count = $4, summary = $5 WHERE id = $1`,
		runID, time.Now().UTC(), status, rowCount, payload)
	return err
}

// InsertRows bulk-copies a report table's rows, one JSONB object per row
// keyed by column name.
func (s *Store) InsertRows(ctx context.Context, runID string, table *report.Table) (int64, error) {
	rows := make([][]any, 0, len(table.Rows))
	for i, row := range table.Rows {
		obj := make(map[string]string, len(table.Header))
		for j, col := range table.Header {
			if j < len(row) {
				obj[col] = row[j].Value
			}
		}
		data, err := json.Marshal(obj)
		if err != nil {
			return 0, err
		}
		rows = append(rows, []any{runID, i + 1, data})
	}
	return s.Pool.CopyFrom(ctx,
		pgx.Identifier{"report_rows"},
		[]string{"run_id", "row_num", "data"},
		pgx.CopyFromRows(rows))
}

// LatestRun returns the most recent run of a kind (any kind when empty).
func (s *Store) LatestRun(ctx context.Context, kind string) (map[string]any, error) {
	query := `SELECT id, kind, started_at, finished_at, status, row_count, summary
FROM report_runs`
	var args []any
	if kind != "" {
		query += ` WHERE kind = $1`
		args = append(args, kind)
	}
	query += ` ORDER BY started_at DESC LIMIT 1`

	var (
		id, runKind, status string
		startedAt           time.Time
		finishedAt          *time.Time
		rowCount            int
		summary             []byte
	)
	err := s.Pool.QueryRow(ctx, query, args...).Scan(&id, &runKind, &startedAt, &finishedAt, &status, &rowCount, &summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, err
	}

	out := map[string]any{
		"id":         id,
		"kind":       runKind,
		"started_at": startedAt,
		"status":     status,
		"row_count":  rowCount,
	}
	if finishedAt != nil {
		out["finished_at"] = *finishedAt
	}
	if len(summary) > 0 {
		var parsed any
		if err := json.Unmarshal(summary, &parsed); err == nil {
			out["summary"] = parsed
		}
	}
	return out, nil
}
