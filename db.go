package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	_ "github.com/lib/pq"

	"descriptive_stats/report"
)

func buildDSNFromEnv() (string, error) {
	host := os.Getenv("POSTGRES_HOST")
	port := os.Getenv("POSTGRES_PORT")
	user := os.Getenv("POSTGRES_USER")
	pass := os.Getenv("POSTGRES_PASSWORD")
	dbname := os.Getenv("POSTGRES_DB")
	if dbname == "" {
		if url := os.Getenv("DATABASE_URL"); url != "" {
			return url, nil
		}
		return "", errors.New("POSTGRES_DB not set; set env vars or DATABASE_URL")
	}
	if host == "" {
		host = "localhost"
	}
	if port == "" {
		port = "5432"
	}
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, pass, dbname)
	return dsn, nil
}

func openDB(ctx context.Context) (*sql.DB, error) {
	dsn, err := buildDSNFromEnv()
	if err != nil {
		return nil, fmt.Errorf("database config error: %w", err)
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connect error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database not reachable: %w", err)
	}
	return db, nil
}

// runStore is where test runs read their samples and leave their results.
type runStore interface {
	TestRunExists(ctx context.Context, id int64) (bool, error)
	RunSamples(ctx context.Context, id int64) ([]float64, error)
	SaveResult(ctx context.Context, id int64, doc report.Document, m runMetrics) error
}

type pgStore struct {
	db *sql.DB
}

func (s pgStore) TestRunExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM test_runs WHERE id = $1)", id).Scan(&exists)
	return exists, err
}

func (s pgStore) RunSamples(ctx context.Context, id int64) ([]float64, error) {
	page, perPage, err := s.taskWindow(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetch task window: %w", err)
	}
	return s.samples(ctx, page, perPage)
}

func (s pgStore) taskWindow(ctx context.Context, testRunID int64) (int, int, error) {
	const q = `
SELECT tasks.page, tasks.per_page
FROM tasks
JOIN handlers ON handlers.task_id = tasks.id
JOIN test_runs ON test_runs.handler_id = handlers.id
WHERE test_runs.id = $1
LIMIT 1`

	var page sql.NullInt64
	var perPage sql.NullInt64
	err := s.db.QueryRowContext(ctx, q, testRunID).Scan(&page, &perPage)
	if err != nil && err != sql.ErrNoRows {
		return 0, 0, err
	}

	pg := normalizePositiveInt(page.Int64, 1)
	pp := normalizePositiveInt(perPage.Int64, 1)
	return pg, pp, nil
}

func (s pgStore) samples(ctx context.Context, page, perPage int) ([]float64, error) {
	limit, offset := windowLimitOffset(page, perPage)

	rows, err := s.db.QueryContext(ctx, "SELECT value FROM samples ORDER BY id ASC LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	values := make([]float64, 0, limit)
	for rows.Next() {
		var v sql.NullFloat64
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		if v.Valid {
			values = append(values, v.Float64)
		}
	}
	return values, rows.Err()
}

func windowLimitOffset(page, perPage int) (limit, offset int) {
	pp := perPage
	if pp <= 0 {
		pp = 1
	}
	pg := page
	if pg <= 0 {
		pg = 1
	}
	return pp, (pg - 1) * pp
}

func normalizePositiveInt(value int64, fallback int) int {
	if value <= 0 {
		return fallback
	}
	return int(value)
}

// modeText stores the mode set in one column, e.g. "2,3".
func modeText(modes []float64) string {
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = strconv.FormatFloat(m, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func (s pgStore) SaveResult(ctx context.Context, testRunID int64, doc report.Document, m runMetrics) error {
	const q = `
INSERT INTO test_results
  (test_run_id, sample_count, mean, median, mode, variance, standard_deviation,
   min, max, "range", q1, q3, iqr, duration, memory, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NOW(),NOW())
`
	res := doc.Result
	_, err := s.db.ExecContext(ctx, q,
		testRunID, res.Count,
		res.Mean, res.Median, modeText(res.Mode), res.Variance, res.StdDev,
		res.Min, res.Max, res.Range, res.Q1, res.Q3, res.IQR,
		m.Duration.Seconds(), m.PeakRSS,
	)
	return err
}
