// Package storage persists generated plans and caches forecasts in a
// local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"chronos/internal/plan"
)

// ErrNotFound is returned when a plan id has no row.
var ErrNotFound = errors.New("not found")

type Store struct {
	db *sql.DB
}

// NewStore creates or opens the SQLite database at path.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id TEXT PRIMARY KEY,
			request TEXT,
			location TEXT,
			start_date TEXT,
			end_date TEXT,
			generated_at TEXT,
			response JSON
		);`,
		`CREATE TABLE IF NOT EXISTS forecasts (
			location TEXT,
			date TEXT,
			fetched_at TIMESTAMP,
			condition JSON,
			PRIMARY KEY (location, date)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_plans_generated ON plans(generated_at);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// --- Plan history ---

// PlanRecord is one saved plan snapshot.
type PlanRecord struct {
	ID          string         `json:"id"`
	Request     string         `json:"request"`
	Location    string         `json:"location"`
	StartDate   string         `json:"start_date"`
	EndDate     string         `json:"end_date"`
	GeneratedAt string         `json:"generated_at"`
	Response    *plan.Response `json:"response,omitempty"`
}

func (s *Store) SavePlan(ctx context.Context, r *plan.Response) error {
	body, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO plans (id, request, location, start_date, end_date, generated_at, response)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			request=excluded.request,
			location=excluded.location,
			start_date=excluded.start_date,
			end_date=excluded.end_date,
			generated_at=excluded.generated_at,
			response=excluded.response
	`, r.ID, r.OriginalRequest, r.LocationUsed, r.StartDate, r.EndDate, r.GeneratedAt, string(body))
	return err
}

// ListPlans returns saved plans, most recent first, without the full
// response bodies.
func (s *Store) ListPlans(ctx context.Context, limit int) ([]PlanRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, request, location, start_date, end_date, generated_at
		FROM plans ORDER BY generated_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PlanRecord
	for rows.Next() {
		var r PlanRecord
		if err := rows.Scan(&r.ID, &r.Request, &r.Location, &r.StartDate, &r.EndDate, &r.GeneratedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// GetPlan loads one saved plan with its full response.
func (s *Store) GetPlan(ctx context.Context, id string) (*plan.Response, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT response FROM plans WHERE id = ?`, id).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var r plan.Response
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return nil, fmt.Errorf("decode stored response: %w", err)
	}
	return &r, nil
}

// --- Forecast cache (weather.ForecastStore) ---

// SaveForecast caches a forecast keyed by the requested location (not
// the provider-resolved name) and date.
func (s *Store) SaveForecast(ctx context.Context, location string, w plan.WeatherCondition) error {
	body, err := json.Marshal(w)
	if err != nil {
		return fmt.Errorf("encode forecast: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO forecasts (location, date, fetched_at, condition)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(location, date) DO UPDATE SET
			fetched_at=excluded.fetched_at,
			condition=excluded.condition
	`, strings.ToLower(location), w.ForecastDate, time.Now().UTC().Format(time.RFC3339), string(body))
	return err
}

// LoadForecast returns the cached forecast if one exists and is still
// within ttl, nil otherwise.
func (s *Store) LoadForecast(ctx context.Context, location, date string, ttl time.Duration) (*plan.WeatherCondition, error) {
	var fetchedAt, body string
	err := s.db.QueryRowContext(ctx, `
		SELECT fetched_at, condition FROM forecasts WHERE location = ? AND date = ?
	`, strings.ToLower(location), date).Scan(&fetchedAt, &body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	at, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil || time.Since(at) >= ttl {
		return nil, nil
	}

	var w plan.WeatherCondition
	if err := json.Unmarshal([]byte(body), &w); err != nil {
		return nil, fmt.Errorf("decode stored forecast: %w", err)
	}
	return &w, nil
}
