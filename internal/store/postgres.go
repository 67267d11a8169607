package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
)

// Config holds database configuration.
type Config struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	SSLMode         string
	MaxConnections  int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresStore implements Store on PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

var _ Store = (*PostgresStore)(nil)

// Open connects to PostgreSQL and verifies the connection.
func Open(cfg Config) (*PostgresStore, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	sqlDB, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConnections > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConnections)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgres(sqlDB), nil
}

// OpenURL connects using a postgres:// connection string.
func OpenURL(databaseURL string) (*PostgresStore, error) {
	sqlDB, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return NewPostgres(sqlDB), nil
}

// NewPostgres wraps an existing connection.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// SavePlan upserts the plan for a user+date. A missing ID is generated.
func (s *PostgresStore) SavePlan(ctx context.Context, plan *Plan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}

	query := `
		INSERT INTO plans (id, user_id, plan_date, data)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, plan_date)
		DO UPDATE SET data = EXCLUDED.data
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query, plan.ID, plan.UserID, plan.Date, []byte(plan.Data)).
		Scan(&plan.ID, &plan.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// GetPlan fetches the plan saved for a user+date.
func (s *PostgresStore) GetPlan(ctx context.Context, userID, date string) (*Plan, error) {
	query := `
		SELECT id, user_id, plan_date, data, created_at
		FROM plans
		WHERE user_id = $1 AND plan_date = $2
	`

	plan := &Plan{}
	var data []byte
	err := s.db.QueryRowContext(ctx, query, userID, date).Scan(
		&plan.ID, &plan.UserID, &plan.Date, &data, &plan.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	plan.Data = data
	return plan, nil
}

// LogWorkout records one workout session. A missing ID or timestamp is filled.
func (s *PostgresStore) LogWorkout(ctx context.Context, entry *WorkoutEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}

	query := `
		INSERT INTO workout_log (id, user_id, activity, minutes, calories, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.Activity, entry.Minutes, entry.Calories, entry.LoggedAt)
	if err != nil {
		return fmt.Errorf("failed to log workout: %w", err)
	}
	return nil
}

// WeeklySummary aggregates workouts logged since the given time.
func (s *PostgresStore) WeeklySummary(ctx context.Context, userID string, since time.Time) (*WeeklySummary, error) {
	query := `
		SELECT activity, minutes, calories
		FROM workout_log
		WHERE user_id = $1 AND logged_at >= $2
		ORDER BY logged_at
	`

	rows, err := s.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query workout log: %w", err)
	}
	defer rows.Close()

	summary := &WeeklySummary{ByActivity: make(map[string]int)}
	for rows.Next() {
		var activity string
		var minutes, calories int
		if err := rows.Scan(&activity, &minutes, &calories); err != nil {
			return nil, fmt.Errorf("failed to scan workout entry: %w", err)
		}
		summary.Workouts++
		summary.TotalMinutes += minutes
		summary.TotalCalories += calories
		summary.ByActivity[activity] += minutes
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read workout log: %w", err)
	}
	return summary, nil
}
