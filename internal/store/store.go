package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Plan is one saved daily plan. Data holds the plan payload as the chat
// engine produced it (workouts/meals/classes partition).
type Plan struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	Date      string          `json:"date"` // YYYY-MM-DD
	Data      json.RawMessage `json:"data"`
	CreatedAt time.Time       `json:"createdAt"`
}

// WorkoutEntry is one logged workout session.
type WorkoutEntry struct {
	ID       string    `json:"id"`
	UserID   string    `json:"userId"`
	Activity string    `json:"activity"`
	Minutes  int       `json:"minutes"`
	Calories int       `json:"calories"`
	LoggedAt time.Time `json:"loggedAt"`
}

// WeeklySummary aggregates a user's workouts over a trailing window.
type WeeklySummary struct {
	Workouts      int            `json:"workouts"`
	TotalMinutes  int            `json:"totalMinutes"`
	TotalCalories int            `json:"totalCalories"`
	ByActivity    map[string]int `json:"byActivity"` // activity -> minutes
}

// Store persists plans and workout logs. Implementations must be safe for
// concurrent use.
type Store interface {
	SavePlan(ctx context.Context, plan *Plan) error
	GetPlan(ctx context.Context, userID, date string) (*Plan, error)
	LogWorkout(ctx context.Context, entry *WorkoutEntry) error
	WeeklySummary(ctx context.Context, userID string, since time.Time) (*WeeklySummary, error)
	Close() error
}
