package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used when no database is configured.
// Data lives for the process lifetime only.
type MemoryStore struct {
	mu       sync.RWMutex
	plans    map[string]*Plan // keyed by userID + "/" + date
	workouts []WorkoutEntry
}

var _ Store = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{plans: make(map[string]*Plan)}
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SavePlan(_ context.Context, plan *Plan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	key := plan.UserID + "/" + plan.Date
	if existing, ok := s.plans[key]; ok {
		plan.ID = existing.ID
		plan.CreatedAt = existing.CreatedAt
	} else if plan.CreatedAt.IsZero() {
		plan.CreatedAt = time.Now()
	}
	stored := *plan
	s.plans[key] = &stored
	return nil
}

func (s *MemoryStore) GetPlan(_ context.Context, userID, date string) (*Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	plan, ok := s.plans[userID+"/"+date]
	if !ok {
		return nil, ErrNotFound
	}
	out := *plan
	return &out, nil
}

func (s *MemoryStore) LogWorkout(_ context.Context, entry *WorkoutEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.LoggedAt.IsZero() {
		entry.LoggedAt = time.Now()
	}
	s.workouts = append(s.workouts, *entry)
	return nil
}

func (s *MemoryStore) WeeklySummary(_ context.Context, userID string, since time.Time) (*WeeklySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := &WeeklySummary{ByActivity: make(map[string]int)}
	for _, entry := range s.workouts {
		if entry.UserID != userID || entry.LoggedAt.Before(since) {
			continue
		}
		summary.Workouts++
		summary.TotalMinutes += entry.Minutes
		summary.TotalCalories += entry.Calories
		summary.ByActivity[entry.Activity] += entry.Minutes
	}
	return summary, nil
}
