package store

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_PlanRoundTrip(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	if _, err := s.GetPlan(ctx, "user-1", "2026-03-05"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty store err = %v, want ErrNotFound", err)
	}

	plan := &Plan{UserID: "user-1", Date: "2026-03-05", Data: json.RawMessage(`{"v":1}`)}
	if err := s.SavePlan(ctx, plan); err != nil {
		t.Fatal(err)
	}
	if plan.ID == "" {
		t.Error("SavePlan should backfill ID")
	}

	got, err := s.GetPlan(ctx, "user-1", "2026-03-05")
	if err != nil {
		t.Fatal(err)
	}
	if string(got.Data) != `{"v":1}` {
		t.Errorf("data = %s", got.Data)
	}

	// Upsert keeps the original identity.
	update := &Plan{UserID: "user-1", Date: "2026-03-05", Data: json.RawMessage(`{"v":2}`)}
	if err := s.SavePlan(ctx, update); err != nil {
		t.Fatal(err)
	}
	if update.ID != plan.ID {
		t.Errorf("upsert changed ID: %s vs %s", update.ID, plan.ID)
	}
	got, _ = s.GetPlan(ctx, "user-1", "2026-03-05")
	if string(got.Data) != `{"v":2}` {
		t.Errorf("data after upsert = %s", got.Data)
	}
}

func TestMemoryStore_WeeklySummary(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()
	now := time.Now()

	entries := []WorkoutEntry{
		{UserID: "user-1", Activity: "running", Minutes: 30, Calories: 280, LoggedAt: now},
		{UserID: "user-1", Activity: "running", Minutes: 20, Calories: 190, LoggedAt: now.Add(-2 * 24 * time.Hour)},
		{UserID: "user-1", Activity: "yoga", Minutes: 45, Calories: 150, LoggedAt: now.Add(-10 * 24 * time.Hour)}, // too old
		{UserID: "user-2", Activity: "spin", Minutes: 40, Calories: 400, LoggedAt: now},                          // other user
	}
	for i := range entries {
		if err := s.LogWorkout(ctx, &entries[i]); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := s.WeeklySummary(ctx, "user-1", now.Add(-7*24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if summary.Workouts != 2 || summary.TotalMinutes != 50 || summary.TotalCalories != 470 {
		t.Errorf("summary = %+v", summary)
	}
	if len(summary.ByActivity) != 1 || summary.ByActivity["running"] != 50 {
		t.Errorf("byActivity = %+v", summary.ByActivity)
	}
}
