package gcal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAddEvent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/calendars/primary/events" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer user-token" {
			t.Errorf("auth = %q", auth)
		}
		var event gcalEvent
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if event.Summary != "Yoga Flow" || event.Start.DateTime != "2026-03-05T09:00:00Z" {
			t.Errorf("event = %+v", event)
		}
		json.NewEncoder(w).Encode(gcalInsertResponse{ID: "evt-123", HTMLLink: "https://calendar.google.com/evt-123"})
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL

	result, err := client.AddEvent(context.Background(), "user-token", Event{
		Title:    "Yoga Flow",
		StartISO: "2026-03-05T09:00:00Z",
		EndISO:   "2026-03-05T10:00:00Z",
		Location: "Studio B",
	})
	if err != nil {
		t.Fatalf("AddEvent: %v", err)
	}
	if result.EventID != "evt-123" {
		t.Errorf("result = %+v", result)
	}
}

func TestAddEvent_Validation(t *testing.T) {
	client := NewClient()
	ctx := context.Background()

	if _, err := client.AddEvent(ctx, "", Event{Title: "x", StartISO: "2026-03-05T09:00:00Z", EndISO: "2026-03-05T10:00:00Z"}); err == nil {
		t.Error("missing token should fail")
	}
	if _, err := client.AddEvent(ctx, "tok", Event{StartISO: "2026-03-05T09:00:00Z", EndISO: "2026-03-05T10:00:00Z"}); err == nil {
		t.Error("missing title should fail")
	}
	if _, err := client.AddEvent(ctx, "tok", Event{Title: "x", StartISO: "tomorrow", EndISO: "2026-03-05T10:00:00Z"}); err == nil {
		t.Error("bad startISO should fail")
	}
}

func TestAddEvent_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"code":401}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient()
	client.baseURL = server.URL
	_, err := client.AddEvent(context.Background(), "bad-token", Event{
		Title: "x", StartISO: "2026-03-05T09:00:00Z", EndISO: "2026-03-05T10:00:00Z",
	})
	if err == nil {
		t.Fatal("expected error")
	}
}
