package chat

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/halofit/halo-be/internal/classifier"
	"github.com/halofit/halo-be/internal/conversation"
	"github.com/halofit/halo-be/internal/profile"
	"github.com/halofit/halo-be/internal/prompt"
	"github.com/halofit/halo-be/internal/schedule"
	"github.com/halofit/halo-be/internal/suggest"
	"github.com/halofit/halo-be/pkg/deepseek"
	"github.com/halofit/halo-be/pkg/llm"
)

func newTestEngine(client llm.Client) *Engine {
	catalog := schedule.NewCatalog("")
	return NewEngine(
		classifier.NewClassifier(),
		suggest.NewGenerator(catalog, nil),
		prompt.NewBuilder(),
		client,
		catalog,
	)
}

func TestProcessMessage_NilClientUsesRules(t *testing.T) {
	engine := newTestEngine(nil)
	resp := engine.ProcessMessage(context.Background(), ProcessRequest{Message: "hello"})
	if resp.Type != suggest.TypeMessage {
		t.Fatalf("type = %q", resp.Type)
	}
	if !strings.HasPrefix(resp.Message, "Hi! ") {
		t.Errorf("greeting = %q", resp.Message)
	}
}

func TestProcessMessage_ModelMessagePassedThrough(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return deepseek.TextResponse(`{"type":"message","message":"Go crush that workout!"}`), nil
	}

	engine := newTestEngine(mock)
	resp := engine.ProcessMessage(context.Background(), ProcessRequest{Message: "motivate me"})
	if resp.Message != "Go crush that workout!" {
		t.Errorf("message = %q", resp.Message)
	}
	if mock.CallCount() != 1 {
		t.Errorf("calls = %d", mock.CallCount())
	}
}

func TestProcessMessage_ModelSuggestionsCollapse(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return deepseek.TextResponse(`{"type":"suggestions","suggestions":[{"kind":"workout","title":"Hill Sprints"}]}`), nil
	}

	engine := newTestEngine(mock)
	resp := engine.ProcessMessage(context.Background(), ProcessRequest{Message: "suggest a workout"})
	if resp.Type != suggest.TypeMessage {
		t.Fatalf("type = %q, want message", resp.Type)
	}
	if !strings.Contains(resp.Message, "Hill Sprints") {
		t.Errorf("message = %q", resp.Message)
	}
}

func TestProcessMessage_ModelErrorFallsBack(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, fmt.Errorf("connection refused")
	}

	engine := newTestEngine(mock)
	resp := engine.ProcessMessage(context.Background(), ProcessRequest{
		Message: "suggest a workout",
		Profile: profile.UserProfile{TimePrefs: []string{"morning"}},
	})
	if resp.Type != suggest.TypeSuggestions {
		t.Fatalf("fallback should produce rule-based suggestions, got %q", resp.Type)
	}
	if resp.Suggestions[0].Kind != suggest.KindWorkout {
		t.Errorf("kind = %q", resp.Suggestions[0].Kind)
	}
}

func TestProcessMessage_MalformedOutputFallsBack(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return deepseek.TextResponse("Sure! Here is a plan for you."), nil
	}

	engine := newTestEngine(mock)
	resp := engine.ProcessMessage(context.Background(), ProcessRequest{Message: "hello"})
	if !strings.HasPrefix(resp.Message, "Hi! ") {
		t.Errorf("expected rule-based greeting, got %q", resp.Message)
	}
}

func TestProcessMessage_BreakerSkipsModelAfterFailures(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return nil, fmt.Errorf("timeout")
	}

	engine := newTestEngine(mock)
	for i := 0; i < 5; i++ {
		engine.ProcessMessage(context.Background(), ProcessRequest{Message: "hello"})
	}
	if mock.CallCount() != 3 {
		t.Errorf("model called %d times, breaker should stop it at 3", mock.CallCount())
	}
}

func TestProcessMessage_PromptCarriesProfile(t *testing.T) {
	mock := deepseek.NewMockClient()
	mock.ChatFunc = func(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
		return deepseek.TextResponse(`{"type":"message","message":"ok"}`), nil
	}

	engine := newTestEngine(mock)
	engine.ProcessMessage(context.Background(), ProcessRequest{
		Message: "what should I eat",
		Profile: profile.UserProfile{Name: "Sam", DietPrefs: []string{"vegetarian"}},
		History: []conversation.Turn{{Role: "user", Content: "I did yoga yesterday"}},
		Context: map[string]any{"screen": "meal_planner"},
	})

	sent := mock.ChatCalls[0]
	system := sent.Messages[0].Content
	if !strings.Contains(system, "Sam") || !strings.Contains(system, "vegetarian") {
		t.Errorf("system prompt missing profile context:\n%s", system)
	}
	if !strings.Contains(system, "screen: meal_planner") {
		t.Errorf("system prompt missing client context:\n%s", system)
	}
	if sent.Messages[len(sent.Messages)-1].Content != "what should I eat" {
		t.Errorf("last message = %+v", sent.Messages[len(sent.Messages)-1])
	}
	found := false
	for _, m := range sent.Messages {
		if m.Content == "I did yoga yesterday" {
			found = true
		}
	}
	if !found {
		t.Error("history turn missing from prompt")
	}
}

func TestBreaker(t *testing.T) {
	b := NewBreaker(2, 0)
	if !b.Allow() {
		t.Fatal("fresh breaker should allow")
	}
	b.Record(fmt.Errorf("fail"))
	b.Record(fmt.Errorf("fail"))
	// Cooldown of zero means the probe path opens immediately.
	if !b.Allow() {
		t.Error("expired cooldown should allow a probe")
	}
	b.Record(nil)
	if !b.Allow() {
		t.Error("success should close the breaker")
	}
}
