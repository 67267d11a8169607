package deepseek

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/halofit/halo-be/pkg/llm"
)

func TestHTTPClient_ChatCompletion(t *testing.T) {
	var gotReq llm.ChatRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("auth header = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(TextResponse("hello from the model"))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{APIKey: "test-key", BaseURL: server.URL})
	resp, err := client.ChatCompletion(context.Background(), llm.ChatRequest{
		Messages: []llm.ChatMessage{{Role: "user", Content: "hi"}},
	})
	if err != nil {
		t.Fatalf("ChatCompletion: %v", err)
	}
	if resp.Content() != "hello from the model" {
		t.Errorf("content = %q", resp.Content())
	}
	if gotReq.Model != "deepseek-chat" {
		t.Errorf("default model not applied, got %q", gotReq.Model)
	}
}

func TestHTTPClient_ChatCompletionAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewHTTPClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.ChatCompletion(context.Background(), llm.ChatRequest{})
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
}

func TestHTTPClient_ChatCompletionMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client := NewHTTPClient(Config{APIKey: "test-key", BaseURL: server.URL})
	_, err := client.ChatCompletion(context.Background(), llm.ChatRequest{})
	if err == nil {
		t.Fatal("expected error for malformed body")
	}
}

func TestMockClient_RecordsCalls(t *testing.T) {
	mock := NewMockClient()
	_, err := mock.ChatCompletion(context.Background(), llm.ChatRequest{
		Messages: []llm.ChatMessage{{Role: "user", Content: "ping"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if mock.CallCount() != 1 {
		t.Errorf("CallCount = %d, want 1", mock.CallCount())
	}
	if mock.ChatCalls[0].Messages[0].Content != "ping" {
		t.Errorf("recorded request = %+v", mock.ChatCalls[0])
	}
}
