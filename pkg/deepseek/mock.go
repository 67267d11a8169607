package deepseek

import (
	"context"
	"sync"

	"github.com/halofit/halo-be/pkg/llm"
)

// MockClient implements llm.Client for testing
type MockClient struct {
	mu sync.Mutex

	// ChatFunc allows customizing the response behavior
	ChatFunc func(context.Context, llm.ChatRequest) (*llm.ChatResponse, error)

	// ChatCalls records every request for assertions
	ChatCalls []llm.ChatRequest
}

var _ llm.Client = (*MockClient)(nil)

// NewMockClient creates a new mock client with default behavior
func NewMockClient() *MockClient {
	return &MockClient{
		ChatCalls: make([]llm.ChatRequest, 0),
	}
}

// ChatCompletion implements llm.Client.ChatCompletion
func (m *MockClient) ChatCompletion(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, req)
	m.mu.Unlock()

	if m.ChatFunc != nil {
		return m.ChatFunc(ctx, req)
	}
	return TextResponse("This is a mock response."), nil
}

// CallCount returns how many completion calls were made.
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ChatCalls)
}

// TextResponse builds a single-choice response carrying the given content.
func TextResponse(content string) *llm.ChatResponse {
	resp := &llm.ChatResponse{
		ID:      "mock-response-1",
		Object:  "chat.completion",
		Created: 1234567890,
		Model:   "deepseek-chat",
	}
	resp.Choices = make([]struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	}, 1)
	resp.Choices[0].Message.Role = "assistant"
	resp.Choices[0].Message.Content = content
	resp.Choices[0].FinishReason = "stop"
	return resp
}
