package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/halofit/halo-be/internal/classifier"
	"github.com/halofit/halo-be/internal/conversation"
	"github.com/halofit/halo-be/internal/profile"
	"github.com/halofit/halo-be/internal/prompt"
	"github.com/halofit/halo-be/internal/schedule"
	"github.com/halofit/halo-be/internal/suggest"
	"github.com/halofit/halo-be/pkg/llm"
)

// errLLMUnavailable marks the quiet path to rule-based responses: no client
// configured, or the breaker is open. Not logged as a failure.
var errLLMUnavailable = errors.New("generative model unavailable")

// ProcessRequest contains all data needed to answer one chat message.
type ProcessRequest struct {
	Message string
	Profile profile.UserProfile
	History []conversation.Turn
	Context map[string]any
}

// Interfaces for dependencies.
type ClassifierInterface interface {
	Classify(message string, ctx conversation.Context) classifier.Result
}

type GeneratorInterface interface {
	Generate(ctx context.Context, req suggest.Request) suggest.ChatResponse
}

type PromptInterface interface {
	BuildPrompt(req prompt.Request) []llm.ChatMessage
}

// Engine handles core conversation logic independent of transport. It tries
// the generative model first when one is configured and falls back to the
// rule-based generator on any failure; callers always get a well-formed
// response.
type Engine struct {
	classifier    ClassifierInterface
	generator     GeneratorInterface
	promptBuilder PromptInterface
	llmClient     llm.Client
	catalog       *schedule.Catalog
	breaker       *Breaker
	aiTimeout     time.Duration

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewEngine creates a chat engine. client may be nil, which disables the
// generative path entirely.
func NewEngine(
	cls ClassifierInterface,
	gen GeneratorInterface,
	pb PromptInterface,
	client llm.Client,
	catalog *schedule.Catalog,
) *Engine {
	return &Engine{
		classifier:    cls,
		generator:     gen,
		promptBuilder: pb,
		llmClient:     client,
		catalog:       catalog,
		breaker:       NewBreaker(3, 2*time.Minute),
		aiTimeout:     15 * time.Second,
		Now:           time.Now,
	}
}

// ProcessMessage answers one chat message.
func (e *Engine) ProcessMessage(ctx context.Context, req ProcessRequest) suggest.ChatResponse {
	resp, err := e.tryGenerative(ctx, req)
	if err == nil {
		return resp
	}
	if !errors.Is(err, errLLMUnavailable) {
		log.Printf("Generative path failed, using rule-based response: %v", err)
	}

	convCtx := conversation.Analyze(req.History)
	result := e.classifier.Classify(req.Message, convCtx)
	return e.generator.Generate(ctx, suggest.Request{
		Message: req.Message,
		Result:  result,
		Profile: req.Profile,
	})
}

// tryGenerative runs the model path end to end: prompt, call, normalize.
func (e *Engine) tryGenerative(ctx context.Context, req ProcessRequest) (suggest.ChatResponse, error) {
	if e.llmClient == nil {
		return suggest.ChatResponse{}, errLLMUnavailable
	}
	if !e.breaker.Allow() {
		return suggest.ChatResponse{}, errLLMUnavailable
	}

	messages := e.promptBuilder.BuildPrompt(prompt.Request{
		UserMessage: req.Message,
		Profile:     req.Profile,
		History:     req.History,
		Upcoming:    e.upcomingClasses(),
		Context:     req.Context,
	})

	callCtx, cancel := context.WithTimeout(ctx, e.aiTimeout)
	defer cancel()

	resp, err := e.llmClient.ChatCompletion(callCtx, llm.ChatRequest{Messages: messages})
	if err != nil {
		e.breaker.Record(err)
		return suggest.ChatResponse{}, fmt.Errorf("chat completion: %w", err)
	}

	content := resp.Content()
	if content == "" {
		err := fmt.Errorf("chat completion returned no choices")
		e.breaker.Record(err)
		return suggest.ChatResponse{}, err
	}

	normalized, err := normalizeLLMOutput(content)
	e.breaker.Record(err)
	if err != nil {
		return suggest.ChatResponse{}, err
	}
	return normalized, nil
}

// upcomingClasses summarizes today's schedule for the prompt.
func (e *Engine) upcomingClasses() []schedule.ClassRecord {
	if e.catalog == nil {
		return nil
	}
	now := e.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	records := e.catalog.Search(schedule.Query{Dates: []time.Time{today}})
	if len(records) > 5 {
		records = records[:5]
	}
	return records
}
