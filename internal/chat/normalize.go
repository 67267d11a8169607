package chat

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/halofit/halo-be/internal/suggest"
)

// rawSuggestion is the loosely-typed shape the model is asked to emit.
// Everything is optional; normalization backfills what is missing.
type rawSuggestion struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Title    string `json:"title"`
	Desc     string `json:"desc"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Calories int    `json:"calories"`
	Protein  int    `json:"protein"`
	Carbs    int    `json:"carbs"`
	Fat      int    `json:"fat"`
}

type rawResponse struct {
	Type        string          `json:"type"`
	Message     string          `json:"message"`
	Suggestions []rawSuggestion `json:"suggestions"`
}

// normalizeLLMOutput converts model output into a well-formed ChatResponse.
// Unknown kinds are coerced to workout, missing fields are backfilled, and
// any suggestion list is collapsed into a single readable message: model
// suggestions are advisory text, not actionable UI payloads.
func normalizeLLMOutput(content string) (suggest.ChatResponse, error) {
	content = stripCodeFence(content)

	var raw rawResponse
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return suggest.ChatResponse{}, fmt.Errorf("model output is not valid JSON: %w", err)
	}

	if len(raw.Suggestions) > 0 {
		return suggest.MessageResponse(collapseSuggestions(raw)), nil
	}
	if raw.Message == "" {
		return suggest.ChatResponse{}, fmt.Errorf("model output has neither message nor suggestions")
	}
	return suggest.MessageResponse(raw.Message), nil
}

// collapseSuggestions renders normalized suggestions as one message.
func collapseSuggestions(raw rawResponse) string {
	var sb strings.Builder
	if raw.Message != "" {
		sb.WriteString(raw.Message)
	} else {
		sb.WriteString("Here's what I'd suggest:")
	}
	for _, item := range normalizeSuggestions(raw.Suggestions) {
		sb.WriteString("\n- ")
		sb.WriteString(item.Title)
		if item.Desc != "" {
			sb.WriteString(": ")
			sb.WriteString(item.Desc)
		}
	}
	return sb.String()
}

// normalizeSuggestions applies the coercion rules to each raw item.
func normalizeSuggestions(items []rawSuggestion) []suggest.Suggestion {
	out := make([]suggest.Suggestion, 0, len(items))
	for _, item := range items {
		out = append(out, normalizeSuggestion(item))
	}
	return out
}

func normalizeSuggestion(item rawSuggestion) suggest.Suggestion {
	kind := suggest.Kind(item.Kind)
	switch kind {
	case suggest.KindWorkout, suggest.KindMeal, suggest.KindClass:
	default:
		kind = suggest.KindWorkout
	}

	s := suggest.Suggestion{
		ID:    item.ID,
		Kind:  kind,
		Title: item.Title,
		Desc:  item.Desc,
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Title == "" {
		s.Title = defaultTitle(kind)
	}

	switch kind {
	case suggest.KindMeal:
		s.CTA = suggest.CTALogMeal
		s.Payload = map[string]interface{}{
			"kcal":    item.Calories,
			"protein": item.Protein,
			"carbs":   item.Carbs,
			"fat":     item.Fat,
		}
	case suggest.KindClass:
		s.CTA = suggest.CTAReserveSpot
		s.Payload = map[string]interface{}{
			"startISO": item.Start,
			"endISO":   item.End,
		}
	default:
		s.CTA = suggest.CTAAddToCalendar
		s.Payload = map[string]interface{}{
			"startISO": item.Start,
			"endISO":   item.End,
		}
	}
	return s
}

func defaultTitle(kind suggest.Kind) string {
	switch kind {
	case suggest.KindMeal:
		return "Suggested Meal"
	case suggest.KindClass:
		return "Suggested Class"
	default:
		return "Suggested Workout"
	}
}

// stripCodeFence removes a surrounding markdown code fence if the model
// wrapped its JSON in one.
func stripCodeFence(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}
