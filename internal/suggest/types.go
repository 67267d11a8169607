package suggest

import (
	"fmt"
	"time"

	"github.com/halofit/halo-be/internal/schedule"
)

// Kind is the closed set of suggestion variants.
type Kind string

const (
	KindWorkout Kind = "workout"
	KindMeal    Kind = "meal"
	KindClass   Kind = "class"
)

// Call-to-action labels per kind.
const (
	CTAAddToCalendar = "Add to Calendar"
	CTALogMeal       = "Log Meal"
	CTAReserveSpot   = "Reserve Spot"
)

// Response types.
const (
	TypeMessage     = "message"
	TypeSuggestions = "suggestions"
)

// Suggestion is one structured, actionable recommendation. Schedulable kinds
// (workout, class) always carry startISO and endISO in their payload; the
// constructors below enforce that.
type Suggestion struct {
	ID      string                 `json:"id"`
	Kind    Kind                   `json:"kind"`
	Title   string                 `json:"title"`
	Desc    string                 `json:"desc,omitempty"`
	CTA     string                 `json:"cta"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Validate checks the kind-specific payload invariants.
func (s Suggestion) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("suggestion missing id")
	}
	if s.Title == "" {
		return fmt.Errorf("suggestion %s missing title", s.ID)
	}
	switch s.Kind {
	case KindWorkout, KindClass:
		if s.Payload["startISO"] == "" || s.Payload["startISO"] == nil {
			return fmt.Errorf("suggestion %s missing startISO", s.ID)
		}
		if s.Payload["endISO"] == "" || s.Payload["endISO"] == nil {
			return fmt.Errorf("suggestion %s missing endISO", s.ID)
		}
	case KindMeal:
		if _, ok := s.Payload["kcal"]; !ok {
			return fmt.Errorf("suggestion %s missing kcal", s.ID)
		}
	default:
		return fmt.Errorf("suggestion %s has unknown kind %q", s.ID, s.Kind)
	}
	return nil
}

// NewWorkout builds a schedulable workout suggestion.
func NewWorkout(id, title, desc, workoutType string, start, end time.Time) Suggestion {
	return Suggestion{
		ID:    id,
		Kind:  KindWorkout,
		Title: title,
		Desc:  desc,
		CTA:   CTAAddToCalendar,
		Payload: map[string]interface{}{
			"startISO": start.Format(time.RFC3339),
			"endISO":   end.Format(time.RFC3339),
			"type":     workoutType,
		},
	}
}

// NewMeal builds a meal suggestion with its macro payload.
func NewMeal(id, title, desc string, kcal, protein, carbs, fat int) Suggestion {
	return Suggestion{
		ID:    id,
		Kind:  KindMeal,
		Title: title,
		Desc:  desc,
		CTA:   CTALogMeal,
		Payload: map[string]interface{}{
			"kcal":    kcal,
			"protein": protein,
			"carbs":   carbs,
			"fat":     fat,
		},
	}
}

// NewClass converts a schedule record into a reservable suggestion.
func NewClass(rec schedule.ClassRecord) Suggestion {
	return Suggestion{
		ID:    rec.ID,
		Kind:  KindClass,
		Title: rec.Title,
		Desc:  fmt.Sprintf("%s - %d spots available", rec.Location, rec.SpotsOpen),
		CTA:   CTAReserveSpot,
		Payload: map[string]interface{}{
			"startISO":  rec.Start.Format(time.RFC3339),
			"endISO":    rec.End.Format(time.RFC3339),
			"location":  rec.Location,
			"spotsOpen": rec.SpotsOpen,
		},
	}
}

// PlanData partitions a composed plan's suggestions by kind.
type PlanData struct {
	Workouts []Suggestion `json:"workouts"`
	Meals    []Suggestion `json:"meals"`
	Classes  []Suggestion `json:"classes"`
}

// ChatResponse is the caller-facing reply. Type "suggestions" implies a
// non-empty suggestion list; the constructors maintain that invariant.
type ChatResponse struct {
	Type        string       `json:"type"`
	Message     string       `json:"message,omitempty"`
	Suggestions []Suggestion `json:"suggestions,omitempty"`
	Action      string       `json:"action,omitempty"`
	PlanData    *PlanData    `json:"planData,omitempty"`
}

// MessageResponse builds a plain message reply.
func MessageResponse(message string) ChatResponse {
	return ChatResponse{Type: TypeMessage, Message: message}
}

// SuggestionsResponse builds a suggestions reply. An empty list degrades to
// a message response so the non-empty invariant always holds.
func SuggestionsResponse(message string, suggestions []Suggestion) ChatResponse {
	if len(suggestions) == 0 {
		return MessageResponse(message)
	}
	return ChatResponse{
		Type:        TypeSuggestions,
		Message:     message,
		Suggestions: suggestions,
	}
}
