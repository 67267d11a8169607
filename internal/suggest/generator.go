package suggest

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/halofit/halo-be/internal/classifier"
	"github.com/halofit/halo-be/internal/profile"
	"github.com/halofit/halo-be/internal/schedule"
	"github.com/halofit/halo-be/internal/timeparse"
	"github.com/halofit/halo-be/pkg/weather"
)

const (
	workoutDuration = 45 * time.Minute

	// Result caps: chat-embedded class replies stay short; listings may
	// show one more.
	chatClassLimit = 4
	listClassLimit = 5

	helpText = "I can help you with workouts, meals, classes, and daily planning. What would you like to do?"
)

// WeatherAdvisor supplies the indoor/outdoor advisory. It never errors;
// implementations degrade to a default advisory internally.
type WeatherAdvisor interface {
	Current(ctx context.Context) weather.Advice
}

// Request carries everything the generator needs for one reply.
// Conversation context has already been folded into Result by the
// classifier, so the generator only sees its outcome.
type Request struct {
	Message string
	Result  classifier.Result
	Profile profile.UserProfile
}

// Generator produces rule-based chat responses. It has no external
// dependencies beyond the read-only schedule catalog and the optional
// weather advisor, and is safe for concurrent use.
type Generator struct {
	catalog *schedule.Catalog
	weather WeatherAdvisor

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// NewGenerator creates a generator. advisor may be nil.
func NewGenerator(catalog *schedule.Catalog, advisor WeatherAdvisor) *Generator {
	return &Generator{
		catalog: catalog,
		weather: advisor,
		Now:     time.Now,
	}
}

// Generate builds the response for a classified message. It always returns a
// well-formed ChatResponse, whatever the input.
func (g *Generator) Generate(ctx context.Context, req Request) ChatResponse {
	switch req.Result.Intent {
	case classifier.IntentGreeting:
		return MessageResponse(req.Profile.Greeting() + helpText)
	case classifier.IntentWorkout:
		return g.workoutResponse(ctx, req.Profile)
	case classifier.IntentMeal:
		if req.Result.SubIntent == classifier.SubCalories {
			t := req.Profile.Targets()
			return MessageResponse(fmt.Sprintf(
				"Aim for roughly %d kcal a day with %dg of protein. Want meal ideas that fit those numbers?",
				t.Calories, t.ProteinGrams))
		}
		return g.mealResponse(req.Profile)
	case classifier.IntentClass:
		return g.classResponse(req.Message)
	case classifier.IntentPlan:
		return g.planResponse(ctx, req)
	case classifier.IntentProgress:
		return ChatResponse{
			Type:    TypeMessage,
			Message: "Let me show you your progress! Check out your weekly summary with workouts and calories burned.",
			Action:  "show_progress",
		}
	case classifier.IntentNutrition:
		t := req.Profile.Targets()
		return MessageResponse(fmt.Sprintf(
			"A good daily target for you is about %d kcal with %dg of protein. Ask me for meal ideas and I'll match them to your preferences!",
			t.Calories, t.ProteinGrams))
	case classifier.IntentTime:
		return g.timeframeResponse(req.Message)
	case classifier.IntentQuestion:
		return MessageResponse("Great question! " + helpText)
	default:
		if req.Result.SubIntent == classifier.SubWorkoutFollowUp {
			return g.workoutFollowUp()
		}
		return MessageResponse(req.Profile.Greeting() + helpText)
	}
}

// workoutResponse emits 1-2 workout suggestions, one per time preference.
func (g *Generator) workoutResponse(ctx context.Context, prof profile.UserProfile) ChatResponse {
	advice := g.advice(ctx)
	workoutType, title := workoutTypeForGoal(prof)
	if advice.Recommendation == weather.RecommendOutdoor && workoutType == "cardio" {
		title = "Outdoor Running"
	}

	prefs := prof.TimePrefs
	if len(prefs) > 2 {
		prefs = prefs[:2]
	}
	if len(prefs) == 0 {
		prefs = []string{"evening"}
	}

	rec := advice.Summary()
	suggestions := make([]Suggestion, 0, len(prefs))
	for _, pref := range prefs {
		start := g.startForPref(pref)
		suggestions = append(suggestions, NewWorkout(
			"w_"+pref, title, rec, workoutType, start, start.Add(workoutDuration)))
	}
	return SuggestionsResponse(rec, suggestions)
}

func (g *Generator) workoutFollowUp() ChatResponse {
	start := g.startForPref("evening")
	s := NewWorkout("w_simple", "Evening Workout", "45-minute session", "mixed",
		start, start.Add(workoutDuration))
	return SuggestionsResponse(
		"Based on our earlier conversation about workouts, let me suggest some times that work with your schedule.",
		[]Suggestion{s})
}

// mealResponse always yields at least one meal.
func (g *Generator) mealResponse(prof profile.UserProfile) ChatResponse {
	return SuggestionsResponse(
		"Here are some meal ideas that match your preferences!",
		mealsForProfile(prof))
}

// classResponse is the chat-embedded class path: capped at four and
// shuffled so the same class isn't surfaced every time.
func (g *Generator) classResponse(message string) ChatResponse {
	tf := timeparse.Resolve(message, g.Now())
	records := g.catalog.Search(schedule.Query{Dates: tf.Dates, Window: tf.Window})
	if len(records) == 0 {
		return MessageResponse(fmt.Sprintf(
			"I don't see any classes %s. Want to try another day or time?", tf.Label))
	}

	shuffled := make([]schedule.ClassRecord, len(records))
	copy(shuffled, records)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > chatClassLimit {
		shuffled = shuffled[:chatClassLimit]
	}

	suggestions := make([]Suggestion, 0, len(shuffled))
	for _, rec := range shuffled {
		suggestions = append(suggestions, NewClass(rec))
	}
	return SuggestionsResponse(
		fmt.Sprintf("Here are classes %s at Duke Recreation!", tf.Label), suggestions)
}

// ListClasses serves the explicit listing path: deterministic, chronological,
// capped at five.
func (g *Generator) ListClasses(q schedule.Query) []Suggestion {
	records := g.catalog.Search(q)
	if len(records) > listClassLimit {
		records = records[:listClassLimit]
	}
	out := make([]Suggestion, 0, len(records))
	for _, rec := range records {
		out = append(out, NewClass(rec))
	}
	return out
}

// timeframeResponse answers schedule-ish messages with what's on in the
// resolved window.
func (g *Generator) timeframeResponse(message string) ChatResponse {
	tf := timeparse.Resolve(message, g.Now())
	records := g.catalog.Search(schedule.Query{Dates: tf.Dates, Window: tf.Window})
	if len(records) > chatClassLimit {
		records = records[:chatClassLimit]
	}
	suggestions := make([]Suggestion, 0, len(records))
	for _, rec := range records {
		suggestions = append(suggestions, NewClass(rec))
	}
	if len(suggestions) == 0 {
		return MessageResponse(fmt.Sprintf(
			"Nothing on the schedule %s. Ask me for a workout or a meal idea instead!", tf.Label))
	}
	return SuggestionsResponse(fmt.Sprintf("Here's what's happening %s:", tf.Label), suggestions)
}

// planResponse composes one workout, one meal, and one class.
func (g *Generator) planResponse(ctx context.Context, req Request) ChatResponse {
	msg := strings.ToLower(req.Message)
	if strings.Contains(msg, "save") {
		return ChatResponse{
			Type:    TypeMessage,
			Message: "I can help you save your daily plan! Use the 'Save my plan' button below.",
			Action:  "save_plan",
		}
	}
	if strings.Contains(msg, "email") {
		return ChatResponse{
			Type:    TypeMessage,
			Message: "I can email you your plan! Use the 'Email me my plan' button below.",
			Action:  "email_plan",
		}
	}

	advice := g.advice(ctx)
	rec := advice.Summary()
	prof := req.Profile

	workoutType, title := workoutTypeForGoal(prof)
	if advice.Recommendation == weather.RecommendOutdoor && workoutType == "cardio" {
		title = "Outdoor Running"
	}
	pref := "morning"
	if len(prof.TimePrefs) > 0 {
		pref = prof.TimePrefs[0]
	}
	start := g.startForPref(pref)
	workout := NewWorkout("w_plan", title, rec, workoutType, start, start.Add(workoutDuration))

	meal := mealsForProfile(prof)[0]

	suggestions := []Suggestion{workout, meal}
	today := g.Now()
	if classes := g.catalog.Search(schedule.Query{Dates: []time.Time{today}}); len(classes) > 0 {
		suggestions = append(suggestions, NewClass(classes[0]))
	}

	goal := prof.PrimaryGoal
	if goal == "" {
		goal = "general fitness"
	}
	resp := SuggestionsResponse(
		fmt.Sprintf("Here's your personalized daily plan for %s! %s", strings.ToLower(goal), rec),
		suggestions)
	resp.PlanData = partitionByKind(suggestions)
	return resp
}

func partitionByKind(suggestions []Suggestion) *PlanData {
	pd := &PlanData{
		Workouts: []Suggestion{},
		Meals:    []Suggestion{},
		Classes:  []Suggestion{},
	}
	for _, s := range suggestions {
		switch s.Kind {
		case KindWorkout:
			pd.Workouts = append(pd.Workouts, s)
		case KindMeal:
			pd.Meals = append(pd.Meals, s)
		case KindClass:
			pd.Classes = append(pd.Classes, s)
		}
	}
	return pd
}

// advice consults the weather collaborator, defaulting to mild outdoor
// conditions when none is configured.
func (g *Generator) advice(ctx context.Context) weather.Advice {
	if g.weather == nil {
		return weather.DefaultAdvice()
	}
	return g.weather.Current(ctx)
}

// workoutTypeForGoal derives the workout variant from goal keywords.
func workoutTypeForGoal(prof profile.UserProfile) (workoutType, title string) {
	switch {
	case prof.GoalContains("strength") || prof.GoalContains("muscle"):
		return "strength", "Strength Training Session"
	case prof.GoalContains("cardio") || prof.GoalContains("endurance"):
		return "cardio", "Cardio Workout"
	default:
		return "mixed", "Full Body Workout"
	}
}

// startForPref maps a time preference to today's fixed start hour:
// morning=7:00, afternoon=14:00, anything else=18:00.
func (g *Generator) startForPref(pref string) time.Time {
	now := g.Now()
	hour := 18
	switch strings.ToLower(pref) {
	case "morning":
		hour = 7
	case "afternoon":
		hour = 14
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
}

// mealsForProfile returns at least one meal matching the diet preferences.
func mealsForProfile(prof profile.UserProfile) []Suggestion {
	meals := make([]Suggestion, 0, 3)

	if prof.HasDietPref("Vegetarian") || prof.HasDietPref("Vegan") {
		meals = append(meals,
			NewMeal("m_veg1", "Quinoa Buddha Bowl", "Quinoa, roasted vegetables, tahini dressing", 450, 18, 65, 12),
			NewMeal("m_veg2", "Chickpea Curry", "Protein-rich curry with brown rice", 520, 22, 75, 15),
		)
	}

	if prof.GoalContains("fitness") || prof.GoalContains("strength") {
		meals = append(meals,
			NewMeal("m_protein1", "Grilled Chicken with Sweet Potato", "High protein, balanced macros", 580, 45, 55, 18))
	}

	if len(meals) == 0 {
		meals = append(meals,
			NewMeal("m_balanced", "Salmon with Quinoa and Vegetables", "Balanced macros, omega-3 rich", 520, 35, 50, 20))
	}
	return meals
}
