package classifier

import (
	"testing"

	"github.com/halofit/halo-be/internal/conversation"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantIntent    Intent
		wantSubIntent string
	}{
		// Greeting
		{name: "greeting hi", input: "hi", wantIntent: IntentGreeting},
		{name: "greeting hello", input: "hello there", wantIntent: IntentGreeting},
		{name: "greeting with punctuation", input: "  Hey!!  ", wantIntent: IntentGreeting},

		// Workout
		{name: "workout keyword", input: "I need a workout", wantIntent: IntentWorkout},
		{name: "gym keyword", input: "going to the gym today", wantIntent: IntentWorkout},
		{name: "exercise keyword", input: "best exercises for beginners", wantIntent: IntentWorkout},

		// Meal
		{name: "meal keyword", input: "suggest a meal", wantIntent: IntentMeal},
		{name: "eat keyword", input: "what should I eat", wantIntent: IntentMeal},
		{name: "eat is matched as a whole word", input: "the weather is great", wantIntent: IntentDefault},
		{name: "meal calories sub-intent", input: "how many calories in my dinner", wantIntent: IntentMeal, wantSubIntent: SubCalories},

		// Class
		{name: "class keyword", input: "any classes tonight", wantIntent: IntentClass},
		{name: "myrec keyword", input: "check myrec for me", wantIntent: IntentClass},

		// Plan
		{name: "plan keyword", input: "build my daily plan", wantIntent: IntentPlan},
		{name: "replan sub-intent", input: "replan my day", wantIntent: IntentPlan, wantSubIntent: SubReplan},
		{name: "recommendations", input: "give me recommendations", wantIntent: IntentPlan},

		// Progress
		{name: "progress keyword", input: "show my progress", wantIntent: IntentProgress},
		{name: "weekly summary", input: "weekly summary please", wantIntent: IntentProgress},

		// Nutrition
		{name: "protein question without meal words", input: "is protein important", wantIntent: IntentNutrition},

		// Time
		{name: "schedule without class words", input: "my schedule is packed", wantIntent: IntentTime},
		{name: "tomorrow", input: "free tomorrow", wantIntent: IntentTime},

		// General question
		{name: "how prefix", input: "how does this app work", wantIntent: IntentQuestion},
		{name: "should prefix", input: "should I stretch more", wantIntent: IntentQuestion},
		{name: "do you prefix", input: "do you support reminders", wantIntent: IntentQuestion},
		{name: "bare question word", input: "How?", wantIntent: IntentQuestion},
		{name: "bare do you", input: "do you", wantIntent: IntentQuestion},

		// Default
		{name: "empty message", input: "", wantIntent: IntentDefault},
		{name: "unrelated message", input: "blue is my favorite color", wantIntent: IntentDefault},

		// Ordering: first match wins
		{name: "meal and workout classifies as workout", input: "meal after my workout", wantIntent: IntentWorkout},
		{name: "class and plan classifies as class", input: "plan around my class", wantIntent: IntentClass},
		{name: "question prefix loses to keyword branch", input: "what workout should I do", wantIntent: IntentWorkout},
	}

	c := NewClassifier()
	empty := conversation.Analyze(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.input, empty)
			if got.Intent != tt.wantIntent {
				t.Errorf("Classify(%q).Intent = %q, want %q", tt.input, got.Intent, tt.wantIntent)
			}
			if got.SubIntent != tt.wantSubIntent {
				t.Errorf("Classify(%q).SubIntent = %q, want %q", tt.input, got.SubIntent, tt.wantSubIntent)
			}
		})
	}
}

func TestClassifier_WorkoutFollowUp(t *testing.T) {
	c := NewClassifier()
	ctx := conversation.Analyze([]conversation.Turn{
		{Role: "user", Content: "I want to get a workout in"},
		{Role: "assistant", Content: "Sure, here are some options"},
	})

	got := c.Classify("sometime around six works best", ctx)
	if got.Intent != IntentDefault || got.SubIntent != SubWorkoutFollowUp {
		t.Errorf("got %+v, want default/workout_followup", got)
	}

	// Without the workout topic the same message is a plain default.
	got = c.Classify("sometime around six works best", conversation.Analyze(nil))
	if got.Intent != IntentDefault || got.SubIntent != "" {
		t.Errorf("got %+v, want plain default", got)
	}
}

func TestClassifier_AlwaysExactlyOneIntent(t *testing.T) {
	known := map[Intent]bool{
		IntentGreeting: true, IntentWorkout: true, IntentMeal: true,
		IntentClass: true, IntentPlan: true, IntentProgress: true,
		IntentNutrition: true, IntentTime: true, IntentQuestion: true,
		IntentDefault: true,
	}

	c := NewClassifier()
	empty := conversation.Analyze(nil)
	messages := []string{
		"", "hi", "workout meal class plan", "???", "what", "когда",
		"WHAT SHOULD I EAT", "schedule a class for my plan tomorrow",
	}
	for _, msg := range messages {
		got := c.Classify(msg, empty)
		if !known[got.Intent] {
			t.Errorf("Classify(%q) returned unknown intent %q", msg, got.Intent)
		}
	}
}

func TestClassifier_IsDeterministic(t *testing.T) {
	c := NewClassifier()
	empty := conversation.Analyze(nil)
	for i := 0; i < 10; i++ {
		if got := c.Classify("plan my meals and workouts", empty); got.Intent != IntentWorkout {
			t.Fatalf("iteration %d: got %q", i, got.Intent)
		}
	}
}
