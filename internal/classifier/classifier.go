package classifier

import (
	"regexp"
	"strings"

	"github.com/halofit/halo-be/internal/conversation"
)

// Intent is the fixed category a message resolves to.
type Intent string

const (
	IntentGreeting  Intent = "greeting"
	IntentWorkout   Intent = "workout"
	IntentMeal      Intent = "meal"
	IntentClass     Intent = "class"
	IntentPlan      Intent = "plan"
	IntentProgress  Intent = "progress"
	IntentNutrition Intent = "nutrition"
	IntentTime      Intent = "time"
	IntentQuestion  Intent = "general_question"
	IntentDefault   Intent = "default"
)

// Sub-intents refine a branch without changing its position in the cascade.
const (
	SubReplan          = "replan"
	SubCalories        = "calories"
	SubWorkoutFollowUp = "workout_followup"
)

// Result is the classification outcome. Exactly one intent is always
// returned; SubIntent may be empty.
type Result struct {
	Intent    Intent `json:"intent"`
	SubIntent string `json:"subIntent,omitempty"`
}

// rule is one entry of the ordered cascade. Rules are evaluated top-to-bottom
// and the first match wins: a message containing both "meal" and "workout"
// classifies as workout because that rule comes first.
type rule struct {
	intent Intent
	match  func(msg string) bool
}

// Classifier resolves messages to intents with an ordered keyword cascade.
// It holds no per-request state and is safe for concurrent use.
type Classifier struct {
	rules           []rule
	spaceNormalizer *regexp.Regexp
	followUpWords   []string
}

// NewClassifier builds the cascade.
func NewClassifier() *Classifier {
	return &Classifier{
		spaceNormalizer: regexp.MustCompile(`\s+`),
		followUpWords:   []string{"when", "time", "schedule"},
		rules: []rule{
			{IntentGreeting, matchWords("hi", "hello", "hey", "howdy")},
			{IntentWorkout, matchWords("workout", "workouts", "exercise", "exercises", "training", "fitness", "gym")},
			{IntentMeal, matchWords("meal", "meals", "food", "eat", "eating", "dinner", "lunch", "breakfast", "recipe")},
			{IntentClass, matchWords("class", "classes", "myrec", "reserve")},
			{IntentPlan, matchWords("plan", "plans", "replan", "recommendation", "recommendations")},
			{IntentProgress, matchWords("progress", "track", "tracking", "summary")},
			{IntentNutrition, matchWords("calorie", "calories", "nutrition", "protein", "macros")},
			{IntentTime, matchWords("schedule", "when", "tomorrow", "weekend", "tonight")},
			{IntentQuestion, matchQuestionPrefix},
		},
	}
}

// Classify maps the message and context tags to exactly one intent. It is a
// pure function of its inputs.
func (c *Classifier) Classify(message string, ctx conversation.Context) Result {
	normalized := c.normalize(message)

	for _, r := range c.rules {
		if r.match(normalized) {
			return Result{Intent: r.intent, SubIntent: c.subIntent(r.intent, normalized)}
		}
	}

	// No branch matched: a recent workout topic plus schedule-ish wording
	// turns the default into a workout follow-up.
	if ctx.Has(conversation.TopicWorkout) && containsAny(normalized, c.followUpWords) {
		return Result{Intent: IntentDefault, SubIntent: SubWorkoutFollowUp}
	}
	return Result{Intent: IntentDefault}
}

// subIntent runs the branch-local second check.
func (c *Classifier) subIntent(intent Intent, msg string) string {
	switch intent {
	case IntentPlan:
		if matchWords("replan", "change")(msg) {
			return SubReplan
		}
	case IntentMeal:
		if matchWords("calorie", "calories")(msg) {
			return SubCalories
		}
	}
	return ""
}

func (c *Classifier) normalize(input string) string {
	text := strings.ToLower(strings.TrimSpace(input))
	text = c.spaceNormalizer.ReplaceAllString(text, " ")
	return strings.TrimRight(text, "!?.,;:")
}

// matchWords builds a whole-word predicate over the given keywords.
func matchWords(words ...string) func(string) bool {
	re := regexp.MustCompile(`\b(` + strings.Join(words, "|") + `)\b`)
	return re.MatchString
}

var questionPrefixes = []string{"how", "what", "why", "where", "can", "should", "do you"}

func matchQuestionPrefix(msg string) bool {
	for _, p := range questionPrefixes {
		if msg == p || strings.HasPrefix(msg, p+" ") {
			return true
		}
	}
	return false
}

func containsAny(msg string, words []string) bool {
	for _, w := range words {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}
