package conversation

import "strings"

// Turn is one prior exchange message supplied by the caller.
type Turn struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Topic is a coarse subject tag extracted from recent history.
type Topic string

const (
	TopicWorkout Topic = "workout"
	TopicMeal    Topic = "meal"
	TopicClass   Topic = "class"
	TopicPlan    Topic = "plan"
)

// historyWindow bounds how far back the analyzer looks. Older turns are
// ignored, never an error.
const historyWindow = 5

// Context is the ephemeral per-request view of recent conversation topics.
// Presence matters; order and count do not.
type Context struct {
	topics map[Topic]bool
}

// Has reports whether the topic appeared anywhere in the analyzed window.
func (c Context) Has(topic Topic) bool {
	return c.topics[topic]
}

// Empty reports whether no topics were found.
func (c Context) Empty() bool {
	return len(c.topics) == 0
}

// Topics returns the tags found, for logging.
func (c Context) Topics() []Topic {
	out := make([]Topic, 0, len(c.topics))
	for _, t := range []Topic{TopicWorkout, TopicMeal, TopicClass, TopicPlan} {
		if c.topics[t] {
			out = append(out, t)
		}
	}
	return out
}

// topicKeywords maps each tag to its trigger substrings. A single turn may
// contribute several tags; there is no weighting or recency decay.
var topicKeywords = map[Topic][]string{
	TopicWorkout: {"workout", "exercise", "training", "fitness"},
	TopicMeal:    {"meal", "food", "eat", "dinner", "lunch", "breakfast"},
	TopicClass:   {"class", "myrec", "schedule", "reserve"},
	TopicPlan:    {"plan", "daily", "today", "schedule"},
}

// Analyze scans up to the last five turns and tags the topics they mention.
func Analyze(history []Turn) Context {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	topics := make(map[Topic]bool)
	for _, turn := range history {
		content := strings.ToLower(turn.Content)
		for topic, keywords := range topicKeywords {
			for _, kw := range keywords {
				if strings.Contains(content, kw) {
					topics[topic] = true
					break
				}
			}
		}
	}
	return Context{topics: topics}
}
