package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/halofit/halo-be/internal/conversation"
	"github.com/halofit/halo-be/internal/profile"
	"github.com/halofit/halo-be/internal/schedule"
	"github.com/halofit/halo-be/pkg/llm"
)

const (
	// historyLimit bounds how many prior turns are replayed to the model.
	historyLimit = 6

	// Caps on the client-supplied context block so a bloated payload
	// cannot crowd out the coaching instructions.
	contextEntryLimit = 8
	contextValueLimit = 120
)

// Request contains everything needed to build the coaching prompt.
type Request struct {
	UserMessage string
	Profile     profile.UserProfile
	History     []conversation.Turn
	Upcoming    []schedule.ClassRecord

	// Context carries free-form key/value hints from the client, such as
	// the active screen or a selected date.
	Context map[string]any
}

// Builder constructs chat-completion prompts for the coaching model.
type Builder struct{}

// NewBuilder creates a new prompt builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// BuildPrompt assembles the message list: one system message carrying the
// coaching instructions and user context, the bounded history, then the
// current user message.
func (b *Builder) BuildPrompt(req Request) []llm.ChatMessage {
	history := req.History
	if len(history) > historyLimit {
		history = history[len(history)-historyLimit:]
	}

	messages := make([]llm.ChatMessage, 0, 2+len(history))
	messages = append(messages, llm.ChatMessage{
		Role:    "system",
		Content: b.buildSystemPrompt(req),
	})

	for _, turn := range history {
		messages = append(messages, llm.ChatMessage{
			Role:    turn.Role,
			Content: turn.Content,
		})
	}

	messages = append(messages, llm.ChatMessage{
		Role:    "user",
		Content: req.UserMessage,
	})
	return messages
}

// buildSystemPrompt creates the system prompt with user context.
func (b *Builder) buildSystemPrompt(req Request) string {
	var sb strings.Builder
	sb.Grow(1024)

	sb.WriteString("You are a friendly wellness coach for a fitness club. ")
	sb.WriteString("You help members plan workouts, meals, and class bookings. ")
	sb.WriteString("\n\n")

	sb.WriteString("RESPONSE FORMAT:\n")
	sb.WriteString("Respond ONLY with a JSON object, no prose around it. Use one of two shapes:\n")
	sb.WriteString(`1. {"type":"message","message":"..."} for conversational replies` + "\n")
	sb.WriteString(`2. {"type":"suggestions","suggestions":[...]} for actionable items` + "\n")
	sb.WriteString("Each suggestion has: id, kind (workout|meal|class), title, start, end (ISO 8601), ")
	sb.WriteString("and for meals: calories, protein, carbs, fat.\n")
	sb.WriteString("Never suggest more than 4 items.\n")
	sb.WriteString("\n")

	sb.WriteString("Member profile: ")
	sb.WriteString(req.Profile.Summary())
	sb.WriteString("\n")

	targets := req.Profile.Targets()
	fmt.Fprintf(&sb, "Daily targets: %d kcal, %dg protein, %d active minutes.\n",
		targets.Calories, targets.ProteinGrams, targets.ActiveMinutes)

	if len(req.Profile.Survey) > 0 {
		sb.WriteString("Survey notes:\n")
		for _, note := range req.Profile.Survey {
			fmt.Fprintf(&sb, "- %s\n", note)
		}
	}

	if block := formatContext(req.Context); block != "" {
		sb.WriteString("\nSession context:\n")
		sb.WriteString(block)
	}

	if len(req.Upcoming) > 0 {
		sb.WriteString("\nUpcoming club classes:\n")
		for _, rec := range req.Upcoming {
			fmt.Fprintf(&sb, "- %s at %s (%s, %d spots open)\n",
				rec.Title, rec.Start.Format("Mon Jan 2 3:04 PM"), rec.Location, rec.SpotsOpen)
		}
	}

	sb.WriteString("\nKeep messages brief and encouraging, like a coach texting a member.")
	return sb.String()
}

// formatContext renders client-supplied context as sorted bullet lines,
// dropping empty values and truncating the rest.
func formatContext(ctx map[string]any) string {
	if len(ctx) == 0 {
		return ""
	}

	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > contextEntryLimit {
		keys = keys[:contextEntryLimit]
	}

	var sb strings.Builder
	for _, k := range keys {
		v := strings.TrimSpace(fmt.Sprint(ctx[k]))
		if v == "" {
			continue
		}
		if len(v) > contextValueLimit {
			v = v[:contextValueLimit] + "..."
		}
		fmt.Fprintf(&sb, "- %s: %s\n", k, v)
	}
	return sb.String()
}
