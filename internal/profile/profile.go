package profile

import (
	"fmt"
	"strings"
)

// UserProfile is the caller-supplied profile. Every field is optional; a
// missing field means "use defaults" and is never an error.
type UserProfile struct {
	Name          string   `json:"name"`
	PrimaryGoal   string   `json:"primaryGoal"`
	DietPrefs     []string `json:"dietPrefs"`
	TimePrefs     []string `json:"timePrefs"`
	TimeBudgetMin int      `json:"timeBudgetMin"`
	Survey        []string `json:"survey"`
}

// DailyTargets are coarse nutrition/activity targets derived from the goal,
// used to enrich the generative prompt.
type DailyTargets struct {
	Calories      int
	ProteinGrams  int
	ActiveMinutes int
}

// HasDietPref reports whether the preference is present, case-insensitively.
func (p UserProfile) HasDietPref(pref string) bool {
	for _, d := range p.DietPrefs {
		if strings.EqualFold(d, pref) {
			return true
		}
	}
	return false
}

// GoalContains reports whether the free-text goal mentions the keyword.
func (p UserProfile) GoalContains(keyword string) bool {
	return strings.Contains(strings.ToLower(p.PrimaryGoal), keyword)
}

// Greeting builds the personalized salutation used by message responses.
func (p UserProfile) Greeting() string {
	if p.Name != "" {
		return fmt.Sprintf("Hi %s! ", p.Name)
	}
	if p.PrimaryGoal != "" {
		return fmt.Sprintf("Hi! I see you're working on %s. ", strings.ToLower(p.PrimaryGoal))
	}
	return "Hi! "
}

// Targets derives daily targets from the goal and time budget.
func (p UserProfile) Targets() DailyTargets {
	t := DailyTargets{Calories: 2000, ProteinGrams: 90, ActiveMinutes: 45}

	switch {
	case p.GoalContains("strength") || p.GoalContains("muscle"):
		t.Calories = 2200
		t.ProteinGrams = 130
	case p.GoalContains("lose") || p.GoalContains("weight"):
		t.Calories = 1800
		t.ProteinGrams = 110
	case p.GoalContains("cardio") || p.GoalContains("endurance"):
		t.Calories = 2400
		t.ProteinGrams = 100
	}

	if p.TimeBudgetMin > 0 {
		t.ActiveMinutes = p.TimeBudgetMin
	}
	return t
}

// Summary renders the profile as a compact prompt fragment.
func (p UserProfile) Summary() string {
	var sb strings.Builder
	if p.Name != "" {
		fmt.Fprintf(&sb, "Name: %s. ", p.Name)
	}
	if p.PrimaryGoal != "" {
		fmt.Fprintf(&sb, "Primary goal: %s. ", p.PrimaryGoal)
	}
	if len(p.DietPrefs) > 0 {
		fmt.Fprintf(&sb, "Diet preferences: %s. ", strings.Join(p.DietPrefs, ", "))
	}
	if len(p.TimePrefs) > 0 {
		fmt.Fprintf(&sb, "Preferred workout times: %s. ", strings.Join(p.TimePrefs, ", "))
	}
	if p.TimeBudgetMin > 0 {
		fmt.Fprintf(&sb, "Time budget: %d minutes/day. ", p.TimeBudgetMin)
	}
	if sb.Len() == 0 {
		return "No profile on file."
	}
	return strings.TrimSpace(sb.String())
}
