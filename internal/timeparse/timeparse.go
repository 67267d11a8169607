package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// TimeWindow is a half-open hour range [StartHour, EndHour) on a 24h clock.
type TimeWindow struct {
	StartHour int `json:"startHour"`
	EndHour   int `json:"endHour"`
}

// Contains reports whether the given hour falls inside the window.
func (w TimeWindow) Contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}

// Canonical time-of-day windows. Evening and night overlap on purpose;
// matching is interval membership, not mutual exclusivity.
var (
	Morning   = TimeWindow{StartHour: 5, EndHour: 12}
	Afternoon = TimeWindow{StartHour: 12, EndHour: 17}
	Evening   = TimeWindow{StartHour: 17, EndHour: 22}
	Night     = TimeWindow{StartHour: 20, EndHour: 24}
)

// TimeframeQuery is the calendar meaning extracted from a message. Dates is
// never empty: when the message carries no temporal hint it resolves to today.
type TimeframeQuery struct {
	Label  string
	Dates  []time.Time
	Window *TimeWindow
}

// windowKeyword maps a substring to its canonical window. Order matters: the
// first keyword present in the message wins.
type windowKeyword struct {
	keyword string
	window  TimeWindow
}

var windowKeywords = []windowKeyword{
	{"morning", Morning},
	{"afternoon", Afternoon},
	{"evening", Evening},
	{"night", Night},
}

var monthNames = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

// datePattern is one explicit-date extraction rule. Patterns are tried in
// order; a match that does not form a valid calendar date falls through to
// the next pattern.
type datePattern struct {
	re    *regexp.Regexp
	build func(m []string, now time.Time) (time.Time, bool)
}

var datePatterns = []datePattern{
	{
		// ISO: YYYY-M-D, years 2000-2099
		re: regexp.MustCompile(`\b(20\d{2})-(\d{1,2})-(\d{1,2})\b`),
		build: func(m []string, now time.Time) (time.Time, bool) {
			return makeDate(atoi(m[1]), atoi(m[2]), atoi(m[3]), now.Location())
		},
	},
	{
		// Slash: M/D or M/D/YYYY, year defaults to the current year
		re: regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}))?\b`),
		build: func(m []string, now time.Time) (time.Time, bool) {
			year := now.Year()
			if m[3] != "" {
				year = atoi(m[3])
			}
			return makeDate(year, atoi(m[1]), atoi(m[2]), now.Location())
		},
	},
	{
		// Month name: "march 5" or "march 5, 2026"
		re: regexp.MustCompile(`\b(` + strings.Join(monthNames, "|") + `)\s+(\d{1,2})(?:,?\s+(\d{4}))?\b`),
		build: func(m []string, now time.Time) (time.Time, bool) {
			month := 0
			for i, name := range monthNames {
				if name == m[1] {
					month = i + 1
					break
				}
			}
			year := now.Year()
			if m[3] != "" {
				year = atoi(m[3])
			}
			return makeDate(year, month, atoi(m[2]), now.Location())
		},
	},
}

// ParseDate extracts an explicit calendar date from the message. It returns
// the zero time and false when no pattern yields a valid date.
func ParseDate(message string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(message)
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		if d, ok := p.build(m, now); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

// ParseWindow extracts a time-of-day window from the message. The first
// keyword present, in table order, wins; additional keywords are ignored.
func ParseWindow(message string) (TimeWindow, bool) {
	lower := strings.ToLower(message)
	for _, wk := range windowKeywords {
		if strings.Contains(lower, wk.keyword) {
			return wk.window, true
		}
	}
	return TimeWindow{}, false
}

// Resolve turns a raw message into a TimeframeQuery. An explicit date always
// wins over relative keywords; with neither present the query resolves to
// today. The returned date list is never empty.
func Resolve(message string, now time.Time) TimeframeQuery {
	lower := strings.ToLower(message)
	q := TimeframeQuery{}

	if w, ok := ParseWindow(message); ok {
		q.Window = &w
	}

	switch {
	case hasExplicitDate(message, now):
		d, _ := ParseDate(message, now)
		q.Dates = []time.Time{d}
		q.Label = d.Format("Jan 2")
	case strings.Contains(lower, "tomorrow"):
		q.Dates = []time.Time{midnight(now).AddDate(0, 0, 1)}
		q.Label = "tomorrow"
	case strings.Contains(lower, "weekend"):
		sat := midnight(now).AddDate(0, 0, daysUntilSaturday(now))
		q.Dates = []time.Time{sat, sat.AddDate(0, 0, 1)}
		q.Label = "this weekend"
	case strings.Contains(lower, "week"):
		start := midnight(now)
		q.Dates = make([]time.Time, 0, 7)
		for i := 0; i < 7; i++ {
			q.Dates = append(q.Dates, start.AddDate(0, 0, i))
		}
		q.Label = "this week"
	default:
		q.Dates = []time.Time{midnight(now)}
		q.Label = "today"
	}

	if q.Window != nil {
		q.Label = fmt.Sprintf("%s %s", q.Label, windowName(*q.Window))
	}
	return q
}

func hasExplicitDate(message string, now time.Time) bool {
	_, ok := ParseDate(message, now)
	return ok
}

// daysUntilSaturday is 0 when today already is Saturday.
func daysUntilSaturday(now time.Time) int {
	return (int(time.Saturday) - int(now.Weekday()) + 7) % 7
}

func windowName(w TimeWindow) string {
	for _, wk := range windowKeywords {
		if wk.window == w {
			return wk.keyword
		}
	}
	return ""
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func makeDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if year < 2000 || year > 2099 || month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// Reject normalized overflows such as Feb 30 -> Mar 2.
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
