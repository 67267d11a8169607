// Package gcal writes events to Google Calendar using a caller-supplied
// OAuth bearer token.
package gcal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// Event is a calendar entry to insert into the user's primary calendar.
type Event struct {
	Title    string `json:"title"`
	StartISO string `json:"startISO"`
	EndISO   string `json:"endISO"`
	Location string `json:"location,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Validate checks the fields required by the Calendar API.
func (e Event) Validate() error {
	if e.Title == "" {
		return fmt.Errorf("event missing title")
	}
	if _, err := time.Parse(time.RFC3339, e.StartISO); err != nil {
		return fmt.Errorf("invalid startISO: %w", err)
	}
	if _, err := time.Parse(time.RFC3339, e.EndISO); err != nil {
		return fmt.Errorf("invalid endISO: %w", err)
	}
	return nil
}

// Result reports the inserted event.
type Result struct {
	EventID  string `json:"eventId"`
	HTMLLink string `json:"htmlLink,omitempty"`
}

// Client inserts events into Google Calendar.
type Client struct {
	baseURL string
	timeout time.Duration
}

// NewClient creates a calendar client.
func NewClient() *Client {
	return &Client{baseURL: defaultBaseURL, timeout: 10 * time.Second}
}

// gcalEvent is the Calendar API wire shape.
type gcalEvent struct {
	Summary     string        `json:"summary"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location,omitempty"`
	Start       gcalEventTime `json:"start"`
	End         gcalEventTime `json:"end"`
}

type gcalEventTime struct {
	DateTime string `json:"dateTime"`
}

type gcalInsertResponse struct {
	ID       string `json:"id"`
	HTMLLink string `json:"htmlLink"`
}

// AddEvent inserts the event into the primary calendar of the token's owner.
// The token comes from the caller's Authorization header; no credentials are
// stored server-side.
func (c *Client) AddEvent(ctx context.Context, token string, event Event) (*Result, error) {
	if token == "" {
		return nil, fmt.Errorf("missing authorization token")
	}
	if err := event.Validate(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(gcalEvent{
		Summary:     event.Title,
		Description: event.Notes,
		Location:    event.Location,
		Start:       gcalEventTime{DateTime: event.StartISO},
		End:         gcalEventTime{DateTime: event.EndISO},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpClient := oauth2.NewClient(callCtx, oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token, TokenType: "Bearer"},
	))

	url := c.baseURL + "/calendars/primary/events"
	req, err := http.NewRequestWithContext(callCtx, "POST", url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("calendar API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var inserted gcalInsertResponse
	if err := json.NewDecoder(resp.Body).Decode(&inserted); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &Result{EventID: inserted.ID, HTMLLink: inserted.HTMLLink}, nil
}
