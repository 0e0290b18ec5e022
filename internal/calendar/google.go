// Package calendar integrates read-only with Google Calendar.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

const apiBase = "https://www.googleapis.com/calendar/v3"

// ProviderCalendar is one entry of the provider's calendar list.
type ProviderCalendar struct {
	ID      string `json:"id"`
	Summary string `json:"summary"`
	Color   string `json:"backgroundColor"`
	Primary bool   `json:"primary"`
}

// ProviderEvent is one event as returned by the provider.
type ProviderEvent struct {
	ID          string    `json:"id"`
	Summary     string    `json:"summary"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Start       EventTime `json:"start"`
	End         EventTime `json:"end"`
}

// EventTime is the provider's date-or-datetime union: all-day events carry
// Date, timed events carry DateTime.
type EventTime struct {
	Date     string `json:"date"`
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// Provider abstracts the calendar API methods we use, enabling test mocks.
type Provider interface {
	ListCalendars(ctx context.Context) ([]ProviderCalendar, error)
	ListEvents(ctx context.Context, calendarID string, start, end time.Time) ([]ProviderEvent, error)
}

// GoogleClient implements Provider against the Calendar v3 REST API using an
// OAuth-authenticated HTTP client.
type GoogleClient struct {
	http *http.Client
}

// NewGoogle builds a client from a user's OAuth token.
func NewGoogle(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) *GoogleClient {
	return &GoogleClient{http: conf.Client(ctx, token)}
}

// ListCalendars fetches the user's calendar list.
func (g *GoogleClient) ListCalendars(ctx context.Context) ([]ProviderCalendar, error) {
	var body struct {
		Items []ProviderCalendar `json:"items"`
	}
	if err := g.get(ctx, apiBase+"/users/me/calendarList", &body); err != nil {
		return nil, fmt.Errorf("calendar: list calendars: %w", err)
	}
	return body.Items, nil
}

// ListEvents fetches single events of one calendar in [start, end], ordered
// by start time.
func (g *GoogleClient) ListEvents(ctx context.Context, calendarID string, start, end time.Time) ([]ProviderEvent, error) {
	q := url.Values{}
	q.Set("timeMin", start.Format(time.RFC3339))
	q.Set("timeMax", end.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")

	u := fmt.Sprintf("%s/calendars/%s/events?%s", apiBase, url.PathEscape(calendarID), q.Encode())
	var body struct {
		Items []ProviderEvent `json:"items"`
	}
	if err := g.get(ctx, u, &body); err != nil {
		return nil, fmt.Errorf("calendar: list events of %s: %w", calendarID, err)
	}
	return body.Items, nil
}

func (g *GoogleClient) get(ctx context.Context, u string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
