package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/domain"
	"github.com/dentalking/geulpi-calendar/internal/metrics"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "https://www.googleapis.com/calendar/v3"

// GoogleClient talks to the Google Calendar REST API with the caller's
// OAuth access token. One client per request — tokens are per-user.
type GoogleClient struct {
	http    *http.Client
	baseURL string
	logger  *slog.Logger
}

// NewGoogleClient builds a client around the given token source,
// typically oauth2.StaticTokenSource over the access_token cookie value.
func NewGoogleClient(ctx context.Context, ts oauth2.TokenSource, logger *slog.Logger) *GoogleClient {
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = 10 * time.Second
	return &GoogleClient{
		http:    httpClient,
		baseURL: defaultBaseURL,
		logger:  logger.With("component", "google_calendar"),
	}
}

// WithBaseURL points the client at a different API root. Used in tests.
func (c *GoogleClient) WithBaseURL(base string) *GoogleClient {
	c.baseURL = base
	return c
}

// DeleteEvent removes an event from the user's primary calendar.
func (c *GoogleClient) DeleteEvent(ctx context.Context, eventID string) error {
	start := time.Now()
	err := c.deleteEvent(ctx, eventID)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.CalendarCallDuration.WithLabelValues("delete_event", outcome).Observe(time.Since(start).Seconds())
	return err
}

func (c *GoogleClient) deleteEvent(ctx context.Context, eventID string) error {
	u := fmt.Sprintf("%s/calendars/primary/events/%s", c.baseURL, url.PathEscape(eventID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("build delete request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return domain.ErrEventNotFound
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.ErrUnauthorized
	case resp.StatusCode >= 300:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("delete event: calendar API returned %d: %s", resp.StatusCode, body)
	}
	return nil
}

type eventList struct {
	Items []struct {
		ID      string `json:"id"`
		Summary string `json:"summary"`
		Start   struct {
			DateTime time.Time `json:"dateTime"`
			Date     string    `json:"date"`
		} `json:"start"`
		End struct {
			DateTime time.Time `json:"dateTime"`
			Date     string    `json:"date"`
		} `json:"end"`
		Location string `json:"location"`
	} `json:"items"`
}

// ListUpcoming fetches events from the primary calendar within [from, to).
func (c *GoogleClient) ListUpcoming(ctx context.Context, from, to time.Time, max int) ([]domain.CalendarEvent, error) {
	start := time.Now()
	events, err := c.listUpcoming(ctx, from, to, max)
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.CalendarCallDuration.WithLabelValues("list_events", outcome).Observe(time.Since(start).Seconds())
	return events, err
}

func (c *GoogleClient) listUpcoming(ctx context.Context, from, to time.Time, max int) ([]domain.CalendarEvent, error) {
	q := url.Values{}
	q.Set("timeMin", from.Format(time.RFC3339))
	q.Set("timeMax", to.Format(time.RFC3339))
	q.Set("singleEvents", "true")
	q.Set("orderBy", "startTime")
	q.Set("maxResults", fmt.Sprint(max))

	u := c.baseURL + "/calendars/primary/events?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build list request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, domain.ErrUnauthorized
	}
	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("list events: calendar API returned %d: %s", resp.StatusCode, body)
	}

	var list eventList
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return nil, fmt.Errorf("decode event list: %w", err)
	}

	events := make([]domain.CalendarEvent, 0, len(list.Items))
	for _, it := range list.Items {
		ev := domain.CalendarEvent{
			ID:       it.ID,
			Summary:  it.Summary,
			Location: it.Location,
			Start:    it.Start.DateTime,
			End:      it.End.DateTime,
		}
		if it.Start.Date != "" {
			ev.AllDay = true
			if day, derr := time.Parse("2006-01-02", it.Start.Date); derr == nil {
				ev.Start = day
				ev.End = day.Add(24 * time.Hour)
			}
		}
		events = append(events, ev)
	}
	return events, nil
}
