// Package googlecalendar implements the service.Calendar interface using Google Calendar API.
package googlecalendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"jarvis/internal/config"
	"jarvis/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 5 * time.Second

	// Scope is the read-only OAuth scope for Google Calendar.
	Scope = calendar.CalendarReadonlyScope
)

// ErrNotConfigured is returned by New when neither a service account file
// nor a stored OAuth token is available.
var ErrNotConfigured = errors.New("calendar is not configured")

// Client implements service.Calendar using Google Calendar API.
type Client struct {
	svc        *calendar.Service
	calendarID string
	now        func() time.Time
}

// New creates a new Google Calendar client.
// A service account file from settings is preferred; otherwise
// oauth_client.json and token.json from the config directory are used.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	httpClient, err := authorizedClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewWithHTTPClient(ctx, httpClient, cfg.Settings.Calendar.CalendarID)
}

func authorizedClient(ctx context.Context, cfg *config.Config) (*http.Client, error) {
	if path := cfg.Settings.Calendar.ServiceAccountFile; path != "" {
		keyJSON, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read service account file: %w", err)
		}
		jwtConfig, err := google.JWTConfigFromJSON(keyJSON, Scope)
		if err != nil {
			return nil, fmt.Errorf("invalid service account file: %w", err)
		}
		return jwtConfig.Client(ctx), nil
	}

	if !cfg.HasOAuthClient() || !cfg.HasToken() {
		return nil, ErrNotConfigured
	}

	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}

	tokenData, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}

	// Refreshes automatically.
	return oauth2.NewClient(ctx, oauthConfig.TokenSource(ctx, &token)), nil
}

// NewWithHTTPClient creates a client with a custom HTTP client.
// Extra options (such as option.WithEndpoint) are passed to the API service.
func NewWithHTTPClient(ctx context.Context, httpClient *http.Client, calendarID string, opts ...option.ClientOption) (*Client, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &Client{svc: svc, calendarID: calendarID, now: time.Now}, nil
}

// UpcomingEvents returns at most max single events starting from now,
// ordered by start time.
func (c *Client) UpcomingEvents(ctx context.Context, max int) ([]service.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	resp, err := c.svc.Events.List(c.calendarID).
		TimeMin(c.now().UTC().Format(time.RFC3339)).
		MaxResults(int64(max)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapError(err)
	}

	result := make([]service.Event, 0, len(resp.Items))
	for _, item := range resp.Items {
		ev, err := convertEvent(item)
		if err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	return result, nil
}

func convertEvent(item *calendar.Event) (service.Event, error) {
	ev := service.Event{Summary: item.Summary}
	if item.Start == nil {
		return ev, fmt.Errorf("event %s has no start", item.Id)
	}

	if item.Start.DateTime != "" {
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return ev, fmt.Errorf("event %s: invalid start: %w", item.Id, err)
		}
		ev.Start = start
		return ev, nil
	}

	start, err := time.ParseInLocation(time.DateOnly, item.Start.Date, time.Local)
	if err != nil {
		return ev, fmt.Errorf("event %s: invalid start date: %w", item.Id, err)
	}
	ev.Start = start
	ev.AllDay = true
	return ev, nil
}

// wrapError wraps API errors with user-friendly messages.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	errStr := err.Error()

	if strings.Contains(errStr, "context deadline exceeded") {
		return fmt.Errorf("request timed out")
	}

	if strings.Contains(errStr, "401") || strings.Contains(errStr, "403") {
		return fmt.Errorf("token expired or revoked (run: jarvis login)")
	}

	if strings.Contains(errStr, "404") {
		return fmt.Errorf("calendar not found")
	}

	return err
}
