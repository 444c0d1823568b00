package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/johnquangdev/capnotes/internal/domain/gateways"
)

// GoogleCalendar inserts events into one Google calendar
type GoogleCalendar struct {
	svc        *gcal.Service
	calendarID string
}

// NewGoogleCalendar builds a calendar client on top of an authenticated HTTP
// client. endpoint overrides the API base URL when non-empty.
func NewGoogleCalendar(ctx context.Context, httpClient *http.Client, endpoint, calendarID string) (*GoogleCalendar, error) {
	opts := []option.ClientOption{option.WithHTTPClient(httpClient)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar service: %w", err)
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleCalendar{svc: svc, calendarID: calendarID}, nil
}

// InsertEvent creates the event and returns its htmlLink
func (g *GoogleCalendar) InsertEvent(ctx context.Context, event gateways.EventDescriptor) (string, error) {
	created, err := g.svc.Events.Insert(g.calendarID, &gcal.Event{
		Summary:     event.Title,
		Description: event.Description,
		Start: &gcal.EventDateTime{
			DateTime: event.Start.Format(time.RFC3339),
			TimeZone: event.TimeZone,
		},
		End: &gcal.EventDateTime{
			DateTime: event.End.Format(time.RFC3339),
			TimeZone: event.TimeZone,
		},
	}).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("calendar insert: %w", err)
	}
	return created.HtmlLink, nil
}
