package schedule

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
	"github.com/johnquangdev/capnotes/internal/domain/gateways"
)

const (
	EventTitle         = "Follow-up from Meeting Transcript"
	DefaultDescription = "Auto-created meeting from CapNotes"

	DefaultDurationMinutes = 30
	DefaultInviteTTL       = 24 * time.Hour
)

// Describe builds the event description from the detected meeting phrases
func Describe(phrases []string) string {
	kept := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return DefaultDescription
	}
	return strings.Join(kept, "\n")
}

// Scheduler creates follow-up calendar events
type Scheduler struct {
	calendar gateways.CalendarService
	cache    gateways.InviteCache
	location *time.Location
	ttl      time.Duration
	logger   *zap.Logger
}

// NewScheduler creates a scheduler. cache may be nil to disable deduplication.
func NewScheduler(calendar gateways.CalendarService, cache gateways.InviteCache, loc *time.Location, ttl time.Duration, logger *zap.Logger) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	if ttl <= 0 {
		ttl = DefaultInviteTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		calendar: calendar,
		cache:    cache,
		location: loc,
		ttl:      ttl,
		logger:   logger,
	}
}

// ScheduleEvent creates an event starting at start and returns its link.
// A repeated request for the same start and description returns the cached link.
func (s *Scheduler) ScheduleEvent(ctx context.Context, start time.Time, description string, durationMinutes int) (entities.CalendarInvite, error) {
	if durationMinutes <= 0 {
		durationMinutes = DefaultDurationMinutes
	}
	if strings.TrimSpace(description) == "" {
		description = DefaultDescription
	}

	key := inviteKey(start, description)
	if link, ok := s.cachedInvite(ctx, key); ok {
		return entities.CalendarInvite{Link: link}, nil
	}

	start = start.In(s.location)
	event := gateways.EventDescriptor{
		Title:       EventTitle,
		Description: description,
		Start:       start,
		End:         start.Add(time.Duration(durationMinutes) * time.Minute),
		TimeZone:    s.location.String(),
	}

	link, err := s.calendar.InsertEvent(ctx, event)
	if err != nil {
		return entities.CalendarInvite{}, fmt.Errorf("%w: %w", entities.ErrSchedulingFailed, err)
	}
	if strings.TrimSpace(link) == "" {
		return entities.CalendarInvite{}, fmt.Errorf("%w: calendar returned no link", entities.ErrSchedulingFailed)
	}

	if s.cache != nil {
		if err := s.cache.SetInvite(ctx, key, link, s.ttl); err != nil {
			s.logger.Warn("schedule.cache.set_failed", zap.Error(err))
		}
	}

	return entities.CalendarInvite{Link: link}, nil
}

func (s *Scheduler) cachedInvite(ctx context.Context, key string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	link, ok, err := s.cache.GetInvite(ctx, key)
	if err != nil {
		s.logger.Warn("schedule.cache.get_failed", zap.Error(err))
		return "", false
	}
	return link, ok
}

func inviteKey(start time.Time, description string) string {
	sum := sha256.Sum256([]byte(description))
	return fmt.Sprintf("invite:%s:%s", start.UTC().Format(time.RFC3339), hex.EncodeToString(sum[:8]))
}
