package gateways

import (
	"context"
	"time"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
)

// SpeechRecognizer turns audio into recognized text segments, in temporal order
type SpeechRecognizer interface {
	Recognize(ctx context.Context, audio []byte, encoding entities.AudioEncoding) ([]string, error)
}

// TextGenerator returns the first candidate completion for a prompt
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EventDescriptor is the calendar event to create
type EventDescriptor struct {
	Title       string
	Description string
	Start       time.Time
	End         time.Time
	TimeZone    string
}

// CalendarService creates events and returns their shareable link
type CalendarService interface {
	InsertEvent(ctx context.Context, event EventDescriptor) (string, error)
}

// InviteCache remembers links of recently created invites
type InviteCache interface {
	GetInvite(ctx context.Context, key string) (string, bool, error)
	SetInvite(ctx context.Context, key, link string, ttl time.Duration) error
}
