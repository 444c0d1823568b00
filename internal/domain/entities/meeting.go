package entities

import (
	"strings"
	"time"
)

// MeetingSignal describes whether a transcript mentions a future meeting
type MeetingSignal struct {
	Discussed    bool     `json:"meetingsDiscussed"`
	Phrases      []string `json:"phrases"`
	Participants []string `json:"participants"`
	DateTimeText *string  `json:"dateTime"`

	// RawResponse carries the model output when it could not be parsed
	RawResponse string `json:"rawResponse,omitempty"`
}

// InertMeetingSignal returns a signal that never leads to scheduling
func InertMeetingSignal(raw string) MeetingSignal {
	return MeetingSignal{
		Discussed:    false,
		Phrases:      []string{},
		Participants: []string{},
		DateTimeText: nil,
		RawResponse:  raw,
	}
}

// HasDateTime reports whether the signal carries a non-blank date/time expression
func (m MeetingSignal) HasDateTime() bool {
	return m.DateTimeText != nil && strings.TrimSpace(*m.DateTimeText) != ""
}

// ExtractionResult is the outcome of asking the model for a meeting signal.
// It is either ParsedExtraction or UnparsedExtraction.
type ExtractionResult interface {
	isExtractionResult()
}

// ParsedExtraction holds a well-formed signal
type ParsedExtraction struct {
	Signal MeetingSignal
}

// UnparsedExtraction holds model output that was not usable JSON, or the
// error that prevented getting any output at all
type UnparsedExtraction struct {
	Raw string
	Err error
}

func (ParsedExtraction) isExtractionResult()   {}
func (UnparsedExtraction) isExtractionResult() {}

// NormalizeExtraction always yields a usable signal; unparsed results become inert
func NormalizeExtraction(r ExtractionResult) MeetingSignal {
	switch v := r.(type) {
	case ParsedExtraction:
		return v.Signal
	case UnparsedExtraction:
		return InertMeetingSignal(v.Raw)
	default:
		return InertMeetingSignal("")
	}
}

// ResolvedMeeting is a meeting whose date/time text resolved to a real instant
type ResolvedMeeting struct {
	StartInstant time.Time
	Description  string
}

// CalendarInvite is a created calendar event
type CalendarInvite struct {
	Link string `json:"link"`
}
