package dto

import "github.com/johnquangdev/capnotes/internal/domain/entities"

// MeetingInsights describes a detected follow-up meeting
type MeetingInsights struct {
	MeetingsDiscussed bool     `json:"meetingsDiscussed"`
	Phrases           []string `json:"phrases"`
	Participants      []string `json:"participants"`
	DateTime          *string  `json:"dateTime"`
	RawResponse       string   `json:"rawResponse,omitempty"`
}

// TranscribeResponse is returned by POST /v1/transcribe/audio
type TranscribeResponse struct {
	Transcript      string           `json:"transcript"`
	Summary         string           `json:"summary"`
	MeetingInsights *MeetingInsights `json:"meetingInsights"`
	CalendarLink    *string          `json:"calendarLink"`
}

// AskRequest is the body of POST /v1/transcribe/ask
type AskRequest struct {
	Transcript string `json:"transcript" validate:"required"`
	Question   string `json:"question" validate:"required,notblank,max=2000"`
}

// AskResponse is returned by POST /v1/transcribe/ask
type AskResponse struct {
	Answer string `json:"answer"`
}

// NewTranscribeResponse maps a pipeline result to its API shape
func NewTranscribeResponse(res *entities.PipelineResult) TranscribeResponse {
	out := TranscribeResponse{
		Transcript:   res.Transcript,
		Summary:      res.Summary,
		CalendarLink: res.CalendarLink,
	}
	if s := res.MeetingSignal; s != nil {
		out.MeetingInsights = &MeetingInsights{
			MeetingsDiscussed: s.Discussed,
			Phrases:           nonNil(s.Phrases),
			Participants:      nonNil(s.Participants),
			DateTime:          s.DateTimeText,
			RawResponse:       s.RawResponse,
		}
	}
	return out
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
