package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/johnquangdev/capnotes/internal/domain/entities"
)

// Parser turns raw model output into meeting signals
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseMeetingSignal parses model output into a MeetingSignal. It never fails:
// output that is not a JSON object comes back as UnparsedExtraction.
func (p *Parser) ParseMeetingSignal(raw string) entities.ExtractionResult {
	cleaned := extractJSON(raw)
	if cleaned == "" {
		return entities.UnparsedExtraction{
			Raw: raw,
			Err: fmt.Errorf("%w: empty response", entities.ErrMeetingParseFailed),
		}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return entities.UnparsedExtraction{
			Raw: raw,
			Err: fmt.Errorf("%w: %v", entities.ErrMeetingParseFailed, err),
		}
	}
	if fields == nil {
		return entities.UnparsedExtraction{
			Raw: raw,
			Err: fmt.Errorf("%w: top level is not an object", entities.ErrMeetingParseFailed),
		}
	}

	signal := entities.MeetingSignal{
		Discussed:    boolField(fields, "meetingsDiscussed", "discussed"),
		Phrases:      stringsField(fields, "phrases"),
		Participants: stringsField(fields, "participants"),
		DateTimeText: optionalStringField(fields, "dateTime", "dateTimeText"),
	}
	return entities.ParsedExtraction{Signal: signal}
}

// boolField returns the first key holding a JSON boolean; anything else is false
func boolField(fields map[string]json.RawMessage, keys ...string) bool {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var v bool
		if err := json.Unmarshal(raw, &v); err == nil {
			return v
		}
	}
	return false
}

// stringsField returns the string items of an array field, never nil
func stringsField(fields map[string]json.RawMessage, key string) []string {
	out := []string{}
	raw, ok := fields[key]
	if !ok {
		return out
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return out
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// optionalStringField returns the first non-blank string among keys
func optionalStringField(fields map[string]json.RawMessage, keys ...string) *string {
	for _, key := range keys {
		raw, ok := fields[key]
		if !ok {
			continue
		}
		var s *string
		if err := json.Unmarshal(raw, &s); err != nil || s == nil {
			continue
		}
		trimmed := strings.TrimSpace(*s)
		if trimmed == "" || strings.EqualFold(trimmed, "null") {
			continue
		}
		return &trimmed
	}
	return nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	start := strings.Index(content, "```")
	if start == -1 {
		return content
	}

	body := content[start+3:]
	body = strings.TrimLeft(stripFenceTag(body), " \t")

	if end := strings.Index(body, "```"); end != -1 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// stripFenceTag drops an optional language tag such as "json" right after the
// opening fence. The tag must be followed by whitespace or the JSON itself.
func stripFenceTag(body string) string {
	i := 0
	for i < len(body) {
		r := rune(body[i])
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+') {
			i++
			continue
		}
		break
	}
	if i == 0 {
		return body
	}
	if i == len(body) {
		return ""
	}
	switch body[i] {
	case '\n', '\r', ' ', '\t', '{', '[':
		return body[i:]
	}
	return body
}
