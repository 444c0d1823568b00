package schedule

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// MaxLookahead bounds how far past the reference time a meeting may resolve
const MaxLookahead = 366 * 24 * time.Hour

var (
	onlyDigits     = regexp.MustCompile(`^\d+$`)
	leadingWeekday = regexp.MustCompile(`(?i)^(monday|tuesday|wednesday|thursday|friday|saturday|sunday|mon|tues|tue|wed|thurs|thur|thu|fri|sat|sun)\.?,?\s+`)
	atSeparator    = regexp.MustCompile(`(?i)\s+at\s+`)
	trailingZone   = regexp.MustCompile(`\s+\(?([A-Z]{1,5}|(?:UTC|GMT)[+-]\d{1,2}(?::?\d{2})?)\)?$`)
	offsetZone     = regexp.MustCompile(`^(?:UTC|GMT)([+-])(\d{1,2})(?::?(\d{2}))?$`)
	words          = regexp.MustCompile(`[A-Za-z0-9']+`)
)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// fixedZones are abbreviations with a single unambiguous offset
var fixedZones = map[string]int{
	"UTC": 0, "GMT": 0, "Z": 0,
	"EST": -5, "EDT": -4, "CST": -6, "CDT": -5,
	"MST": -7, "MDT": -6, "PST": -8, "PDT": -7,
	"AKST": -9, "AKDT": -8, "HST": -10,
	"BST": 1, "CET": 1, "CEST": 2, "EET": 2, "EEST": 3,
	"ICT": 7, "SGT": 8, "JST": 9, "KST": 9, "AEST": 10, "AEDT": 11,
}

// regionZones are generic abbreviations that follow daylight saving
var regionZones = map[string]string{
	"ET": "America/New_York",
	"CT": "America/Chicago",
	"MT": "America/Denver",
	"PT": "America/Los_Angeles",
}

var meridiems = map[string]bool{"AM": true, "PM": true, "A": true, "P": true}

// fillerWords may surround a natural-language match without changing its meaning
var fillerWords = map[string]bool{
	"at": true, "on": true, "the": true, "by": true, "around": true,
	"about": true, "approximately": true, "approx": true, "for": true, "of": true,
}

// Resolver turns free-form date/time text into an instant
type Resolver struct {
	location *time.Location
	parser   *when.Parser
}

// NewResolver creates a resolver interpreting zone-less text in loc
func NewResolver(loc *time.Location) *Resolver {
	if loc == nil {
		loc = time.UTC
	}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	return &Resolver{
		location: loc,
		parser:   w,
	}
}

// ResolveDateTime returns nil for missing, blank, unparseable or ambiguous
// text, and for instants that are not after ref or lie beyond MaxLookahead.
// The result depends only on text and ref.
func (r *Resolver) ResolveDateTime(text *string, ref time.Time) *time.Time {
	if text == nil {
		return nil
	}
	value := strings.TrimSpace(*text)
	if value == "" || onlyDigits.MatchString(value) {
		return nil
	}

	t, ok := r.resolve(value, ref)
	if !ok {
		return nil
	}
	if !t.After(ref) || t.Sub(ref) > MaxLookahead {
		return nil
	}
	return &t
}

func (r *Resolver) resolve(value string, ref time.Time) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}

	value, loc, ok := r.splitZone(value)
	if !ok {
		return time.Time{}, false
	}

	if t, parsed := parseAbsolute(value, loc); parsed {
		return t, !t.IsZero()
	}
	return r.parseRelative(value, ref.In(loc))
}

// splitZone strips a trailing zone abbreviation or UTC offset and returns
// the location it names. An abbreviation that cannot be honoured fails.
func (r *Resolver) splitZone(value string) (string, *time.Location, bool) {
	value = strings.TrimRight(value, ".")
	m := trailingZone.FindStringSubmatchIndex(value)
	if m == nil {
		return value, r.location, true
	}

	token := value[m[2]:m[3]]
	if meridiems[token] {
		return value, r.location, true
	}
	rest := strings.TrimSpace(value[:m[0]])

	if hours, ok := fixedZones[token]; ok {
		return rest, time.FixedZone(token, hours*3600), true
	}
	if name, ok := regionZones[token]; ok {
		loc, err := time.LoadLocation(name)
		if err != nil {
			return "", nil, false
		}
		return rest, loc, true
	}
	if om := offsetZone.FindStringSubmatch(token); om != nil {
		hours, _ := strconv.Atoi(om[2])
		minutes, _ := strconv.Atoi(om[3])
		offset := hours*3600 + minutes*60
		if om[1] == "-" {
			offset = -offset
		}
		return rest, time.FixedZone(token, offset), true
	}
	return "", nil, false
}

// parseAbsolute handles calendar dates. parsed reports whether the text was
// recognised; a zero time means it was recognised but self-contradictory.
func parseAbsolute(value string, loc *time.Location) (t time.Time, parsed bool) {
	rest := value
	var named *time.Weekday
	if m := leadingWeekday.FindStringSubmatch(value); m != nil {
		day := weekdays[strings.ToLower(m[1])[:3]]
		named = &day
		rest = value[len(m[0]):]
	}

	t, err := dateparse.ParseIn(atSeparator.ReplaceAllString(rest, " "), loc)
	if err != nil {
		return time.Time{}, false
	}
	if named != nil && t.Weekday() != *named {
		return time.Time{}, true
	}
	return t, true
}

// parseRelative handles expressions like "next Tuesday at 3pm". The match
// must cover every date or time word, and must name a time of day rather
// than inherit the clock of ref.
func (r *Resolver) parseRelative(value string, ref time.Time) (time.Time, bool) {
	res, err := r.parser.Parse(value, ref)
	if err != nil || res == nil {
		return time.Time{}, false
	}
	if !onlyFiller(value[:res.Index] + " " + value[res.Index+len(res.Text):]) {
		return time.Time{}, false
	}
	if r.inheritsClock(value, ref) {
		return time.Time{}, false
	}
	return res.Time.Truncate(time.Minute), true
}

// inheritsClock parses value against two different clock times on the day
// of ref. Differing results mean the time of day came from the reference.
func (r *Resolver) inheritsClock(value string, ref time.Time) bool {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
	a, errA := r.parser.Parse(value, day.Add(9*time.Hour+17*time.Minute))
	b, errB := r.parser.Parse(value, day.Add(13*time.Hour+41*time.Minute))
	if errA != nil || errB != nil || a == nil || b == nil {
		return true
	}
	return a.Time.Hour() != b.Time.Hour() || a.Time.Minute() != b.Time.Minute()
}

func onlyFiller(s string) bool {
	for _, w := range words.FindAllString(s, -1) {
		if !fillerWords[strings.ToLower(w)] {
			return false
		}
	}
	return true
}
