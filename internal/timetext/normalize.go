// Package timetext interprets the display time text of inbox messages as a
// heuristic age. Inputs range from relative phrases ("2d", "3w") over weekday
// names (English or French) to absolute dates; anything unrecognized degrades
// to unknown rather than failing.
package timetext

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unit durations. Month and year are approximations.
const (
	minute = time.Minute
	hour   = time.Hour
	day    = 24 * time.Hour
	week   = 7 * day
	month  = 30 * day
	year   = 365 * day
)

var relativePattern = regexp.MustCompile(`^(\d+)\s*(m|min|h|d|w|mo|mon|month|y|yr|year)s?$`)

// Weekday prefixes indexed Sunday..Saturday.
var (
	weekdaysEN = []string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}
	weekdaysFR = []string{"dim", "lun", "mar", "mer", "jeu", "ven", "sam"}
)

// absoluteLayouts is the best-effort fallback for absolute dates. Year-less
// layouts resolve against the current year; their behavior is intentionally
// the lowest-confidence strategy and runs last.
var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
	"2 Jan 2006",
	"1/2/2006",
	"Jan 2",
	"January 2",
	"2 Jan",
}

// yearlessLayouts marks the layouts that carry no year component.
var yearlessLayouts = map[string]bool{
	"Jan 2":     true,
	"January 2": true,
	"2 Jan":     true,
}

// Normalizer converts raw display time text into an age.
type Normalizer struct {
	now func() time.Time
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithNow overrides the clock, used by weekday and absolute-date resolution.
func WithNow(now func() time.Time) Option {
	return func(n *Normalizer) {
		if now != nil {
			n.now = now
		}
	}
}

// New creates a Normalizer.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{now: time.Now}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize returns the elapsed time the text refers to. ok is false when the
// text could not be interpreted. The function is total: it never fails and
// has no side effects.
func (n *Normalizer) Normalize(text string) (age time.Duration, ok bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return 0, false
	}
	lower := strings.ToLower(trimmed)

	if age, ok := relativeAge(lower); ok {
		return age, true
	}

	if strings.Contains(lower, "yesterday") || lower == "hier" {
		return day, true
	}

	if strings.Contains(lower, "today") || strings.Contains(lower, "aujourd") {
		return 0, true
	}

	if age, ok := n.weekdayAge(lower); ok {
		return age, true
	}

	if age, ok := n.absoluteAge(trimmed); ok {
		return age, true
	}

	return 0, false
}

// relativeAge handles "<n><unit>" phrases like "2d", "3 w" or "1mo".
func relativeAge(text string) (time.Duration, bool) {
	m := relativePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}

	count, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	n := time.Duration(count)

	switch m[2] {
	case "m", "min":
		return n * minute, true
	case "h":
		return n * hour, true
	case "d":
		return n * day, true
	case "w":
		return n * week, true
	case "mo", "mon", "month":
		return n * month, true
	case "y", "yr", "year":
		return n * year, true
	}
	return 0, false
}

// weekdayAge resolves a weekday-name prefix to the most recent strictly-past
// occurrence of that weekday. A name matching today's weekday means last
// week, never today.
func (n *Normalizer) weekdayAge(text string) (time.Duration, bool) {
	idx := weekdayIndex(text, weekdaysEN)
	if idx < 0 {
		idx = weekdayIndex(text, weekdaysFR)
	}
	if idx < 0 {
		return 0, false
	}

	today := int(n.now().Weekday())
	diff := (today - idx + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return time.Duration(diff) * day, true
}

func weekdayIndex(text string, names []string) int {
	for i, name := range names {
		if strings.HasPrefix(text, name) {
			return i
		}
	}
	return -1
}

// absoluteAge is the last-resort calendar-date parse. Results later than now
// fall through to unknown.
func (n *Normalizer) absoluteAge(text string) (time.Duration, bool) {
	now := n.now()

	for _, layout := range absoluteLayouts {
		parsed, err := time.ParseInLocation(layout, text, now.Location())
		if err != nil {
			parsed, err = time.ParseInLocation(layout, capitalizeWords(text), now.Location())
		}
		if err != nil {
			continue
		}

		if yearlessLayouts[layout] {
			parsed = parsed.AddDate(now.Year(), 0, 0)
		}

		age := now.Sub(parsed)
		if age < 0 {
			return 0, false
		}
		return age, true
	}

	return 0, false
}

// capitalizeWords uppercases the first letter of each word so that
// lowercased month names still parse.
func capitalizeWords(text string) string {
	words := strings.Fields(text)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}
	return strings.Join(words, " ")
}
