// Package timeparse turns informal time phrases ("in 2 hours",
// "tomorrow at 3pm", "5:30 pm") into absolute times.
//
// It is a heuristic matcher, not a grammar: no weekdays, no offsets longer
// than a day, no time zones.
package timeparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	numberPattern = regexp.MustCompile(`\d+`)
	// Meridian optional; used after "tomorrow".
	clockPattern = regexp.MustCompile(`(?i)(\d+)(?::(\d+))?\s*(am|pm)?`)
	// Meridian required; used for a bare time of day.
	meridianClockPattern = regexp.MustCompile(`(?i)(\d+)(?::(\d+))?\s*(am|pm)`)
)

// Parse resolves expr relative to now. The second result is false when expr
// has none of the recognised cues.
//
// Rules, first applicable wins:
//  1. contains "in": add the first integer as hours or minutes. With neither
//     unit word the result is now itself.
//  2. contains "tomorrow": move one calendar day forward and apply an
//     optional clock time.
//  3. a clock time with am/pm on today's date, pushed to tomorrow if it has
//     already passed.
func Parse(expr string, now time.Time) (time.Time, bool) {
	lower := strings.ToLower(expr)

	if strings.Contains(lower, "in") {
		return parseRelative(lower, now)
	}

	if strings.Contains(lower, "tomorrow") {
		next := now.AddDate(0, 0, 1)
		if match := clockPattern.FindStringSubmatch(expr); match != nil {
			hour, minute := clockParts(match)
			next = atClock(next, hour, minute)
		}
		return next, true
	}

	if match := meridianClockPattern.FindStringSubmatch(expr); match != nil {
		hour, minute := clockParts(match)
		target := atClock(now, hour, minute)
		if target.Before(now) {
			target = target.AddDate(0, 0, 1)
		}
		return target, true
	}

	return time.Time{}, false
}

func parseRelative(lower string, now time.Time) (time.Time, bool) {
	token := numberPattern.FindString(lower)
	if token == "" {
		return time.Time{}, false
	}
	amount, err := strconv.Atoi(token)
	if err != nil {
		return time.Time{}, false
	}

	switch {
	case strings.Contains(lower, "hour"):
		return now.Add(time.Duration(amount) * time.Hour), true
	case strings.Contains(lower, "minute"):
		return now.Add(time.Duration(amount) * time.Minute), true
	default:
		// No unit word: the amount is read but not applied.
		return now, true
	}
}

// clockParts converts a clock match to 24-hour hour and minute.
func clockParts(match []string) (int, int) {
	hour, _ := strconv.Atoi(match[1])
	minute := 0
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}

	switch strings.ToLower(match[3]) {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour, minute
}

func atClock(day time.Time, hour, minute int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, day.Location())
}
