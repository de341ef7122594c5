// Package stats reduces focus, task and mood logs into the daily status
// summary and the weekly analytics shown on the dashboards.
//
// Every function is pure over its inputs; "today" is the calendar day of now
// in now's location.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Joseda-hg/focuspal/internal/model"
)

const (
	celebrateAboveMinutes = 120
	motivateBelowMinutes  = 30
	motivateBelowTasks    = 2

	celebrateClause = "You're having a very productive day! "
	motivateClause  = "Let's set a goal to boost your productivity! "
)

// Summarize builds the status summary for the day containing now.
func Summarize(focus []model.FocusEvent, tasks []model.TaskEvent, moods []model.MoodEntry, now time.Time) model.StatusSummary {
	summary := model.StatusSummary{
		FocusMinutes:   FocusMinutesOn(focus, now),
		CompletedTasks: CompletedOn(tasks, now),
		CurrentMood:    CurrentMood(moods),
	}
	summary.Message = StatusMessage(summary)
	return summary
}

// FocusMinutesOn sums focus durations (seconds) recorded on day's calendar
// date and converts them to minutes.
func FocusMinutesOn(focus []model.FocusEvent, day time.Time) float64 {
	var seconds float64
	for _, entry := range focus {
		if sameDay(entry.Timestamp, day) {
			seconds += entry.Duration
		}
	}
	return seconds / 60
}

// CompletedOn counts tasks completed on day. A task that was reopened counts
// only if its last event that day is a completion. Events without a task ID
// count one by one.
func CompletedOn(tasks []model.TaskEvent, day time.Time) int {
	count := 0
	latest := make(map[string]bool)
	for _, entry := range tasks {
		if !sameDay(entry.Timestamp, day) {
			continue
		}
		if entry.TaskID == "" {
			if entry.Completed {
				count++
			}
			continue
		}
		latest[entry.TaskID] = entry.Completed
	}
	for _, completed := range latest {
		if completed {
			count++
		}
	}
	return count
}

// CurrentMood is the mood of the most recently appended entry.
func CurrentMood(moods []model.MoodEntry) string {
	if len(moods) == 0 {
		return model.MoodUnknown
	}
	return moods[len(moods)-1].Mood
}

// StatusMessage renders the summary sentence. At most one encouragement
// clause is added.
func StatusMessage(summary model.StatusSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today you've focused for %d minutes ", int(math.Round(summary.FocusMinutes)))
	fmt.Fprintf(&b, "and completed %d tasks. ", summary.CompletedTasks)

	if summary.CurrentMood != model.MoodUnknown && summary.CurrentMood != "" {
		fmt.Fprintf(&b, "Your current mood is %s. ", summary.CurrentMood)
	}

	switch {
	case summary.FocusMinutes > celebrateAboveMinutes:
		b.WriteString(celebrateClause)
	case summary.FocusMinutes < motivateBelowMinutes && summary.CompletedTasks < motivateBelowTasks:
		b.WriteString(motivateClause)
	}

	return b.String()
}

func sameDay(a, b time.Time) bool {
	a = a.In(b.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// startOfDay returns midnight of t's calendar day in t's location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
