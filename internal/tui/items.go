package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Joseda-hg/focuspal/internal/focus"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/dustin/go-humanize"
)

type chatLine struct {
	From string
	Text string
	At   time.Time
}

const (
	fromYou       = "you"
	fromAssistant = "focuspal"
	fromNotice    = "!"
)

func formatTaskSummary(task model.Task) string {
	check := "[ ]"
	if task.Completed {
		check = "[x]"
	}
	return fmt.Sprintf("%s %s | %s | %s", check, task.Text, task.Priority, task.Category)
}

func formatReminder(reminder model.Reminder, now time.Time) string {
	return fmt.Sprintf("%s | %s", reminder.Task, humanize.RelTime(reminder.Time, now, "ago", "from now"))
}

func formatChatLine(line chatLine) string {
	return fmt.Sprintf("%s %s: %s", line.At.Format("15:04"), line.From, line.Text)
}

// formatCountdown renders the running timer as "focus 12:34".
func formatCountdown(kind focus.Kind, remaining time.Duration) string {
	if kind == focus.KindNone {
		return ""
	}
	seconds := int(math.Ceil(remaining.Seconds()))
	return fmt.Sprintf("%s %02d:%02d", kind, seconds/60, seconds%60)
}

func formatMinutes(minutes float64) string {
	if minutes < 60 {
		return fmt.Sprintf("%.0fm", minutes)
	}
	return fmt.Sprintf("%dh%02dm", int(minutes)/60, int(minutes)%60)
}

// scoreBar draws a 0-100 score as a ten-cell bar.
func scoreBar(score float64) string {
	filled := int(math.Round(score / 10))
	filled = min(max(filled, 0), 10)
	return strings.Repeat("#", filled) + strings.Repeat(".", 10-filled)
}

func pendingCount(tasks []model.Task) int {
	count := 0
	for _, task := range tasks {
		if !task.Completed {
			count++
		}
	}
	return count
}
