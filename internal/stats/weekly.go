package stats

import (
	"time"

	"github.com/Joseda-hg/focuspal/internal/model"
)

const (
	weekDays         = 7
	targetDailyHours = 8.0
)

// moodScores maps mood labels to a 0-100 wellness value. Labels outside the
// map are skipped.
var moodScores = map[string]float64{
	"great":       100,
	"good":        80,
	"okay":        60,
	"neutral":     60,
	"stressed":    40,
	"exhausted":   20,
	"overwhelmed": 20,
}

type Insight struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Action  string `json:"action"`
}

type Scores struct {
	Focus        float64   `json:"focus"`
	Tasks        float64   `json:"tasks"`
	Wellness     float64   `json:"wellness"`
	Productivity float64   `json:"productivity"`
	Insights     []Insight `json:"insights"`
}

type DayFocus struct {
	Date    time.Time `json:"date"`
	Minutes float64   `json:"minutes"`
}

type WeeklySummary struct {
	FocusMinutes   float64    `json:"focusMinutes"`
	CompletedTasks int        `json:"completedTasks"`
	AverageMood    string     `json:"averageMood"`
	Days           []DayFocus `json:"days"`
	Scores         Scores     `json:"scores"`
}

// FocusScore rates the last seven days' average daily focus against an
// eight-hour day, capped at 100.
func FocusScore(focus []model.FocusEvent, now time.Time) float64 {
	weekAgo := now.AddDate(0, 0, -weekDays)
	var seconds float64
	found := false
	for _, entry := range focus {
		if entry.Timestamp.Before(weekAgo) {
			continue
		}
		found = true
		seconds += entry.Duration
	}
	if !found {
		return 0
	}
	dailyHours := seconds / weekDays / 3600
	return min(dailyHours/targetDailyHours*100, 100)
}

// TaskScore is the completion rate (0-100) of task events in the last seven
// days.
func TaskScore(tasks []model.TaskEvent, now time.Time) float64 {
	weekAgo := now.AddDate(0, 0, -weekDays)
	total, completed := 0, 0
	for _, entry := range tasks {
		if entry.Timestamp.Before(weekAgo) {
			continue
		}
		total++
		if entry.Completed {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

// WellnessScore averages the last seven recognised moods.
func WellnessScore(moods []model.MoodEntry) float64 {
	recent := moods
	if len(recent) > weekDays {
		recent = recent[len(recent)-weekDays:]
	}
	var sum float64
	count := 0
	for _, entry := range recent {
		score, ok := moodScores[entry.Mood]
		if !ok {
			continue
		}
		sum += score
		count++
	}
	if count == 0 {
		return 0
	}
	return sum / float64(count)
}

func Score(focus []model.FocusEvent, tasks []model.TaskEvent, moods []model.MoodEntry, now time.Time) Scores {
	scores := Scores{
		Focus:    FocusScore(focus, now),
		Tasks:    TaskScore(tasks, now),
		Wellness: WellnessScore(moods),
	}
	scores.Productivity = (scores.Focus + scores.Tasks + scores.Wellness) / 3
	scores.Insights = Insights(scores.Focus, scores.Tasks, scores.Wellness)
	return scores
}

func Insights(focusScore, taskScore, wellnessScore float64) []Insight {
	insights := make([]Insight, 0, 3)

	switch {
	case focusScore < 50:
		insights = append(insights, Insight{
			Type:    "focus",
			Message: "Try breaking your work into smaller, focused sessions",
			Action:  "Start with 25-minute focus sessions",
		})
	case focusScore > 80:
		insights = append(insights, Insight{
			Type:    "focus",
			Message: "Excellent focus habits! Keep up the great work",
			Action:  "Consider increasing session lengths",
		})
	}

	switch {
	case taskScore < 50:
		insights = append(insights, Insight{
			Type:    "tasks",
			Message: "Task completion rate is low. Let's improve organization",
			Action:  "Try prioritizing tasks with the MoSCoW method",
		})
	case taskScore > 80:
		insights = append(insights, Insight{
			Type:    "tasks",
			Message: "Great task management! You're very productive",
			Action:  "Challenge yourself with more complex projects",
		})
	}

	switch {
	case wellnessScore < 50:
		insights = append(insights, Insight{
			Type:    "wellness",
			Message: "Your wellness score indicates high stress",
			Action:  "Take regular breaks and try a mindfulness exercise",
		})
	case wellnessScore > 80:
		insights = append(insights, Insight{
			Type:    "wellness",
			Message: "You're maintaining a great work-life balance",
			Action:  "Keep your current routine",
		})
	}

	return insights
}

// Heatmap buckets the last seven days of focus into [weekday][hour] hours.
func Heatmap(focus []model.FocusEvent, now time.Time) [7][24]float64 {
	var grid [7][24]float64
	weekAgo := now.Add(-weekDays * 24 * time.Hour)
	for _, entry := range focus {
		ts := entry.Timestamp.In(now.Location())
		if ts.Before(weekAgo) {
			continue
		}
		grid[ts.Weekday()][ts.Hour()] += entry.Duration / 3600
	}
	return grid
}

// DailyFocus returns focus minutes for each of the seven calendar days ending
// on now's date, oldest first.
func DailyFocus(focus []model.FocusEvent, now time.Time) []DayFocus {
	today := startOfDay(now)
	days := make([]DayFocus, 0, weekDays)
	for offset := weekDays - 1; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		days = append(days, DayFocus{Date: day, Minutes: FocusMinutesOn(focus, day)})
	}
	return days
}

// AverageMood returns the mood label whose score is closest to the mean of
// the last seven recognised moods, or "neutral" with no history.
func AverageMood(moods []model.MoodEntry) string {
	mean := WellnessScore(moods)
	if mean == 0 {
		return "neutral"
	}
	ordered := []string{"great", "good", "neutral", "stressed", "exhausted"}
	closest := "neutral"
	for _, label := range ordered {
		if abs(moodScores[label]-mean) < abs(moodScores[closest]-mean) {
			closest = label
		}
	}
	return closest
}

func Weekly(focus []model.FocusEvent, tasks []model.TaskEvent, moods []model.MoodEntry, now time.Time) WeeklySummary {
	days := DailyFocus(focus, now)
	summary := WeeklySummary{
		AverageMood: AverageMood(moods),
		Days:        days,
		Scores:      Score(focus, tasks, moods, now),
	}
	for _, day := range days {
		summary.FocusMinutes += day.Minutes
		summary.CompletedTasks += CompletedOn(tasks, day.Date)
	}
	return summary
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
