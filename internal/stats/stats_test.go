package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/focuspal/internal/model"
)

var now = time.Date(2024, 1, 10, 15, 0, 0, 0, time.Local)

func focusAt(t time.Time, minutes float64) model.FocusEvent {
	return model.FocusEvent{Timestamp: t, Duration: minutes * 60}
}

func TestSummarizeCountsOnlyToday(t *testing.T) {
	focus := []model.FocusEvent{
		focusAt(now.Add(-2*time.Hour), 25),
		focusAt(now.Add(-1*time.Hour), 20),
		focusAt(now.AddDate(0, 0, -1), 300),
	}
	tasks := []model.TaskEvent{
		{Completed: true, Timestamp: now.Add(-time.Hour)},
		{Completed: false, Timestamp: now.Add(-time.Hour)},
		{Completed: true, Timestamp: now.AddDate(0, 0, -1)},
		{Completed: true, Timestamp: now.Add(-30 * time.Minute)},
	}
	moods := []model.MoodEntry{{Mood: "stressed"}, {Mood: "good"}}

	summary := Summarize(focus, tasks, moods, now)
	assert.InDelta(t, 45, summary.FocusMinutes, 0.001)
	assert.Equal(t, 2, summary.CompletedTasks)
	assert.Equal(t, "good", summary.CurrentMood)
	assert.Equal(t, "Today you've focused for 45 minutes and completed 2 tasks. Your current mood is good. ", summary.Message)
}

func TestCompletedOnUsesLatestEventPerTask(t *testing.T) {
	tasks := []model.TaskEvent{
		{TaskID: "a", Completed: true, Timestamp: now.Add(-3 * time.Hour)},
		{TaskID: "a", Completed: false, Timestamp: now.Add(-2 * time.Hour)},
		{TaskID: "a", Completed: true, Timestamp: now.Add(-time.Hour)},
		{TaskID: "b", Completed: true, Timestamp: now.Add(-time.Hour)},
		{TaskID: "b", Completed: false, Timestamp: now.Add(-time.Minute)},
		{TaskID: "c", Completed: true, Timestamp: now.AddDate(0, 0, -1)},
	}
	assert.Equal(t, 1, CompletedOn(tasks, now))
}

func TestSummarizeUsesCalendarDay(t *testing.T) {
	midnight := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)
	focus := []model.FocusEvent{
		focusAt(midnight, 10),
		focusAt(midnight.Add(-time.Second), 10),
	}
	summary := Summarize(focus, nil, nil, now)
	assert.InDelta(t, 10, summary.FocusMinutes, 0.001)
}

func TestSummarizeIsPure(t *testing.T) {
	focus := []model.FocusEvent{focusAt(now.Add(-time.Hour), 50)}
	tasks := []model.TaskEvent{{Completed: true, Timestamp: now}}
	moods := []model.MoodEntry{{Mood: "great", Timestamp: now}}

	first := Summarize(focus, tasks, moods, now)
	second := Summarize(focus, tasks, moods, now)
	assert.Equal(t, first, second)
}

func TestSummarizeUnknownMoodOmitsSentence(t *testing.T) {
	summary := Summarize(nil, nil, nil, now)
	assert.Equal(t, model.MoodUnknown, summary.CurrentMood)
	assert.NotContains(t, summary.Message, "mood")
}

func TestStatusMessageEncouragementIsExclusive(t *testing.T) {
	cases := []struct {
		name      string
		minutes   float64
		completed int
		celebrate bool
		motivate  bool
	}{
		{"celebrate only", 150, 0, true, false},
		{"motivate", 10, 1, false, true},
		{"few minutes but enough tasks", 10, 2, false, false},
		{"middle ground", 60, 0, false, false},
		{"boundary at 120", 120, 0, false, false},
		{"boundary at 30", 30, 0, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg := StatusMessage(model.StatusSummary{FocusMinutes: tc.minutes, CompletedTasks: tc.completed, CurrentMood: model.MoodUnknown})
			assert.Equal(t, tc.celebrate, strings.Contains(msg, celebrateClause))
			assert.Equal(t, tc.motivate, strings.Contains(msg, motivateClause))
		})
	}
}

func TestStatusMessageRoundsMinutes(t *testing.T) {
	msg := StatusMessage(model.StatusSummary{FocusMinutes: 44.6, CompletedTasks: 3, CurrentMood: model.MoodUnknown})
	assert.True(t, strings.HasPrefix(msg, "Today you've focused for 45 minutes and completed 3 tasks. "))
}

func TestScores(t *testing.T) {
	// Four hours a day for seven days is half of an eight-hour target.
	focus := make([]model.FocusEvent, 0, 7)
	for i := 0; i < 7; i++ {
		focus = append(focus, focusAt(now.AddDate(0, 0, -i).Add(-time.Hour), 240))
	}
	focus = append(focus, focusAt(now.AddDate(0, 0, -30), 600))

	tasks := []model.TaskEvent{
		{Completed: true, Timestamp: now},
		{Completed: true, Timestamp: now.AddDate(0, 0, -2)},
		{Completed: false, Timestamp: now.AddDate(0, 0, -3)},
		{Completed: false, Timestamp: now.AddDate(0, 0, -3)},
		{Completed: true, Timestamp: now.AddDate(0, 0, -20)},
	}
	moods := []model.MoodEntry{{Mood: "great"}, {Mood: "good"}, {Mood: "mystery"}}

	scores := Score(focus, tasks, moods, now)
	assert.InDelta(t, 50, scores.Focus, 0.001)
	assert.InDelta(t, 50, scores.Tasks, 0.001)
	assert.InDelta(t, 90, scores.Wellness, 0.001)
	assert.InDelta(t, 190.0/3, scores.Productivity, 0.001)
	require.Len(t, scores.Insights, 1)
	assert.Equal(t, "wellness", scores.Insights[0].Type)
}

func TestScoresEmptyHistory(t *testing.T) {
	scores := Score(nil, nil, nil, now)
	assert.Zero(t, scores.Focus)
	assert.Zero(t, scores.Tasks)
	assert.Zero(t, scores.Wellness)
	assert.Len(t, scores.Insights, 3)
}

func TestFocusScoreIsCapped(t *testing.T) {
	focus := []model.FocusEvent{focusAt(now, 7*24*60)}
	assert.Equal(t, 100.0, FocusScore(focus, now))
}

func TestHeatmap(t *testing.T) {
	ts := time.Date(2024, 1, 9, 14, 30, 0, 0, time.Local)
	grid := Heatmap([]model.FocusEvent{
		focusAt(ts, 90),
		focusAt(now.AddDate(0, 0, -8), 60),
	}, now)
	assert.InDelta(t, 1.5, grid[ts.Weekday()][14], 0.001)

	var total float64
	for _, row := range grid {
		for _, cell := range row {
			total += cell
		}
	}
	assert.InDelta(t, 1.5, total, 0.001)
}

func TestDailyFocus(t *testing.T) {
	days := DailyFocus([]model.FocusEvent{
		focusAt(now, 30),
		focusAt(now.AddDate(0, 0, -6), 15),
		focusAt(now.AddDate(0, 0, -7), 99),
	}, now)
	require.Len(t, days, 7)
	assert.InDelta(t, 15, days[0].Minutes, 0.001)
	assert.InDelta(t, 30, days[6].Minutes, 0.001)
	assert.Equal(t, 10, days[6].Date.Day())
}

func TestAverageMood(t *testing.T) {
	assert.Equal(t, "neutral", AverageMood(nil))
	assert.Equal(t, "good", AverageMood([]model.MoodEntry{{Mood: "great"}, {Mood: "good"}, {Mood: "good"}}))
	assert.Equal(t, "stressed", AverageMood([]model.MoodEntry{{Mood: "stressed"}, {Mood: "exhausted"}, {Mood: "okay"}}))
}

func TestWeekly(t *testing.T) {
	weekly := Weekly(
		[]model.FocusEvent{focusAt(now, 30), focusAt(now.AddDate(0, 0, -1), 30)},
		[]model.TaskEvent{{Completed: true, Timestamp: now}, {Completed: true, Timestamp: now.AddDate(0, 0, -10)}},
		[]model.MoodEntry{{Mood: "great"}},
		now,
	)
	assert.InDelta(t, 60, weekly.FocusMinutes, 0.001)
	assert.Equal(t, 1, weekly.CompletedTasks)
	assert.Equal(t, "great", weekly.AverageMood)
	assert.Len(t, weekly.Days, 7)
}
