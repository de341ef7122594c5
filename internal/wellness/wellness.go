// Package wellness derives display-only stress and work-pattern heuristics
// from the focus, task and mood logs.
package wellness

import (
	"time"

	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/stats"
)

const (
	patternWindow        = 24 * time.Hour
	recommendedBreakRate = 0.25
	idealWorkHours       = 8.0
)

// moodLevels places moods on a 1-5 scale for the insight thresholds.
var moodLevels = map[string]float64{
	"great":       5,
	"good":        4,
	"okay":        3,
	"neutral":     3,
	"stressed":    2,
	"exhausted":   1,
	"overwhelmed": 1,
}

// WorkPattern summarises the last 24 hours. Session lengths and productive
// hours are in minutes.
type WorkPattern struct {
	AverageSessionLength float64     `json:"averageSessionLength"`
	BreakSkipRate        float64     `json:"breakSkipRate"`
	TaskSwitchRate       float64     `json:"taskSwitchRate"`
	ProductiveHours      [24]float64 `json:"productiveHours"`
}

type Indicators struct {
	RapidTaskSwitching int `json:"rapidTaskSwitching"`
	LongWorkPeriods    int `json:"longWorkPeriods"`
	BreakSkipping      int `json:"breakSkipping"`
	LateHoursWork      int `json:"lateHoursWork"`
}

type StressLevel struct {
	Level      int        `json:"level"`
	Indicators Indicators `json:"indicators"`
}

type Recommendation struct {
	Type     string    `json:"type"`
	Priority string    `json:"priority"`
	Message  string    `json:"message"`
	Exercise *Exercise `json:"exercise,omitempty"`
}

type Overview struct {
	AverageMood     string `json:"averageMood"`
	StressLevel     int    `json:"stressLevel"`
	WorkLifeBalance string `json:"workLifeBalance"`
}

type Patterns struct {
	ProductiveHours      [24]float64 `json:"productiveHours"`
	BreakSkipRate        float64     `json:"breakSkipRate"`
	RecommendedBreakRate float64     `json:"recommendedBreakRate"`
	Indicators           Indicators  `json:"stressIndicators"`
}

type Report struct {
	Overview        Overview         `json:"overview"`
	Patterns        Patterns         `json:"patterns"`
	Recommendations []Recommendation `json:"recommendations"`
	Insights        []string         `json:"insights"`
}

func Pattern(focus []model.FocusEvent, tasks []model.TaskEvent, now time.Time) WorkPattern {
	since := now.Add(-patternWindow)

	recentFocus := make([]model.FocusEvent, 0, len(focus))
	for _, entry := range focus {
		if entry.Timestamp.After(since) {
			recentFocus = append(recentFocus, entry)
		}
	}
	recentTasks := make([]model.TaskEvent, 0, len(tasks))
	for _, entry := range tasks {
		if entry.Timestamp.After(since) {
			recentTasks = append(recentTasks, entry)
		}
	}

	pattern := WorkPattern{
		TaskSwitchRate: taskSwitchRate(recentTasks),
	}
	if len(recentFocus) > 0 {
		var seconds float64
		skipped := 0
		for _, entry := range recentFocus {
			seconds += entry.Duration
			if !entry.BreakTaken {
				skipped++
			}
			pattern.ProductiveHours[entry.Timestamp.In(now.Location()).Hour()] += entry.Duration / 60
		}
		pattern.AverageSessionLength = seconds / float64(len(recentFocus)) / 60
		pattern.BreakSkipRate = float64(skipped) / float64(len(recentFocus))
	}
	return pattern
}

// taskSwitchRate is task events per hour across the span of the log; spans
// under an hour count as one hour.
func taskSwitchRate(tasks []model.TaskEvent) float64 {
	if len(tasks) == 0 {
		return 0
	}
	span := tasks[len(tasks)-1].Timestamp.Sub(tasks[0].Timestamp).Hours()
	if span <= 0 {
		span = 1
	}
	return float64(len(tasks)) / span
}

func Stress(pattern WorkPattern, now time.Time) StressLevel {
	var level StressLevel

	if pattern.AverageSessionLength > 120 {
		level.Level += 2
		level.Indicators.LongWorkPeriods++
	}
	if pattern.BreakSkipRate > 0.3 {
		level.Level += 2
		level.Indicators.BreakSkipping++
	}
	if hour := now.Hour(); hour < 6 || hour > 22 {
		level.Level++
		level.Indicators.LateHoursWork++
	}
	if pattern.TaskSwitchRate > 10 {
		level.Level++
		level.Indicators.RapidTaskSwitching++
	}

	return level
}

func WorkLifeBalance(pattern WorkPattern) string {
	var minutes float64
	for _, value := range pattern.ProductiveHours {
		minutes += value
	}
	hours := minutes / 60
	switch {
	case hours > idealWorkHours*1.2:
		return "overworked"
	case hours < idealWorkHours*0.8:
		return "underutilized"
	default:
		return "balanced"
	}
}

func Recommendations(pattern WorkPattern, stress StressLevel) []Recommendation {
	recommendations := make([]Recommendation, 0, 4)

	if pattern.AverageSessionLength > 90 {
		recommendations = append(recommendations, Recommendation{
			Type:     "break",
			Priority: "high",
			Message:  "You've been working for long stretches. Try taking more frequent breaks.",
		})
	}
	if stress.Level > 3 {
		exercise := ExerciseFor(stress.Level)
		recommendations = append(recommendations, Recommendation{
			Type:     "stress",
			Priority: "high",
			Message:  "Your stress indicators are elevated. Consider a mindfulness exercise.",
			Exercise: &exercise,
		})
	}
	if pattern.TaskSwitchRate > 8 {
		recommendations = append(recommendations, Recommendation{
			Type:     "focus",
			Priority: "medium",
			Message:  "You're switching tasks frequently. Try grouping similar tasks together.",
		})
	}
	if stress.Indicators.LateHoursWork > 0 {
		recommendations = append(recommendations, Recommendation{
			Type:     "schedule",
			Priority: "medium",
			Message:  "You're working late hours. Consider adjusting your schedule to work during your most productive times.",
		})
	}

	return recommendations
}

// Insights are the short mood and focus notes shown next to the mood chart.
func Insights(moods []model.MoodEntry, focus []model.FocusEvent, now time.Time) []string {
	insights := make([]string, 0, 2)

	recent := moods
	if len(recent) > 7 {
		recent = recent[len(recent)-7:]
	}
	var sum float64
	count := 0
	for _, entry := range recent {
		if level, ok := moodLevels[entry.Mood]; ok {
			sum += level
			count++
		}
	}
	if count > 0 {
		average := sum / float64(count)
		switch {
		case average < 3:
			insights = append(insights, "Consider taking more breaks and trying a mindfulness exercise.")
		case average >= 4:
			insights = append(insights, "Great job maintaining positive energy! Keep up the momentum!")
		}
	}

	if stats.FocusMinutesOn(focus, now) > 240 {
		insights = append(insights, "Remember to take regular breaks to maintain this great focus!")
	}

	return insights
}

func BuildReport(focus []model.FocusEvent, tasks []model.TaskEvent, moods []model.MoodEntry, now time.Time) Report {
	pattern := Pattern(focus, tasks, now)
	stress := Stress(pattern, now)

	return Report{
		Overview: Overview{
			AverageMood:     stats.AverageMood(moods),
			StressLevel:     stress.Level,
			WorkLifeBalance: WorkLifeBalance(pattern),
		},
		Patterns: Patterns{
			ProductiveHours:      pattern.ProductiveHours,
			BreakSkipRate:        pattern.BreakSkipRate,
			RecommendedBreakRate: recommendedBreakRate,
			Indicators:           stress.Indicators,
		},
		Recommendations: Recommendations(pattern, stress),
		Insights:        Insights(moods, focus, now),
	}
}
