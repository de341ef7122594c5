package wellness

import (
	"sort"
	"time"
)

type Exercise struct {
	Name        string        `json:"name"`
	Title       string        `json:"title"`
	Technique   string        `json:"technique"`
	Description string        `json:"description"`
	Steps       []string      `json:"steps"`
	Duration    time.Duration `json:"duration"`
}

var catalog = map[string]Exercise{
	"breathing": {
		Name:        "breathing",
		Title:       "Box Breathing",
		Technique:   "box_breathing",
		Description: "Take slow, even breaths, focusing on each inhale and exhale.",
		Steps:       []string{"Inhale for 4 seconds", "Hold for 4 seconds", "Exhale for 4 seconds", "Hold for 4 seconds"},
		Duration:    5 * time.Minute,
	},
	"meditation": {
		Name:        "meditation",
		Title:       "Quick Meditation",
		Technique:   "mindfulness",
		Description: "Close your eyes, focus on your breath, and let thoughts pass by like clouds.",
		Steps:       []string{"Find a comfortable position", "Close your eyes", "Focus on your breath", "Let thoughts pass by"},
		Duration:    3 * time.Minute,
	},
	"stretch": {
		Name:        "stretch",
		Title:       "Desk Stretches",
		Technique:   "stretching",
		Description: "Loosen up the shoulders, neck, wrists and back.",
		Steps:       []string{"Shoulder rolls", "Neck stretches", "Wrist rotations", "Back twists"},
		Duration:    2 * time.Minute,
	},
	"relaxation": {
		Name:        "relaxation",
		Title:       "Stress Relief",
		Technique:   "progressive_relaxation",
		Description: "Find a quiet place. Progressive muscle relaxation from head to toe.",
		Steps:       []string{"Find a quiet place", "Tense and release your shoulders", "Work down through arms, back and legs", "Breathe slowly"},
		Duration:    10 * time.Minute,
	},
}

// LookupExercise returns the named exercise from the catalog.
func LookupExercise(name string) (Exercise, bool) {
	exercise, ok := catalog[name]
	return exercise, ok
}

// Exercises lists the catalog sorted by name.
func Exercises() []Exercise {
	result := make([]Exercise, 0, len(catalog))
	for _, exercise := range catalog {
		result = append(result, exercise)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

// ExerciseFor picks an exercise by stress score: up to 2 is low, up to 4 is
// medium, above that is high.
func ExerciseFor(level int) Exercise {
	switch {
	case level <= 2:
		return catalog["breathing"]
	case level <= 4:
		return catalog["meditation"]
	default:
		return catalog["relaxation"]
	}
}
