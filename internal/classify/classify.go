// Package classify assigns a priority and category to free-text task
// descriptions by keyword lookup.
package classify

import (
	"strings"

	"github.com/Joseda-hg/focuspal/internal/model"
)

var (
	urgentKeywords   = []string{"urgent", "asap", "important", "critical"}
	workKeywords     = []string{"work", "project", "meeting", "deadline", "report"}
	personalKeywords = []string{"personal", "home", "family", "hobby", "exercise"}
)

type Analysis struct {
	Priority string `json:"priority"`
	Category string `json:"category"`
}

// Classify matches case-insensitive substrings. Urgent keywords beat "later";
// work keywords beat personal ones.
func Classify(text string) Analysis {
	lower := strings.ToLower(text)

	priority := model.PriorityMedium
	switch {
	case containsAny(lower, urgentKeywords):
		priority = model.PriorityHigh
	case strings.Contains(lower, "later"):
		priority = model.PriorityLow
	}

	category := model.CategoryGeneral
	switch {
	case containsAny(lower, workKeywords):
		category = model.CategoryWork
	case containsAny(lower, personalKeywords):
		category = model.CategoryPersonal
	}

	return Analysis{Priority: priority, Category: category}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
