package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Joseda-hg/focuspal/internal/model"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		text     string
		priority string
		category string
	}{
		{"urgent: do this later", model.PriorityHigh, model.CategoryGeneral},
		{"work personal project", model.PriorityMedium, model.CategoryWork},
		{"finish the quarterly REPORT asap", model.PriorityHigh, model.CategoryWork},
		{"call family later", model.PriorityLow, model.CategoryPersonal},
		{"buy milk", model.PriorityMedium, model.CategoryGeneral},
		{"Exercise at the gym", model.PriorityMedium, model.CategoryPersonal},
		{"Critical meeting prep", model.PriorityHigh, model.CategoryWork},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got := Classify(tc.text)
			assert.Equal(t, tc.priority, got.Priority)
			assert.Equal(t, tc.category, got.Category)
		})
	}
}

func TestClassifyMatchesSubstrings(t *testing.T) {
	// "homework" contains both "home" and "work"; work is checked first.
	assert.Equal(t, model.CategoryWork, Classify("homework").Category)
}
