package assistant

import (
	"regexp"

	"github.com/Joseda-hg/focuspal/internal/model"
)

type pattern struct {
	intent model.Intent
	re     *regexp.Regexp
}

// patterns are tried in order; the first match wins. The reminder pattern
// keeps the preposition inside the time group so "in 2 hours" reaches the
// time parser intact.
var patterns = []pattern{
	{model.IntentReminder, regexp.MustCompile(`(?i)remind\s+me\s+to\s+(.+?)\s+((?:at|on|in)\s+.+)`)},
	{model.IntentTask, regexp.MustCompile(`(?i)add\s+(?:a\s+)?task\s+(.+)`)},
	{model.IntentFocus, regexp.MustCompile(`(?i)start\s+(?:a\s+)?focus\s+session\s*(?:for\s+)?(\d+)?\s*(?:minutes)?`)},
	{model.IntentBreak, regexp.MustCompile(`(?i)take\s+(?:a\s+)?break\s*(?:for\s+)?(\d+)?\s*(?:minutes)?`)},
	{model.IntentStatus, regexp.MustCompile(`(?i)\bhow\b.*\bdoing\b`)},
}

// Parse matches text against the command patterns. Groups holds the capture
// groups of the winning pattern; optional groups that did not take part are
// empty strings.
func Parse(text string) model.ParsedCommand {
	for _, p := range patterns {
		match := p.re.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		return model.ParsedCommand{Intent: p.intent, Groups: match[1:]}
	}
	return model.ParsedCommand{Intent: model.IntentUnknown}
}

// Intents lists the recognised intents in match order.
func Intents() []model.Intent {
	out := make([]model.Intent, len(patterns))
	for i, p := range patterns {
		out[i] = p.intent
	}
	return out
}
