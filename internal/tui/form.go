package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/jesseduffield/gocui"
)

type formField struct {
	Label string
	Value string
}

const (
	fieldMood = iota
	fieldNotes
)

var moodOrder = []string{"great", "good", "neutral", "stressed", "exhausted"}

func buildMoodFields(current string) []formField {
	fields := []formField{
		{Label: "Mood (space/←→)"},
		{Label: "Notes"},
	}
	fields[fieldMood].Value = "neutral"
	for _, mood := range moodOrder {
		if mood == current {
			fields[fieldMood].Value = current
		}
	}
	return fields
}

func parseMoodFields(fields []formField, at time.Time) (model.MoodEntry, error) {
	mood := strings.TrimSpace(fields[fieldMood].Value)
	if mood == "" {
		return model.MoodEntry{}, fmt.Errorf("pick a mood")
	}
	return model.MoodEntry{
		Mood:      mood,
		Notes:     strings.TrimSpace(fields[fieldNotes].Value),
		Timestamp: at,
	}, nil
}

func isMoodField(label string) bool {
	return strings.HasPrefix(label, "Mood")
}

func nextMood(current string) string {
	return cycleMood(current, 1)
}

func prevMood(current string) string {
	return cycleMood(current, -1)
}

func cycleMood(current string, delta int) string {
	index := 0
	for i, mood := range moodOrder {
		if mood == current {
			index = i
			break
		}
	}
	index = (index + delta + len(moodOrder)) % len(moodOrder)
	return moodOrder[index]
}

func (e *formEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil || ui.form == nil {
		return false
	}
	field := &ui.form.fields[ui.form.index]

	if isMoodField(field.Label) {
		switch key {
		case gocui.KeyArrowRight, gocui.KeySpace:
			field.Value = nextMood(field.Value)
		case gocui.KeyArrowLeft:
			field.Value = prevMood(field.Value)
		}
		ui.renderForm(view)
		return true
	}

	value, handled := editLine(field.Value, key, ch, mod)
	field.Value = value
	ui.renderForm(view)
	return handled
}

// Edit handles the command line. Up and down walk the sent-command history.
func (e *inputEditor) Edit(view *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) bool {
	ui := e.ui
	if ui == nil {
		return false
	}
	switch key {
	case gocui.KeyArrowUp:
		ui.recallCommand(-1)
	case gocui.KeyArrowDown:
		ui.recallCommand(1)
	default:
		value, handled := editLine(ui.input, key, ch, mod)
		if !handled {
			return false
		}
		ui.input = value
	}
	ui.renderInput(view)
	return true
}

// editLine applies one keypress to a single-line value. Keys it does not
// understand are left for the global bindings.
func editLine(value string, key gocui.Key, ch rune, mod gocui.Modifier) (string, bool) {
	switch key {
	case gocui.KeyBackspace, gocui.KeyBackspace2:
		runes := []rune(value)
		if len(runes) > 0 {
			value = string(runes[:len(runes)-1])
		}
	case gocui.KeySpace:
		value += " "
	case gocui.KeyCtrlU:
		value = ""
	default:
		if ch != 0 && ch != '\n' && ch != '\r' && mod == 0 {
			return value + string(ch), true
		}
		return value, false
	}
	return value, true
}

func (u *UI) recallCommand(delta int) {
	if len(u.commands) == 0 {
		return
	}
	u.commandIndex = min(max(u.commandIndex+delta, 0), len(u.commands))
	if u.commandIndex == len(u.commands) {
		u.input = ""
		return
	}
	u.input = u.commands[u.commandIndex]
}
