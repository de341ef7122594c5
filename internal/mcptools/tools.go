// Package mcptools exposes the assistant as MCP tools so an editor or agent
// can add tasks, set reminders, log moods and read the productivity report.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/focus"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/stats"
	"github.com/Joseda-hg/focuspal/internal/wellness"
)

// CommandTool handles the assistant_command MCP tool.
type CommandTool struct {
	assistant  *assistant.Assistant
	controller *focus.Controller
}

func NewCommandTool(a *assistant.Assistant, controller *focus.Controller) *CommandTool {
	return &CommandTool{assistant: a, controller: controller}
}

func (t *CommandTool) Definition() mcp.Tool {
	return mcp.NewTool("assistant_command",
		mcp.WithDescription(
			"Send a natural-language command to the focus assistant. "+
				"Understands: \"remind me to X at/on/in TIME\", \"add a task X\", "+
				"\"start a focus session for N minutes\", \"take a break for N minutes\", "+
				"and \"how am I doing\".",
		),
		mcp.WithString("text",
			mcp.Required(),
			mcp.Description("The command, e.g. 'remind me to stretch in 30 minutes'"),
		),
	)
}

func (t *CommandTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text := strings.TrimSpace(req.GetString("text", ""))
	if text == "" {
		return mcp.NewToolResultError("'text' is required"), nil
	}

	resp := t.assistant.Interpret(ctx, text)
	if t.controller != nil {
		if err := t.controller.Apply(ctx, resp); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("starting countdown: %v", err)), nil
		}
	}
	if resp.Intent == model.IntentError || resp.Intent == model.IntentUnknown {
		return mcp.NewToolResultError(resp.Message), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("[%s] %s", resp.Intent, resp.Message)), nil
}

// StatusTool handles the productivity_status MCP tool.
type StatusTool struct {
	assistant *assistant.Assistant
}

func NewStatusTool(a *assistant.Assistant) *StatusTool {
	return &StatusTool{assistant: a}
}

func (t *StatusTool) Definition() mcp.Tool {
	return mcp.NewTool("productivity_status",
		mcp.WithDescription("Today's focus minutes, completed tasks and mood, plus the weekly productivity scores."),
		mcp.WithString("period",
			mcp.Description("today (default) or week"),
			mcp.Enum("today", "week"),
		),
	)
}

func (t *StatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, err := t.assistant.Repository().Histories(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	now := t.assistant.Now()

	var b strings.Builder
	summary := stats.Summarize(h.Focus, h.Tasks, h.Moods, now)
	b.WriteString("## Today\n\n")
	fmt.Fprintf(&b, "- Focus: %.0f minutes\n", summary.FocusMinutes)
	fmt.Fprintf(&b, "- Completed tasks: %d\n", summary.CompletedTasks)
	fmt.Fprintf(&b, "- Mood: %s\n\n%s\n", summary.CurrentMood, strings.TrimSpace(summary.Message))

	if req.GetString("period", "today") == "week" {
		weekly := stats.Weekly(h.Focus, h.Tasks, h.Moods, now)
		b.WriteString("\n## This week\n\n")
		fmt.Fprintf(&b, "- Focus: %.0f minutes\n", weekly.FocusMinutes)
		fmt.Fprintf(&b, "- Completed tasks: %d\n", weekly.CompletedTasks)
		fmt.Fprintf(&b, "- Average mood: %s\n", weekly.AverageMood)
		fmt.Fprintf(&b, "- Scores: focus %.0f, tasks %.0f, wellness %.0f, productivity %.0f\n",
			weekly.Scores.Focus, weekly.Scores.Tasks, weekly.Scores.Wellness, weekly.Scores.Productivity)
		for _, insight := range weekly.Scores.Insights {
			fmt.Fprintf(&b, "- %s\n", insight.Message)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}

// MoodTool handles the track_mood MCP tool.
type MoodTool struct {
	assistant *assistant.Assistant
}

func NewMoodTool(a *assistant.Assistant) *MoodTool {
	return &MoodTool{assistant: a}
}

func (t *MoodTool) Definition() mcp.Tool {
	return mcp.NewTool("track_mood",
		mcp.WithDescription("Record how the user feels right now."),
		mcp.WithString("mood",
			mcp.Required(),
			mcp.Description("Mood label"),
			mcp.Enum("great", "good", "neutral", "stressed", "exhausted"),
		),
		mcp.WithString("notes",
			mcp.Description("Optional free-form note"),
		),
	)
}

func (t *MoodTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	mood := strings.ToLower(strings.TrimSpace(req.GetString("mood", "")))
	if mood == "" {
		return mcp.NewToolResultError("'mood' is required"), nil
	}
	entry := model.MoodEntry{
		Mood:      mood,
		Notes:     strings.TrimSpace(req.GetString("notes", "")),
		Timestamp: t.assistant.Now(),
	}
	if err := t.assistant.Repository().TrackMood(ctx, entry); err != nil {
		return nil, fmt.Errorf("saving mood: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Mood recorded: %s", mood)), nil
}

// SiteTool handles the check_site MCP tool.
type SiteTool struct {
	controller *focus.Controller
}

func NewSiteTool(controller *focus.Controller) *SiteTool {
	return &SiteTool{controller: controller}
}

func (t *SiteTool) Definition() mcp.Tool {
	return mcp.NewTool("check_site",
		mcp.WithDescription(
			"Check whether a URL is on the distracting-site list. "+
				"While focus mode is on, a listed URL is blocked and counted as a distraction.",
		),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Full URL, e.g. https://www.reddit.com/"),
		),
	)
}

func (t *SiteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target := strings.TrimSpace(req.GetString("url", ""))
	if target == "" {
		return mcp.NewToolResultError("'url' is required"), nil
	}

	pattern, listed := t.controller.Blocker().Blocked(target)
	switch {
	case !listed:
		return mcp.NewToolResultText(fmt.Sprintf("%s is allowed.", target)), nil
	case t.controller.Intercept(ctx, target):
		return mcp.NewToolResultText(fmt.Sprintf("%s is blocked during focus mode (matches %s).", target, pattern)), nil
	default:
		return mcp.NewToolResultText(fmt.Sprintf("%s is on the distracting-site list (matches %s), but focus mode is off.", target, pattern)), nil
	}
}

// WellnessTool handles the wellness_report MCP tool.
type WellnessTool struct {
	assistant *assistant.Assistant
}

func NewWellnessTool(a *assistant.Assistant) *WellnessTool {
	return &WellnessTool{assistant: a}
}

func (t *WellnessTool) Definition() mcp.Tool {
	return mcp.NewTool("wellness_report",
		mcp.WithDescription("Stress level, work-life balance and recommendations derived from recent focus, task and mood history."),
	)
}

func (t *WellnessTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, err := t.assistant.Repository().Histories(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	report := wellness.BuildReport(h.Focus, h.Tasks, h.Moods, t.assistant.Now())

	var b strings.Builder
	b.WriteString("## Wellness\n\n")
	fmt.Fprintf(&b, "- Average mood: %s\n", report.Overview.AverageMood)
	fmt.Fprintf(&b, "- Stress level: %d\n", report.Overview.StressLevel)
	fmt.Fprintf(&b, "- Work-life balance: %s\n", report.Overview.WorkLifeBalance)
	if len(report.Recommendations) > 0 {
		b.WriteString("\n## Recommendations\n\n")
		for _, rec := range report.Recommendations {
			fmt.Fprintf(&b, "- (%s) %s\n", rec.Priority, rec.Message)
			if rec.Exercise != nil {
				fmt.Fprintf(&b, "  - Try %s: %s\n", rec.Exercise.Title, rec.Exercise.Description)
			}
		}
	}
	for _, insight := range report.Insights {
		fmt.Fprintf(&b, "\n%s", insight)
	}
	return mcp.NewToolResultText(b.String()), nil
}
