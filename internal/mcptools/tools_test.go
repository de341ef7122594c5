package mcptools

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/focus"
	"github.com/Joseda-hg/focuspal/internal/kv"
	"github.com/Joseda-hg/focuspal/internal/model"
	"github.com/Joseda-hg/focuspal/internal/notify"
	"github.com/Joseda-hg/focuspal/internal/repo"
)

var fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)

func newTestDeps(t *testing.T) (*assistant.Assistant, *focus.Controller) {
	t.Helper()
	r := repo.New(kv.NewMemory())
	now := func() time.Time { return fixedNow }
	controller := focus.NewController(focus.Config{
		Repo:     r,
		Notifier: &notify.Recorder{},
		Blocker:  focus.NewBlocker([]string{"*reddit.com/*"}),
		Now:      now,
	})
	t.Cleanup(controller.StopTimer)
	return assistant.New(r, now), controller
}

func makeReq(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func isErrorResult(result *mcp.CallToolResult) bool {
	return result != nil && result.IsError
}

func getResultText(result *mcp.CallToolResult) string {
	if result == nil || len(result.Content) == 0 {
		return ""
	}
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestCommandTool_Definition(t *testing.T) {
	a, c := newTestDeps(t)
	def := NewCommandTool(a, c).Definition()
	if def.Name != "assistant_command" {
		t.Errorf("tool name = %q, want assistant_command", def.Name)
	}
	required := def.InputSchema.Required
	if len(required) != 1 || required[0] != "text" {
		t.Errorf("required = %v, want [text]", required)
	}
}

func TestCommandTool_Handle(t *testing.T) {
	a, c := newTestDeps(t)
	tool := NewCommandTool(a, c)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"text": "add task buy milk"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}
	if got := getResultText(result); got != "[task] Added task: buy milk (medium priority, general)" {
		t.Errorf("text = %q", got)
	}

	result, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"text": "start a focus session"}))
	if isErrorResult(result) {
		t.Fatalf("unexpected error result: %s", getResultText(result))
	}
	if !c.Active() {
		t.Errorf("focus mode should be active after a focus command")
	}
}

func TestCommandTool_HandleErrors(t *testing.T) {
	a, c := newTestDeps(t)
	tool := NewCommandTool(a, c)

	result, _ := tool.Handle(context.Background(), makeReq(map[string]interface{}{}))
	if !isErrorResult(result) {
		t.Errorf("missing text should be an error result")
	}

	result, _ = tool.Handle(context.Background(), makeReq(map[string]interface{}{"text": "sing me a song"}))
	if !isErrorResult(result) || getResultText(result) != assistant.HelpMessage {
		t.Errorf("unknown command: got %q", getResultText(result))
	}
}

func TestStatusTool_Handle(t *testing.T) {
	a, _ := newTestDeps(t)
	ctx := context.Background()
	if err := a.Repository().AddFocusEvent(ctx, model.FocusEvent{Timestamp: fixedNow, Duration: 45 * 60}); err != nil {
		t.Fatalf("add focus: %v", err)
	}

	tool := NewStatusTool(a)
	result, err := tool.Handle(ctx, makeReq(map[string]interface{}{"period": "week"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	text := getResultText(result)
	for _, want := range []string{"## Today", "- Focus: 45 minutes", "## This week"} {
		if !strings.Contains(text, want) {
			t.Errorf("status text missing %q:\n%s", want, text)
		}
	}
}

func TestMoodTool_Handle(t *testing.T) {
	a, _ := newTestDeps(t)
	tool := NewMoodTool(a)

	result, err := tool.Handle(context.Background(), makeReq(map[string]interface{}{"mood": "Good", "notes": "slept well"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if getResultText(result) != "Mood recorded: good" {
		t.Errorf("text = %q", getResultText(result))
	}
	moods, err := a.Repository().Moods(context.Background())
	if err != nil {
		t.Fatalf("moods: %v", err)
	}
	if len(moods) != 1 || moods[0].Notes != "slept well" {
		t.Errorf("moods = %+v", moods)
	}
}

func TestSiteTool_Handle(t *testing.T) {
	_, c := newTestDeps(t)
	tool := NewSiteTool(c)
	ctx := context.Background()

	result, _ := tool.Handle(ctx, makeReq(map[string]interface{}{"url": "https://go.dev/"}))
	if !strings.Contains(getResultText(result), "is allowed") {
		t.Errorf("text = %q", getResultText(result))
	}

	result, _ = tool.Handle(ctx, makeReq(map[string]interface{}{"url": "https://reddit.com/"}))
	if !strings.Contains(getResultText(result), "focus mode is off") {
		t.Errorf("text = %q", getResultText(result))
	}

	c.Enable(ctx)
	result, _ = tool.Handle(ctx, makeReq(map[string]interface{}{"url": "https://reddit.com/"}))
	if !strings.Contains(getResultText(result), "is blocked") {
		t.Errorf("text = %q", getResultText(result))
	}
}

func TestWellnessTool_Handle(t *testing.T) {
	a, _ := newTestDeps(t)
	result, err := NewWellnessTool(a).Handle(context.Background(), makeReq(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(getResultText(result), "- Average mood: neutral") {
		t.Errorf("text = %q", getResultText(result))
	}
}

func TestNewServer(t *testing.T) {
	a, c := newTestDeps(t)
	if s := NewServer(a, c); s == nil {
		t.Fatal("expected server")
	}
}
