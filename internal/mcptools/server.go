package mcptools

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/focus"
)

// Version is set at build time via ldflags.
var Version = "dev"

// NewServer registers every focuspal tool on a new MCP server.
func NewServer(a *assistant.Assistant, controller *focus.Controller) *server.MCPServer {
	s := server.NewMCPServer(
		"focuspal",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	commandTool := NewCommandTool(a, controller)
	s.AddTool(commandTool.Definition(), commandTool.Handle)

	statusTool := NewStatusTool(a)
	s.AddTool(statusTool.Definition(), statusTool.Handle)

	moodTool := NewMoodTool(a)
	s.AddTool(moodTool.Definition(), moodTool.Handle)

	siteTool := NewSiteTool(controller)
	s.AddTool(siteTool.Definition(), siteTool.Handle)

	wellnessTool := NewWellnessTool(a)
	s.AddTool(wellnessTool.Definition(), wellnessTool.Handle)

	return s
}

// ServeStdio blocks serving s over stdin/stdout.
func ServeStdio(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

const instructions = `focuspal is a personal focus assistant.
Use assistant_command for anything the user phrases as a request ("add a task ...",
"remind me to ... in 20 minutes", "start a focus session"). Use productivity_status
and wellness_report to answer questions about progress. Use track_mood when the user
says how they feel, and check_site before opening a URL during focus time.`
