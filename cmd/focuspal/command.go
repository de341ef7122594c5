package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/Joseda-hg/focuspal/internal/assistant"
	"github.com/Joseda-hg/focuspal/internal/model"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
)

// runCommand interprets one command and prints the reply. Countdowns need a
// running process, so focus and break replies only print a hint.
func runCommand(ctx context.Context, w io.Writer, a *assistant.Assistant, text string) error {
	resp := a.Interpret(ctx, text)

	switch resp.Intent {
	case model.IntentError:
		fmt.Fprintf(w, "%s %s\n", red("✗"), resp.Message)
		return nil
	case model.IntentUnknown:
		fmt.Fprintf(w, "%s %s\n", yellow("?"), resp.Message)
		return nil
	}

	fmt.Fprintf(w, "%s %s\n", green("✓"), resp.Message)
	switch data := resp.Data.(type) {
	case model.Reminder:
		fmt.Fprintf(w, "  %s\n", gray(humanize.RelTime(data.Time, a.Now(), "ago", "from now")))
	case model.Task:
		fmt.Fprintf(w, "  %s %s\n", cyan(data.Priority), gray(data.Category))
	case assistant.Countdown:
		fmt.Fprintf(w, "  %s\n", gray("open the console or web dashboard to run the countdown"))
	}
	return nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), err)
	os.Exit(1)
}
