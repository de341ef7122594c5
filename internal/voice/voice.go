// Package voice is the speech port. A Transcriber yields finished
// transcripts, a Speaker reads replies aloud. The default build has no
// speech engine; Unsupported reports that through ErrUnsupported.
package voice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Joseda-hg/focuspal/internal/model"
)

var ErrUnsupported = errors.New("voice: speech is not supported on this system")

// UnsupportedMessage is the assistant reply when no speech engine exists.
const UnsupportedMessage = "Sorry, voice recognition is not supported on this system."

type Transcriber interface {
	// Listen blocks until one utterance has been transcribed.
	Listen(ctx context.Context) (string, error)
}

type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Interpreter is the part of the assistant that voice commands go through.
type Interpreter interface {
	Interpret(ctx context.Context, text string) model.Response
}

// Unsupported is both a Transcriber and a Speaker that always fail.
type Unsupported struct{}

func (Unsupported) Listen(context.Context) (string, error) {
	return "", ErrUnsupported
}

func (Unsupported) Speak(context.Context, string) error {
	return ErrUnsupported
}

// Command listens for one utterance, interprets it and speaks the reply.
// A missing speech engine is reported as a chat-style response, not an
// error. Speaking is best effort: the response is returned even when the
// speaker fails.
func Command(ctx context.Context, t Transcriber, s Speaker, a Interpreter) (string, model.Response, error) {
	transcript, err := t.Listen(ctx)
	if errors.Is(err, ErrUnsupported) {
		return "", model.Response{Intent: model.IntentError, Message: UnsupportedMessage}, nil
	}
	if err != nil {
		return "", model.Response{}, fmt.Errorf("listen: %w", err)
	}

	resp := a.Interpret(ctx, transcript)
	if s != nil {
		if err := s.Speak(ctx, resp.Message); err != nil && !errors.Is(err, ErrUnsupported) {
			return transcript, resp, fmt.Errorf("speak: %w", err)
		}
	}
	return transcript, resp, nil
}

// Script replays fixed transcripts. It is used for piped input and tests.
type Script struct {
	Lines []string
	next  int
}

func (s *Script) Listen(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.next >= len(s.Lines) {
		return "", errors.New("voice: script exhausted")
	}
	line := s.Lines[s.next]
	s.next++
	return line, nil
}
