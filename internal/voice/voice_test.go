package voice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Joseda-hg/focuspal/internal/model"
)

type echo struct{}

func (echo) Interpret(_ context.Context, text string) model.Response {
	return model.Response{Intent: model.IntentTask, Message: "heard " + text}
}

type recordingSpeaker struct {
	said []string
	err  error
}

func (r *recordingSpeaker) Speak(_ context.Context, text string) error {
	r.said = append(r.said, text)
	return r.err
}

func TestCommandUnsupported(t *testing.T) {
	transcript, resp, err := Command(context.Background(), Unsupported{}, Unsupported{}, echo{})
	require.NoError(t, err)
	assert.Empty(t, transcript)
	assert.Equal(t, model.IntentError, resp.Intent)
	assert.Equal(t, UnsupportedMessage, resp.Message)
}

func TestCommandSpeaksReply(t *testing.T) {
	speaker := &recordingSpeaker{}
	script := &Script{Lines: []string{"add task stretch"}}

	transcript, resp, err := Command(context.Background(), script, speaker, echo{})
	require.NoError(t, err)
	assert.Equal(t, "add task stretch", transcript)
	assert.Equal(t, "heard add task stretch", resp.Message)
	assert.Equal(t, []string{"heard add task stretch"}, speaker.said)

	_, _, err = Command(context.Background(), script, speaker, echo{})
	require.Error(t, err)
}

func TestCommandSpeakerErrors(t *testing.T) {
	script := &Script{Lines: []string{"a", "b"}}

	_, resp, err := Command(context.Background(), script, Unsupported{}, echo{})
	require.NoError(t, err)
	assert.Equal(t, "heard a", resp.Message)

	_, resp, err = Command(context.Background(), script, &recordingSpeaker{err: errors.New("no audio device")}, echo{})
	require.Error(t, err)
	assert.Equal(t, "heard b", resp.Message)
}
