package llmlab

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestErrorCategories(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name      string
		err       error
		transient bool
		permanent bool
		userInput bool
		code      int
	}{
		{name: "transient", err: NewTransientError("rate limited", 429, cause), transient: true, code: 429},
		{name: "permanent", err: NewPermanentError("bad key", 401, cause), permanent: true, code: 401},
		{name: "user input", err: NewUserInputError("bad request", 400, cause), userInput: true, code: 400},
		{name: "wrapped", err: fmt.Errorf("call: %w", NewTransientError("down", 503, nil)), transient: true, code: 503},
		{name: "plain", err: cause},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.transient, IsTransient(tt.err))
			assert.Equal(t, tt.permanent, IsPermanent(tt.err))
			assert.Equal(t, tt.userInput, IsUserInput(tt.err))
			assert.Equal(t, tt.code, StatusCodeOf(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	cause := errors.New("unsupported parameter: enable_thinking")
	err := NewUserInputError("openai request failed (status 400)", 400, cause)

	assert.Equal(t, "openai request failed (status 400): unsupported parameter: enable_thinking", err.Error())
	assert.True(t, errors.Is(err, cause))
	assert.False(t, err.Retryable())
}

func TestRetryAfterOf(t *testing.T) {
	err := NewTransientErrorWithRetry("slow down", 429, 3*time.Second, nil)
	assert.Equal(t, 3*time.Second, RetryAfterOf(err))
	assert.True(t, err.Retryable())
	assert.Zero(t, RetryAfterOf(errors.New("x")))
}

func TestModalityError(t *testing.T) {
	err := &ModalityError{Modality: "image", Msg: "Current model does not support image input."}

	assert.Equal(t, "Current model does not support image input.", err.Error())
	assert.True(t, errors.Is(err, ErrUnsupportedModality))
	assert.True(t, IsUserInput(err))
	assert.False(t, IsTransient(err))
}

func TestErrMissingAPIKey(t *testing.T) {
	var err error = &ErrMissingAPIKey{Profile: "ark", EnvVar: "ARK_API_KEY"}
	assert.Contains(t, err.Error(), "ARK_API_KEY")

	var target *ErrMissingAPIKey
	assert.True(t, errors.As(fmt.Errorf("build: %w", err), &target))
	assert.Equal(t, "ark", target.Profile)
}

func TestMediaError(t *testing.T) {
	underlying := errors.New("no such file")
	err := &MediaError{Op: "encode", Path: "cat.png", Err: underlying}

	assert.Equal(t, "media encode error for cat.png: no such file", err.Error())
	assert.True(t, errors.Is(err, underlying))
}
