package provider

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	lab "github.com/BrenchCC/LLM-Lab"
)

func TestCategorizeStatusCode(t *testing.T) {
	tests := []struct {
		code     int
		expected lab.ErrorCategory
	}{
		{400, lab.ErrorUserInput},
		{401, lab.ErrorPermanent},
		{403, lab.ErrorPermanent},
		{404, lab.ErrorUserInput},
		{418, lab.ErrorPermanent},
		{422, lab.ErrorUserInput},
		{429, lab.ErrorTransient},
		{500, lab.ErrorTransient},
		{503, lab.ErrorTransient},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, CategorizeStatusCode(tt.code))
		})
	}
}

func TestStatusError(t *testing.T) {
	cause := errors.New(`400 Bad Request {"message":"unknown parameter: enable_thinking"}`)

	err := StatusError("openai", 400, 0, cause)
	assert.True(t, lab.IsUserInput(err))
	assert.Equal(t, 400, lab.StatusCodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "openai request failed (status 400)")
	assert.Contains(t, err.Error(), "enable_thinking")

	limited := StatusError("anthropic", 400, 2*time.Second, cause)
	assert.True(t, lab.IsTransient(limited), "a Retry-After hint makes the error retryable")
	assert.Equal(t, 2*time.Second, lab.RetryAfterOf(limited))
}

func TestParseRetryAfter(t *testing.T) {
	withHeader := func(v string) *http.Response {
		return &http.Response{Header: http.Header{"Retry-After": []string{v}}}
	}

	assert.Zero(t, ParseRetryAfter(nil))
	assert.Zero(t, ParseRetryAfter(&http.Response{Header: http.Header{}}))
	assert.Equal(t, 5*time.Second, ParseRetryAfter(withHeader("5")))
	assert.Zero(t, ParseRetryAfter(withHeader("soon")))

	future := time.Now().Add(time.Hour).UTC().Format(http.TimeFormat)
	assert.Greater(t, ParseRetryAfter(withHeader(future)), 50*time.Minute)
}
