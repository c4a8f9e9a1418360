package openai

import (
	"errors"

	"github.com/openai/openai-go"

	"github.com/BrenchCC/LLM-Lab/internal/provider"
)

// wrapError categorizes an OpenAI SDK error by status code and Retry-After.
// Non-API errors pass through for the network heuristics.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return err
	}
	return provider.StatusError("openai", apiErr.StatusCode, provider.ParseRetryAfter(apiErr.Response), err)
}
