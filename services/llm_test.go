package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"timeout", fmt.Errorf("post: %w", context.DeadlineExceeded), true},
		{"rate limited", &openai.APIError{HTTPStatusCode: http.StatusTooManyRequests}, true},
		{"server error", &openai.APIError{HTTPStatusCode: http.StatusBadGateway}, true},
		{"request error 503", &openai.RequestError{HTTPStatusCode: http.StatusServiceUnavailable, Err: errors.New("unavailable")}, true},
		{"bad request", &openai.APIError{HTTPStatusCode: http.StatusBadRequest}, false},
		{"unauthorized", &openai.APIError{HTTPStatusCode: http.StatusUnauthorized}, false},
		{"canceled", context.Canceled, false},
		{"plain", errors.New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retryable(tt.err))
		})
	}
}

func TestComplete_EmptyChoicesIsUnavailable(t *testing.T) {
	llm := newFakeLLM(func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		return openai.ChatCompletionResponse{}, nil
	})

	_, err := complete(context.Background(), llm, LLMPolicy{Model: "m"}, callSelect, openai.ChatCompletionRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLLMUnavailable)
	assert.Equal(t, 1, llm.calls())
}

func TestComplete_SetsModel(t *testing.T) {
	llm := newFakeLLM(text("ok"))

	msg, err := complete(context.Background(), llm, LLMPolicy{Model: "gpt-4o"}, callFollowUp, openai.ChatCompletionRequest{Model: "other"})
	require.NoError(t, err)
	assert.Equal(t, "ok", msg.Content)
	assert.Equal(t, "gpt-4o", llm.request(0).Model)
}

func TestComplete_GivesUpAfterMaxRetries(t *testing.T) {
	serverError := fail(&openai.APIError{HTTPStatusCode: http.StatusInternalServerError, Message: "oops"})
	llm := newFakeLLM(serverError, serverError, serverError, text("too late"))

	_, err := complete(context.Background(), llm, LLMPolicy{Model: "m", MaxRetries: 2, Backoff: time.Millisecond}, callSelect, openai.ChatCompletionRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLLMUnavailable)
	assert.Equal(t, 3, llm.calls())
}

func TestComplete_StopsWhenCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	llm := newFakeLLM(func(context.Context, openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
		cancel()
		return openai.ChatCompletionResponse{}, &openai.APIError{HTTPStatusCode: http.StatusServiceUnavailable}
	})

	_, err := complete(ctx, llm, LLMPolicy{Model: "m", MaxRetries: 3, Backoff: time.Millisecond}, callSelect, openai.ChatCompletionRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLLMUnavailable)
	assert.Equal(t, 1, llm.calls())
}
