package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
)

var (
	// ErrLLMUnavailable is returned when a chat completion fails
	ErrLLMUnavailable = errors.New("language model unavailable")
	// ErrLLMTimeout is returned when every attempt of a chat completion timed out.
	// The caller may retry the whole turn.
	ErrLLMTimeout = errors.New("language model timed out")
)

// LLM call names used in logs and metrics
const (
	callScope    = "scope"
	callSelect   = "select"
	callFollowUp = "followup"
)

// ChatCompleter is the chat-completion capability of the LLM provider.
// *openai.Client satisfies it.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// LLMPolicy bounds every LLM call
type LLMPolicy struct {
	Model      string
	Timeout    time.Duration
	MaxRetries int
	// Backoff is multiplied by the attempt number between retries
	Backoff time.Duration
}

// complete runs one chat completion under the policy and returns the first
// choice's message. Timeouts, 429 and 5xx responses are retried.
func complete(ctx context.Context, llm ChatCompleter, policy LLMPolicy, call string, req openai.ChatCompletionRequest) (openai.ChatCompletionMessage, error) {
	req.Model = policy.Model

	var lastErr error
	timedOut := false

	for attempt := 0; attempt <= policy.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := time.Duration(attempt) * policy.Backoff
			log.Printf("Retrying %s LLM call in %s (attempt %d): %v", call, wait, attempt+1, lastErr)
			select {
			case <-ctx.Done():
				return openai.ChatCompletionMessage{}, fmt.Errorf("%w: %s call: %w", ErrLLMUnavailable, call, ctx.Err())
			case <-time.After(wait):
			}
		}

		msg, err := completeOnce(ctx, llm, policy.Timeout, call, req)
		if err == nil {
			return msg, nil
		}

		lastErr = err
		timedOut = isTimeout(err)
		if ctx.Err() != nil || !retryable(err) {
			break
		}
	}

	if timedOut {
		return openai.ChatCompletionMessage{}, fmt.Errorf("%w: %s call: %w", ErrLLMTimeout, call, lastErr)
	}
	return openai.ChatCompletionMessage{}, fmt.Errorf("%w: %s call: %w", ErrLLMUnavailable, call, lastErr)
}

func completeOnce(ctx context.Context, llm ChatCompleter, timeout time.Duration, call string, req openai.ChatCompletionRequest) (openai.ChatCompletionMessage, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := llm.CreateChatCompletion(ctx, req)
	if err == nil && len(resp.Choices) == 0 {
		err = errors.New("response contained no choices")
	}
	if err != nil && ctx.Err() == context.DeadlineExceeded && !errors.Is(err, context.DeadlineExceeded) {
		err = fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}

	status := "ok"
	switch {
	case err == nil:
	case isTimeout(err):
		status = "timeout"
	default:
		status = "error"
	}
	recordLLMAttempt(call, status, start)

	if err != nil {
		return openai.ChatCompletionMessage{}, err
	}
	return resp.Choices[0].Message, nil
}

func isTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded)
}

func retryable(err error) bool {
	if isTimeout(err) {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}
	return false
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
