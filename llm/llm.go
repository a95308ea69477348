// Package llm wraps the generative fallback used when no symptom rule
// matches. The service runs fine without it (rule-only mode).
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// Client generates a free-text reply for an unmatched message. Implementations
// must be treated as fallible and latent; callers fall back to the fixed
// knowledge-base message on any error.
type Client interface {
	Reply(ctx context.Context, message, language string) (string, error)
}

// systemPrompt keeps the assistant conservative: no diagnosis, no
// prescriptions beyond paracetamol, always defer to a doctor.
const systemPrompt = "You are vedura, a conservative health assistant for India.\n" +
	"Do NOT diagnose.\n" +
	"Do NOT prescribe medicines except paracetamol.\n" +
	"Always suggest consulting a doctor.\n" +
	"Use calm, supportive language."

const replyTimeout = 15 * time.Second

// OpenAIClient is the production Client backed by the OpenAI chat API.
type OpenAIClient struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAIClient constructs the fallback client. model may be empty, in
// which case a small default model is used. Calls are rate limited so a
// burst of unmatched messages cannot exhaust the API quota.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIClient{
		client:  openai.NewClient(apiKey),
		model:   model,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

// Reply asks the model for a short supportive answer in the detected
// language. Latency is bounded by an internal timeout; callers never wait
// on the limiter (a saturated limiter is an immediate error, handled like
// any other fallback failure).
func (c *OpenAIClient) Reply(ctx context.Context, message, language string) (string, error) {
	if !c.limiter.Allow() {
		return "", errors.New("fallback rate limit exceeded")
	}

	ctx, cancel := context.WithTimeout(ctx, replyTimeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("User (%s): %s", language, message)},
		},
		MaxTokens:   300,
		Temperature: 0.4,
	})
	if err != nil {
		return "", fmt.Errorf("fallback completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("fallback returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
