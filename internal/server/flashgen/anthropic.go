package flashgen

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/cardsmith/cardsmith/internal/common"
)

// AnthropicClient implements CompletionClient over the Anthropic Messages
// API. The client is stateless per call and safe for concurrent use.
type AnthropicClient struct {
	client anthropic.Client
}

// NewAnthropicClient builds a client authenticated with the given API key.
func NewAnthropicClient(apiKey string) *AnthropicClient {
	return &AnthropicClient{client: anthropic.NewClient(option.WithAPIKey(apiKey))}
}

// Complete sends one user prompt and returns the concatenated text blocks of
// the response. Failures come back as *common.ProviderError.
func (c *AnthropicClient) Complete(ctx context.Context, model, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: 2048,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", classifyProviderError(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	return sb.String(), nil
}

// classifyProviderError maps an SDK failure to the provider error taxonomy:
// 429 is rate limiting, 5xx is an upstream fault, a deadline hit is a
// timeout, everything else is unknown.
func classifyProviderError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return common.NewProviderError(common.ProviderTimeout, err)
	}
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return common.NewProviderError(classifyStatus(apierr.StatusCode), err)
	}
	return common.NewProviderError(common.ProviderUnknown, err)
}

func classifyStatus(code int) common.ProviderKind {
	switch {
	case code == http.StatusTooManyRequests:
		return common.ProviderRateLimited
	case code == http.StatusRequestTimeout:
		return common.ProviderTimeout
	case code >= http.StatusInternalServerError:
		return common.ProviderUpstream
	default:
		return common.ProviderUnknown
	}
}
