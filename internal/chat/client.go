// Package chat answers free-form questions about spending using Gemini,
// grounding each answer in the current spending analysis.
package chat

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/dvloznov/reward-tracker/internal/domain"
)

// Client wraps a Gemini client configured for spending Q&A.
type Client struct {
	genai *genai.Client
	model string
}

// NewClient creates a chat client. Credentials come from the
// environment (GEMINI_API_KEY or GOOGLE_API_KEY).
func NewClient(ctx context.Context, model string) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return nil, fmt.Errorf("NewClient: create genai client: %w", err)
	}
	return &Client{genai: client, model: model}, nil
}

// Ask sends the user's question to the model together with a summary of
// their spending and returns the model's answer.
func (c *Client) Ask(ctx context.Context, question string, analysis *domain.Analysis) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("Ask: question is empty")
	}

	prompt := buildAdvisorPrompt(question, analysis)

	contents := []*genai.Content{
		{
			Role: "user",
			Parts: []*genai.Part{
				{Text: prompt},
			},
		},
	}

	resp, err := c.genai.Models.GenerateContent(ctx, c.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("Ask: generate content: %w", err)
	}

	answer := resp.Text()
	if answer == "" {
		return "", fmt.Errorf("Ask: empty response from model")
	}
	return strings.TrimSpace(answer), nil
}
