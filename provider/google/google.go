// Package google adapts the Google GenAI SDK to the loom Generator
// capability.
package google

import (
	"context"

	"google.golang.org/genai"

	"github.com/kestrelworks/loom"
)

const DefaultModel = "gemini-2.0-flash"

// Client wraps the Google GenAI SDK to implement loom.Generator.
type Client struct {
	client *genai.Client
	model  string
}

// New creates a new Google GenAI client with the given API key.
func New(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	c := &Client{
		client: client,
		model:  DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ClientOption configures the Google client.
type ClientOption func(*Client)

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Generate sends a prompt and returns a complete response.
func (c *Client) Generate(ctx context.Context, messages []loom.Message, opts ...loom.Option) (*loom.Response, error) {
	options := loom.ApplyOptions(opts...)
	model, contents, config := c.buildRequest(messages, options)

	resp, err := c.client.Models.GenerateContent(ctx, model, contents, config)
	if err != nil {
		return nil, loom.NewTransientError("google: generate failed", err)
	}

	content := ""
	finishReason := ""
	if len(resp.Candidates) > 0 {
		if resp.Candidates[0].Content != nil {
			for _, part := range resp.Candidates[0].Content.Parts {
				content += part.Text
			}
		}
		finishReason = string(resp.Candidates[0].FinishReason)
	}

	usage := loom.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return &loom.Response{
		Content:      content,
		FinishReason: finishReason,
		Usage:        usage,
	}, nil
}

// Stream sends a prompt and returns a channel of streaming events.
func (c *Client) Stream(ctx context.Context, messages []loom.Message, opts ...loom.Option) (<-chan loom.StreamEvent, error) {
	options := loom.ApplyOptions(opts...)
	model, contents, config := c.buildRequest(messages, options)

	ch := make(chan loom.StreamEvent)

	go func() {
		defer close(ch)

		var fullContent string
		var finishReason string
		var usage loom.Usage

		for resp := range c.client.Models.GenerateContentStream(ctx, model, contents, config) {
			if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil {
				for _, part := range resp.Candidates[0].Content.Parts {
					if part.Text != "" {
						ch <- loom.StreamEvent{Delta: part.Text}
						fullContent += part.Text
					}
				}
				finishReason = string(resp.Candidates[0].FinishReason)
			}

			if resp.UsageMetadata != nil {
				usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
				usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
			}
		}

		ch <- loom.StreamEvent{
			Done: true,
			Response: &loom.Response{
				Content:      fullContent,
				FinishReason: finishReason,
				Usage:        usage,
			},
		}
	}()

	return ch, nil
}

func (c *Client) buildRequest(messages []loom.Message, options *loom.Options) (string, []*genai.Content, *genai.GenerateContentConfig) {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	config := &genai.GenerateContentConfig{}
	if options.MaxTokens > 0 {
		config.MaxOutputTokens = int32(options.MaxTokens)
	}
	if options.Temperature != nil {
		temp := float32(*options.Temperature)
		config.Temperature = &temp
	}
	if options.ResponseSchema != nil {
		config.ResponseMIMEType = "application/json"
		config.ResponseSchema = convertSchema(options.ResponseSchema.Schema)
	}

	return model, convertMessages(messages), config
}

func convertMessages(messages []loom.Message) []*genai.Content {
	var contents []*genai.Content
	for _, msg := range messages {
		role := "user"
		if msg.Role == loom.RoleAssistant {
			role = "model"
		}
		// Gemini has no system role in content; system prompts travel as
		// user context.
		contents = append(contents, &genai.Content{
			Role: role,
			Parts: []*genai.Part{
				{Text: msg.Content},
			},
		})
	}
	return contents
}

var _ loom.Generator = (*Client)(nil)
