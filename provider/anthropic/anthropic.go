// Package anthropic adapts the Anthropic SDK to the loom Generator
// capability. Structured output is implemented with a synthetic tool
// the model is forced to call, since the Messages API has no native
// JSON schema response format.
package anthropic

import (
	"context"
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/kestrelworks/loom"
)

const DefaultModel = "claude-sonnet-4-20250514"

// jsonResponseToolName is the name of the synthetic tool used for
// schema-constrained output.
const jsonResponseToolName = "__loom_json_response__"

// Client wraps the Anthropic SDK to implement loom.Generator.
type Client struct {
	client *anthropic.Client
	model  string
}

// New creates a new Anthropic client.
// It reads the API key from the ANTHROPIC_API_KEY environment variable.
func New(opts ...ClientOption) *Client {
	c := &Client{
		model: DefaultModel,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.client == nil {
		client := anthropic.NewClient()
		c.client = &client
	}
	return c
}

// ClientOption configures the Anthropic client.
type ClientOption func(*Client)

// WithAPIKey sets the API key explicitly instead of using the environment variable.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		client := anthropic.NewClient(option.WithAPIKey(key))
		c.client = &client
	}
}

// WithModel sets the default model for requests.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// Generate sends a prompt and returns a complete response.
func (c *Client) Generate(ctx context.Context, messages []loom.Message, opts ...loom.Option) (*loom.Response, error) {
	options := loom.ApplyOptions(opts...)
	params := c.buildParams(messages, options)

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return nil, loom.NewTransientError("anthropic: message failed", err)
	}

	content := extractContent(resp.Content, options.ResponseSchema != nil)
	return &loom.Response{
		Content:      content,
		FinishReason: string(resp.StopReason),
		Usage: loom.Usage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
		},
	}, nil
}

// Stream sends a prompt and returns a channel of streaming events.
func (c *Client) Stream(ctx context.Context, messages []loom.Message, opts ...loom.Option) (<-chan loom.StreamEvent, error) {
	options := loom.ApplyOptions(opts...)
	params := c.buildParams(messages, options)

	stream := c.client.Messages.NewStreaming(ctx, params)
	ch := make(chan loom.StreamEvent)

	go func() {
		defer close(ch)
		var acc anthropic.Message

		for stream.Next() {
			event := stream.Current()
			acc.Accumulate(event)

			if event.Type == "content_block_delta" {
				delta := event.AsContentBlockDelta()
				if textDelta := delta.Delta.AsTextDelta(); textDelta.Type == "text_delta" {
					ch <- loom.StreamEvent{
						Delta: textDelta.Text,
					}
				}
			}
		}

		if err := stream.Err(); err != nil {
			ch <- loom.StreamEvent{Err: loom.NewTransientError("anthropic: stream failed", err)}
			return
		}

		content := extractContent(acc.Content, options.ResponseSchema != nil)
		ch <- loom.StreamEvent{
			Done: true,
			Response: &loom.Response{
				Content:      content,
				FinishReason: string(acc.StopReason),
				Usage: loom.Usage{
					InputTokens:  int(acc.Usage.InputTokens),
					OutputTokens: int(acc.Usage.OutputTokens),
				},
			},
		}
	}()

	return ch, nil
}

func (c *Client) buildParams(messages []loom.Message, options *loom.Options) anthropic.MessageNewParams {
	model := c.model
	if options.Model != "" {
		model = options.Model
	}

	maxTokens := int64(4096)
	if options.MaxTokens > 0 {
		maxTokens = int64(options.MaxTokens)
	}

	msgs, system := convertMessages(messages)
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if len(system) > 0 {
		params.System = system
	}
	if options.Temperature != nil {
		params.Temperature = anthropic.Float(*options.Temperature)
	}
	if options.ResponseSchema != nil {
		tool, choice := buildJSONTool(options.ResponseSchema)
		params.Tools = []anthropic.ToolUnionParam{tool}
		params.ToolChoice = choice
	}
	return params
}

func convertMessages(messages []loom.Message) ([]anthropic.MessageParam, []anthropic.TextBlockParam) {
	var result []anthropic.MessageParam
	var system []anthropic.TextBlockParam

	for _, msg := range messages {
		switch msg.Role {
		case loom.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: msg.Content})
		case loom.RoleAssistant:
			result = append(result, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Content)))
		default:
			result = append(result, anthropic.NewUserMessage(anthropic.NewTextBlock(msg.Content)))
		}
	}

	return result, system
}

// extractContent concatenates text blocks. When a schema was requested
// the synthetic tool's input is the JSON response.
func extractContent(blocks []anthropic.ContentBlockUnion, schemaMode bool) string {
	content := ""
	for _, block := range blocks {
		if block.Type == "text" {
			content += block.Text
		} else if block.Type == "tool_use" && schemaMode && block.Name == jsonResponseToolName {
			content = string(block.Input)
		}
	}
	return content
}

func buildJSONTool(rs *loom.ResponseSchema) (anthropic.ToolUnionParam, anthropic.ToolChoiceUnionParam) {
	var schema map[string]any
	if len(rs.Schema) > 0 {
		json.Unmarshal(rs.Schema, &schema)
	} else {
		schema = map[string]any{
			"type":                 "object",
			"additionalProperties": true,
		}
	}

	description := "Output the response as structured JSON"
	if rs.Description != "" {
		description = rs.Description
	}

	var required []string
	if reqVal, ok := schema["required"].([]any); ok {
		for _, r := range reqVal {
			if s, ok := r.(string); ok {
				required = append(required, s)
			}
		}
	}

	tool := anthropic.ToolUnionParam{
		OfTool: &anthropic.ToolParam{
			Name:        jsonResponseToolName,
			Description: anthropic.String(description),
			InputSchema: anthropic.ToolInputSchemaParam{
				Properties: schema["properties"],
				Required:   required,
			},
		},
	}
	toolChoice := anthropic.ToolChoiceUnionParam{
		OfTool: &anthropic.ToolChoiceToolParam{
			Name: jsonResponseToolName,
		},
	}
	return tool, toolChoice
}

var _ loom.Generator = (*Client)(nil)
