package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/kestrelworks/loom/schema"
)

// RemoteRegistry exposes tools from an MCP server. It mirrors the
// [Registry] surface but proxies every call to the remote server, so
// workflow steps can use local and remote tools interchangeably.
//
// RemoteRegistry is safe for concurrent use. The tool list is cached
// locally and can be refreshed with [RemoteRegistry.Refresh].
type RemoteRegistry struct {
	client *client.Client
	mu     sync.RWMutex
	tools  map[string]Definition
}

// NewRemoteRegistry connects to an MCP server over stdio. The command is
// the path to the server executable and args are passed to it.
func NewRemoteRegistry(ctx context.Context, command string, env []string, args ...string) (*RemoteRegistry, error) {
	c, err := client.NewStdioMCPClient(command, env, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP client: %w", err)
	}
	return newRemoteRegistry(ctx, c)
}

// NewRemoteRegistrySSE connects to an MCP server over SSE.
func NewRemoteRegistrySSE(ctx context.Context, baseURL string) (*RemoteRegistry, error) {
	c, err := client.NewSSEMCPClient(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create SSE MCP client: %w", err)
	}
	return newRemoteRegistry(ctx, c)
}

func newRemoteRegistry(ctx context.Context, c *client.Client) (*RemoteRegistry, error) {
	if err := c.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start MCP client: %w", err)
	}

	_, err := c.Initialize(ctx, mcp.InitializeRequest{
		Params: mcp.InitializeParams{
			ProtocolVersion: mcp.LATEST_PROTOCOL_VERSION,
			Capabilities:    mcp.ClientCapabilities{},
			ClientInfo: mcp.Implementation{
				Name:    "loom-mcp-client",
				Version: "1.0.0",
			},
		},
	})
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize MCP session: %w", err)
	}

	r := &RemoteRegistry{
		client: c,
		tools:  make(map[string]Definition),
	}
	if err := r.Refresh(ctx); err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to list tools: %w", err)
	}
	return r, nil
}

// Close closes the connection to the MCP server.
func (r *RemoteRegistry) Close() error {
	return r.client.Close()
}

// Refresh fetches the current tool list from the MCP server, replacing
// the local cache.
func (r *RemoteRegistry) Refresh(ctx context.Context) error {
	result, err := r.client.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools = make(map[string]Definition, len(result.Tools))
	for _, t := range result.Tools {
		r.tools[t.Name] = fromMCPTool(t)
	}
	return nil
}

// Get returns the definition of a remote tool by name.
func (r *RemoteRegistry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.tools[name]
	return d, ok
}

// List returns the definitions of all remote tools.
func (r *RemoteRegistry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	defs := make([]Definition, 0, len(r.tools))
	for _, d := range r.tools {
		defs = append(defs, d)
	}
	return defs
}

// Execute calls a tool on the remote MCP server and returns the result
// content as a JSON string value.
func (r *RemoteRegistry) Execute(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	var parsed any
	if len(args) > 0 {
		if err := json.Unmarshal(args, &parsed); err != nil {
			return nil, fmt.Errorf("tool %q: invalid arguments: %w", name, err)
		}
	}

	result, err := r.client.CallTool(ctx, mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: parsed,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	if result.IsError {
		return nil, fmt.Errorf("tool %q: %s", name, resultText(result))
	}

	if result.StructuredContent != nil {
		return json.Marshal(result.StructuredContent)
	}
	return json.Marshal(resultText(result))
}

// fromMCPTool adopts a remote tool's input schema where it parses as a
// contract this package can enforce; otherwise the input side is left
// unvalidated and the server enforces its own schema.
func fromMCPTool(t mcp.Tool) Definition {
	def := Definition{
		Name:        t.Name,
		Description: t.Description,
	}

	var raw json.RawMessage
	if len(t.RawInputSchema) > 0 {
		raw = t.RawInputSchema
	} else if data, err := json.Marshal(t.InputSchema); err == nil {
		raw = data
	}
	if len(raw) > 0 {
		if s, err := schema.FromJSON(raw); err == nil {
			def.Input = s
		}
	}
	return def
}

func resultText(result *mcp.CallToolResult) string {
	var parts []string
	for _, c := range result.Content {
		switch content := c.(type) {
		case mcp.TextContent:
			parts = append(parts, content.Text)
		case *mcp.TextContent:
			parts = append(parts, content.Text)
		default:
			if data, err := json.Marshal(content); err == nil {
				parts = append(parts, string(data))
			}
		}
	}
	return strings.Join(parts, "\n")
}
