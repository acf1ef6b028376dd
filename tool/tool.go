// Package tool provides typed request/response function calls validated
// against schema contracts, a registry for looking them up by name, and
// a bridge to remote MCP servers.
package tool

import (
	"context"
	"encoding/json"

	"github.com/kestrelworks/loom/schema"
)

// Definition describes a tool: its name, what it does, and the schema
// contracts its arguments and result must satisfy. Either schema may be
// nil, in which case that side is not validated.
type Definition struct {
	// Name is the unique identifier for the tool.
	Name string
	// Description explains what the tool does.
	Description string
	// Input is the schema contract for the tool's arguments.
	Input *schema.Schema
	// Output is the schema contract for the tool's result.
	Output *schema.Schema
}

// Handler executes a tool call. Arguments and result are JSON documents.
type Handler func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
