// Package loom provides the shared contracts for the loom pipeline engine:
// the Generator and Tool collaborator capabilities, prompt and response
// types, request options, and the error taxonomy used across subpackages.
//
// The engine itself lives in the workflow package; schema holds the contract
// validation layer, event the progress sink, trace the span helpers, chunk
// the document splitter, and pipeline a complete content-generation pipeline
// built from these parts.
//
// # Capabilities
//
// A Generator is an external text/object-producing collaborator, typically
// an LLM behind one of the provider adapters:
//
//	gen := openai.New(os.Getenv("OPENAI_API_KEY"))
//	resp, err := gen.Generate(ctx, []loom.Message{
//	    {Role: loom.RoleUser, Content: "Summarize this document."},
//	}, loom.WithMaxTokens(512))
//
// Structured output is requested with a response schema; the returned
// Content is then a JSON document conforming to it:
//
//	resp, err := gen.Generate(ctx, msgs, loom.WithResponseSchema(loom.ResponseSchema{
//	    Name:   "review",
//	    Schema: reviewSchema.JSON(),
//	}))
//
// A Tool is an external typed function-call collaborator; see the tool
// package for the registry and the MCP bridge.
//
// # Errors
//
// Every failure surfaced by the engine carries a Category that determines
// how it is handled: transient failures are retried, contract violations
// and cancellations never are, and loop exhaustion is reported distinctly
// from convergence. Use CategoryOf to classify any error.
package loom
