package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "system", "tool"
	Content string

	// ToolCalls is set on an assistant message that requested tool execution.
	ToolCalls []ToolCall

	// ToolCallID and ToolName are set on a "tool" role message carrying a
	// tool result, linking it back to the originating call.
	ToolCallID string
	ToolName   string
}

// ToolCall is a model-requested tool invocation. The ID is opaque; providers
// without native call ids synthesize one so results can be associated back.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]interface{}
}

// ToolSpec declares a tool to the model. Parameters is a JSON schema object.
type ToolSpec struct {
	Name        string
	Description string
	Parameters  map[string]interface{}
}

// ToolResponse is the result of a tool-aware invocation: either final text,
// or one or more tool calls the caller is expected to execute.
type ToolResponse struct {
	Text      string
	ToolCalls []ToolCall
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend.
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method).
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// ToolCapableProvider is an LLMProvider that additionally supports declaring
// tools and receiving tool-call requests in the response.
type ToolCapableProvider interface {
	LLMProvider

	// ChatWithTools sends a chat history with declared tools. The response
	// carries either final text or the model's tool-call requests.
	ChatWithTools(ctx context.Context, history []Message, tools []ToolSpec, options ...Option) (*ToolResponse, error)
}
