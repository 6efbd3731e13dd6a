package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format.
type Message struct {
	Role    string // "user", "assistant", "tool"
	Content string

	// ToolCalls is set on assistant messages that requested tool use.
	ToolCalls []ToolCall

	// ToolCallID and ToolName identify which request a "tool" message answers.
	ToolCallID string
	ToolName   string
}

// ToolCall is one structured tool request emitted by the model.
type ToolCall struct {
	ID        string
	Name      string
	Arguments map[string]interface{}
}

// Tool declares a capability the model may call: a name, a natural-language
// description and a JSON schema for its arguments.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// Response is the typed outcome of one model round: either a final answer
// (no tool calls) or one or more tool requests.
type Response struct {
	Text       string
	ToolCalls  []ToolCall
	StopReason string
}

// IsFinal reports whether the model produced a final answer rather than
// requesting tools.
func (r *Response) IsFinal() bool {
	return len(r.ToolCalls) == 0
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

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// Provider defines the contract for any LLM backend.
type Provider interface {
	// Chat sends a chat history to the model and returns the response text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatWithTools runs one model round with tools on offer. The model
	// either answers directly or requests tool calls; prior tool results are
	// carried in history as "tool" role messages.
	ChatWithTools(ctx context.Context, system string, history []Message, tools []Tool, options ...Option) (*Response, error)
}
