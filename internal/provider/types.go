package provider

import (
	"encoding/json"
	"time"
)

// Message is a single conversation turn sent to the model.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// Tool describes a structured-output tool the model may call. InputSchema
// is a JSON Schema object; each provider serializes it into its own wire
// shape.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]any
}

// ToolCall is a tool invocation returned by the model. Input holds the
// raw argument object so callers decode it against their own types.
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// GenerateRequest carries a full conversation plus generation parameters.
type GenerateRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64

	// Tools, when non-empty, offers structured-output tools to the model.
	Tools []Tool

	// ForceTool names a tool the model must call. Empty leaves tool
	// choice to the model.
	ForceTool string
}

// GenerateResponse is a completed model response.
type GenerateResponse struct {
	Content      string
	ToolCalls    []ToolCall
	Model        string
	Provider     string
	StopReason   string
	InputTokens  int
	OutputTokens int
	Latency      time.Duration
}

// FirstToolCall returns the first tool call matching name, or nil.
func (r *GenerateResponse) FirstToolCall(name string) *ToolCall {
	for i := range r.ToolCalls {
		if r.ToolCalls[i].Name == name {
			return &r.ToolCalls[i]
		}
	}
	return nil
}
