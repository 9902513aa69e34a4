// Package oracle adapts a provider.Client to the two calls the planning
// conversation makes each turn: a free-form conversational reply and a
// structured extraction of the current stage's data.
package oracle

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/felixgeelhaar/planora/internal/errors"
	"github.com/felixgeelhaar/planora/internal/log"
	"github.com/felixgeelhaar/planora/internal/provider"
	"github.com/felixgeelhaar/planora/internal/stage"
)

const (
	replyMaxTokens      = 1024
	extractionMaxTokens = 2048
)

// Oracle wraps a model provider with the conversation's calling conventions.
type Oracle struct {
	client provider.Client
	logger *log.Logger
}

// New creates an Oracle backed by client.
func New(client provider.Client, logger *log.Logger) *Oracle {
	return &Oracle{client: client, logger: logger}
}

// Provider returns the name of the underlying model provider.
func (o *Oracle) Provider() string {
	return o.client.Name()
}

// Health checks connectivity to the underlying provider.
func (o *Oracle) Health(ctx context.Context) error {
	return o.client.Health(ctx)
}

// Close releases the underlying provider.
func (o *Oracle) Close() error {
	return o.client.Close()
}

// GenerateReply produces the conversational response for the current turn.
// The full message history is sent with the stage's system prompt. An empty
// reply from the provider is an error; the turn cannot proceed without text
// to show the user.
func (o *Oracle) GenerateReply(ctx context.Context, systemPrompt string, history []provider.Message) (string, error) {
	resp, err := o.client.Generate(ctx, &provider.GenerateRequest{
		SystemPrompt: systemPrompt,
		Messages:     history,
		MaxTokens:    replyMaxTokens,
	})
	if err != nil {
		return "", err
	}

	reply := strings.TrimSpace(resp.Content)
	if reply == "" {
		return "", errors.New(errors.ErrCodeOracleEmptyReply,
			"provider returned an empty reply").
			WithSuggestion("Retry the request; this is usually transient")
	}

	o.logger.Debug("generated reply",
		"provider", resp.Provider,
		"input_tokens", resp.InputTokens,
		"output_tokens", resp.OutputTokens,
		"latency_ms", resp.Latency.Milliseconds())

	return reply, nil
}

// Extract attempts the structured extraction for def against the
// conversation history. It returns (nil, false, nil) when the model produced
// nothing usable; that is an expected outcome, not an error. Only transport
// and API failures surface as errors.
func (o *Oracle) Extract(ctx context.Context, def *stage.Definition, history []provider.Message) (stage.Record, bool, error) {
	messages := make([]provider.Message, 0, len(history)+1)
	messages = append(messages, history...)
	messages = append(messages, provider.Message{
		Role:    "user",
		Content: def.ExtractionPrompt,
	})

	resp, err := o.client.Generate(ctx, &provider.GenerateRequest{
		SystemPrompt: stage.ExtractionSystemPrompt,
		Messages:     messages,
		MaxTokens:    extractionMaxTokens,
		Tools: []provider.Tool{{
			Name:        def.ToolName(),
			Description: "Extract structured planning data from the conversation",
			InputSchema: def.Schema,
		}},
	})
	if err != nil {
		return nil, false, err
	}

	raw := o.rawExtraction(def, resp)
	if raw == nil {
		return nil, false, nil
	}

	rec, err := def.Decode(raw)
	if err != nil {
		// A malformed extraction means the stage is not done yet; the
		// controller re-prompts rather than failing the turn.
		o.logger.Warn("extraction did not match stage schema",
			"stage", string(def.Stage),
			"error", err.Error())
		return nil, false, nil
	}

	return rec, true, nil
}

// rawExtraction pulls the JSON payload out of a response, preferring a tool
// call and falling back to JSON embedded in the reply text.
func (o *Oracle) rawExtraction(def *stage.Definition, resp *provider.GenerateResponse) json.RawMessage {
	if call := resp.FirstToolCall(def.ToolName()); call != nil {
		return call.Input
	}
	// Some models answer the extraction prompt in prose instead of calling
	// the tool.
	if text := extractJSON(resp.Content); text != "" {
		o.logger.Debug("no tool call in extraction response, using inline JSON",
			"stage", string(def.Stage))
		return json.RawMessage(text)
	}
	o.logger.Debug("extraction response had no usable payload",
		"stage", string(def.Stage))
	return nil
}

var jsonBlockRegex = regexp.MustCompile("```(?:json)?\\s*\\n([\\s\\S]*?)```")

// extractJSON finds a JSON object inside free-form model output, trying
// fenced code blocks first and then brace matching.
func extractJSON(content string) string {
	if matches := jsonBlockRegex.FindStringSubmatch(content); len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.Index(content, "{")
	if start == -1 {
		return ""
	}

	braceCount := 0
	for i := start; i < len(content); i++ {
		switch content[i] {
		case '{':
			braceCount++
		case '}':
			braceCount--
			if braceCount == 0 {
				return content[start : i+1]
			}
		}
	}

	return ""
}
