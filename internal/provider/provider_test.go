package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/felixgeelhaar/planora/internal/errors"
)

func TestNewSelectsProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{"anthropic", Config{Name: "anthropic", APIKey: "sk-test"}, "anthropic", false},
		{"default is anthropic", Config{APIKey: "sk-test"}, "anthropic", false},
		{"openai", Config{Name: "openai", APIKey: "sk-test"}, "openai", false},
		{"unknown", Config{Name: "bedrock", APIKey: "sk-test"}, "", true},
		{"missing key", Config{Name: "anthropic"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if client.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", client.Name(), tt.wantName)
			}
		})
	}
}

func TestAnthropicGenerate(t *testing.T) {
	var gotReq anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "sk-test" {
			t.Errorf("missing x-api-key header")
		}
		if r.Header.Get("anthropic-version") == "" {
			t.Errorf("missing anthropic-version header")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Model:      "claude-test",
			StopReason: "end_turn",
			Content:    []anthropicContent{{Type: "text", Text: "What does success look like?"}},
			Usage:      anthropicUsage{InputTokens: 10, OutputTokens: 5},
		})
	}))
	defer server.Close()

	client, err := NewAnthropic(Config{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropic() error: %v", err)
	}

	resp, err := client.Generate(context.Background(), &GenerateRequest{
		SystemPrompt: "You are a planning assistant.",
		Messages:     []Message{{Role: "user", Content: "I want to launch a product"}},
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if resp.Content != "What does success look like?" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.InputTokens != 10 || resp.OutputTokens != 5 {
		t.Errorf("tokens = %d/%d, want 10/5", resp.InputTokens, resp.OutputTokens)
	}
	if gotReq.System != "You are a planning assistant." {
		t.Errorf("system prompt not sent as top-level field: %q", gotReq.System)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Role != "user" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestAnthropicGenerateToolUse(t *testing.T) {
	var gotReq anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(anthropicResponse{
			Model:      "claude-test",
			StopReason: "tool_use",
			Content: []anthropicContent{
				{Type: "text", Text: "Extracting now."},
				{
					Type:  "tool_use",
					ID:    "toolu_01",
					Name:  "record_outcome",
					Input: json.RawMessage(`{"project_name":"Apollo"}`),
				},
			},
		})
	}))
	defer server.Close()

	client, err := NewAnthropic(Config{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewAnthropic() error: %v", err)
	}

	resp, err := client.Generate(context.Background(), &GenerateRequest{
		Messages: []Message{{Role: "user", Content: "extract"}},
		Tools: []Tool{{
			Name:        "record_outcome",
			InputSchema: map[string]any{"type": "object"},
		}},
		ForceTool: "record_outcome",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(gotReq.Tools) != 1 || gotReq.Tools[0].Name != "record_outcome" {
		t.Errorf("tools not sent: %+v", gotReq.Tools)
	}
	if gotReq.ToolChoice == nil || gotReq.ToolChoice.Name != "record_outcome" {
		t.Errorf("tool_choice not forced: %+v", gotReq.ToolChoice)
	}

	call := resp.FirstToolCall("record_outcome")
	if call == nil {
		t.Fatal("FirstToolCall returned nil")
	}
	var input map[string]string
	if err := json.Unmarshal(call.Input, &input); err != nil {
		t.Fatalf("unmarshal tool input: %v", err)
	}
	if input["project_name"] != "Apollo" {
		t.Errorf("tool input = %v", input)
	}
}

func TestAnthropicAPIErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode errors.ErrorCode
	}{
		{"unauthorized", http.StatusUnauthorized, errors.ErrCodeOracleAuth},
		{"forbidden", http.StatusForbidden, errors.ErrCodeOracleAuth},
		{"overloaded", http.StatusServiceUnavailable, errors.ErrCodeOracleUnavailable},
		{"rate limited", http.StatusTooManyRequests, errors.ErrCodeOracleUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				json.NewEncoder(w).Encode(map[string]any{
					"type":  "error",
					"error": map[string]string{"type": "api_error", "message": "nope"},
				})
			}))
			defer server.Close()

			client, _ := NewAnthropic(Config{APIKey: "sk-test", BaseURL: server.URL})
			_, err := client.Generate(context.Background(), &GenerateRequest{
				Messages: []Message{{Role: "user", Content: "hi"}},
			})
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.HasCode(err, tt.wantCode) {
				t.Errorf("error code mismatch: got %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var gotReq openaiRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(openaiResponse{
			Model: "gpt-test",
			Choices: []openaiChoice{{
				Message:      openaiRespMessage{Role: "assistant", Content: "Tell me about your timeline."},
				FinishReason: "stop",
			}},
			Usage: openaiUsage{PromptTokens: 8, CompletionTokens: 4},
		})
	}))
	defer server.Close()

	client, err := NewOpenAI(Config{APIKey: "sk-test", BaseURL: server.URL})
	if err != nil {
		t.Fatalf("NewOpenAI() error: %v", err)
	}

	resp, err := client.Generate(context.Background(), &GenerateRequest{
		SystemPrompt: "system here",
		Messages:     []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if resp.Content != "Tell me about your timeline." {
		t.Errorf("Content = %q", resp.Content)
	}
	// System prompt travels as the leading message for OpenAI.
	if len(gotReq.Messages) != 2 || gotReq.Messages[0].Role != "system" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestOpenAIGenerateToolCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := `{
			"model": "gpt-test",
			"choices": [{
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [{
						"id": "call_01",
						"type": "function",
						"function": {"name": "record_outcome", "arguments": "{\"project_name\":\"Apollo\"}"}
					}]
				},
				"finish_reason": "tool_calls"
			}],
			"usage": {"prompt_tokens": 1, "completion_tokens": 1}
		}`
		w.Write([]byte(body))
	}))
	defer server.Close()

	client, _ := NewOpenAI(Config{APIKey: "sk-test", BaseURL: server.URL})
	resp, err := client.Generate(context.Background(), &GenerateRequest{
		Messages:  []Message{{Role: "user", Content: "extract"}},
		Tools:     []Tool{{Name: "record_outcome", InputSchema: map[string]any{"type": "object"}}},
		ForceTool: "record_outcome",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	call := resp.FirstToolCall("record_outcome")
	if call == nil {
		t.Fatal("FirstToolCall returned nil")
	}
	var input map[string]string
	if err := json.Unmarshal(call.Input, &input); err != nil {
		t.Fatalf("unmarshal tool input: %v", err)
	}
	if input["project_name"] != "Apollo" {
		t.Errorf("tool input = %v", input)
	}
}
