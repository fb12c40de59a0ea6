package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func openaiServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
			Usage: openai.Usage{
				TotalTokens: 100,
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestOpenAIProvider_Summarize_Success(t *testing.T) {
	server := openaiServer(t, "The council approved the agreement 7-0.")
	defer server.Close()

	config := Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Model:       "gpt-4o-mini",
		Timeout:     5,
		StrictFacts: true,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Summarize(context.Background(), SummarizeRequest{Result: sampleResult()})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}

	if resp.Summary != "The council approved the agreement 7-0." {
		t.Errorf("Unexpected summary: %s", resp.Summary)
	}
	if resp.TokensUsed != 100 {
		t.Errorf("Unexpected token usage: %d", resp.TokensUsed)
	}
}

func TestOpenAIProvider_Summarize_FactLeakRejected(t *testing.T) {
	// The mock cites a 5-2 vote that no record carries
	server := openaiServer(t, "The council approved the agreement 5-2.")
	defer server.Close()

	config := Config{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		Timeout:     5,
		StrictFacts: true,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Summarize(context.Background(), SummarizeRequest{Result: sampleResult()})
	if err == nil {
		t.Fatal("Expected fact leak error, got nil")
	}
	if !strings.Contains(err.Error(), "fact leak") {
		t.Errorf("Expected fact leak error, got %v", err)
	}
}

func TestOpenAIProvider_Summarize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal Server Error", "type": "server_error"}}`))
	}))
	defer server.Close()

	config := Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Timeout: 5,
	}
	provider, err := NewOpenAIProvider(config)
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	_, err = provider.Summarize(context.Background(), SummarizeRequest{Result: sampleResult()})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
}

func TestNewOpenAIProvider_RequiresAPIKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error without API key")
	}
}
