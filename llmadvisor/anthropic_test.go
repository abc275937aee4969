package llmadvisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAnthropicAdvisor_CompleteConcatenatesTextBlocks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}
		var req anthropicRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Messages[0].Content != "hello" {
			t.Errorf("expected prompt 'hello', got %q", req.Messages[0].Content)
		}
		resp := anthropicResponse{Content: []anthropicContent{
			{Type: "text", Text: "ACTION: "},
			{Type: "text", Text: "COMPLETE"},
		}}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	advisor := NewAnthropicAdvisor(AnthropicConfig{APIKey: "test-key", Model: "claude-test", BaseURL: server.URL})
	out, err := advisor.Complete(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Complete error: %v", err)
	}
	if out != "ACTION: COMPLETE" {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestAnthropicAdvisor_CompleteReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(anthropicResponse{Error: &anthropicError{Type: "rate_limit_error", Message: "slow down"}})
	}))
	defer server.Close()

	advisor := NewAnthropicAdvisor(AnthropicConfig{APIKey: "test-key", BaseURL: server.URL})
	if _, err := advisor.Complete(context.Background(), "hello"); err == nil {
		t.Fatal("expected error from rate-limited response")
	}
}
