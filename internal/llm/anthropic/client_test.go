package anthropic

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"signaldrift-backend/internal/llm"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient("test-key", "claude-sonnet-4-20250514")
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	client.baseURL = srv.URL
	return client, srv
}

func TestNewClientValidation(t *testing.T) {
	if _, err := NewClient("", "model"); err == nil {
		t.Fatalf("expected error for empty api key")
	}
	if _, err := NewClient("key", " "); err == nil {
		t.Fatalf("expected error for blank model")
	}
}

func TestCompleteTextDocument(t *testing.T) {
	var captured messagesRequest
	var headers http.Header
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		headers = r.Header.Clone()
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":    "msg_1",
			"model": "claude-sonnet-4-20250514",
			"content": []map[string]any{
				{"type": "text", "text": `{"claims":[]}`},
			},
			"stop_reason": "end_turn",
			"usage":       map[string]int{"input_tokens": 10, "output_tokens": 5},
		})
	})

	out, err := client.Complete(context.Background(), llm.CompleteInput{
		System: "extract claims",
		Text:   "emissions fell 10%",
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != `{"claims":[]}` {
		t.Fatalf("unexpected output: %q", out)
	}

	if headers.Get("x-api-key") != "test-key" {
		t.Fatalf("missing x-api-key header")
	}
	if headers.Get("anthropic-version") != apiVersion {
		t.Fatalf("unexpected anthropic-version: %q", headers.Get("anthropic-version"))
	}
	if captured.Model != "claude-sonnet-4-20250514" {
		t.Fatalf("unexpected model: %q", captured.Model)
	}
	if captured.System != "extract claims" {
		t.Fatalf("unexpected system: %q", captured.System)
	}
	if captured.MaxTokens != defaultMaxTokens {
		t.Fatalf("unexpected max_tokens: %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || captured.Messages[0].Role != "user" {
		t.Fatalf("expected single user turn, got %+v", captured.Messages)
	}
	block := captured.Messages[0].Content[0]
	if block.Type != "text" || block.Text != "emissions fell 10%" {
		t.Fatalf("unexpected content block: %+v", block)
	}
}

func TestCompleteBinaryDocument(t *testing.T) {
	var captured messagesRequest
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "claim map"},
			},
		})
	})

	raw := []byte("%PDF-1.4 fake")
	out, err := client.Complete(context.Background(), llm.CompleteInput{
		System:    "extract claims",
		FileName:  "report.pdf",
		MediaType: "application/pdf",
		Data:      raw,
	})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "claim map" {
		t.Fatalf("unexpected output: %q", out)
	}

	block := captured.Messages[0].Content[0]
	if block.Type != "document" {
		t.Fatalf("expected document block, got %q", block.Type)
	}
	if block.Source == nil || block.Source.Type != "base64" {
		t.Fatalf("expected base64 source, got %+v", block.Source)
	}
	if block.Source.MediaType != "application/pdf" {
		t.Fatalf("unexpected media type: %q", block.Source.MediaType)
	}
	if block.Source.Data != base64.StdEncoding.EncodeToString(raw) {
		t.Fatalf("unexpected base64 payload")
	}
}

func TestCompleteAPIError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{
				"type":    "rate_limit_error",
				"message": "Number of requests has exceeded your rate limit",
			},
		})
	})

	_, err := client.Complete(context.Background(), llm.CompleteInput{Text: "doc"})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "rate_limit_error") {
		t.Fatalf("expected error type in message, got %v", err)
	}
}

func TestCompleteNonOKStatusWithoutErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{}`))
	})

	_, err := client.Complete(context.Background(), llm.CompleteInput{Text: "doc"})
	if err == nil || !strings.Contains(err.Error(), "status 502") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestCompleteNoTextSegments(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"content":     []map[string]any{},
			"stop_reason": "end_turn",
		})
	})

	out, err := client.Complete(context.Background(), llm.CompleteInput{Text: "doc"})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
