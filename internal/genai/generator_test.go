package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewGeneratorDisabledWithoutKey(t *testing.T) {
	gen, err := NewGenerator(Config{})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	if gen != nil {
		t.Error("expected nil generator without API key")
	}
}

func TestNewGeneratorDefaults(t *testing.T) {
	gen, err := NewGenerator(Config{APIKey: "test-key"})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}
	og, ok := gen.(*openaiGenerator)
	if !ok {
		t.Fatalf("expected *openaiGenerator, got %T", gen)
	}
	if og.model != DefaultModel {
		t.Errorf("expected default model %q, got %q", DefaultModel, og.model)
	}
	if og.timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, og.timeout)
	}
	if !gen.IsEnabled() {
		t.Error("expected generator to be enabled")
	}
}

func TestGenerateAgainstStubServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"model":  "stub",
			"choices": []map[string]any{
				{
					"index": 0,
					"message": map[string]any{
						"role":    "assistant",
						"content": "  Te sugiero preguntar por el proceso de servicio social.  ",
					},
					"finish_reason": "stop",
				},
			},
		})
	}))
	defer server.Close()

	gen, err := NewGenerator(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "stub",
		Timeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	answer, err := gen.Generate(context.Background(), "¿dónde está el edificio B?", "Procesos: Servicio Social.")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if answer != "Te sugiero preguntar por el proceso de servicio social." {
		t.Errorf("unexpected answer %q", answer)
	}
}

func TestGenerateErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": {"message": "boom"}}`, http.StatusInternalServerError)
	}))
	defer server.Close()

	gen, err := NewGenerator(Config{APIKey: "test-key", BaseURL: server.URL, Model: "stub"})
	if err != nil {
		t.Fatalf("NewGenerator failed: %v", err)
	}

	if _, err := gen.Generate(context.Background(), "pregunta", "contexto"); err == nil {
		t.Error("expected error from failing API")
	}
}
