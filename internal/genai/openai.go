package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// fallbackPrompt frames the model as the department assistant and pins the
// answer to the knowledge-base summary. The model must not invent FAQ
// content; it only helps when the rule-based resolver had nothing.
const fallbackPrompt = `Eres el asistente virtual de un departamento universitario.
Un estudiante hizo una pregunta que la base de conocimiento no pudo responder.
Contexto de la base de conocimiento: %s
Responde en español, en un párrafo breve. Si la pregunta no se relaciona con
los procesos del departamento, sugiere amablemente reformularla.

Pregunta: %s`

// openaiGenerator answers unresolved questions via an OpenAI-compatible API.
// It implements the Generator interface.
type openaiGenerator struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

// NewGenerator creates a fallback text generator.
// Returns nil if cfg.APIKey is empty (feature disabled).
func NewGenerator(cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, nil //nolint:nilnil // Intentional: feature disabled when no API key
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &openaiGenerator{
		client:  openai.NewClient(opts...),
		model:   model,
		timeout: timeout,
	}, nil
}

// Generate asks the model for a best-effort answer.
func (g *openaiGenerator) Generate(ctx context.Context, question, kbContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: g.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(fmt.Sprintf(fallbackPrompt, kbContext, question)),
		},
		Temperature: openai.Float(0.4),
		MaxTokens:   openai.Int(300),
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "fallback generation API call failed",
			"model", g.model,
			"question_length", len(question),
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", nil
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// IsEnabled returns true; a disabled generator is represented by nil.
func (g *openaiGenerator) IsEnabled() bool {
	return g != nil
}

// Close releases resources. The OpenAI client holds no connections to close.
func (g *openaiGenerator) Close() error {
	return nil
}
