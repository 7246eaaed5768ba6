package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// contentGenerator es el subconjunto de *genai.Models que usamos; permite tests sin red.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient implementa LLMClient sobre el SDK oficial de genai.
type GeminiClient struct {
	models contentGenerator
	model  string
	logger *zap.Logger
}

// NewGeminiClient crea el cliente contra la Gemini API. baseURL vacio usa el endpoint publico.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, logger *zap.Logger) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	logger.Info("gemini client initialized", zap.String("model", model))
	return &GeminiClient{models: cli.Models, model: model, logger: logger}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	g.logger.Debug("gemini request", zap.String("model", g.model), zap.Int("prompt_len", len(prompt)))

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTransport, err)
	}

	text, err := extractGeminiText(resp)
	if err != nil {
		return "", err
	}
	g.logger.Debug("gemini response", zap.Int("text_len", len(text)))
	return text, nil
}

// extractGeminiText recorre candidates -> content -> parts verificando cada nivel.
func extractGeminiText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", ErrMalformedResponse)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no candidates", ErrMalformedResponse)
	}
	first := resp.Candidates[0]
	if first == nil || first.Content == nil {
		return "", fmt.Errorf("%w: first candidate has no content", ErrMalformedResponse)
	}
	if len(first.Content.Parts) == 0 {
		return "", fmt.Errorf("%w: content has no parts", ErrMalformedResponse)
	}

	var sb strings.Builder
	for _, part := range first.Content.Parts {
		if part == nil {
			continue
		}
		sb.WriteString(part.Text)
	}
	text := sb.String()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyGeneration
	}
	return text, nil
}
