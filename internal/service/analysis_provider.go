package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"deepmirror/internal/domain"
	"deepmirror/internal/llm"
)

// FallbackAnalysis se guarda cuando el proveedor remoto no produce un analisis usable.
const FallbackAnalysis = "No fue posible generar el analisis con IA en este momento. Por favor, intentalo de nuevo mas tarde."

const defaultAnalysisTimeout = 20 * time.Second

// AnalysisProvider produce el texto narrativo de un resultado. Nunca devuelve un texto vacio.
type AnalysisProvider interface {
	Generate(ctx context.Context, scores domain.TraitScores) string
}

// LLMAnalysisProvider delega en un LLMClient y absorbe cualquier falla con FallbackAnalysis.
type LLMAnalysisProvider struct {
	llmClient llm.LLMClient
	timeout   time.Duration
	logger    *zap.Logger
}

func NewLLMAnalysisProvider(llmClient llm.LLMClient, timeout time.Duration, logger *zap.Logger) *LLMAnalysisProvider {
	if timeout <= 0 {
		timeout = defaultAnalysisTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMAnalysisProvider{llmClient: llmClient, timeout: timeout, logger: logger}
}

func (p *LLMAnalysisProvider) Generate(ctx context.Context, scores domain.TraitScores) string {
	p.logger.Debug("analysis requested",
		zap.Int("openness", scores.Openness),
		zap.Int("conscientiousness", scores.Conscientiousness),
		zap.Int("extraversion", scores.Extraversion),
		zap.Int("agreeableness", scores.Agreeableness),
		zap.Int("neuroticism", scores.Neuroticism),
	)

	if p.llmClient == nil {
		p.logger.Warn("analysis provider without llm client, using fallback")
		return FallbackAnalysis
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.llmClient.Generate(callCtx, buildAnalysisPrompt(scores))
	if err == nil {
		raw = cleanAnalysisText(raw)
		if raw == "" {
			err = fmt.Errorf("%w: blank after cleaning", llm.ErrEmptyGeneration)
		}
	}
	if err != nil {
		p.logger.Warn("analysis unavailable, using fallback",
			zap.String("analysis_failure", llm.ClassifyFailure(err)),
			zap.Error(err),
		)
		return FallbackAnalysis
	}

	p.logger.Debug("analysis generated", zap.Int("length", len(raw)))
	return raw
}
