// Package llm provides the generative-model boundary for quiz generation.
// A provider-agnostic factory routes requests to Gemini or Claude by model
// name; the Service adds rate limiting and per-call timeouts on top.
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/examen/internal/common"
	"github.com/ternarybob/examen/internal/interfaces"
	"golang.org/x/time/rate"
)

// Service implements interfaces.GenerationService on top of the provider
// factory. Every call waits on the provider's rate limiter first, so a
// multi-segment generation run spreads its calls instead of bursting into
// the provider's quota.
type Service struct {
	factory      *ProviderFactory
	geminiConfig *common.GeminiConfig
	claudeConfig *common.ClaudeConfig
	llmConfig    *common.LLMConfig
	logger       arbor.ILogger

	geminiLimiter *rate.Limiter
	claudeLimiter *rate.Limiter
}

// NewService creates the generation service.
func NewService(config *common.Config, logger arbor.ILogger) *Service {
	return &Service{
		factory:       NewProviderFactory(&config.Gemini, &config.Claude, &config.LLM, logger),
		geminiConfig:  &config.Gemini,
		claudeConfig:  &config.Claude,
		llmConfig:     &config.LLM,
		logger:        logger,
		geminiLimiter: newLimiter(config.Gemini.RateLimit, 4*time.Second),
		claudeLimiter: newLimiter(config.Claude.RateLimit, time.Second),
	}
}

// newLimiter builds a limiter enforcing one call per interval.
func newLimiter(interval string, fallback time.Duration) *rate.Limiter {
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		d = fallback
	}
	return rate.NewLimiter(rate.Every(d), 1)
}

// Generate produces a raw text reply for the given prompt using the default
// provider. The reply text is returned as-is; parsing belongs to the caller.
func (s *Service) Generate(ctx context.Context, prompt string) (string, error) {
	provider := ProviderType(s.llmConfig.DefaultProvider)
	if provider != ProviderClaude {
		provider = ProviderGemini
	}

	if err := s.limiterFor(provider).Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter wait cancelled: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeoutFor(provider))
	defer cancel()

	start := time.Now()
	response, err := s.factory.GenerateContent(callCtx, &ContentRequest{
		Messages: []interfaces.Message{
			{Role: "user", Content: prompt},
		},
		Model: s.factory.GetDefaultModel(provider),
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug().
		Str("provider", string(response.Provider)).
		Str("model", response.Model).
		Int("reply_chars", len(response.Text)).
		Dur("elapsed", time.Since(start)).
		Msg("Content generated")

	return response.Text, nil
}

// HealthCheck verifies the default provider's client can be constructed,
// which requires a resolvable API key. It does not spend a model call.
func (s *Service) HealthCheck(ctx context.Context) error {
	switch ProviderType(s.llmConfig.DefaultProvider) {
	case ProviderClaude:
		_, err := s.factory.GetClaudeClient()
		return err
	default:
		_, err := s.factory.GetGeminiClient(ctx)
		return err
	}
}

// Close releases provider clients.
func (s *Service) Close() error {
	return s.factory.Close()
}

func (s *Service) limiterFor(provider ProviderType) *rate.Limiter {
	if provider == ProviderClaude {
		return s.claudeLimiter
	}
	return s.geminiLimiter
}

func (s *Service) timeoutFor(provider ProviderType) time.Duration {
	raw := s.geminiConfig.Timeout
	if provider == ProviderClaude {
		raw = s.claudeConfig.Timeout
	}

	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 2 * time.Minute
	}
	return d
}
