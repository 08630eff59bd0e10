package dua

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"barakah/models"
	"barakah/utils"

	"go.uber.org/zap"
)

// Generator is the default Service implementation.
type Generator struct {
	llm    LLMClient
	cache  Cache
	logger *zap.Logger
}

// NewGenerator wires a generator. cache may be nil to disable caching.
func NewGenerator(llm LLMClient, cache Cache, logger *zap.Logger) *Generator {
	return &Generator{llm: llm, cache: cache, logger: logger}
}

func (g *Generator) Generate(ctx context.Context, req models.DuaRequest) (*Result, error) {
	situation := strings.TrimSpace(req.Situation)
	if situation == "" {
		return nil, fmt.Errorf("%w: situation is required", utils.ErrInvalidRequest)
	}
	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = DefaultLanguage
	}

	useCache := g.cache != nil && !req.PremiumFeatures
	key := CacheKey(situation, language)
	if useCache {
		cached, err := g.cache.Get(ctx, key)
		if err != nil {
			g.logger.Warn("dua cache read failed", zap.Error(err))
		} else if cached != nil {
			return &Result{Content: cached, Cached: true}, nil
		}
	}

	content := g.compose(ctx, situation, language, req.PremiumFeatures)

	// Fallback content is not cached so a provider outage is not pinned.
	if useCache && content.Source == models.SourceAIGenerated {
		if err := g.cache.Set(ctx, key, content); err != nil {
			g.logger.Warn("dua cache write failed", zap.Error(err))
		}
	}
	return &Result{Content: content}, nil
}

func (g *Generator) compose(ctx context.Context, situation, language string, premium bool) *models.DuaContent {
	reply, err := g.llm.Complete(ctx, BuildCompletion(situation, language, premium))
	if err == nil && strings.TrimSpace(reply) == "" {
		err = errors.New("empty reply")
	}
	if err != nil {
		g.logger.Warn("dua generation failed, using fallback",
			zap.String("situation", situation), zap.Error(err))
		return FallbackDua(situation, language)
	}

	sections, err := ParseReply(reply)
	if errors.Is(err, ErrNoSections) {
		g.logger.Info("dua reply had no sections, salvaging", zap.Int("length", len(reply)))
		sections = Salvage(reply)
	}
	if sections.Translation == "" {
		g.logger.Warn("dua reply missing translation, using fallback", zap.String("situation", situation))
		return FallbackDua(situation, language)
	}

	return &models.DuaContent{
		Arabic:          sections.Arabic,
		Transliteration: sections.Transliteration,
		Translation:     sections.Translation,
		Language:        language,
		Situation:       situation,
		Source:          models.SourceAIGenerated,
	}
}
