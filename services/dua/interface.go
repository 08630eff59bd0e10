package dua

import (
	"context"

	"barakah/models"
)

// LLMClient sends a single chat completion and returns the reply text.
type LLMClient interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// Cache stores generated duas keyed by request fingerprint.
type Cache interface {
	Get(ctx context.Context, key string) (*models.DuaContent, error)
	Set(ctx context.Context, key string, content *models.DuaContent) error
}

// Service produces dua content for a request. It never fails because of the
// upstream model; such failures degrade to fallback content.
type Service interface {
	Generate(ctx context.Context, req models.DuaRequest) (*Result, error)
}

// Result wraps generated content with cache provenance.
type Result struct {
	Content *models.DuaContent
	Cached  bool
}
