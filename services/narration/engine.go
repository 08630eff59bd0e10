package narration

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"barakah/models"
)

// Error types reported in NarrationResult.ErrorType.
const (
	ErrTypeInvalidInput  = "invalid_input"
	ErrTypeUnavailable   = "engine_unavailable"
	ErrTypeSynthesis     = "synthesis_failed"
	DefaultNarrationLang = "english"
)

// Engine turns a request into a narration result.
type Engine interface {
	Name() string
	Synthesize(ctx context.Context, req models.NarrationRequest) (*models.NarrationResult, error)
}

// NarrationError carries the error type reported to callers.
type NarrationError struct {
	Type string
	Err  error
}

func (e *NarrationError) Error() string { return e.Err.Error() }
func (e *NarrationError) Unwrap() error { return e.Err }

func invalidInput(format string, args ...any) error {
	return &NarrationError{Type: ErrTypeInvalidInput, Err: fmt.Errorf(format, args...)}
}

// ErrorType extracts the reported type of err.
func ErrorType(err error) string {
	var ne *NarrationError
	if errors.As(err, &ne) {
		return ne.Type
	}
	return ErrTypeSynthesis
}

// Normalize validates a request and fills the default language.
func Normalize(req models.NarrationRequest) (models.NarrationRequest, error) {
	if strings.TrimSpace(req.Text) == "" {
		return req, invalidInput("missing 'text' field in request")
	}
	req.Language = strings.ToLower(strings.TrimSpace(req.Language))
	if req.Language == "" {
		req.Language = DefaultNarrationLang
	}
	return req, nil
}

// Failure builds the error result for an engine.
func Failure(engine string, err error) *models.NarrationResult {
	return &models.NarrationResult{
		Success:           false,
		Error:             err.Error(),
		ErrorType:         ErrorType(err),
		FallbackToBrowser: engine == MetadataEngineName,
	}
}

// Registry resolves engines by name.
type Registry map[string]Engine

func NewRegistry(engines ...Engine) Registry {
	r := make(Registry, len(engines))
	for _, e := range engines {
		r[e.Name()] = e
	}
	return r
}

func (r Registry) Get(name string) (Engine, bool) {
	e, ok := r[strings.ToLower(name)]
	return e, ok
}
