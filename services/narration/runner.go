package narration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"barakah/models"
)

// Run reads one JSON request from in, synthesizes it and writes one JSON
// result to out. The returned error is non-nil whenever the result reports
// failure, so callers can exit non-zero.
func Run(ctx context.Context, engine Engine, in io.Reader, out io.Writer) error {
	result, err := runOnce(ctx, engine, in)
	if err != nil {
		return WriteFailure(out, engine.Name(), err)
	}
	return writeResult(out, result)
}

// WriteFailure reports err as a failed result and returns it.
func WriteFailure(out io.Writer, engine string, err error) error {
	if encErr := writeResult(out, Failure(engine, err)); encErr != nil {
		return encErr
	}
	return err
}

func writeResult(out io.Writer, result *models.NarrationResult) error {
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func runOnce(ctx context.Context, engine Engine, in io.Reader) (*models.NarrationResult, error) {
	raw, err := io.ReadAll(in)
	if err != nil {
		return nil, invalidInput("failed to read input: %v", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, invalidInput("no input data provided")
	}

	var req models.NarrationRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, invalidInput("invalid JSON input: %v", err)
	}
	return engine.Synthesize(ctx, req)
}
