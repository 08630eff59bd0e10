package narration

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"unicode/utf8"

	"barakah/models"

	"github.com/youpy/go-wav"
)

const OfflineEngineName = "offline"

const wavHeaderSize = 44

// CommandRunner runs a binary and returns its stdout.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

var espeakVoices = map[string]string{
	"english": "en",
	"arabic":  "ar",
	"urdu":    "ur",
	"turkish": "tr",
	"malay":   "ms",
	"french":  "fr",
}

// OfflineConfig holds espeak-ng settings.
type OfflineConfig struct {
	Binary    string
	Speed     int // words per minute
	Amplitude int // 0 to 200
}

// DefaultOfflineConfig mirrors a 160 wpm voice at 90% volume.
func DefaultOfflineConfig() OfflineConfig {
	return OfflineConfig{Binary: "espeak-ng", Speed: 160, Amplitude: 180}
}

// OfflineEngine synthesizes WAV audio locally with espeak-ng.
type OfflineEngine struct {
	config OfflineConfig
	run    CommandRunner
}

func NewOfflineEngine(config OfflineConfig, run CommandRunner) *OfflineEngine {
	if run == nil {
		run = execRunner
	}
	return &OfflineEngine{config: config, run: run}
}

func (e *OfflineEngine) Name() string { return OfflineEngineName }

// Available checks that the espeak-ng binary is on PATH.
func (e *OfflineEngine) Available() error {
	if _, err := exec.LookPath(e.config.Binary); err != nil {
		return &NarrationError{Type: ErrTypeUnavailable, Err: fmt.Errorf("%s not found: %w", e.config.Binary, err)}
	}
	return nil
}

func (e *OfflineEngine) Synthesize(ctx context.Context, req models.NarrationRequest) (*models.NarrationResult, error) {
	req, err := Normalize(req)
	if err != nil {
		return nil, err
	}
	text := Preprocess(req.Text, OfflineLimit)

	voice, ok := espeakVoices[req.Language]
	if !ok {
		voice = "en"
	}
	args := []string{
		"--stdout",
		"-v", voice,
		"-s", strconv.Itoa(e.config.Speed),
		"-a", strconv.Itoa(e.config.Amplitude),
		// Text starting with '-' must not be parsed as a flag.
		"--", text,
	}
	audio, err := e.run(ctx, e.config.Binary, args...)
	if err != nil {
		var execErr *exec.Error
		if errors.As(err, &execErr) {
			return nil, &NarrationError{Type: ErrTypeUnavailable, Err: fmt.Errorf("%s not available: %w", e.config.Binary, err)}
		}
		return nil, &NarrationError{Type: ErrTypeSynthesis, Err: fmt.Errorf("espeak-ng failed: %w", err)}
	}

	duration, err := wavDuration(audio)
	if err != nil {
		return nil, &NarrationError{Type: ErrTypeSynthesis, Err: err}
	}

	return &models.NarrationResult{
		Success:         true,
		AudioData:       "data:audio/wav;base64," + base64.StdEncoding.EncodeToString(audio),
		Language:        req.Language,
		TextLength:      utf8.RuneCountInString(text),
		Service:         "espeak-ng",
		DurationSeconds: duration,
	}, nil
}

// wavDuration validates the header and derives length from the byte rate.
// espeak-ng streams with a placeholder data size, so the header length
// fields are not trusted.
func wavDuration(data []byte) (float64, error) {
	if len(data) <= wavHeaderSize {
		return 0, errors.New("espeak-ng produced no audio")
	}
	format, err := wav.NewReader(bytes.NewReader(data)).Format()
	if err != nil {
		return 0, fmt.Errorf("invalid wav output: %w", err)
	}
	if format.ByteRate == 0 {
		return 0, errors.New("invalid wav output: zero byte rate")
	}
	return float64(len(data)-wavHeaderSize) / float64(format.ByteRate), nil
}
