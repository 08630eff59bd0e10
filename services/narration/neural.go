package narration

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"barakah/models"

	"github.com/hajimehoshi/go-mp3"
	"github.com/sashabaranov/go-openai"
)

const NeuralEngineName = "neural"

// SpeechClient is the part of the OpenAI client used for speech.
type SpeechClient interface {
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

var neuralVoices = map[string]openai.SpeechVoice{
	"english": openai.VoiceNova,
	"arabic":  openai.VoiceAlloy,
	"somali":  openai.VoiceEcho,
	"urdu":    openai.VoiceFable,
}

// NeuralEngine synthesizes MP3 audio with OpenAI text-to-speech.
type NeuralEngine struct {
	client SpeechClient
	model  openai.SpeechModel
	speed  float64
}

func NewNeuralEngine(client SpeechClient) *NeuralEngine {
	return &NeuralEngine{client: client, model: openai.TTSModel1, speed: 0.9}
}

// NewOpenAINeuralEngine builds the engine around a real OpenAI client.
func NewOpenAINeuralEngine(apiKey string) (*NeuralEngine, error) {
	if apiKey == "" {
		return nil, &NarrationError{Type: ErrTypeUnavailable, Err: errors.New("OpenAI API key is required")}
	}
	return NewNeuralEngine(openai.NewClient(apiKey)), nil
}

func (e *NeuralEngine) Name() string { return NeuralEngineName }

// VoiceFor maps a language to its narration voice.
func VoiceFor(language string) openai.SpeechVoice {
	if v, ok := neuralVoices[language]; ok {
		return v
	}
	return openai.VoiceNova
}

func (e *NeuralEngine) Synthesize(ctx context.Context, req models.NarrationRequest) (*models.NarrationResult, error) {
	req, err := Normalize(req)
	if err != nil {
		return nil, err
	}
	text := Preprocess(req.Text, DefaultLimit)

	resp, err := e.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          e.model,
		Input:          text,
		Voice:          VoiceFor(req.Language),
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          e.speed,
	})
	if err != nil {
		return nil, &NarrationError{Type: ErrTypeSynthesis, Err: fmt.Errorf("OpenAI TTS API error: %w", err)}
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return nil, &NarrationError{Type: ErrTypeSynthesis, Err: fmt.Errorf("failed to read audio: %w", err)}
	}
	if len(audio) == 0 {
		return nil, &NarrationError{Type: ErrTypeSynthesis, Err: errors.New("no audio data received from OpenAI")}
	}

	return &models.NarrationResult{
		Success:         true,
		AudioData:       "data:audio/mpeg;base64," + base64.StdEncoding.EncodeToString(audio),
		Language:        req.Language,
		TextLength:      utf8.RuneCountInString(text),
		Service:         "openai-tts",
		DurationSeconds: mp3Duration(audio),
	}, nil
}

// mp3Duration decodes the stream length; 0 when the data cannot be decoded.
func mp3Duration(data []byte) float64 {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil || d.SampleRate() == 0 || d.Length() <= 0 {
		return 0
	}
	// The decoder always emits 16-bit stereo frames.
	return float64(d.Length()) / 4 / float64(d.SampleRate())
}
