package narration

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"unicode/utf8"

	"barakah/models"
)

const MetadataEngineName = "metadata"

// MetadataEngine returns rendering hints for client-side speech synthesis.
type MetadataEngine struct{}

func (MetadataEngine) Name() string { return MetadataEngineName }

func (MetadataEngine) Synthesize(_ context.Context, req models.NarrationRequest) (*models.NarrationResult, error) {
	req, err := Normalize(req)
	if err != nil {
		return nil, err
	}
	text := Preprocess(req.Text, DefaultLimit)
	sum := md5.Sum([]byte(text))

	terms := make([]string, len(IslamicTerms))
	copy(terms, IslamicTerms)

	return &models.NarrationResult{
		Success: true,
		AudioID: "islamic_story_" + hex.EncodeToString(sum[:])[:8],
		AudioConfig: &models.AudioConfig{
			Text:     text,
			Language: req.Language,
			VoiceSettings: models.VoiceSettings{
				Rate:     0.85,
				Pitch:    1.1,
				Volume:   0.9,
				Emphasis: "moderate",
			},
			IslamicTerms: terms,
			ProcessingHints: models.ProcessingHints{
				PauseAfterSentences:  0.5,
				PauseAfterCommas:     0.3,
				EmphasisIslamicTerms: true,
				ChildFriendly:        true,
			},
		},
		ProcessingInstructions: "use_enhanced_browser_tts",
		FallbackReady:          true,
		Language:               req.Language,
		TextLength:             utf8.RuneCountInString(text),
		Service:                MetadataEngineName,
	}, nil
}
