package models

// NarrationRequest is read from stdin by the narrate tools and from the
// body of POST /api/narration.
type NarrationRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
	Engine   string `json:"engine,omitempty"`
}

// VoiceSettings are rendering hints for client-side synthesis.
type VoiceSettings struct {
	Rate     float64 `json:"rate"`
	Pitch    float64 `json:"pitch"`
	Volume   float64 `json:"volume"`
	Emphasis string  `json:"emphasis"`
}

// ProcessingHints describe pauses and emphasis for client-side synthesis.
type ProcessingHints struct {
	PauseAfterSentences  float64 `json:"pause_after_sentences"`
	PauseAfterCommas     float64 `json:"pause_after_commas"`
	EmphasisIslamicTerms bool    `json:"emphasis_islamic_terms"`
	ChildFriendly        bool    `json:"child_friendly"`
}

// AudioConfig is the metadata engine's payload.
type AudioConfig struct {
	Text            string          `json:"text"`
	Language        string          `json:"language"`
	VoiceSettings   VoiceSettings   `json:"voice_settings"`
	IslamicTerms    []string        `json:"islamic_terms"`
	ProcessingHints ProcessingHints `json:"processing_hints"`
}

// NarrationResult is written to stdout by the narrate tools.
type NarrationResult struct {
	Success                bool         `json:"success"`
	AudioData              string       `json:"audio_data,omitempty"`
	AudioID                string       `json:"audio_id,omitempty"`
	AudioConfig            *AudioConfig `json:"audio_config,omitempty"`
	ProcessingInstructions string       `json:"processing_instructions,omitempty"`
	FallbackReady          bool         `json:"fallback_ready,omitempty"`
	Language               string       `json:"language,omitempty"`
	TextLength             int          `json:"text_length,omitempty"`
	Service                string       `json:"service,omitempty"`
	DurationSeconds        float64      `json:"duration_seconds,omitempty"`
	Error                  string       `json:"error,omitempty"`
	ErrorType              string       `json:"error_type,omitempty"`
	FallbackToBrowser      bool         `json:"fallback_to_browser,omitempty"`
}
