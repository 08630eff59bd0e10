package models

import "time"

// ContentSource records where dua text came from.
type ContentSource string

const (
	SourceAIGenerated ContentSource = "ai_generated"
	SourceFallback    ContentSource = "fallback"
)

// DuaRequest is the body of POST /api/dua/generate.
type DuaRequest struct {
	Situation       string `json:"situation" binding:"required"`
	Language        string `json:"language"`
	PremiumFeatures bool   `json:"premium_features"`
	UserID          string `json:"user_id,omitempty"`
}

// DuaContent is one parsed supplication.
type DuaContent struct {
	Arabic          string        `json:"arabic_text"`
	Transliteration string        `json:"transliteration"`
	Translation     string        `json:"translation"`
	Language        string        `json:"language"`
	Situation       string        `json:"situation"`
	Source          ContentSource `json:"source"`
}

// DuaResponse is returned to the client once content is ready. The PDF
// behind PDFURL may not exist yet.
type DuaResponse struct {
	ID string `json:"id"`
	DuaContent
	CreatedAt time.Time `json:"created_at"`
	PDFURL    string    `json:"pdf_url"`
	Cached    bool      `json:"cached"`
}
