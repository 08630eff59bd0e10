package dua

import (
	"fmt"
	"strings"
)

const (
	// DefaultLanguage is used when a request leaves language empty.
	DefaultLanguage = "English"

	temperature    = 0.7
	standardTokens = 800
	premiumTokens  = 1500
)

const baseSystemPrompt = `You are an expert Islamic scholar and dua generator specializing in authentic Islamic supplications from the Quran and Sunnah.

CRITICAL REQUIREMENTS:
- Generate ONLY authentic duas based on Quranic verses and authentic Hadith
- Write Arabic text with proper tashkeel (diacritical marks)
- Keep duas meaningful but concise (2-5 lines maximum)
- Use respectful invocations like "اللَّهُمَّ" (Allahumma), "يَا رَبِّ" (Ya Rabbi)
- Provide clear transliteration for pronunciation
- Give natural, heartfelt translations

Format your response EXACTLY as:

**Arabic:**
[Arabic text with complete tashkeel]

**Transliteration:**
[Clear pronunciation guide using Latin letters]

**Translation in [language]:**
[Natural translation]
`

const premiumSystemAddition = `
PREMIUM FEATURES (Enhanced):
- Include deeper spiritual context and references
- Add Quranic verse references when applicable
- Provide additional variations or related duas
- Include timing recommendations for maximum blessing
- More detailed transliteration with stress marks
`

const premiumUserAddition = `

PREMIUM REQUEST: Please provide enhanced content with:
- Quranic references if applicable
- Additional spiritual context
- Detailed pronunciation guide
- Best times for recitation
`

// CompletionRequest is a provider-neutral chat completion request.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

// BuildCompletion assembles the prompts and sampling parameters for one dua.
func BuildCompletion(situation, language string, premium bool) CompletionRequest {
	if strings.TrimSpace(language) == "" {
		language = DefaultLanguage
	}

	system := baseSystemPrompt
	maxTokens := standardTokens
	if premium {
		system += premiumSystemAddition
		maxTokens = premiumTokens
	}

	user := fmt.Sprintf(`Generate an authentic Islamic dua for this situation: "%s"

Language for translation: %s

Please follow the exact format specified and ensure the dua is:
1. Authentic from Quran/Sunnah sources
2. Appropriate for the situation
3. Spiritually meaningful
4. Properly formatted with complete Arabic tashkeel`, situation, language)
	if premium {
		user += premiumUserAddition
	}

	return CompletionRequest{
		System:      system,
		User:        user,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}
}
