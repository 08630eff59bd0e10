package handlers

import (
	"barakah/middleware"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// API key resolution for dua requests.
	KeyAuth middleware.KeyAuthenticator

	// Dua endpoints
	GenerateDuaHandler gin.HandlerFunc
	GetDuaPDFHandler   gin.HandlerFunc

	// Payment endpoints
	CreateSessionHandler gin.HandlerFunc
	WebhookHandler       gin.HandlerFunc
	VerifySessionHandler gin.HandlerFunc
	PricingHandler       gin.HandlerFunc
	AccessHandler        gin.HandlerFunc

	// Narration endpoints
	NarrationHandler gin.HandlerFunc

	// LLMState reports the language model circuit breaker state on /health.
	LLMState func() string
}
