package routes

import (
	"net/http"
	"time"

	"barakah/config"
	"barakah/handlers"
	"barakah/middleware"
	"barakah/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterDuaRoutes registers dua generation and PDF endpoints.
func RegisterDuaRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/dua")
	{
		// Anonymous requests are allowed; an API key unlocks premium generation.
		api.POST("/generate", middleware.OptionalAPIKeyMiddleware(hb.KeyAuth), hb.GenerateDuaHandler)
		api.GET("/:id/pdf", hb.GetDuaPDFHandler)
	}
}

// RegisterPaymentRoutes registers checkout, webhook and access endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payment")
	{
		api.POST("/create-session", hb.CreateSessionHandler)
		api.POST("/webhook", hb.WebhookHandler)
		api.POST("/verify", hb.VerifySessionHandler)
	}
	r.GET("/api/pricing", hb.PricingHandler)
	r.GET("/api/access/:email", hb.AccessHandler)
}

// RegisterNarrationRoutes registers the story narration endpoint.
func RegisterNarrationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.POST("/api/narration", hb.NarrationHandler)
}

// RegisterHealthRoute registers a health-check endpoint. llmState may be nil.
func RegisterHealthRoute(r *gin.Engine, llmState func() string) {
	r.GET("/health", func(c *gin.Context) {
		deps := utils.GetHealthStatus()
		if llmState != nil {
			deps.LLMBreaker = llmState()
		}
		c.JSON(http.StatusOK, gin.H{
			"status":       "healthy",
			"service":      utils.ServiceName,
			"version":      utils.ServiceVersion,
			"timestamp":    time.Now().UTC().Format(time.RFC3339),
			"dependencies": deps,
		})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := config.AllowedOrigins()
	wildcard := len(origins) == 1 && origins[0] == "*"
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", "X-API-Key", "X-Trace-ID", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", "X-Trace-ID"},
		AllowCredentials: !wildcard,
		MaxAge:           12 * time.Hour,
	}))

	RegisterDuaRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
	RegisterNarrationRoutes(r, hb)
	RegisterHealthRoute(r, hb.LLMState)
}
