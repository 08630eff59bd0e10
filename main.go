package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"barakah/config"
	"barakah/cron"
	"barakah/database"
	"barakah/database/repository"
	"barakah/handlers"
	"barakah/middleware"
	"barakah/routes"
	"barakah/services/document"
	"barakah/services/dua"
	"barakah/services/narration"
	"barakah/services/payment"
	"barakah/services/storage"
	"barakah/services/tasks"
	"barakah/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/stripe/stripe-go/v76"
	"go.uber.org/zap"
)

const pdfRenderTimeout = 2 * time.Minute

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	stripe.Key = config.AppConfig.StripeKey

	rootCtx, cancelRoot := context.WithCancel(context.Background())
	defer cancelRoot()

	// Redis backs the dua cache and the archive index; both are optional.
	redisUp := true
	if err := utils.ConnectCache(); err != nil {
		redisUp = false
		logger.Warn("main: redis unavailable, running without dua cache", zap.Error(err))
	}
	cacheClient := utils.CacheClient

	// Grants persist in MongoDB, or in memory when it cannot be reached.
	var accessRepo repository.AccessRepository
	if err := database.ConnectDB(rootCtx); err != nil {
		logger.Warn("main: mongodb unavailable, access grants kept in memory", zap.Error(err))
		accessRepo = repository.NewMemoryAccessRepo()
	} else {
		accessRepo = repository.NewMongoAccessRepo(database.Database(), logger)
	}

	// Dua generation.
	llm := newLLMClient(rootCtx, logger)
	var duaCache dua.Cache
	if redisUp {
		duaCache = dua.NewRedisCache(cacheClient, config.AppConfig.DuaCacheTTL)
	}
	breaker := dua.NewBreakerClient(llm, 5, 30*time.Second, logger)
	generator := dua.NewGenerator(breaker, duaCache, logger)

	// PDF rendering and archive.
	renderer, err := document.NewRenderer(config.AppConfig.PDFDir, config.AppConfig.PDFArabicFont, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize pdf renderer: %v", err)
	}
	var archive storage.PDFArchive
	if config.CloudinaryEnabled() && redisUp {
		archive, err = storage.NewCloudinaryArchive(
			config.AppConfig.CloudinaryCloudName,
			config.AppConfig.CloudinaryAPIKey,
			config.AppConfig.CloudinaryAPISecret,
			cacheClient,
			logger,
		)
		if err != nil {
			logger.Warn("main: cloudinary archive disabled", zap.Error(err))
			archive = nil
		}
	}
	publisher := document.NewPublisher(renderer, archive, logger)

	var dispatcher tasks.Dispatcher
	var worker *asynq.Server
	var queueClient *asynq.Client
	if strings.EqualFold(config.AppConfig.PDFDispatch, "queue") {
		queueClient = asynq.NewClient(cron.QueueRedisOpt())
		dispatcher = tasks.NewQueueDispatcher(queueClient)
		worker = cron.InitPDFWorker(rootCtx, publisher, logger)
	} else {
		dispatcher = tasks.NewInlineDispatcher(publisher, pdfRenderTimeout, logger)
	}

	// Payments.
	if config.AppConfig.StripeWebhookSecret == "" {
		logger.Warn("main: STRIPE_WEBHOOK_SECRET is not set, stripe webhooks will be rejected")
	}
	paymentService := &payment.DefaultPaymentService{
		Gateway:       payment.StripeGateway{},
		Repo:          accessRepo,
		WebhookSecret: config.AppConfig.StripeWebhookSecret,
		FrontendURL:   config.AppConfig.FrontendURL,
		Logger:        logger,
	}

	// Narration engines served over HTTP.
	engines := []narration.Engine{narration.MetadataEngine{}}
	if config.AppConfig.OpenAIAPIKey != "" {
		if neural, err := narration.NewOpenAINeuralEngine(config.AppConfig.OpenAIAPIKey); err == nil {
			engines = append(engines, neural)
		}
	}
	offline := narration.NewOfflineEngine(narration.DefaultOfflineConfig(), nil)
	if err := offline.Available(); err == nil {
		engines = append(engines, offline)
	} else {
		logger.Info("main: offline narration disabled", zap.Error(err))
	}

	utils.StartHealthMonitor(rootCtx, cacheClient, database.MongoClient, 30*time.Second)

	duaHandler := handlers.NewDuaHandler(generator, dispatcher, renderer, archive)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	narrationHandler := handlers.NewNarrationHandler(narration.NewRegistry(engines...))

	handlerBundle := &handlers.HandlerBundle{
		KeyAuth: paymentService,

		// Dua endpoints.
		GenerateDuaHandler: duaHandler.GenerateDuaHandler,
		GetDuaPDFHandler:   duaHandler.GetDuaPDFHandler,

		// Payment endpoints.
		CreateSessionHandler: paymentHandler.CreateSessionHandler,
		WebhookHandler:       paymentHandler.WebhookHandler,
		VerifySessionHandler: paymentHandler.VerifySessionHandler,
		PricingHandler:       paymentHandler.PricingHandler,
		AccessHandler:        paymentHandler.AccessHandler,

		// Narration endpoints.
		NarrationHandler: narrationHandler.NarrateHandler,

		LLMState: breaker.State,
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.TraceIDMiddleware())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8000"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	cancelRoot()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if closer, ok := llm.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: mongodb disconnect failed", zap.Error(err))
	}
	if cacheClient != nil {
		_ = cacheClient.Close()
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// newLLMClient builds the configured provider. Without one every dua is
// served from the fallback set.
func newLLMClient(ctx context.Context, logger *zap.Logger) dua.LLMClient {
	provider := strings.ToLower(config.AppConfig.LLMProvider)
	apiKey, model := config.AppConfig.OpenAIAPIKey, config.AppConfig.OpenAIModel
	if provider == "gemini" {
		apiKey, model = config.AppConfig.GeminiAPIKey, config.AppConfig.GeminiModel
	}
	llm, err := dua.NewLLMClient(ctx, provider, apiKey, model)
	if err != nil {
		logger.Warn("main: language model unavailable, serving fallback duas",
			zap.String("provider", provider), zap.Error(err))
		return dua.Unavailable(err)
	}
	return llm
}
