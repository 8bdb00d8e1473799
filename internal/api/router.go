package api

import (
	"context"
	"net/http"

	"github.com/Rrens/reply-assistant/internal/api/handler"
	customMiddleware "github.com/Rrens/reply-assistant/internal/api/middleware"
	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/directory"
	"github.com/Rrens/reply-assistant/internal/domain"
	"github.com/Rrens/reply-assistant/internal/line"
	"github.com/Rrens/reply-assistant/internal/llm"
	"github.com/Rrens/reply-assistant/internal/llm/anthropic"
	"github.com/Rrens/reply-assistant/internal/llm/deepseek"
	"github.com/Rrens/reply-assistant/internal/llm/gemini"
	"github.com/Rrens/reply-assistant/internal/llm/ollama"
	"github.com/Rrens/reply-assistant/internal/llm/openai"
	"github.com/Rrens/reply-assistant/internal/llm/replyservice"
	"github.com/Rrens/reply-assistant/internal/observability"
	"github.com/Rrens/reply-assistant/internal/repository"
	"github.com/Rrens/reply-assistant/internal/repository/redis"
	"github.com/Rrens/reply-assistant/internal/security"
	"github.com/Rrens/reply-assistant/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// Router is the HTTP entry point of the service
type Router struct {
	http.Handler
	webhooks *handler.WebhookHandler
}

// Wait blocks until accepted webhook deliveries have been processed or ctx ends
func (rt *Router) Wait(ctx context.Context) error {
	return rt.webhooks.Wait(ctx)
}

// NewRouter creates and configures the HTTP router. redisClient and metrics
// may be nil.
func NewRouter(cfg *config.Config, store *repository.Store, redisClient *redis.Client, metrics *observability.Metrics) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Server.MiddlewareTimeout))

	// Directory lookups, cached in Redis when available
	var accounts domain.AccountDirectory = directory.NewClient(cfg.Directory)
	if redisClient != nil {
		accounts = directory.NewCached(accounts, redis.NewAccountCache(redisClient, cfg.Redis.DirectoryCacheTTL))
	}

	llmRouter := NewLLMRouter(cfg.LLM)

	// Initialize services
	engine := service.NewConversationEngine(
		store.Sessions,
		store.Profiles,
		accounts,
		store.Persons,
		store.ReplyExamples,
		llmRouter,
		metrics,
		cfg.Conversation,
		cfg.LLM.HistoryLimit,
	)
	dispatcher := service.NewDispatcher(engine, line.NewClient(cfg.Line), metrics, cfg.Conversation.Concurrency)
	personService := service.NewPersonService(store.Persons, store.ReplyExamples)
	historyService := service.NewHistoryService(store.Profiles, store.Sessions)

	jwtManager := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)

	// Initialize handlers
	webhookHandler := handler.NewWebhookHandler(dispatcher)
	personHandler := handler.NewPersonHandler(personService)
	sessionHandler := handler.NewSessionHandler(historyService)

	authMiddleware := customMiddleware.NewAuthMiddleware(jwtManager)

	// Messaging platform webhook
	r.With(customMiddleware.VerifySignature(cfg.Line.ChannelSecret)).Post("/webhook", webhookHandler.Handle)

	if metrics != nil && cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"*"},
			AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))

		// Health check
		r.Get("/health", handler.HealthCheck)
		r.Get("/ready", handler.ReadyCheck(store))

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/llm-providers", handler.ListLLMProviders(llmRouter))

			r.Route("/persons", func(r chi.Router) {
				r.Get("/", personHandler.List)
				r.Post("/", personHandler.Create)

				r.Route("/{personID}", func(r chi.Router) {
					r.Get("/", personHandler.Get)
					r.Patch("/", personHandler.Update)
					r.Delete("/", personHandler.Delete)
					r.Get("/examples", personHandler.ListExamples)
				})
			})

			r.Get("/sessions", sessionHandler.List)
		})
	})

	return &Router{Handler: r, webhooks: webhookHandler}
}

// NewLLMRouter registers every provider that has credentials configured
func NewLLMRouter(cfg config.LLMConfig) *llm.Router {
	llmRouter := llm.NewRouter(cfg.DefaultProvider)

	log.Info().Msgf("Initializing LLM providers. Default: %s", cfg.DefaultProvider)

	if cfg.ReplyService.URL != "" {
		llmRouter.RegisterProvider(replyservice.NewProvider(cfg.ReplyService))
	}
	if cfg.Ollama.Host != "" {
		log.Info().Str("host", cfg.Ollama.Host).Msg("Registering Ollama provider")
		llmRouter.RegisterProvider(ollama.NewProvider(cfg.Ollama))
	}
	if cfg.OpenAI.APIKey != "" {
		llmRouter.RegisterProvider(openai.NewProvider(cfg.OpenAI))
	}
	if cfg.Anthropic.APIKey != "" {
		llmRouter.RegisterProvider(anthropic.NewProvider(cfg.Anthropic))
	}
	if cfg.DeepSeek.APIKey != "" {
		llmRouter.RegisterProvider(deepseek.NewProvider(cfg.DeepSeek))
	}
	if cfg.Gemini.APIKey != "" {
		llmRouter.RegisterProvider(gemini.NewProvider(cfg.Gemini))
	}

	if _, err := llmRouter.GetProvider(""); err != nil {
		log.Warn().Err(err).Msg("default reply generation provider unavailable")
	}

	return llmRouter
}
