package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/leadline-crm/leadline-api/internal/auth"
	"github.com/leadline-crm/leadline-api/internal/config"
	"github.com/leadline-crm/leadline-api/internal/http/handler"
	"github.com/leadline-crm/leadline-api/internal/http/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"

	_ "github.com/leadline-crm/leadline-api/docs" // generated swagger docs
)

type Router struct {
	cfg            *config.Config
	logger         *zap.Logger
	authMiddleware *auth.Middleware
	rateLimiter    *middleware.RateLimiter
	healthHandler  *handler.HealthHandler
	leadHandler    *handler.LeadHandler
	callHandler    *handler.CallHandler
	messageHandler *handler.MessageHandler
	profileHandler *handler.ProfileHandler
	webhookHandler *handler.WebhookHandler
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	healthHandler *handler.HealthHandler,
	leadHandler *handler.LeadHandler,
	callHandler *handler.CallHandler,
	messageHandler *handler.MessageHandler,
	profileHandler *handler.ProfileHandler,
	webhookHandler *handler.WebhookHandler,
) *Router {
	return &Router{
		cfg:            cfg,
		logger:         logger,
		authMiddleware: authMiddleware,
		rateLimiter:    rateLimiter,
		healthHandler:  healthHandler,
		leadHandler:    leadHandler,
		callHandler:    callHandler,
		messageHandler: messageHandler,
		profileHandler: profileHandler,
		webhookHandler: webhookHandler,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.Limit)

	// Health checks
	r.Get("/health", rt.healthHandler.Health)
	r.Get("/health/db", rt.healthHandler.HealthDB)
	r.Get("/health/ready", rt.healthHandler.HealthReady)

	// Provider-facing webhooks: unauthenticated, POST only. Registering only
	// POST makes chi answer 405 for every other method.
	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/voice/status", rt.webhookHandler.VoiceStatus)
		r.Post("/voice/connect/{leadId}", rt.webhookHandler.VoiceConnect)
		r.Post("/sms/inbound", rt.webhookHandler.SmsInbound)
	})

	// Authenticated API
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(rt.authMiddleware.Authenticate)

		r.Route("/leads", func(r chi.Router) {
			r.Get("/", rt.leadHandler.ListLeads)
			r.Post("/", rt.leadHandler.CreateLead)
			r.Post("/import-legacy", rt.leadHandler.ImportLegacyLeads)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", rt.leadHandler.GetLead)
				r.Put("/", rt.leadHandler.UpdateLead)
				r.Delete("/", rt.leadHandler.DeleteLead)
				r.Get("/calls", rt.leadHandler.ListLeadCalls)
				r.Post("/call", rt.callHandler.InitiateCall)
				r.Get("/messages", rt.leadHandler.ListLeadMessages)
				r.Post("/messages", rt.messageHandler.SendMessage)
			})
		})

		r.Route("/calls", func(r chi.Router) {
			r.Post("/{id}/archive-recording", rt.callHandler.ArchiveRecording)
		})

		r.Route("/me", func(r chi.Router) {
			r.Get("/profile", rt.profileHandler.GetProfile)
			r.Put("/profile", rt.profileHandler.UpsertProfile)
			r.Get("/sip", rt.profileHandler.GetSipAccount)
			r.Put("/sip", rt.profileHandler.UpsertSipAccount)
		})
	})

	// Swagger documentation
	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	return r
}
