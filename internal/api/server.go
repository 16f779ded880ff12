package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/callcatch/callcatch/internal/api/middleware"
	"github.com/callcatch/callcatch/internal/config"
	"github.com/callcatch/callcatch/internal/database"
	"github.com/callcatch/callcatch/internal/metrics"
	"github.com/callcatch/callcatch/internal/relay"
	"github.com/callcatch/callcatch/internal/sms"
)

// Server holds HTTP handler dependencies and the chi router.
type Server struct {
	router *chi.Mux
	cfg    *config.Config

	keys          database.APIKeyRepository
	numbers       database.NumberRepository
	events        database.CallEventRepository
	messages      database.MessageRepository
	conversations database.ConversationRepository

	processor *relay.Processor
	inbound   *relay.Inbound

	adminLimiter   *middleware.IPRateLimiter
	metricsHandler http.Handler
}

// NewServer creates the HTTP handler with all routes mounted. The sender
// decides dispatch mode: the simulator in dry-run, the Twilio client live.
func NewServer(db *database.DB, cfg *config.Config, sender sms.Sender) *Server {
	keys := database.NewAPIKeyRepository(db)
	numbers := database.NewNumberRepository(db)
	events := database.NewCallEventRepository(db)
	messages := database.NewMessageRepository(db)
	conversations := database.NewConversationRepository(db)

	s := &Server{
		router:        chi.NewRouter(),
		cfg:           cfg,
		keys:          keys,
		numbers:       numbers,
		events:        events,
		messages:      messages,
		conversations: conversations,
		processor: relay.NewProcessor(
			events, numbers, messages, conversations, sender, cfg.TwilioFromNumber,
		),
		inbound: relay.NewInbound(
			numbers, messages, conversations, relay.NewForwarder(),
		),
		adminLimiter: middleware.NewIPRateLimiter(middleware.AdminRateLimitConfig()),
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(metrics.NewCollector(numbers, events, messages, time.Now()))
	s.metricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops background goroutines owned by the server.
func (s *Server) Close() {
	s.adminLimiter.Stop()
}

// routes configures all middleware and mounts all route groups.
func (s *Server) routes() {
	r := s.router

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.StructuredLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler)

	// Admin bootstrap. Unauthenticated by design of the current deployment
	// (expected to be gated externally); rate limited per IP.
	r.With(middleware.RateLimit(s.adminLimiter)).Post("/admin/api-keys", s.handleCreateAPIKey)

	// Tenant API, bearer-token authenticated.
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequireAPIKey(s.keys))

		r.Post("/numbers", s.handleRegisterNumber)
		r.Get("/numbers", s.handleListNumbers)
		r.Post("/call-event", s.handleCallEvent)
		r.Get("/call-events", s.handleListCallEvents)
		r.Get("/messages", s.handleListMessages)
		r.Get("/conversations", s.handleListConversations)
	})

	// Provider webhook, unauthenticated, form-encoded.
	r.Post("/twilio/sms-inbound", s.handleInboundSMS)
}

// handleHealth returns basic health status. Unauthenticated.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
