// Package httpapi exposes the provisioning and webhook endpoints over HTTP.
// Every response is structured JSON with an ok/error discriminator; the
// intake platform on the other end cannot parse anything else.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/frontdesk-ai/reception-cli/internal/calllog"
	"github.com/frontdesk-ai/reception-cli/internal/intake"
	"github.com/frontdesk-ai/reception-cli/internal/provision"
	"github.com/frontdesk-ai/reception-cli/internal/sitetext"
	"github.com/frontdesk-ai/reception-cli/internal/webhook"
	"github.com/frontdesk-ai/reception-cli/pkg/salesforce"
)

// secretHeader carries the webhook shared secret.
const secretHeader = "X-Webhook-Secret"

// Server holds the handler dependencies.
type Server struct {
	workflow  *provision.Workflow
	processor *webhook.Processor
	store     calllog.Store
	fetcher   *sitetext.Chain
	crm       salesforce.Client
	defaults  intake.Defaults

	defaultAgentID string
}

// Config wires a Server.
type Config struct {
	Workflow  *provision.Workflow
	Processor *webhook.Processor
	Store     calllog.Store
	Fetcher   *sitetext.Chain
	// CRM is optional; without it lead submissions are acknowledged but
	// not pushed anywhere.
	CRM      salesforce.Client
	Defaults intake.Defaults

	DefaultAgentID string
}

// New creates a Server.
func New(cfg Config) *Server {
	return &Server{
		workflow:       cfg.Workflow,
		processor:      cfg.Processor,
		store:          cfg.Store,
		fetcher:        cfg.Fetcher,
		crm:            cfg.CRM,
		defaults:       cfg.Defaults,
		defaultAgentID: cfg.DefaultAgentID,
	}
}

// Router builds the chi router with permissive CORS for the intake
// platform's browser-side tests.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization", secretHeader},
	}))

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not found", nil)
	})

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/provision", s.handleProvision)
		r.Post("/webhook/call", s.handleWebhook)
		r.Post("/leads", s.handleLeads)
		r.Post("/web-call", s.handleWebCall)
		r.Get("/calls", s.handleCalls)
	})

	return r
}
