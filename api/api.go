// Package api provides the HTTP API for the donations backend.
package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/kindfund/donations-backend/donations"
	"github.com/kindfund/donations-backend/stripe"
	"go.vocdoni.io/dvote/log"
)

// Config holds the dependencies of the API HTTP server.
type Config struct {
	Host   string
	Port   int
	Stripe *stripe.Service
	Queue  *donations.Queue
}

// API type represents the API HTTP server.
type API struct {
	host   string
	port   int
	stripe *stripe.Service
	queue  *donations.Queue
	router *chi.Mux
}

// New creates a new API HTTP server. It does not start the server. Use Start() for that.
func New(conf *Config) *API {
	if conf == nil {
		return nil
	}
	return &API{
		host:   conf.Host,
		port:   conf.Port,
		stripe: conf.Stripe,
		queue:  conf.Queue,
	}
}

// Start starts the API HTTP server (non blocking).
func (a *API) Start() {
	go func() {
		if err := http.ListenAndServe(fmt.Sprintf("%s:%d", a.host, a.port), a.initRouter()); err != nil {
			log.Fatalf("failed to start the API server: %v", err)
		}
	}()
}

// Router returns the HTTP router, initializing it first if needed. It is used
// by the tests to serve the API without binding a port.
func (a *API) Router() http.Handler {
	if a.router == nil {
		return a.initRouter()
	}
	return a.router
}

// initRouter creates the router with all the routes and middleware.
func (a *API) initRouter() http.Handler {
	// Create the router with a basic middleware stack
	r := chi.NewRouter()
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
		MaxAge:           300, // Maximum value not ignored by any of major browsers
	}).Handler)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Throttle(100))
	r.Use(middleware.Timeout(45 * time.Second))

	r.Group(func(r chi.Router) {
		r.Get(pingEndpoint, func(w http.ResponseWriter, _ *http.Request) {
			if _, err := w.Write([]byte(".")); err != nil {
				log.Warnw("failed to write ping response", "error", err)
			}
		})
		// create a one-time donation checkout session
		log.Infow("new route", "method", "POST", "path", createCheckoutSessionEndpoint)
		r.Post(createCheckoutSessionEndpoint, a.createCheckoutSessionHandler)
		// create a recurring donation checkout session
		log.Infow("new route", "method", "POST", "path", createSubscriptionSessionEndpoint)
		r.Post(createSubscriptionSessionEndpoint, a.createSubscriptionSessionHandler)
		// create a customer billing portal session
		log.Infow("new route", "method", "POST", "path", createPortalSessionEndpoint)
		r.Post(createPortalSessionEndpoint, a.createPortalSessionHandler)
		// handle stripe webhook
		log.Infow("new route", "method", "POST", "path", webhookEndpoint)
		r.Post(webhookEndpoint, a.webhookHandler)
	})
	a.router = r
	return r
}
