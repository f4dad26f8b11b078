package api

import (
	"net/http"
	"regexp"
	"time"

	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/mikkimase/storefront/assetstores"
	"github.com/mikkimase/storefront/conf"
	"github.com/mikkimase/storefront/downloads"
	"github.com/mikkimase/storefront/fulfillment"
	"github.com/mikkimase/storefront/graceful"
	"github.com/mikkimase/storefront/payments"
	"github.com/mikkimase/storefront/products"
)

const defaultVersion = "unknown version"

var bearerRegexp = regexp.MustCompile(`^(?:B|b)earer (\S+$)`)

// API is the main REST API. Every collaborator is injected once at
// construction; there is no lazily initialized global state.
type API struct {
	handler     http.Handler
	config      *conf.Configuration
	registry    products.Registry
	signer      *downloads.Signer
	provider    payments.Provider
	fulfillment *fulfillment.Handler
	store       assetstores.Store
	version     string
}

// ListenAndServe starts the REST API and blocks until shutdown.
func (a *API) ListenAndServe(hostAndPort string) {
	log := logrus.WithField("component", "api")
	server := &http.Server{
		Addr:    hostAndPort,
		Handler: a.handler,
	}

	done, _ := graceful.DetectShutdown(log)
	done.Register("api", server, 10*time.Second)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("http server listen failed")
	}
	// the shutdown goroutine exits the process once all targets drained
	select {}
}

// NewAPI instantiates a new REST API using the default version.
func NewAPI(config *conf.Configuration, registry products.Registry, signer *downloads.Signer, provider payments.Provider, handler *fulfillment.Handler, store assetstores.Store) *API {
	return NewAPIWithVersion(config, registry, signer, provider, handler, store, defaultVersion)
}

// NewAPIWithVersion instantiates a new REST API.
func NewAPIWithVersion(config *conf.Configuration, registry products.Registry, signer *downloads.Signer, provider payments.Provider, handler *fulfillment.Handler, store assetstores.Store, version string) *API {
	api := &API{
		config:      config,
		registry:    registry,
		signer:      signer,
		provider:    provider,
		fulfillment: handler,
		store:       store,
		version:     version,
	}

	r := newRouter()
	r.Use(withRequestID)
	r.UseBypass(newStructuredLogger(logrus.StandardLogger()))
	r.UseBypass(recoverer)

	// endpoints
	r.Get("/", api.Index)
	r.Get("/health", api.HealthCheck)

	r.Route("/products", func(r *router) {
		r.Get("/{product_id}", api.ProductView)
	})

	r.Post("/checkout", api.CheckoutCreate)

	r.Route("/webhooks", func(r *router) {
		r.Post("/stripe", api.StripeWebhook)
	})

	r.Route("/downloads", func(r *router) {
		r.Get("/{token}", api.DownloadURL)
		r.With(api.withToken).With(adminRequired).Post("/resend", api.DownloadResend)
	})

	corsHandler := cors.New(cors.Options{
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Stripe-Signature"},
		AllowCredentials: true,
	})

	api.handler = corsHandler.Handler(r)
	return api
}
