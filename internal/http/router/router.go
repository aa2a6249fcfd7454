package router

import (
	"net/http"

	"github.com/carbonchain/portal-api/internal/config"
	"github.com/carbonchain/portal-api/internal/http/handler"
	"github.com/carbonchain/portal-api/internal/http/middleware"
	"github.com/carbonchain/portal-api/internal/session"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Router assembles the portal's HTTP surface
type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	store           *session.Store
	codec           *session.TokenCodec
	rateLimiter     *middleware.RateLimiter
	authHandler     *handler.AuthHandler
	stateHandler    *handler.StateHandler
	productHandler  *handler.ProductHandler
	nodeHandler     *handler.NodeHandler
	analysisHandler *handler.AnalysisHandler
	metaHandler     *handler.MetaHandler
}

// NewRouter creates the router
func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	store *session.Store,
	codec *session.TokenCodec,
	rateLimiter *middleware.RateLimiter,
	authHandler *handler.AuthHandler,
	stateHandler *handler.StateHandler,
	productHandler *handler.ProductHandler,
	nodeHandler *handler.NodeHandler,
	analysisHandler *handler.AnalysisHandler,
	metaHandler *handler.MetaHandler,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		store:           store,
		codec:           codec,
		rateLimiter:     rateLimiter,
		authHandler:     authHandler,
		stateHandler:    stateHandler,
		productHandler:  productHandler,
		nodeHandler:     nodeHandler,
		analysisHandler: analysisHandler,
		metaHandler:     metaHandler,
	}
}

// Setup wires middleware and routes into the served handler
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.SessionResolver(rt.store, rt.codec, rt.cfg.Session.CookieName, rt.logger))
	r.Use(middleware.Logging(rt.logger))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	// Liveness probe; backend reachability is advisory only
	r.Get("/health", rt.metaHandler.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/meta", rt.metaHandler.Meta)

		r.Route("/auth", func(r chi.Router) {
			// Credential endpoints get the stricter brute-force bucket
			r.With(rt.rateLimiter.LimitLogin).Post("/register", rt.authHandler.Register)
			r.With(rt.rateLimiter.LimitLogin).Post("/login", rt.authHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireSession)
				r.Post("/logout", rt.authHandler.Logout)
				r.Get("/me", rt.authHandler.Me)
			})
		})

		// Everything below requires a live session
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)

			r.Route("/state", func(r chi.Router) {
				r.Get("/", rt.stateHandler.Get)
				r.Post("/select-product", rt.stateHandler.SelectProduct)
				r.Post("/navigate", rt.stateHandler.Navigate)
				r.Post("/dismiss-error", rt.stateHandler.DismissError)
			})

			r.Post("/products", rt.productHandler.Create)

			r.Route("/nodes", func(r chi.Router) {
				r.Post("/", rt.nodeHandler.Create)
				r.Post("/route-preview", rt.nodeHandler.RoutePreview)
			})

			r.Post("/analysis/run", rt.analysisHandler.Run)
			r.Post("/optimizations/regenerate", rt.analysisHandler.Regenerate)
		})
	})

	return r
}
