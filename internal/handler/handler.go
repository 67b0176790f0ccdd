package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ecomstore/web"
)

type Options struct {
	Tokens      TokenParser
	AuthLimiter *RateLimiter
	CORSOrigin  string
}

type Handler struct {
	router *chi.Mux
	opts   Options

	auth     *AuthHandler
	products *ProductHandler
	orders   *OrderHandler
}

func NewHandler(opts Options, auth *AuthHandler, products *ProductHandler, orders *OrderHandler) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(rememberPeer)
	router.Use(middleware.RealIP)
	router.Use(requestLogger)
	router.Use(middleware.Recoverer)
	router.Use(newCORS(opts.CORSOrigin))
	router.Use(newCompressor().Handler)
	router.Use(authenticate(opts.Tokens))

	h := &Handler{
		router:   router,
		opts:     opts,
		auth:     auth,
		products: products,
		orders:   orders,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Get("/", web.Index)
	h.router.Handle("/static/*", http.StripPrefix("/static/", web.Files()))

	h.router.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)
	})

	h.router.Group(func(r chi.Router) {
		if h.opts.AuthLimiter != nil {
			r.Use(h.opts.AuthLimiter.Middleware)
		}
		r.Post("/signup", h.auth.Signup)
		r.Post("/login", h.auth.Login)
	})

	h.router.Route("/products", func(r chi.Router) {
		r.Get("/", h.products.List)
		r.Get("/{id}", h.products.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)
			r.Post("/", h.products.Create)
			r.Put("/{id}", h.products.Update)
			r.Delete("/{id}", h.products.Delete)
		})
	})

	h.router.Route("/orders", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", h.orders.Create)
		r.Get("/", h.orders.List)
		r.Delete("/{id}", h.orders.Cancel)
		r.With(requireAdmin).Put("/{id}/status", h.orders.UpdateStatus)
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
