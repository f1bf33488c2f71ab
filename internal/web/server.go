// Package web provides the HTTP server and handlers for the admin dashboard.
package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/JonMunkholm/scizon/internal/config"
	"github.com/JonMunkholm/scizon/internal/dashboard"
	"github.com/JonMunkholm/scizon/internal/importer"
	"github.com/JonMunkholm/scizon/internal/session"
	webmw "github.com/JonMunkholm/scizon/internal/web/middleware"
)

const defaultEchartsHost = "https://go-echarts.github.io"

// Server is the HTTP server for the dashboard.
type Server struct {
	cfg      *config.Config
	importer *importer.Importer
	store    *session.Store
	charts   *dashboard.ChartRenderer
	router   *chi.Mux
	server   *http.Server
}

// NewServer creates a new Server instance.
func NewServer(cfg *config.Config, imp *importer.Importer, store *session.Store, charts *dashboard.ChartRenderer) *Server {
	s := &Server{
		cfg:      cfg,
		importer: imp,
		store:    store,
		charts:   charts,
		router:   chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// setupMiddleware configures middleware for all routes.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(webmw.TrustedRealIP(s.cfg.Security.TrustedProxies))
	s.router.Use(webmw.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(s.securityHeaders())
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/auth", s.handleAuth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.withSession)
		if s.cfg.Rate.Enabled {
			r.Use(s.rateLimit(s.cfg.Rate.RequestsPerMinute))
		}

		// SSE streams outlive the request timeout.
		r.Get("/api/import/events", s.handleImportEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

			// Pages
			r.Get("/", s.handleDashboard)
			r.Get("/perfil", s.handleProfile)
			r.Post("/perfil", s.handleProfileSave)
			r.Post("/logout", s.handleLogout)
			r.Post("/ui/sidebar/toggle", s.handleSidebarToggle)
			r.Post("/ui/sidebar/close", s.handleSidebarClose)

			// API routes
			r.Route("/api", func(r chi.Router) {
				if len(s.cfg.Security.AllowedOrigins) > 0 {
					r.Use(cors.Handler(cors.Options{
						AllowedOrigins:   s.cfg.Security.AllowedOrigins,
						AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
						AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
						AllowCredentials: true,
						MaxAge:           300,
					}))
				}

				importRoute := r.With()
				if s.cfg.Rate.Enabled {
					importRoute = r.With(s.rateLimit(s.cfg.Rate.ImportLimit))
				}
				importRoute.Post("/import", s.handleImport)

				r.Get("/import", s.handleImportSnapshot)
				r.Delete("/import/feedback", s.handleImportDismiss)
				r.Get("/import/limiter", s.handleLimiterStatus)
				r.Get("/stats", s.handleStats)
				r.Get("/charts/{name}", s.handleChart)
			})
		})
	})
}

// rateLimit limits requests per minute, keyed by session when present.
func (s *Server) rateLimit(perMinute int) func(http.Handler) http.Handler {
	return httprate.Limit(perMinute, time.Minute,
		httprate.WithKeyFuncs(rateLimitKey),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			respondErrorJSON(w, importer.UserMessage{
				Message: "Demasiados pedidos. Tente novamente dentro de um minuto.",
				Code:    "RATE001",
			}, http.StatusTooManyRequests)
		}),
	)
}

func rateLimitKey(r *http.Request) (string, error) {
	if inst := InstanceFromContext(r.Context()); inst != nil {
		return "session:" + inst.ID, nil
	}
	key, err := httprate.KeyByIP(r)
	if err != nil {
		return "", err
	}
	return "ip:" + key, nil
}

// securityHeaders returns the unrolled/secure middleware. Frames are allowed
// from the same origin because the charts are embedded as iframes.
func (s *Server) securityHeaders() func(http.Handler) http.Handler {
	opts := secure.Options{
		CustomFrameOptionsValue: "SAMEORIGIN",
		ContentTypeNosniff:      true,
		BrowserXssFilter:        true,
		ReferrerPolicy:          "strict-origin-when-cross-origin",
		SSLRedirect:             s.cfg.Security.ForceHTTPS,
		SSLProxyHeaders:         map[string]string{"X-Forwarded-Proto": "https"},
	}
	if s.cfg.Security.ForceHTTPS {
		opts.STSSeconds = 31536000
		opts.STSIncludeSubdomains = true
	}
	if s.cfg.Security.EnableCSP {
		opts.ContentSecurityPolicy = contentSecurityPolicy(s.cfg.Dashboard.ChartAssetsHost)
	}
	return secure.New(opts).Handler
}

// contentSecurityPolicy allows inline scripts and the chart assets host.
func contentSecurityPolicy(assetsHost string) string {
	scriptSrc := []string{"'self'", "'unsafe-inline'", defaultEchartsHost}
	if u, err := url.Parse(assetsHost); err == nil && u.Scheme != "" && u.Host != "" {
		scriptSrc = append(scriptSrc, u.Scheme+"://"+u.Host)
	}
	return strings.Join([]string{
		"default-src 'self'",
		"script-src " + strings.Join(scriptSrc, " "),
		"style-src 'self' 'unsafe-inline'",
		"img-src 'self' data:",
		"frame-ancestors 'self'",
	}, "; ")
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	slog.Info("server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router returns the underlying chi router for testing.
func (s *Server) Router() *chi.Mux {
	return s.router
}
