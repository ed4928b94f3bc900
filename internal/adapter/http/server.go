package adapthttp

import (
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"mybites/internal/app"
)

// Services bundles the application services the HTTP adapter drives.
type Services struct {
	Hydration *app.HydrationService
	Meals     *app.MealService
	Profiles  *app.ProfileService
	Badges    *app.BadgeService
	History   *app.HistoryService
	Auth      *app.AuthService
}

// SSOConfig holds the OAuth2 client and OIDC provider for browser sign-in.
type SSOConfig struct {
	Enabled      bool
	OAuth2Config *oauth2.Config
	Provider     *oidc.Provider
}

// Server is the driving HTTP adapter that routes requests to application
// services.
type Server struct {
	hydration *app.HydrationService
	meals     *app.MealService
	profiles  *app.ProfileService
	badges    *app.BadgeService
	history   *app.HistoryService
	authSvc   *app.AuthService

	logger  *zap.SugaredLogger
	metrics *Metrics
	limiter *RateLimiter
	sso     SSOConfig
	now     func() time.Time

	disableAuth      bool
	trustForwardAuth bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the Prometheus collectors exposed on /metrics.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithLoginLimit limits login attempts per client to perSecond with the
// given burst.
func WithLoginLimit(perSecond float64, burst int) Option {
	return func(s *Server) { s.limiter = NewRateLimiter(perSecond, burst) }
}

// WithSSO enables the OIDC redirect flow.
func WithSSO(cfg SSOConfig) Option {
	return func(s *Server) { s.sso = cfg }
}

// WithForwardAuth makes the server trust the Remote-User header set by a
// forward-auth proxy.
func WithForwardAuth(trust bool) Option {
	return func(s *Server) { s.trustForwardAuth = trust }
}

// WithClock overrides the time source used for "today".
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// New creates a Server wired to the given application services.
func New(svc Services, opts ...Option) *Server {
	s := &Server{
		hydration: svc.Hydration,
		meals:     svc.Meals,
		profiles:  svc.Profiles,
		badges:    svc.Badges,
		history:   svc.History,
		authSvc:   svc.Auth,
		now:       time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop().Sugar()
	}
	if s.metrics == nil {
		s.metrics = NewMetrics()
	}
	if s.limiter == nil {
		s.limiter = NewRateLimiter(0.2, 5)
	}
	return s
}

// WithoutAuth disables authentication; every request acts as the local user.
func (s *Server) WithoutAuth() *Server {
	s.disableAuth = true
	return s
}

// Handler returns the root http.Handler for the application.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(s.metrics.Middleware)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(withNoCache)

		r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		})
		r.Get("/config", s.handleConfig)

		r.Route("/auth", func(r chi.Router) {
			r.With(s.limiter.Middleware).Post("/login", s.handleLogin)
			r.Post("/logout", s.handleLogout)
			r.Post("/setup", s.handleSetupUser)
			r.Get("/sso/login", s.handleSSOLogin)
			r.Get("/sso/callback", s.handleSSOCallback)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authMiddleware)

			r.Route("/water", func(r chi.Router) {
				r.Get("/today", s.handleWaterToday)
				r.Post("/event", s.handleWaterEvent)
				r.Delete("/event/{id}", s.handleWaterDelete)
				r.Get("/recent", s.handleWaterRecent)
				r.Post("/undo-last", s.handleWaterUndoLast)
				r.Get("/streak", s.handleWaterStreak)
			})

			r.Route("/meals", func(r chi.Router) {
				r.Get("/recent", s.handleMealsRecent)
				r.Post("/", s.handleMealCreate)
				r.Delete("/{id}", s.handleMealDelete)
				r.Get("/favorites", s.handleFavoritesList)
				r.Post("/favorites", s.handleFavoriteCreate)
				r.Delete("/favorites/{id}", s.handleFavoriteDelete)
				r.Post("/favorites/{id}/log", s.handleFavoriteLog)
			})

			r.Get("/profile", s.handleProfileGet)
			r.Put("/profile", s.handleProfilePut)
			r.Get("/badges", s.handleBadges)
			r.Get("/history/daily", s.handleHistoryDaily)
		})
	})

	return r
}
