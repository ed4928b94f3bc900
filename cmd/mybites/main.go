package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	adapthttp "mybites/internal/adapter/http"
	"mybites/internal/adapter/token"
	"mybites/internal/app"
	"mybites/internal/config"
	"mybites/internal/logging"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_FILE"), "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, flush, err := logging.New(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Errorw("exiting", "error", err)
		flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) error {
	repos, err := openStorage(ctx, cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(); err != nil {
			logger.Warnw("closing storage", "error", err)
		}
	}()
	logger.Infow("storage ready", "backend", cfg.Storage.Backend)

	var calOpts []app.CalendarOption
	if cfg.Streak.FixedGoal {
		calOpts = append(calOpts, app.WithFixedGoal())
	}
	calendar, err := app.NewCalendarResolver(repos.profiles, cfg.Streak.Policy, cfg.Location(), calOpts...)
	if err != nil {
		return err
	}

	authOpts := []app.AuthOption{app.WithSessionTTL(cfg.Auth.SessionTTL)}
	verifiers, provider, err := tokenVerifiers(ctx, cfg.Auth)
	if err != nil {
		return err
	}
	if len(verifiers) > 0 {
		authOpts = append(authOpts, app.WithTokenVerifier(verifiers))
	}

	hydration := app.NewHydrationService(repos.water, calendar)
	authSvc := app.NewAuthService(repos.users, repos.sessions, authOpts...)

	if cfg.Auth.InitialUser != "" {
		err := authSvc.CreateInitialUser(ctx, cfg.Auth.InitialUser, cfg.Auth.InitialPassword)
		switch {
		case err == nil:
			logger.Infow("created initial user", "username", cfg.Auth.InitialUser)
		case errors.Is(err, app.ErrUsersExist):
		default:
			return fmt.Errorf("initial user: %w", err)
		}
	}

	opts := []adapthttp.Option{
		adapthttp.WithLogger(logger),
		adapthttp.WithMetrics(adapthttp.NewMetrics()),
		adapthttp.WithLoginLimit(cfg.Auth.LoginRate, cfg.Auth.LoginBurst),
		adapthttp.WithForwardAuth(cfg.Auth.TrustForwardAuth),
	}
	if provider != nil && cfg.Auth.OIDC.SSOEnabled() {
		opts = append(opts, adapthttp.WithSSO(adapthttp.SSOConfig{
			Enabled:  true,
			Provider: provider,
			OAuth2Config: &oauth2.Config{
				ClientID:     cfg.Auth.OIDC.ClientID,
				ClientSecret: cfg.Auth.OIDC.ClientSecret,
				RedirectURL:  cfg.Auth.OIDC.RedirectURL,
				Endpoint:     provider.Endpoint(),
				Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
			},
		}))
	}

	srv := adapthttp.New(adapthttp.Services{
		Hydration: hydration,
		Meals:     app.NewMealService(repos.meals),
		Profiles:  app.NewProfileService(repos.profiles),
		Badges:    app.NewBadgeService(hydration),
		History:   app.NewHistoryService(repos.water, repos.meals, calendar),
		Auth:      authSvc,
	}, opts...)
	if cfg.Auth.Disabled {
		logger.Warnw("authentication disabled")
		srv = srv.WithoutAuth()
	}

	go purgeSessions(ctx, authSvc, cfg.Auth.JanitorInterval, logger)

	httpSrv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return serve(ctx, httpSrv, logger)
}

// tokenVerifiers builds the bearer verifier chain. The OIDC provider is
// returned so the SSO flow can share it.
func tokenVerifiers(ctx context.Context, cfg config.AuthConfig) (token.Chain, *oidc.Provider, error) {
	var chain token.Chain
	if cfg.JWTSecret != "" {
		v, err := token.NewHMACVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, v)
	}

	var provider *oidc.Provider
	if cfg.OIDC.Enabled() {
		p, err := oidc.NewProvider(ctx, cfg.OIDC.Issuer)
		if err != nil {
			return nil, nil, fmt.Errorf("oidc provider: %w", err)
		}
		provider = p
		chain = append(chain, token.NewOIDCVerifierFromProvider(p, cfg.OIDC.ClientID))
	}
	return chain, provider, nil
}

// purgeSessions deletes expired sessions every interval until ctx ends.
func purgeSessions(ctx context.Context, auth *app.AuthService, interval time.Duration, logger *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := auth.PurgeExpiredSessions(ctx)
			if err != nil {
				logger.Warnw("session purge failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debugw("purged expired sessions", "count", n)
			}
		}
	}
}

// serve runs srv until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *zap.SugaredLogger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("server starting", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
		logger.Infow("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
