package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotdash/internal/dashboard"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler is an [http.Handler] that knows which paths it serves.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// ServiceFactory creates a fresh, unauthenticated Spotify client for one request.
type ServiceFactory func() (services.OAuthService, error)

const (
	stateTTL        = 10 * time.Minute
	shutdownTimeout = 5 * time.Second

	loginPath  = "/auth/login"
	logoutPath = "/auth/logout"
)

// Options configures a [Server].
type Options struct {
	Config      *shared.Config
	Credentials shared.Credentials
	Tokens      services.TokenStore
	NewService  ServiceFactory
	Logger      *log.Logger
}

// Server is the web dashboard. It holds no view state; every page load recomputes the dashboard.
type Server struct {
	config     *shared.Config
	creds      shared.Credentials
	tokens     services.TokenStore
	newService ServiceFactory
	states     *cache.Cache
	limiter    *rate.Limiter
	dashboard  dashboard.Options
	renderer   *Renderer
	router     *BasicRouter
	logger     *log.Logger
}

// New creates a server and registers its routes.
func New(opts Options) (*Server, error) {
	if opts.Tokens == nil || opts.NewService == nil {
		return nil, fmt.Errorf("%w: server requires a token store and a service factory", shared.ErrInvalidConfig)
	}
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	dashOpts := dashboard.OptionsFromConfig(opts.Config.Dashboard)
	if err := dashOpts.Validate(); err != nil {
		return nil, err
	}

	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:     opts.Config,
		creds:      opts.Credentials,
		tokens:     opts.Tokens,
		newService: opts.NewService,
		states:     cache.New(stateTTL, 2*stateTTL),
		limiter:    NewLimiter(opts.Config.RateLimit),
		dashboard:  dashOpts,
		renderer:   renderer,
		router:     NewBasicRouter(),
		logger:     shared.WithLogger(opts.Logger, "component", "server"),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.Use(RequestLogger(s.logger), Recoverer(s.logger))

	limit := RateLimit(s.limiter)
	s.router.Handle(http.MethodGet, "/", limit(http.HandlerFunc(s.handleDashboard)))
	s.router.Handle(http.MethodGet, "/api/dashboard", limit(http.HandlerFunc(s.handleDashboardJSON)))
	s.router.Handle(http.MethodGet, loginPath, http.HandlerFunc(s.handleLogin))
	s.router.Handle(http.MethodGet, s.creds.CallbackPath(), http.HandlerFunc(s.handleCallback))
	s.router.Handle(http.MethodPost, logoutPath, http.HandlerFunc(s.handleLogout))
	s.router.Handle(http.MethodGet, "/healthz", http.HandlerFunc(s.handleHealth))
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on the configured address until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Server.Addr(),
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", "http://"+srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// buildView authenticates a fresh client with the stored token and runs the pipeline.
func (s *Server) buildView(ctx context.Context, opts dashboard.Options) (*dashboard.View, error) {
	svc, err := s.newService()
	if err != nil {
		return nil, err
	}
	if err := services.OpenSession(ctx, svc, s.tokens, s.logger); err != nil {
		return nil, err
	}
	return dashboard.NewBuilder(svc, opts, s.logger).Build(ctx, nil)
}

// statusFor maps a build error to the HTTP status shown to the user.
func statusFor(err error) int {
	switch {
	case shared.IsAuthError(err):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, shared.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
