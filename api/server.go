package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-site/auth"
	"github.com/rpupo63/portfolio-site/backend"
	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/content"
	"github.com/rpupo63/portfolio-site/editor"
	"github.com/rpupo63/portfolio-site/gateway"
	"github.com/rpupo63/portfolio-site/services"
)

type Server struct {
	*http.Server
	startupTime time.Time
}

// Deps are the components the server is assembled from.
type Deps struct {
	Backend     backend.Backend
	BackendName string
	Gate        *auth.Gate
	Mailer      *services.Mailer
	CV          *services.CVService
	// Media serves uploaded files when the backend keeps them itself. Optional.
	Media http.Handler
}

func NewServer(c map[string]string, deps Deps) (Server, error) {
	if deps.Backend == nil || deps.Gate == nil {
		return Server{}, fmt.Errorf("server needs a backend and an auth gate")
	}

	port := config.GetString(c, "PORT", "8080")
	address := fmt.Sprintf("0.0.0.0:%s", port)

	startupTime := time.Now()

	router := newRouter(deps, withConfig(c), withStartupTime(startupTime))

	readTimeout := time.Duration(config.GetInt(c, "READ_TIMEOUT_SECONDS", 180)) * time.Second
	writeTimeout := time.Duration(config.GetInt(c, "WRITE_TIMEOUT_SECONDS", 180)) * time.Second
	idleTimeout := time.Duration(config.GetInt(c, "IDLE_TIMEOUT_SECONDS", 180)) * time.Second

	server := &http.Server{
		Addr:         address,
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	return Server{server, startupTime}, nil
}

type router struct {
	config      map[string]string
	startupTime time.Time
}

func withConfig(c map[string]string) func(*router) {
	return func(r *router) {
		r.config = c
	}
}

func withStartupTime(startupTime time.Time) func(*router) {
	return func(r *router) {
		r.startupTime = startupTime
	}
}

// dependencies is Deps plus the components built on top of the backend.
type dependencies struct {
	backend     backend.Backend
	backendName string
	gate        *auth.Gate
	mailer      *services.Mailer
	cv          *services.CVService
	cache       *content.SiteCache
	workspaces  *editor.Workspaces
	startupTime time.Time
}

func newRouter(deps Deps, opts ...func(*router)) *chi.Mux {
	router := router{startupTime: time.Now()}
	for _, opt := range opts {
		opt(&router)
	}

	loader := content.NewLoader(deps.Backend)
	cacheTTL := time.Duration(config.GetInt(router.config, "SITE_CACHE_SECONDS", 60)) * time.Second
	cache := content.NewSiteCache(loader, cacheTTL)
	gw := gateway.New(deps.Backend)
	workspaces := editor.NewWorkspaces(func() *editor.Workspace {
		return editor.NewWorkspace(loader, gw, editor.WithOnChange(cache.Invalidate))
	})

	s := dependencies{
		backend:     deps.Backend,
		backendName: deps.BackendName,
		gate:        deps.Gate,
		mailer:      deps.Mailer,
		cv:          deps.CV,
		cache:       cache,
		workspaces:  workspaces,
		startupTime: router.startupTime,
	}
	if s.mailer == nil {
		s.mailer = services.NewMailer(router.config)
	}
	if s.cv == nil {
		s.cv = services.NewCVService(config.GetString(router.config, "SITE_OWNER", "Portfolio"),
			services.NewChromedpRenderer(config.GetString(router.config, "CHROME_PATH", "")))
	}
	handlers := initializeHandlers(s)

	chiRouter := chi.NewRouter()
	chiRouter.Use(LogInternalServerErrors)
	chiRouter.Use(ColoredHTTPLoggingMiddleware)

	acceptedOrigins := config.GetList(router.config, "ACCEPTED_ORIGINS")
	chiRouter.Use(CORSCheckMiddleware(acceptedOrigins))

	trackHome := func(next http.Handler) http.Handler { return next }
	if config.GetString(router.config, "APP_ENV", "development") == "production" {
		trackHome = trackPageViews(deps.Backend)
	}

	setupPublicRoutes(chiRouter, handlers, trackHome)
	chiRouter.Route("/api", func(r chi.Router) {
		r.Use(apiCORS(acceptedOrigins))
		setupAPIRoutes(r, handlers)
	})
	setupLoginRoutes(chiRouter, handlers)
	setupAdminRoutes(chiRouter, handlers, deps.Gate.RequireUser)

	if deps.Media != nil {
		chiRouter.Handle("/media/*", deps.Media)
	}

	return chiRouter
}

func (s Server) Start(errChannel chan<- error) {
	log.Info().Msgf("Server started on: %s", s.Addr)
	errChannel <- s.ListenAndServe()
}

func (s Server) ShutdownGracefully(timeout time.Duration) {
	log.Info().Msg("Gracefully shutting down...")

	gracefullCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.Shutdown(gracefullCtx); err != nil {
		log.Error().Msgf("Error shutting down the server: %v", err)
	} else {
		log.Info().Msg("HttpServer gracefully shut down")
	}
}
