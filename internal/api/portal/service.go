package portal

import (
	"context"
	"html/template"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/zoom-dashboard/internal/api/schema"
	"github.com/skybi/zoom-dashboard/internal/config"
	"github.com/skybi/zoom-dashboard/internal/credential"
	"github.com/skybi/zoom-dashboard/internal/dashboard"
	"github.com/skybi/zoom-dashboard/internal/session"
)

const shutdownTimeout = 5 * time.Second

// DashboardBuilder assembles the user views shown on the dashboard
type DashboardBuilder interface {
	Build(ctx context.Context) ([]*dashboard.UserView, error)
}

// Service represents the operator facing dashboard service
type Service struct {
	serverMtx sync.Mutex
	server    *http.Server

	Config *config.Config

	Credentials credential.Validator
	Sessions    session.Storage
	Dashboard   DashboardBuilder

	writer    *schema.Writer
	templates *template.Template
}

// Startup starts up the dashboard service
func (service *Service) Startup() error {
	handler, err := service.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              service.Config.ListenAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	service.serverMtx.Lock()
	service.server = server
	service.serverMtx.Unlock()
	return server.ListenAndServe()
}

// Shutdown shuts down the dashboard service, waiting for running requests to finish
func (service *Service) Shutdown() {
	service.serverMtx.Lock()
	defer service.serverMtx.Unlock()
	if service.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := service.server.Shutdown(ctx); err != nil {
			log.Warn().Err(err).Msg("could not gracefully shut down the dashboard service")
			service.server.Close()
		}
		service.server = nil
	}
}

// Handler builds the HTTP handler serving every dashboard route
func (service *Service) Handler() (http.Handler, error) {
	// Create the HTTP schema writer
	service.writer = &schema.Writer{
		InternalErrorHook: func(err error) {
			log.Error().Err(err).Msg("the dashboard service experienced an unexpected error")
		},
	}

	// Parse the embedded HTML templates
	templates, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	service.templates = templates

	// Create the HTTP router
	router := chi.NewRouter()
	router.Use(hlog.NewHandler(log.Logger))
	router.Use(hlog.RequestIDHandler("request_id", "X-Request-Id"))
	router.Use(hlog.RemoteAddrHandler("remote_addr"))
	router.Use(hlog.AccessHandler(func(request *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(request).Debug().
			Str("method", request.Method).
			Stringer("url", request.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("handled request")
	}))
	router.Use(middleware.Recoverer)
	router.Use(middleware.RedirectSlashes)

	// Register the HTML endpoints
	router.Get("/login", service.EndpointLoginPage)
	router.Post("/login", service.EndpointLogin)
	router.Get("/logout", service.EndpointLogout)
	router.Get("/", withMiddlewares(service.EndpointDashboard, service.MiddlewareVerifySession))
	router.Get("/healthz", service.EndpointHealth)

	// Register the JSON API endpoints
	router.Route("/api/v1", func(router chi.Router) {
		if service.Config.APIAllowedOrigin != "" {
			router.Use(cors.Handler(cors.Options{
				AllowedOrigins:   []string{service.Config.APIAllowedOrigin},
				AllowedMethods:   []string{http.MethodHead, http.MethodGet},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: true,
			}))
		}
		router.NotFound(func(writer http.ResponseWriter, _ *http.Request) {
			service.writer.WriteErrors(writer, http.StatusNotFound, schema.ErrNotFound)
		})
		router.MethodNotAllowed(func(writer http.ResponseWriter, _ *http.Request) {
			service.writer.WriteErrors(writer, http.StatusMethodNotAllowed, schema.ErrMethodNotAllowed)
		})

		router.Get("/users", withMiddlewares(service.EndpointGetUsers, service.MiddlewareRequireSession))
	})

	return router, nil
}

// EndpointHealth handles the 'GET /healthz' endpoint
func (service *Service) EndpointHealth(writer http.ResponseWriter, _ *http.Request) {
	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	writer.WriteHeader(http.StatusOK)
	writer.Write([]byte("ok"))
}

func withMiddlewares(end http.HandlerFunc, middlewares ...func(http.HandlerFunc) http.HandlerFunc) http.HandlerFunc {
	final := end
	for i := len(middlewares); i > 0; i-- {
		final = middlewares[i-1](final)
	}
	return final
}
