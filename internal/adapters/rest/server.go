package rest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	core_port "bilibili-favorites-service/internal/core/port"
)

// Server - the REST API server.
type Server struct {
	httpServer *http.Server
	logger     core_port.LoggerPort
}

// NewRouter builds the route tree. JSON routes are also served under /bilibili,
// the prefix the desktop client uses. imageProxy may be nil.
func NewRouter(handlers *FavoritesHandler, imageProxy http.Handler, baseLogger core_port.LoggerPort, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Trace-ID"},
		ExposedHeaders: []string{"X-Trace-ID"},
		MaxAge:         300,
	}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Get("/ping", handlers.Ping)

		routes := func(r chi.Router) {
			r.Get("/favorite/get-video-list/{fid}", handlers.GetVideoList)
			r.Get("/favorite/get-page/{fid}/{page}", handlers.GetPage)
			r.Get("/video/get-pages/{bvid}", handlers.GetVideoPages)
		}
		routes(r)
		r.Route("/bilibili", routes)
	})

	// Images keep the upstream Content-Type.
	if imageProxy != nil {
		r.Method(http.MethodGet, "/image-proxy", imageProxy)
	}

	return r
}

func NewServer(port string, handlers *FavoritesHandler, imageProxy http.Handler, baseLogger core_port.LoggerPort, allowedOrigins []string) *Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewRouter(handlers, imageProxy, baseLogger, allowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{
		httpServer: srv,
		logger:     baseLogger.WithFields(core_port.Fields{"component": "rest_server"}),
	}
}

// Start blocks until the server stops. http.ErrServerClosed is not reported.
func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", core_port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server...", nil)
	return s.httpServer.Shutdown(ctx)
}
