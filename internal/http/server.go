package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/middleware"
)

type Options struct {
	Port   string
	Router RouterConfig

	// Optional middleware; nil disables each.
	Auth        *middleware.Auth
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.Metrics
}

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

func NewServer(opts Options, logger *zap.Logger) *Server {
	opts.Router.Logger = logger
	var h http.Handler = NewRouter(opts.Router)

	// Innermost first: auth -> rate limit -> metrics -> logging -> recovery -> request id.
	if opts.Auth != nil {
		h = opts.Auth.Middleware(h)
	}
	if opts.RateLimiter != nil {
		h = opts.RateLimiter.Middleware(h)
	}
	if opts.Metrics != nil {
		h = opts.Metrics.Middleware(h)
	}
	h = middleware.Logging(logger)(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.RequestID(h)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%s", opts.Port),
			Handler:      h,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
