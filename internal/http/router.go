package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/limegom/FastApi-Todos-by-jong1/internal/http/handler"
	"github.com/limegom/FastApi-Todos-by-jong1/internal/service"
)

// RouterConfig wires services into routes. A nil Gatherer leaves /metrics
// unregistered.
type RouterConfig struct {
	TodoSvc      *service.TodoService
	RepeatingSvc *service.RepeatingService
	Logger       *zap.Logger
	TemplatePath string
	Gatherer     prometheus.Gatherer
	HealthChecks []handler.HealthCheck
}

func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()

	mux.Handle("/health", handler.NewHealthHandler(cfg.HealthChecks...))

	if cfg.Gatherer != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	todoHandler := handler.NewTodoHandler(cfg.TodoSvc, logger)
	mux.Handle("/todos", todoHandler)
	mux.Handle("/todos/", todoHandler)

	repeatingHandler := handler.NewRepeatingHandler(cfg.RepeatingSvc, logger)
	mux.Handle("/repeating", repeatingHandler)
	mux.Handle("/repeating/", repeatingHandler)

	// "/" is the catch-all; the index handler 404s anything but the root.
	mux.Handle("/", handler.NewIndexHandler(cfg.TemplatePath, logger))

	return mux
}
