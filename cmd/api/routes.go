package main

import (
	"log/slog"
	"net/http"

	"ghibligraph/internal/catalog"
	"ghibligraph/internal/config"
	"ghibligraph/internal/graph"
	"ghibligraph/internal/httpx"
	"ghibligraph/internal/platform/ghibli"

	"github.com/99designs/gqlgen/graphql/playground"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newRouter builds the full handler tree for cfg.
func newRouter(cfg config.Config, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, error) {
	upstream := ghibli.NewClient(cfg.UpstreamBaseURL, ghibli.WithUserAgent(cfg.UpstreamUserAgent))
	films := catalog.NewService(upstream)

	schema, err := graph.NewSchema(graph.NewResolver(films, logger, graph.NewMetrics(reg)))
	if err != nil {
		return nil, err
	}
	graphqlHandler := graph.NewHTTPHandler(schema, logger)

	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, r, map[string]string{"status": "ok"}, nil)
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONSuccess(w, r, map[string]string{
			"status":   "ready",
			"upstream": upstream.BaseURL(),
		}, nil)
	})
	router.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	router.Handle(cfg.GraphQLPath, httpx.Chain(graphqlHandler,
		httpx.SecurityHeadersMiddleware(cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(cfg.MaxBodyBytes),
	))

	if cfg.EnablePlayground {
		router.Handle("GET /{$}", playground.Handler("Studio Ghibli films", cfg.GraphQLPath))
	}

	return httpx.Chain(router,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(logger),
		httpx.RecoveryMiddleware(logger),
		httpx.CORSMiddleware(cfg.CORSOrigins),
	), nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}
