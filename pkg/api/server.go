// Package api osrkit REST API
//
// @title           osrkit REST API
// @version         1.0.0
// @description     Decode, archive and export legacy .osr replays.
// @host            localhost:8080
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/ssargent/osrkit/pkg/osr"
	"github.com/swaggo/swag"
)

const (
	metricsRefreshInterval = 30 * time.Second
	shutdownTimeout        = 10 * time.Second
)

const swaggerUI = `<!DOCTYPE html>
<html>
<head>
	 <title>osrkit API Documentation</title>
	 <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui.css" />
</head>
<body>
	 <div id="swagger-ui"></div>
	 <script src="https://unpkg.com/swagger-ui-dist@3.25.0/swagger-ui-bundle.js"></script>
	 <script>
	   window.onload = function() {
	     SwaggerUIBundle({
	       url: '/swagger/swagger.json',
	       dom_id: '#swagger-ui',
	       presets: [
	         SwaggerUIBundle.presets.apis,
	         SwaggerUIBundle.presets.standalone
	       ]
	     });
	   };
	 </script>
</body>
</html>`

// NewRouter builds the HTTP handler for s. Metrics are served from gatherer.
func NewRouter(s *Server, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link", "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	m := s.metrics
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(m.InstrumentAuthMiddleware(apiKeyMiddleware(s.config.APIKey)))

		r.Get("/health", m.InstrumentHandler("GET", "/api/v1/health", s.handleHealth))
		r.Post("/decode", m.InstrumentHandler("POST", "/api/v1/decode", s.handleDecode))

		r.Post("/replays", m.InstrumentHandler("POST", "/api/v1/replays", s.handleImport))
		r.Get("/replays", m.InstrumentHandler("GET", "/api/v1/replays", s.handleListReplays))
		r.Get("/replays/{id}", m.InstrumentHandler("GET", "/api/v1/replays/{id}", s.handleGetReplay))
		r.Delete("/replays/{id}", m.InstrumentHandler("DELETE", "/api/v1/replays/{id}", s.handleDeleteReplay))
		r.Get("/replays/{id}/frames.csv", m.InstrumentHandler("GET", "/api/v1/replays/{id}/frames.csv", s.handleFramesCSV))
		r.Get("/replays/{id}/raw", m.InstrumentHandler("GET", "/api/v1/replays/{id}/raw", s.handleRaw))
	})

	// Swagger documentation (unprotected)
	r.Get("/swagger/*", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/swagger/", "/swagger/index.html":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(swaggerUI))
		case "/swagger/swagger.json":
			doc, err := swag.ReadDoc(SwaggerInfo.InstanceName())
			if err != nil {
				s.logger.Error().Err(err).Msg("failed to generate swagger doc")
				http.Error(w, "Failed to generate Swagger documentation", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(doc))
		default:
			http.NotFound(w, r)
		}
	})

	return r
}

// StartServer serves the API until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, replays ReplayArchive, replayCodec *osr.Codec, config ServerConfig, logger zerolog.Logger) error {
	SwaggerInfo.Host = fmt.Sprintf("localhost:%d", config.Port)

	metrics := NewMetrics(prometheus.DefaultRegisterer)
	server := NewServer(replays, replayCodec, config, metrics, logger)

	bind := config.Bind
	if bind == "" {
		bind = "127.0.0.1"
	}
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, config.Port),
		Handler:           NewRouter(server, prometheus.DefaultGatherer),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go server.startMetricsUpdater(ctx, metricsRefreshInterval)

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", httpServer.Addr).
			Str("metrics", fmt.Sprintf("http://%s/metrics", httpServer.Addr)).
			Msg("starting osrkit REST API server")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down REST API server")
	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
