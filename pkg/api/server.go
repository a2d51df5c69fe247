package api

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"graph_scene/pkg/config"
)

// NewRouter wires every route and middleware.
func NewRouter(cfg config.ServerConfig, h *Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger(h.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(h.metrics.Middleware)
	r.Use(securityHeaders)
	r.Use(limitConcurrency(cfg.MaxConcurrent))

	if cfg.CORSOrigin != "" {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: strings.Split(cfg.CORSOrigin, ","),
			AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/stats", h.HandleStats)

		r.Route("/vertices", func(r chi.Router) {
			r.Get("/", h.HandleListVertices)
			r.Post("/", h.HandleCreateVertex)
			r.Get("/{name}", h.HandleGetVertex)
			r.Put("/{name}/position", h.HandleMoveVertex)
			r.Get("/{name}/neighborhood", h.HandleNeighborhood)
			r.Post("/{name}/select", h.HandleSelect)
		})

		r.Route("/edges", func(r chi.Router) {
			r.Get("/", h.HandleListEdges)
			r.Post("/", h.HandleCreateEdge)
			r.Get("/lookup", h.HandleLookupEdge)
			r.Get("/{id}", h.HandleGetEdge)
		})

		r.Post("/update", h.HandleUpdate)
		r.Post("/import", h.HandleImport)
	})

	return r
}

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg config.ServerConfig, h *Handlers) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(cfg, h),
		ReadTimeout:  cfg.ReadTimeoutDuration(),
		WriteTimeout: cfg.WriteTimeoutDuration(),
	}
}

// ListenAndServe starts the server and blocks until shutdown signal.
func ListenAndServe(srv *http.Server, logger *zap.Logger) error {
	// Graceful shutdown on SIGTERM/SIGINT.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(stop)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		logger.Info("shutting down", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}

// limitConcurrency rejects requests beyond n in flight with 503.
func limitConcurrency(n int) func(http.Handler) http.Handler {
	sem := make(chan struct{}, max(n, 1))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			default:
				w.Header().Set("Retry-After", "1")
				writeError(w, http.StatusServiceUnavailable, "service_unavailable", "")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestLogger logs one line per request with zap.
func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Info("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
