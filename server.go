package nextbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/theoremus-urban-solutions/nextbus/formatter"
	"github.com/theoremus-urban-solutions/nextbus/internal/logging"
)

const shutdownTimeout = 10 * time.Second

// Server exposes a Service over HTTP.
type Server struct {
	svc        *Service
	logger     *slog.Logger
	rb         *formatter.ResponseBuilder
	feedURL    string
	httpServer *http.Server
}

// NewServer builds the HTTP surface for svc listening on port.
func NewServer(svc *Service, port int, logger *slog.Logger) *Server {
	srv := &Server{
		svc:    svc,
		logger: logging.OrDefault(logger).With(slog.String("component", "http_server")),
		rb:     formatter.NewResponseBuilder(),
	}
	if svc.feed != nil {
		srv.feedURL = svc.feed.URL()
	}
	srv.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the routed handler wrapped in request logging.
func (srv *Server) Handler() http.Handler {
	router := httprouter.New()
	router.HandlerFunc(http.MethodGet, "/api/health", srv.handleHealth)
	router.HandlerFunc(http.MethodGet, "/api/stops", srv.handleSearchStops)
	router.HandlerFunc(http.MethodGet, "/api/stops/:id", srv.handleStop)
	router.HandlerFunc(http.MethodGet, "/api/stops/:id/routes", srv.handleStopRoutes)
	router.HandlerFunc(http.MethodGet, "/api/stops/:id/schedule", srv.handleStopSchedule)
	router.HandlerFunc(http.MethodGet, "/api/stops/:id/arrivals", srv.handleStopArrivals)
	router.HandlerFunc(http.MethodGet, "/api/routes/:id", srv.handleRoute)
	router.HandlerFunc(http.MethodGet, "/api/routes/:id/stops", srv.handleRouteStops)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.notFound(w, r, "endpoint")
	})
	return newRequestLoggingMiddleware(srv.logger)(router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (srv *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		srv.logger.Info("server listening", slog.String("addr", srv.httpServer.Addr))
		if err := srv.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	srv.logger.Info("shutdown signal received")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.LogError(srv.logger, "server shutdown error", err)
		return err
	}
	srv.logger.Info("server shut down successfully")
	return nil
}
