// Package http is the JSON presentation adapter over the fleet service.
// Handlers parse and validate input, call the service and map its
// errors onto status codes with localized messages.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetlog/internal/fleet"
	"fleetlog/internal/i18n"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

type Server struct {
	http.Server
	fleet       *fleet.Service
	i18n        *i18n.Bundle
	rateLimiter *rateLimiter

	shutdownOnce sync.Once
}

// NewServer configures all routes, returning a ready-to-run server.
func NewServer(addr string, svc *fleet.Service, bundle *i18n.Bundle, ratePerMinute int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		fleet:       svc,
		i18n:        bundle,
		rateLimiter: newRateLimiter(ratePerMinute),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/trips", s.wrap(s.handleListTrips))
	mux.HandleFunc("POST /api/trips", s.wrap(s.handleCreateTrip))
	mux.HandleFunc("GET /api/trips/{id}", s.wrap(s.handleGetTrip))
	mux.HandleFunc("PUT /api/trips/{id}", s.wrap(s.handleUpdateTrip))
	mux.HandleFunc("DELETE /api/trips/{id}", s.wrap(s.handleDeleteTrip))

	mux.HandleFunc("GET /api/drivers", s.wrap(s.handleListDrivers))
	mux.HandleFunc("POST /api/drivers", s.wrap(s.handleCreateDriver))
	mux.HandleFunc("GET /api/drivers/{id}", s.wrap(s.handleGetDriver))
	mux.HandleFunc("PUT /api/drivers/{id}", s.wrap(s.handleUpdateDriver))
	mux.HandleFunc("DELETE /api/drivers/{id}", s.wrap(s.handleDeleteDriver))

	mux.HandleFunc("GET /api/vehicles", s.wrap(s.handleListVehicles))
	mux.HandleFunc("POST /api/vehicles", s.wrap(s.handleCreateVehicle))
	mux.HandleFunc("GET /api/vehicles/{id}", s.wrap(s.handleGetVehicle))
	mux.HandleFunc("PUT /api/vehicles/{id}", s.wrap(s.handleUpdateVehicle))
	mux.HandleFunc("DELETE /api/vehicles/{id}", s.wrap(s.handleDeleteVehicle))

	mux.HandleFunc("GET /api/overview", s.wrap(s.handleOverview))
	mux.HandleFunc("GET /api/reports/summary", s.wrap(s.handleReportSummary))
	mux.HandleFunc("GET /api/reports/export", s.wrap(s.handleReportExport))

	return s
}

// wrap adds security headers, rate limiting on mutating methods, a
// request id and request logging to a handler.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := uuid.NewString()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			s.error(w, r, http.StatusTooManyRequests, "rate_limited", s.i18n.T("messages.rateLimited"), nil)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown gracefully stops the server and the rate limiter cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
