package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/gyaneshwarpardhi/signuprelay/internal/config"
	"github.com/gyaneshwarpardhi/signuprelay/internal/event"
	"github.com/gyaneshwarpardhi/signuprelay/internal/hook"
	"github.com/gyaneshwarpardhi/signuprelay/internal/httperr"
	"github.com/gyaneshwarpardhi/signuprelay/internal/metrics"
)

// Dispatcher routes a verified webhook event to its handler.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev event.Event) (hook.Result, error)
}

// Handler holds all HTTP handler dependencies.
type Handler struct {
	dispatcher Dispatcher
	loader     *config.Loader
	mux        *http.ServeMux
}

// New creates an HTTP handler and registers all routes.
func New(dispatcher Dispatcher, loader *config.Loader) http.Handler {
	h := &Handler{dispatcher: dispatcher, loader: loader, mux: http.NewServeMux()}

	// The webhook route is registered without a method pattern so non-POST
	// requests get the JSON 405 envelope instead of the mux default.
	h.mux.HandleFunc("/v1/webhooks/frontegg", h.handleWebhook)
	h.mux.HandleFunc("GET /healthz", h.healthz)
	h.mux.HandleFunc("GET /readyz", h.readyz)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// handleWebhook runs the inbound pipeline: verify the shared-secret token,
// check the method, decode the event, dispatch. Every error funnels through
// httperr.Handle so the identity provider always sees the same envelope.
func (h *Handler) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if err := verifySecret(r.Header.Get(SecretHeader), h.loader.Config().Webhook.Secret); err != nil {
		metrics.EventsRejected.WithLabelValues("unauthorized").Inc()
		httperr.Handle(w, err)
		return
	}
	if r.Method != http.MethodPost {
		metrics.EventsRejected.WithLabelValues("method_not_allowed").Inc()
		httperr.Handle(w, httperr.MethodNotAllowed())
		return
	}

	var ev event.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		metrics.EventsRejected.WithLabelValues("bad_payload").Inc()
		httperr.Handle(w, httperr.BadRequest("invalid JSON body"))
		return
	}
	if ev.User.Email == "" {
		metrics.EventsRejected.WithLabelValues("bad_payload").Inc()
		httperr.Handle(w, httperr.BadRequest("user email is required"))
		return
	}
	metrics.EventsReceived.WithLabelValues(ev.EventKey).Inc()

	result, err := h.dispatcher.Dispatch(r.Context(), ev)
	if err != nil {
		var herr *httperr.Error
		if errors.As(err, &herr) && herr.StatusCode == http.StatusBadRequest {
			metrics.EventsRejected.WithLabelValues("invalid_event").Inc()
		} else {
			metrics.EventsRejected.WithLabelValues("dispatch_failed").Inc()
		}
		httperr.Handle(w, err)
		return
	}

	metrics.EventsProcessed.WithLabelValues(ev.EventKey).Inc()
	writeJSON(w, http.StatusOK, result)
}

// GET /healthz — always 200 (liveness probe).
func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GET /readyz — 503 if the current settings snapshot is invalid, which can
// happen after a bad hot reload.
func (h *Handler) readyz(w http.ResponseWriter, r *http.Request) {
	if err := config.Validate(h.loader.Config()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// statusWriter records the status code written by the inner handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs one line per request with a generated delivery id.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		slog.Info("request",
			"delivery_id", uuid.New().String(),
			"method", r.Method,
			"path", r.URL.Path,
			"status", sw.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
