package monitor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nerrad567/imou-core/internal/infrastructure/config"
	"github.com/nerrad567/imou-core/internal/infrastructure/logging"
)

// gracefulShutdownTimeout is the maximum time to wait for in-flight requests
// to complete during shutdown.
const gracefulShutdownTimeout = 10 * time.Second

// httpServer exposes the monitor over HTTP: health, device listings,
// per-device diagnostics and the Prometheus scrape endpoint.
type httpServer struct {
	monitor *Monitor
	cfg     config.MonitorHTTPConfig
	log     *logging.Logger
	server  *http.Server
}

func newHTTPServer(m *Monitor, cfg config.MonitorHTTPConfig, logger *logging.Logger) *httpServer {
	return &httpServer{
		monitor: m,
		cfg:     cfg,
		log:     logger.With("component", "http"),
	}
}

// deviceSummary is one row of the device listing.
type deviceSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Model       string `json:"model"`
	Firmware    string `json:"firmware"`
	Online      bool   `json:"online"`
	Enabled     bool   `json:"enabled"`
	Initialized bool   `json:"initialized"`
}

// start launches the HTTP listener in a background goroutine.
func (s *httpServer) start() error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       s.cfg.GetReadTimeout(),
		ReadHeaderTimeout: s.cfg.GetReadTimeout(),
		WriteTimeout:      s.cfg.GetWriteTimeout(),
		IdleTimeout:       s.cfg.GetIdleTimeout(),
	}

	go func() {
		s.log.Info("HTTP server starting", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// close gracefully shuts down the HTTP server.
func (s *httpServer) close() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), gracefulShutdownTimeout)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}
	return nil
}

// buildRouter creates the HTTP router with all routes.
func (s *httpServer) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/devices", s.handleListDevices)
	r.Route("/devices/{id}", func(r chi.Router) {
		r.Get("/diagnostics", s.handleDiagnostics)
		r.Get("/dump", s.handleDump)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.monitor.registry, promhttp.HandlerOpts{}))

	return r
}

// handleHealth returns the monitor health status.
func (s *httpServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"devices": len(s.monitor.Devices()),
	})
}

// handleListDevices returns a summary of every monitored device.
func (s *httpServer) handleListDevices(w http.ResponseWriter, _ *http.Request) {
	devices := s.monitor.Devices()
	out := make([]deviceSummary, 0, len(devices))
	for _, dev := range devices {
		out = append(out, deviceSummary{
			ID:          dev.ID(),
			Name:        dev.Name(),
			Model:       dev.Model(),
			Firmware:    dev.Firmware(),
			Online:      dev.Online(),
			Enabled:     dev.IsEnabled(),
			Initialized: dev.IsInitialized(),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleDiagnostics returns the structured diagnostics snapshot of one device.
func (s *httpServer) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	dev := s.monitor.DeviceByID(chi.URLParam(r, "id"))
	if dev == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "device not found"})
		return
	}
	writeJSON(w, http.StatusOK, dev.Diagnostics())
}

// handleDump returns the human-readable dump of one device.
func (s *httpServer) handleDump(w http.ResponseWriter, r *http.Request) {
	dev := s.monitor.DeviceByID(chi.URLParam(r, "id"))
	if dev == nil {
		writeJSON(w, http.StatusNotFound, map[string]any{"error": "device not found"})
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(dev.Dump()))
}

// writeJSON serialises a response body with the right headers.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
