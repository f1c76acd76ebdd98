// Package daemon exposes the scan pipeline over HTTP.
package daemon

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/cors"

	"scorescan/internal/logging"
	"scorescan/internal/scanner"
	"scorescan/internal/strategy"
)

// maxScanBodyBytes bounds the request body; a 1024px JPEG encodes to far
// less than this even with base64 overhead.
const maxScanBodyBytes = 20 << 20

// Server is the HTTP front end.
type Server struct {
	bind              string
	scanner           *scanner.Scanner
	defaultInstrument string
	logger            *slog.Logger

	listener net.Listener
	server   *http.Server
	stopOnce sync.Once
}

// New builds the server around an assembled scan pipeline.
func New(bind string, scan *scanner.Scanner, defaultInstrument string, logger *slog.Logger) (*Server, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, errors.New("daemon: bind address required")
	}
	if scan == nil {
		return nil, errors.New("daemon: scanner required")
	}
	if defaultInstrument == "" {
		defaultInstrument = strategy.DefaultInstrument
	}

	srv := &Server{
		bind:              bind,
		scanner:           scan,
		defaultInstrument: defaultInstrument,
		logger:            logging.NewComponentLogger(logger, "api-server"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", srv.handleHealth)
	mux.HandleFunc("/instruments", srv.handleInstruments)
	mux.HandleFunc("/scan", srv.handleScan)

	srv.server = &http.Server{
		Handler:           cors.AllowAll().Handler(mux),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}
	return srv, nil
}

// Start begins serving and shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("daemon: listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, letting in-flight scans finish briefly.
// Safe to call more than once and from concurrent goroutines; the context
// watcher started by Start and the entrypoint may both reach it.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		if s.server != nil {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = s.server.Shutdown(shutdownCtx)
		}
		if s.listener != nil {
			_ = s.listener.Close()
			s.listener = nil
		}
	})
}

// Addr reports the bound listen address, or empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Handler exposes the routing stack for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "scorescan",
	})
}

func (s *Server) handleInstruments(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"supported_instruments": strategy.SupportedInstruments,
		"default":               s.defaultInstrument,
		"total_count":           len(strategy.SupportedInstruments),
	})
}

type scanRequest struct {
	Image      string `json:"image"`
	Instrument string `json:"instrument"`
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	correlationID := uuid.NewString()
	logger := s.logger.With(logging.String(logging.FieldCorrelationID, correlationID))
	w.Header().Set("X-Correlation-ID", correlationID)

	var req scanRequest
	body := http.MaxBytesReader(w, r.Body, maxScanBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "No JSON data provided")
		return
	}
	if strings.TrimSpace(req.Image) == "" {
		s.writeError(w, http.StatusBadRequest, "No image data provided")
		return
	}
	if strings.TrimSpace(req.Instrument) == "" {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":                 "Instrument parameter is required",
			"supported_instruments": strategy.SupportedInstruments[:10],
			"example":               s.defaultInstrument,
		})
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.Image)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid base64 image data")
		return
	}

	logger.Info("scan request received",
		logging.String("instrument", req.Instrument),
		logging.Int("image_bytes", len(image)))

	result, err := s.scanner.Scan(r.Context(), scanner.Request{
		Image:      image,
		Instrument: req.Instrument,
	})
	if err != nil {
		kind := scanner.KindOf(err)
		if kind == "" {
			logger.Error("scan failed unexpectedly", logging.Error(err))
			s.writeJSON(w, http.StatusInternalServerError, scanner.ErrorEnvelope(err))
			return
		}
		logger.Warn("scan failed",
			logging.String("kind", string(kind)),
			logging.String("reason", scanner.ReasonOf(err)))
		s.writeJSON(w, http.StatusUnprocessableEntity, scanner.ErrorEnvelope(err))
		return
	}

	logger.Info("scan request complete", logging.Int("videos", len(result.Videos)))
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}
