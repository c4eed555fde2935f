// Package display serves the live QR code over HTTP for a kiosk screen
// next to the lab door.
package display

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/labaccess/internal/client/render"
	"github.com/dmitrijs2005/labaccess/internal/common"
	"github.com/dmitrijs2005/labaccess/internal/logging"
	"github.com/dmitrijs2005/labaccess/internal/qr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	chirender "github.com/go-chi/render"
)

const shutdownTimeout = 5 * time.Second

// Source yields the current serialized payload.
type Source interface {
	Payload() (string, error)
}

type Server struct {
	src     Source
	metrics http.Handler
	logger  logging.Logger
	size    int
}

// NewServer builds a display for src. metrics may be nil, in which case
// /metrics is not mounted.
func NewServer(src Source, metrics http.Handler, logger logging.Logger) *Server {
	return &Server{
		src:     src,
		metrics: metrics,
		logger:  logger.With("component", "display"),
		size:    render.DefaultSize,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(noStore)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		chirender.JSON(w, r, map[string]string{"status": "ok"})
	})
	r.Get("/payload", s.handlePayload)
	r.Get("/qr.png", s.handlePNG)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	return r
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "display listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handlePayload(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.payload(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(payload))
}

func (s *Server) handlePNG(w http.ResponseWriter, r *http.Request) {
	payload, ok := s.payload(w, r)
	if !ok {
		return
	}

	p, err := qr.ParsePayload(payload)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	png, err := render.PNG(payload, render.PaletteFor(p.Status == qr.StatusExpired), s.size)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

func (s *Server) payload(w http.ResponseWriter, r *http.Request) (string, bool) {
	payload, err := s.src.Payload()
	if errors.Is(err, common.ErrNoToken) {
		writeError(w, r, http.StatusNotFound, "no_qr")
		return "", false
	}
	if err != nil {
		s.fail(w, r, err)
		return "", false
	}
	return payload, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error(r.Context(), "display request failed", "path", r.URL.Path, "error", err)
	writeError(w, r, http.StatusInternalServerError, "internal")
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string) {
	chirender.Status(r, status)
	chirender.JSON(w, r, map[string]string{"error": code})
}

func noStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
