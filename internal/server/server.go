package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/set-night/shopassist/internal/config"
	"github.com/set-night/shopassist/internal/domain"
	"github.com/set-night/shopassist/internal/service"
)

// Server exposes stored blobs over HTTP so the transcription backend can
// fetch recordings by URL.
type Server struct {
	httpServer *http.Server
}

func New(port int, blobs service.BlobStore) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           Routes(blobs),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Routes builds the HTTP handler.
func Routes(blobs service.BlobStore) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("GET /blobs/{category}/{name}", serveBlob(blobs))
	return recoverMiddleware(mux)
}

func serveBlob(blobs service.BlobStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.PathValue("category")
		name := r.PathValue("name")

		obj, data, err := blobs.Open(r.Context(), category, name)
		if err != nil {
			if errors.Is(err, domain.ErrBlobNotFound) {
				http.NotFound(w, r)
				return
			}
			slog.Error("open blob", "category", category, "name", name, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", obj.ContentType)
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Header().Set("Cache-Control", "private, max-age=300")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(data)
	}
}

func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				slog.Error("panic recovered in http handler", "panic", rec, "path", r.URL.Path)
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ServerShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
