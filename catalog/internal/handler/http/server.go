package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

type httpServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// Server runs an HTTP server as a supervised service.
type Server struct {
	server          httpServer
	shutdownTimeout time.Duration
}

// NewServer wraps server. On shutdown, in-flight requests get up to
// shutdownTimeout to finish.
func NewServer(server httpServer, shutdownTimeout time.Duration) *Server {
	return &Server{server: server, shutdownTimeout: shutdownTimeout}
}

func (s *Server) String() string {
	return "http-server"
}

// Serve listens until ctx is cancelled, then shuts the server down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown failed: %w", err)
		}
		<-errCh
		return ctx.Err()
	}
}
