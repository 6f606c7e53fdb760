package http

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeServer struct {
	listenErr error
	stop      chan struct{}
	shutdowns int
}

func (s *fakeServer) ListenAndServe() error {
	if s.listenErr != nil {
		return s.listenErr
	}
	<-s.stop
	return http.ErrServerClosed
}

func (s *fakeServer) Shutdown(context.Context) error {
	s.shutdowns++
	close(s.stop)
	return nil
}

func TestServerShutsDownOnCancel(t *testing.T) {
	fake := &fakeServer{stop: make(chan struct{})}
	srv := NewServer(fake, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
	assert.Equal(t, 1, fake.shutdowns)
}

func TestServerReportsListenFailure(t *testing.T) {
	fake := &fakeServer{listenErr: errors.New("address already in use"), stop: make(chan struct{})}
	err := NewServer(fake, time.Second).Serve(context.Background())
	assert.ErrorContains(t, err, "address already in use")
}
