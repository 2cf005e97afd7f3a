package server

import (
	"bytes"
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brand-registry/backend/internal/common/logger"
)

func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestRun_ShutsDownAndRunsHooks(t *testing.T) {
	cfg := DefaultServerConfig("0")
	cfg.Addr = freeAddr(t)
	cfg.ShutdownTimeout = 2 * time.Second
	cfg.DrainTimeout = time.Second

	srv := NewServer(cfg, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	log := logger.NewWriter(&bytes.Buffer{}, "test", "DEBUG")

	ctx, cancel := context.WithCancel(context.Background())

	hookCalls := 0
	hooks := []ShutdownHook{
		func(ctx context.Context) error { hookCalls++; return nil },
		func(ctx context.Context) error { hookCalls++; return errors.New("close failed") },
	}

	done := make(chan error, 1)
	go func() { done <- Run(ctx, srv, cfg, log, "test", hooks...) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + cfg.Addr)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNoContent
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, 2, hookCalls)
}

func TestRun_ListenFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := DefaultServerConfig("0")
	cfg.Addr = l.Addr().String()
	srv := NewServer(cfg, http.NotFoundHandler())
	log := logger.NewWriter(&bytes.Buffer{}, "test", "DEBUG")

	err = Run(context.Background(), srv, cfg, log, "test")
	assert.Error(t, err)
}

func TestDefaultServerConfig(t *testing.T) {
	cfg := DefaultServerConfig("8080")
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Positive(t, cfg.ShutdownTimeout)
	assert.Positive(t, cfg.DrainTimeout)
}
