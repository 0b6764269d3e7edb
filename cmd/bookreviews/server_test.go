package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/emzola/bookreviews/internal/jsonlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownWaitsForNotificationEmails(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: http.NotFoundHandler()}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	var wg sync.WaitGroup
	var sent atomic.Bool
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(50 * time.Millisecond)
		sent.Store(true)
	}()

	logger := jsonlog.New(io.Discard, jsonlog.LevelInfo)
	require.NoError(t, shutdown(context.Background(), srv, &wg, logger))
	assert.True(t, sent.Load())
	assert.ErrorIs(t, <-served, http.ErrServerClosed)
}
