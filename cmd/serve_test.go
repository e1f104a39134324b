package main

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeWithShutdownDrainsInflight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	release := make(chan struct{})
	mux := http.NewServeMux()
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusOK)
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- serveWithShutdown(ctx, &http.Server{Handler: mux}, ln)
	}()

	respCh := make(chan *http.Response, 1)
	reqErrCh := make(chan error, 1)
	go func() {
		resp, reqErr := http.Get("http://" + ln.Addr().String() + "/slow")
		if reqErr != nil {
			reqErrCh <- reqErr
			return
		}
		respCh <- resp
	}()

	// Begin shutdown while the request is in flight, then let the handler
	// finish: the request must still complete.
	<-started
	cancel()
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case resp := <-respCh:
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()
	case reqErr := <-reqErrCh:
		t.Fatalf("in-flight request failed during shutdown: %v", reqErr)
	case <-time.After(2 * time.Second):
		t.Fatal("in-flight request did not complete")
	}

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not shut down in time")
	}
}

func TestServeWithShutdownStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		done <- serveWithShutdown(ctx, &http.Server{Handler: http.NewServeMux()}, ln)
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
