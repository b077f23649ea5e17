package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestServer_Health(t *testing.T) {
	tests := []struct {
		name           string
		health         HealthChecker
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "no database configured",
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"healthy","database":"not configured"}`,
		},
		{
			name:           "database reachable",
			health:         pingFunc(func(context.Context) error { return nil }),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"status":"healthy","database":"connected"}`,
		},
		{
			name:           "database unreachable",
			health:         pingFunc(func(context.Context) error { return errors.New("connection refused") }),
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   `{"status":"unhealthy","error":"database unreachable"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := New("127.0.0.1:0", tc.health, "release")

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			resp := httptest.NewRecorder()
			srv.Engine.ServeHTTP(resp, req)

			require.Equal(t, tc.expectedStatus, resp.Code)
			require.JSONEq(t, tc.expectedBody, resp.Body.String())
		})
	}
}

func TestServer_HealthPingHasDeadline(t *testing.T) {
	var hasDeadline bool
	srv := New("127.0.0.1:0", pingFunc(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}), "release")

	resp := httptest.NewRecorder()
	srv.Engine.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.True(t, hasDeadline)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	srv := New(addr, nil, "release")
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Run(ctx) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/health")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not stop after cancel")
	}
}
