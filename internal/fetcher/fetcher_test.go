package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finops-claw-gang/pairdiff/internal/jsondiff"
	"github.com/finops-claw-gang/pairdiff/internal/ratelimit"
)

func jsonServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_Success(t *testing.T) {
	t.Parallel()
	srv := jsonServer(t, http.StatusOK, `{"b":1,"a":{"c":"x"}}`)

	res := New(Options{Timeout: 5 * time.Second}).Fetch(context.Background(), srv.URL)
	require.True(t, res.OK, res.Err)
	assert.Empty(t, res.Err)
	assert.Equal(t, `{"b":1,"a":{"c":"x"}}`, res.Document.String())
}

func TestFetch_Failures(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr string
	}{
		{name: "not found", status: http.StatusNotFound, body: `{}`, wantErr: "unexpected status 404"},
		{name: "server error", status: http.StatusInternalServerError, body: ``, wantErr: "unexpected status 500"},
		{name: "not json", status: http.StatusOK, body: `<html></html>`, wantErr: "decode response"},
		{name: "empty body", status: http.StatusOK, body: ``, wantErr: "empty document"},
		{name: "truncated", status: http.StatusOK, body: `{"a":`, wantErr: "decode response"},
		{name: "nested too deep", status: http.StatusOK, body: strings.Repeat("[", 20000) + strings.Repeat("]", 20000), wantErr: "decode response: jsondiff: decode: exceeded max depth 10000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := jsonServer(t, tt.status, tt.body)
			res := New(Options{}).Fetch(context.Background(), srv.URL)
			assert.False(t, res.OK)
			assert.Contains(t, res.Err, tt.wantErr)
			assert.True(t, res.Document.IsNull())
		})
	}
}

func TestFetch_NetworkError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := New(Options{}).Fetch(context.Background(), url)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "request failed")
}

func TestFetch_InvalidURL(t *testing.T) {
	t.Parallel()
	res := New(Options{}).Fetch(context.Background(), "://missing-scheme")
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "invalid request")
}

func TestFetch_Timeout(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	res := New(Options{Timeout: 50 * time.Millisecond}).Fetch(context.Background(), srv.URL)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "request failed")
}

func TestFetch_MaxBodyBytes(t *testing.T) {
	t.Parallel()
	srv := jsonServer(t, http.StatusOK, `{"key":"a fairly long value"}`)

	res := New(Options{MaxBodyBytes: 8}).Fetch(context.Background(), srv.URL)
	assert.False(t, res.OK)
	assert.Equal(t, "response body exceeds 8 bytes", res.Err)

	res = New(Options{MaxBodyBytes: 1 << 10}).Fetch(context.Background(), srv.URL)
	assert.True(t, res.OK, res.Err)
}

func TestFetch_RateLimitCancelled(t *testing.T) {
	t.Parallel()
	srv := jsonServer(t, http.StatusOK, `{}`)
	f := New(Options{Limiter: ratelimit.NewHostLimiter(0.001, 1)})

	require.True(t, f.Fetch(context.Background(), srv.URL).OK)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res := f.Fetch(ctx, srv.URL)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "rate limit")
}

func TestNewWithHTTPClient(t *testing.T) {
	t.Parallel()
	srv := jsonServer(t, http.StatusCreated, `[1,2]`)

	res := NewWithHTTPClient(srv.Client(), Options{}).Fetch(context.Background(), srv.URL)
	require.True(t, res.OK, res.Err)
	assert.Equal(t, jsondiff.KindArray, res.Document.Kind())
}
