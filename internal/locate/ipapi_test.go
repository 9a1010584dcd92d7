package locate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/milantony05/smart-kissan/internal/geo"
)

func TestIPAPISuccess(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","lat":21.1458,"lon":79.0882}`))
	}))
	t.Cleanup(srv.Close)

	p := &IPAPIProvider{Endpoint: srv.URL, Client: srv.Client()}
	c, err := p.CurrentPosition(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, geo.Coordinate{Lat: 21.1458, Lon: 79.0882}, c)
}

func TestIPAPIFailureStatusMapsToUnavailable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	t.Cleanup(srv.Close)

	p := &IPAPIProvider{Endpoint: srv.URL, Client: srv.Client()}
	_, err := p.CurrentPosition(context.Background(), Options{})
	require.ErrorIs(t, err, ErrPositionUnavailable)
}

func TestIPAPIRateLimitMapsToPermissionDenied(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	p := &IPAPIProvider{Endpoint: srv.URL, Client: srv.Client()}
	_, err := p.CurrentPosition(context.Background(), Options{})
	require.ErrorIs(t, err, ErrPermissionDenied)
}

func TestIPAPITimeout(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-block
	}))
	t.Cleanup(func() { close(block); srv.Close() })

	p := &IPAPIProvider{Endpoint: srv.URL, Client: srv.Client()}
	_, err := p.CurrentPosition(context.Background(), Options{Timeout: 50 * time.Millisecond})
	require.ErrorIs(t, err, ErrTimeout)
}

func TestFactory(t *testing.T) {
	t.Parallel()

	require.Nil(t, New(BackendNone, geo.Coordinate{}))
	require.Nil(t, New("", geo.Coordinate{}))
	require.IsType(t, &IPAPIProvider{}, New(BackendIPAPI, geo.Coordinate{}))

	p := New(BackendStatic, geo.Coordinate{Lat: 1, Lon: 2})
	c, err := p.CurrentPosition(context.Background(), Options{})
	require.NoError(t, err)
	require.Equal(t, geo.Coordinate{Lat: 1, Lon: 2}, c)
}
