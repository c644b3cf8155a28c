package classlookup

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"starships-server/internal/shared/config"
	"starships-server/internal/shared/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.ClassLookupConfig{
		Mode:    config.LookupModeHTTP,
		BaseURL: srv.URL + "/",
		Timeout: time.Second,
	}, discardLogger())
}

func TestClientGetCapacity(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/starship-class/7/capacity", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":7,"fuelCapacity":100,"hullPoints":40}`)
	})

	capacity, err := client.GetCapacity(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, 7, capacity.ID)
	assert.Equal(t, 100, capacity.FuelCapacity)
	require.NotNil(t, capacity.HullPoints)
	assert.Equal(t, 40, *capacity.HullPoints)
}

func TestClientGetCapacityNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
	})

	_, err := client.GetCapacity(context.Background(), 99)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeNotFound, errors.GetType(err))
}

func TestClientGetCapacityUpstreamFailure(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `not json`)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.handler)

			_, err := client.GetCapacity(context.Background(), 1)
			require.Error(t, err)
			assert.Equal(t, errors.ErrorTypeExternal, errors.GetType(err))
		})
	}
}

func TestClientGetCapacityUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(config.ClassLookupConfig{BaseURL: baseURL, Timeout: time.Second}, discardLogger())

	_, err := client.GetCapacity(context.Background(), 1)
	require.Error(t, err)
	assert.Equal(t, errors.ErrorTypeExternal, errors.GetType(err))
}
