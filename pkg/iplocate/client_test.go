package iplocate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/", r.URL.Path)
		w.Write([]byte(`{"status":"success","lat":12.97,"lon":77.59,"city":"Bengaluru","country":"India"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	pos, err := client.Locate(context.Background())
	require.NoError(t, err)
	require.True(t, pos.Matched)
	assert.InDelta(t, 12.97, pos.Lat, 0.001)
	assert.InDelta(t, 77.59, pos.Lon, 0.001)
	assert.Equal(t, "Bengaluru", pos.City)
}

func TestLocateIP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/8.8.8.8", r.URL.Path)
		w.Write([]byte(`{"status":"success","lat":37.4,"lon":-122.0,"city":"Mountain View","country":"United States"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	pos, err := client.LocateIP(context.Background(), "8.8.8.8")
	require.NoError(t, err)
	require.True(t, pos.Matched)
	assert.Equal(t, "Mountain View", pos.City)
}

func TestLocate_FailStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	pos, err := client.Locate(context.Background())
	require.NoError(t, err)
	assert.False(t, pos.Matched)
}

func TestLocate_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	_, err := client.Locate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 429")
}
