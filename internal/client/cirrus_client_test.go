package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func newTestLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestCirrusClientFetchDirectArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/assets", r.URL.Path)
		assert.Equal(t, "alice smith", r.URL.Query().Get("owner"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":"t1","name":"STKN","quantity":"1000","decimals":2}]`))
	}))
	defer server.Close()

	c := NewCirrusClient(server.URL, 5*time.Second, newTestLimiter(), nil, zap.NewNop())
	records, err := c.FetchAssetsByOwner(context.Background(), "alice smith")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "STKN", records[0].Name)
	assert.Equal(t, "1000", records[0].Quantity)
	require.NotNil(t, records[0].Decimals)
	assert.Equal(t, 2, *records[0].Decimals)
}

func TestCirrusClientFetchWrappedObject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"assets":[{"id":"t1","name":"STKN","quantity":"5"}]}`))
	}))
	defer server.Close()

	c := NewCirrusClient(server.URL, 5*time.Second, newTestLimiter(), nil, zap.NewNop())
	records, err := c.FetchAssetsByOwner(context.Background(), "alice")

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Nil(t, records[0].Decimals)
}

func TestCirrusClientAttachesBearerToken(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	tokens := &staticTokenProvider{token: "sekrit"}
	c := NewCirrusClient(server.URL, 5*time.Second, newTestLimiter(), tokens, zap.NewNop())
	_, err := c.FetchAssetsByOwner(context.Background(), "alice")

	require.NoError(t, err)
	assert.Equal(t, "Bearer sekrit", gotAuth)
}

func TestCirrusClientWrappedNullListIsEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"assets":null}`))
	}))
	defer server.Close()

	c := NewCirrusClient(server.URL, 5*time.Second, newTestLimiter(), nil, zap.NewNop())
	records, err := c.FetchAssetsByOwner(context.Background(), "alice")

	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCirrusClientNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewCirrusClient(server.URL, 5*time.Second, newTestLimiter(), nil, zap.NewNop())
	_, err := c.FetchAssetsByOwner(context.Background(), "alice")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCirrusClientEmptyOwnerRejected(t *testing.T) {
	c := NewCirrusClient("http://localhost:1", time.Second, newTestLimiter(), nil, zap.NewNop())
	_, err := c.FetchAssetsByOwner(context.Background(), "")
	require.Error(t, err)
}

type staticTokenProvider struct{ token string }

func (s *staticTokenProvider) AccessToken(_ context.Context) (string, error) {
	return s.token, nil
}
