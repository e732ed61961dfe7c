package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchEverything(t *testing.T) {
	payload := `{"status":"ok","articles":[{"title":"Stocks rally"}]}`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "stocks", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("apiKey"))
		assert.Equal(t, "publishedAt", r.URL.Query().Get("sortBy"))
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	c := New("secret", zap.NewNop())
	c.baseURL = srv.URL

	data, err := c.FetchEverything(context.Background(), "stocks")
	require.NoError(t, err)
	assert.JSONEq(t, payload, string(data))
}

func TestFetchEverythingNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New("bad-key", zap.NewNop())
	c.baseURL = srv.URL

	_, err := c.FetchEverything(context.Background(), "stocks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
