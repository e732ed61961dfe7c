package rssnews

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/equilake/equilake/pkg/models"
)

const testFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Test Markets</title>
    <item>
      <title>Stocks rally on earnings</title>
      <link>https://example.com/rally</link>
      <description>&lt;p&gt;Markets &lt;b&gt;surge&lt;/b&gt; on strong earnings&lt;/p&gt;</description>
      <pubDate>Fri, 05 Jan 2024 10:00:00 GMT</pubDate>
    </item>
  </channel>
</rss>`

func TestFetchPayloadShape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testFeed))
	}))
	defer srv.Close()

	c := NewWithSources([]Source{{Name: "Test Markets", RSSURL: srv.URL}}, zap.NewNop())

	data, err := c.FetchPayload(context.Background(), 10)
	require.NoError(t, err)

	// The payload unmarshals exactly like a NewsAPI response.
	var payload models.RawNewsPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	require.Len(t, payload.Articles, 1)

	a := payload.Articles[0]
	assert.Equal(t, "Stocks rally on earnings", a["title"])
	assert.Equal(t, "Markets surge on strong earnings", a["content"]) // HTML stripped
	assert.Equal(t, "https://example.com/rally", a["url"])
	assert.Equal(t, "2024-01-05T10:00:00Z", a["publishedAt"])
	src, ok := a["source"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Test Markets", src["name"])
}

func TestFetchPayloadSkipsFailedSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWithSources([]Source{{Name: "Broken", RSSURL: srv.URL}}, zap.NewNop())

	data, err := c.FetchPayload(context.Background(), 10)
	require.NoError(t, err)

	var payload models.RawNewsPayload
	require.NoError(t, json.Unmarshal(data, &payload))
	assert.Empty(t, payload.Articles)
}

func TestCleanHTML(t *testing.T) {
	assert.Equal(t, "", cleanHTML(""))
	assert.Equal(t, "plain text", cleanHTML("plain text"))
	assert.Equal(t, "bold and linked", cleanHTML(`<b>bold</b> and <a href="x">linked</a>`))
}
