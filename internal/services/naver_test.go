package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojun-park/naverboard/internal/cache"
	"github.com/seojun-park/naverboard/internal/config"
	"github.com/seojun-park/naverboard/internal/models"
)

var testCreds = config.Credentials{ClientID: "test-id", ClientSecret: "test-secret"}

func newTestSearchClient(t *testing.T, handler http.HandlerFunc) (*SearchClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mem := cache.NewMemory(cache.DefaultMemoryConfig())
	t.Cleanup(mem.Close)

	client := NewSearchClient(mem, 10*time.Minute)
	client.BaseURL = srv.URL
	return client, srv
}

func TestSearchClientRequestShape(t *testing.T) {
	var gotPath string
	var gotHeader http.Header
	var gotQuery map[string][]string

	client, _ := newTestSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeader = r.Header.Clone()
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"total": 42, "start": 1, "display": 2, "items": [
			{"title": "<b>first</b>", "link": "http://a", "description": "d1", "bloggername": "bn", "postdate": "20260101"},
			{"title": "second", "link": "http://b", "description": "d2", "bloggername": "bn2", "postdate": "20260102"}
		]}`))
	})

	payload, err := client.Search(context.Background(), testCreds, EndpointBlog, "리뷰 자동화", 1, 100, "sim")
	require.NoError(t, err)

	assert.Equal(t, "/v1/search/blog.json", gotPath)
	assert.Equal(t, "test-id", gotHeader.Get("X-Naver-Client-Id"))
	assert.Equal(t, "test-secret", gotHeader.Get("X-Naver-Client-Secret"))
	assert.Equal(t, []string{"리뷰 자동화"}, gotQuery["query"])
	assert.Equal(t, []string{"1"}, gotQuery["start"])
	assert.Equal(t, []string{"100"}, gotQuery["display"])
	assert.Equal(t, []string{"sim"}, gotQuery["sort"])

	assert.Equal(t, 42, payload.Total)
	assert.Equal(t, 1, payload.Start)
	require.Len(t, payload.Docs, 2)

	blog, ok := payload.Docs[0].(*models.BlogItem)
	require.True(t, ok)
	assert.Equal(t, "<b>first</b>", blog.Title)
	assert.Equal(t, "bn", blog.BloggerName)
}

func TestSearchClientCaching(t *testing.T) {
	hits := 0
	client, _ := newTestSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(`{"total": 1, "start": 1, "display": 1, "items": []}`))
	})

	ctx := context.Background()
	_, err := client.Search(ctx, testCreds, EndpointBlog, "q", 1, 100, "sim")
	require.NoError(t, err)
	_, err = client.Search(ctx, testCreds, EndpointBlog, "q", 1, 100, "sim")
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "identical request within TTL must be served from cache")

	// Any differing parameter misses the cache.
	_, err = client.Search(ctx, testCreds, EndpointBlog, "q", 1, 100, "date")
	require.NoError(t, err)
	assert.Equal(t, 2, hits)

	_, err = client.Search(ctx, testCreds, EndpointBlog, "q", 101, 100, "sim")
	require.NoError(t, err)
	assert.Equal(t, 3, hits)

	// Different credentials never share entries.
	other := config.Credentials{ClientID: "other", ClientSecret: "secret"}
	_, err = client.Search(ctx, other, EndpointBlog, "q", 1, 100, "sim")
	require.NoError(t, err)
	assert.Equal(t, 4, hits)
}

func TestSearchClientAPIError(t *testing.T) {
	client, srv := newTestSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"errorMessage": "quota exceeded"}`))
	})

	_, err := client.Search(context.Background(), testCreds, EndpointBlog, "q", 1, 100, "sim")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, srv.URL+EndpointBlog, apiErr.Endpoint)
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "quota exceeded")
}

func TestSearchClientErrorResponsesAreCached(t *testing.T) {
	hits := 0
	client, _ := newTestSearchClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("bad query"))
	})

	ctx := context.Background()
	_, err := client.Search(ctx, testCreds, EndpointBlog, "q", 1, 100, "sim")
	require.Error(t, err)
	_, err = client.Search(ctx, testCreds, EndpointBlog, "q", 1, 100, "sim")
	require.Error(t, err)
	assert.Equal(t, 1, hits, "a failing request must not burn quota within the TTL")
}

func TestDecodeSearchPayloadPerEndpoint(t *testing.T) {
	t.Run("cafe", func(t *testing.T) {
		payload, err := decodeSearchPayload(EndpointCafe, []byte(
			`{"total": 1, "items": [{"title": "t", "cafename": "c", "cafeurl": "u"}]}`))
		require.NoError(t, err)
		require.Len(t, payload.Docs, 1)
		item, ok := payload.Docs[0].(*models.CafeItem)
		require.True(t, ok)
		assert.Equal(t, "c", item.CafeName)
	})

	t.Run("local", func(t *testing.T) {
		payload, err := decodeSearchPayload(EndpointLocal, []byte(
			`{"total": 1, "items": [{"title": "t", "category": "cat", "address": "a", "roadAddress": "r", "mapx": "1", "mapy": "2"}]}`))
		require.NoError(t, err)
		require.Len(t, payload.Docs, 1)
		item, ok := payload.Docs[0].(*models.LocalItem)
		require.True(t, ok)
		assert.Equal(t, "cat", item.Category)
		assert.Equal(t, "r", item.RoadAddress)
	})

	t.Run("unknown endpoint", func(t *testing.T) {
		_, err := decodeSearchPayload("/v1/search/unknown.json", []byte(`{"items": [{}]}`))
		assert.Error(t, err)
	})
}
