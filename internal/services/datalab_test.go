package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seojun-park/naverboard/internal/cache"
	"github.com/seojun-park/naverboard/internal/models"
)

func newTestDataLabClient(t *testing.T, handler http.HandlerFunc) *DataLabClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	mem := cache.NewMemory(cache.DefaultMemoryConfig())
	t.Cleanup(mem.Close)

	client := NewDataLabClient(mem, 10*time.Minute)
	client.BaseURL = srv.URL
	return client
}

const trendResponse = `{"startDate": "2026-01-01", "endDate": "2026-01-03", "timeUnit": "date",
	"results": [{"title": "커피", "keyword": ["커피"], "data": [{"period": "2026-01-01", "ratio": 55.5}]}]}`

func TestDataLabSearchTrend(t *testing.T) {
	var gotPath, gotContentType string
	var gotBody map[string]interface{}

	client := newTestDataLabClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Write([]byte(trendResponse))
	})

	groups, err := client.SearchTrend(context.Background(), testCreds, TrendRequest{
		StartDate:     "2026-01-01",
		EndDate:       "2026-01-03",
		TimeUnit:      "date",
		KeywordGroups: []KeywordGroup{{GroupName: "커피", Keywords: []string{"커피"}}},
		Device:        "pc",
		Gender:        "f",
		Ages:          []string{"20", "30"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/v1/datalab/search", gotPath)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "2026-01-01", gotBody["startDate"])
	assert.Equal(t, "date", gotBody["timeUnit"])
	assert.Equal(t, "pc", gotBody["device"])
	assert.Equal(t, "f", gotBody["gender"])
	kgs, ok := gotBody["keywordGroups"].([]interface{})
	require.True(t, ok)
	require.Len(t, kgs, 1)

	require.Len(t, groups, 1)
	assert.Equal(t, "커피", groups[0].Title)
	require.Len(t, groups[0].Data, 1)
	assert.Equal(t, "2026-01-01", groups[0].Data[0].Period)
	require.NotNil(t, groups[0].Data[0].Ratio)
	assert.Equal(t, 55.5, *groups[0].Data[0].Ratio)
}

func TestDataLabShoppingBodies(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	client := newTestDataLabClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &gotBody))
		w.Write([]byte(trendResponse))
	})
	ctx := context.Background()

	t.Run("categories sends name/param list", func(t *testing.T) {
		_, err := client.ShoppingCategories(ctx, testCreds, models.ShoppingCategoriesRequest{
			Categories: []models.NamedParam{{Name: "패션의류", Param: "50000000"}},
			StartDate:  "2026-01-01", EndDate: "2026-01-03", TimeUnit: "date",
		})
		require.NoError(t, err)
		assert.Equal(t, "/v1/datalab/shopping/categories", gotPath)

		cats, ok := gotBody["category"].([]interface{})
		require.True(t, ok)
		require.Len(t, cats, 1)
		first := cats[0].(map[string]interface{})
		assert.Equal(t, "패션의류", first["name"])
		assert.Equal(t, []interface{}{"50000000"}, first["param"])
	})

	t.Run("keywords sends category id string plus keyword list", func(t *testing.T) {
		_, err := client.ShoppingKeywords(ctx, testCreds, models.ShoppingKeywordsRequest{
			CategoryID: "50000000",
			Keywords:   []models.NamedParam{{Name: "정장", Param: "정장"}},
			StartDate:  "2026-01-01", EndDate: "2026-01-03", TimeUnit: "date",
		})
		require.NoError(t, err)
		assert.Equal(t, "/v1/datalab/shopping/category/keywords", gotPath)

		assert.Equal(t, "50000000", gotBody["category"])
		kws, ok := gotBody["keyword"].([]interface{})
		require.True(t, ok)
		require.Len(t, kws, 1)
	})
}

func TestDataLabCachingAndErrors(t *testing.T) {
	hits := 0
	client := newTestDataLabClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)
		if body["startDate"] == "1999-01-01" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte("window too old"))
			return
		}
		w.Write([]byte(trendResponse))
	})
	ctx := context.Background()

	req := TrendRequest{StartDate: "2026-01-01", EndDate: "2026-01-03", TimeUnit: "date",
		KeywordGroups: []KeywordGroup{{GroupName: "k", Keywords: []string{"k"}}}}

	_, err := client.SearchTrend(ctx, testCreds, req)
	require.NoError(t, err)
	_, err = client.SearchTrend(ctx, testCreds, req)
	require.NoError(t, err)
	assert.Equal(t, 1, hits, "identical POST body within TTL must be served from cache")

	req.EndDate = "2026-01-04"
	_, err = client.SearchTrend(ctx, testCreds, req)
	require.NoError(t, err)
	assert.Equal(t, 2, hits)

	req.StartDate = "1999-01-01"
	_, err = client.SearchTrend(ctx, testCreds, req)
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "window too old")
}
