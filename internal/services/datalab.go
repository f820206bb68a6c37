package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/seojun-park/naverboard/internal/cache"
	"github.com/seojun-park/naverboard/internal/config"
	"github.com/seojun-park/naverboard/internal/models"
)

// Naver DataLab endpoint paths.
const (
	EndpointTrend     = "/v1/datalab/search"
	EndpointShopCat   = "/v1/datalab/shopping/categories"
	EndpointShopCatKw = "/v1/datalab/shopping/category/keywords"
)

// KeywordGroup is one named keyword set in a search trend request.
type KeywordGroup struct {
	GroupName string   `json:"groupName"`
	Keywords  []string `json:"keywords"`
}

// TrendRequest is the body of a /datalab/search call.
type TrendRequest struct {
	StartDate     string         `json:"startDate"`
	EndDate       string         `json:"endDate"`
	TimeUnit      string         `json:"timeUnit"`
	KeywordGroups []KeywordGroup `json:"keywordGroups"`
	Device        string         `json:"device,omitempty"`
	Ages          []string       `json:"ages,omitempty"`
	Gender        string         `json:"gender,omitempty"`
}

// categoryParam is one category entry of a shopping categories request.
type categoryParam struct {
	Name  string   `json:"name"`
	Param []string `json:"param"`
}

// shoppingCategoriesBody is the wire body of a shopping categories call.
type shoppingCategoriesBody struct {
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	TimeUnit  string          `json:"timeUnit"`
	Category  []categoryParam `json:"category"`
	Device    string          `json:"device,omitempty"`
	Ages      []string        `json:"ages,omitempty"`
	Gender    string          `json:"gender,omitempty"`
}

// shoppingKeywordsBody is the wire body of a category keywords call. Here
// category is a single cat_id string, not a list.
type shoppingKeywordsBody struct {
	StartDate string          `json:"startDate"`
	EndDate   string          `json:"endDate"`
	TimeUnit  string          `json:"timeUnit"`
	Category  string          `json:"category"`
	Keyword   []categoryParam `json:"keyword"`
	Device    string          `json:"device,omitempty"`
	Ages      []string        `json:"ages,omitempty"`
	Gender    string          `json:"gender,omitempty"`
}

// trendEnvelope is the common response shape of all DataLab endpoints.
type trendEnvelope struct {
	StartDate string              `json:"startDate"`
	EndDate   string              `json:"endDate"`
	TimeUnit  string              `json:"timeUnit"`
	Results   []models.TrendGroup `json:"results"`
}

// DataLabClient calls the Naver DataLab endpoints: JSON POST, same auth
// headers as search, same response caching policy.
type DataLabClient struct {
	// BaseURL is prepended to the endpoint paths; overridable for tests.
	BaseURL string

	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewDataLabClient creates a DataLab client over the given response cache.
func NewDataLabClient(responseCache cache.Cache, cacheTTL time.Duration) *DataLabClient {
	return &DataLabClient{
		BaseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
		cache:      responseCache,
		cacheTTL:   cacheTTL,
	}
}

// SearchTrend fetches relative search volume series for up to five keyword
// groups.
func (d *DataLabClient) SearchTrend(ctx context.Context, creds config.Credentials, req TrendRequest) ([]models.TrendGroup, error) {
	return d.post(ctx, creds, EndpointTrend, req)
}

// ShoppingCategories fetches click trend series for up to three shopping
// categories.
func (d *DataLabClient) ShoppingCategories(ctx context.Context, creds config.Credentials, r models.ShoppingCategoriesRequest) ([]models.TrendGroup, error) {
	body := shoppingCategoriesBody{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		TimeUnit:  r.TimeUnit,
		Device:    r.Device,
		Ages:      r.Ages,
		Gender:    r.Gender,
	}
	for _, c := range r.Categories {
		body.Category = append(body.Category, categoryParam{Name: c.Name, Param: []string{c.Param}})
	}
	return d.post(ctx, creds, EndpointShopCat, body)
}

// ShoppingKeywords fetches click trend series for up to five keywords
// within one shopping category.
func (d *DataLabClient) ShoppingKeywords(ctx context.Context, creds config.Credentials, r models.ShoppingKeywordsRequest) ([]models.TrendGroup, error) {
	body := shoppingKeywordsBody{
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		TimeUnit:  r.TimeUnit,
		Category:  r.CategoryID,
		Device:    r.Device,
		Ages:      r.Ages,
		Gender:    r.Gender,
	}
	for _, k := range r.Keywords {
		body.Keyword = append(body.Keyword, categoryParam{Name: k.Name, Param: []string{k.Param}})
	}
	return d.post(ctx, creds, EndpointShopCatKw, body)
}

func (d *DataLabClient) post(ctx context.Context, creds config.Credentials, endpoint string, body interface{}) ([]models.TrendGroup, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal datalab request: %w", err)
	}

	key := "datalab|" + endpoint + "|" + credFingerprint(creds) + "|" + string(payload)
	status, respBody, err := d.roundTrip(ctx, creds, endpoint, payload, key)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{Endpoint: d.BaseURL + endpoint, StatusCode: status, Body: string(respBody)}
	}

	var envelope trendEnvelope
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("parse datalab response: %w", err)
	}
	return envelope.Results, nil
}

func (d *DataLabClient) roundTrip(ctx context.Context, creds config.Credentials, endpoint string, payload []byte, key string) (int, []byte, error) {
	if raw, ok := d.cache.Get(ctx, key); ok {
		var cached cachedResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			log.Printf("[DEBUG] cache hit for %s", endpoint)
			return cached.StatusCode, cached.Body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build datalab request: %w", err)
	}
	setAuthHeaders(req, creds)
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute datalab request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read datalab response: %w", err)
	}

	if raw, err := json.Marshal(cachedResponse{StatusCode: resp.StatusCode, Body: body}); err == nil {
		d.cache.Set(ctx, key, raw, d.cacheTTL)
	}
	return resp.StatusCode, body, nil
}
