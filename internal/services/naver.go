package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/go-pkgz/lgr"

	"github.com/seojun-park/naverboard/internal/cache"
	"github.com/seojun-park/naverboard/internal/config"
	"github.com/seojun-park/naverboard/internal/models"
)

// DefaultBaseURL is the Naver Open API host.
const DefaultBaseURL = "https://openapi.naver.com"

// Naver Open API search endpoint paths.
const (
	EndpointBlog  = "/v1/search/blog.json"
	EndpointCafe  = "/v1/search/cafearticle.json"
	EndpointLocal = "/v1/search/local.json"
)

// Backend pagination limits for blog/cafe search: display up to 100 per
// call, start offset capped at 1000. The local endpoint returns at most 5
// items and ignores paging.
const (
	APIPageSize     = 100
	APIStartMax     = 1000
	LocalDisplayMax = 5
	LocalStart      = 1
)

// APIError is a non-success response from any Naver endpoint, surfaced with
// full diagnostic context. It is terminal for the triggering user action;
// nothing retries automatically.
type APIError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("naver api %s returned HTTP %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// SearchPayload is a decoded success response from a search endpoint. Docs
// carry the typed items upcast to the Document interface in arrival order.
type SearchPayload struct {
	Total   int
	Start   int
	Display int
	Docs    []models.Document
}

// cachedResponse is the raw remote outcome stored in the response cache.
// Non-200 responses are cached too, so a failing query does not burn quota
// for the TTL window.
type cachedResponse struct {
	StatusCode int    `json:"statusCode"`
	Body       []byte `json:"body"`
}

// SearchClient calls the Naver search endpoints with uniform auth, error
// handling and response caching. It is the sole I/O primitive the
// exact-match collector consumes.
type SearchClient struct {
	// BaseURL is prepended to the endpoint paths; overridable for tests.
	BaseURL string

	httpClient *http.Client
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewSearchClient creates a search client over the given response cache.
func NewSearchClient(responseCache cache.Cache, cacheTTL time.Duration) *SearchClient {
	return &SearchClient{
		BaseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cache:      responseCache,
		cacheTTL:   cacheTTL,
	}
}

// Search performs one raw offset/limit call against a search endpoint.
// Callers keep start within 1..1000 and display within 1..100 (1..5 for the
// local endpoint). Identical calls within the cache TTL are answered from
// the cache without touching the remote API.
func (s *SearchClient) Search(ctx context.Context, creds config.Credentials, endpoint, query string, start, display int, sort string) (*SearchPayload, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("start", strconv.Itoa(start))
	params.Set("display", strconv.Itoa(display))
	params.Set("sort", sort)

	key := searchCacheKey(endpoint, creds, params)
	status, body, err := s.roundTrip(ctx, creds, endpoint, params, key)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, &APIError{Endpoint: s.BaseURL + endpoint, StatusCode: status, Body: string(body)}
	}
	return decodeSearchPayload(endpoint, body)
}

// roundTrip answers from the cache when possible, otherwise issues the GET
// and stores the raw status/body pair for the TTL window.
func (s *SearchClient) roundTrip(ctx context.Context, creds config.Credentials, endpoint string, params url.Values, key string) (int, []byte, error) {
	if raw, ok := s.cache.Get(ctx, key); ok {
		var cached cachedResponse
		if err := json.Unmarshal(raw, &cached); err == nil {
			log.Printf("[DEBUG] cache hit for %s", endpoint)
			return cached.StatusCode, cached.Body, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.BaseURL+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build search request: %w", err)
	}
	setAuthHeaders(req, creds)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("execute search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read search response: %w", err)
	}

	if raw, err := json.Marshal(cachedResponse{StatusCode: resp.StatusCode, Body: body}); err == nil {
		s.cache.Set(ctx, key, raw, s.cacheTTL)
	}
	return resp.StatusCode, body, nil
}

func setAuthHeaders(req *http.Request, creds config.Credentials) {
	req.Header.Set("X-Naver-Client-Id", creds.ClientID)
	req.Header.Set("X-Naver-Client-Secret", creds.ClientSecret)
}

// searchCacheKey covers every parameter that affects the response,
// including a fingerprint of the credentials so users with different keys
// never share entries.
func searchCacheKey(endpoint string, creds config.Credentials, params url.Values) string {
	return "search|" + endpoint + "|" + credFingerprint(creds) + "|" + params.Encode()
}

// credFingerprint hashes the credential pair so cache keys never carry the
// secrets themselves.
func credFingerprint(creds config.Credentials) string {
	h := sha1.Sum([]byte(creds.ClientID + ":" + creds.ClientSecret))
	return hex.EncodeToString(h[:])[:16]
}

// searchEnvelope is the common shape of all search endpoint responses; the
// items decode per endpoint.
type searchEnvelope struct {
	Total   int             `json:"total"`
	Start   int             `json:"start"`
	Display int             `json:"display"`
	Items   json.RawMessage `json:"items"`
}

func decodeSearchPayload(endpoint string, body []byte) (*SearchPayload, error) {
	var envelope searchEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("parse search response: %w", err)
	}

	payload := &SearchPayload{
		Total:   envelope.Total,
		Start:   envelope.Start,
		Display: envelope.Display,
	}
	if len(envelope.Items) == 0 {
		return payload, nil
	}

	switch endpoint {
	case EndpointBlog:
		var items []*models.BlogItem
		if err := json.Unmarshal(envelope.Items, &items); err != nil {
			return nil, fmt.Errorf("parse blog items: %w", err)
		}
		for _, it := range items {
			payload.Docs = append(payload.Docs, it)
		}
	case EndpointCafe:
		var items []*models.CafeItem
		if err := json.Unmarshal(envelope.Items, &items); err != nil {
			return nil, fmt.Errorf("parse cafe items: %w", err)
		}
		for _, it := range items {
			payload.Docs = append(payload.Docs, it)
		}
	case EndpointLocal:
		var items []*models.LocalItem
		if err := json.Unmarshal(envelope.Items, &items); err != nil {
			return nil, fmt.Errorf("parse local items: %w", err)
		}
		for _, it := range items {
			payload.Docs = append(payload.Docs, it)
		}
	default:
		return nil, fmt.Errorf("unknown search endpoint %q", endpoint)
	}
	return payload, nil
}
