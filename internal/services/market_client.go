package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"

	"github.com/cardfolio/cardfolio/internal/metrics"
)

const (
	// marketCacheSize bounds the in-process price cache.
	marketCacheSize = 256

	// marketCacheTTL is how long a fetched price is served from cache.
	marketCacheTTL = 1 * time.Hour
)

// MarketClient talks to the hosted valuation backend. Pricing itself lives
// behind that service; this client only does request/response plumbing with
// a rate limiter and a small response cache in front of it.
type MarketClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	cache   *lru.Cache[string, cachedPrice]
}

type cachedPrice struct {
	price     *float64
	fetchedAt time.Time
}

type marketPriceResponse struct {
	Name        string   `json:"name"`
	SetName     string   `json:"set_name"`
	MarketPrice *float64 `json:"market_price"` // null when the backend has no pricing data
}

// NewMarketClient creates a client for the valuation backend. An empty
// baseURL disables the client; callers must check IsEnabled.
func NewMarketClient(baseURL, apiKey string, requestsPerSecond float64) *MarketClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}

	cache, err := lru.New[string, cachedPrice](marketCacheSize)
	if err != nil {
		// lru.New only fails on non-positive size
		panic(err)
	}

	return &MarketClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		cache:   cache,
	}
}

// IsEnabled reports whether a valuation backend is configured.
func (c *MarketClient) IsEnabled() bool {
	return c != nil && c.baseURL != ""
}

// GetPrice returns the current market estimate for a card, or nil when the
// backend has no pricing data for it. Results are cached for an hour.
func (c *MarketClient) GetPrice(ctx context.Context, name, setName string) (*float64, error) {
	if !c.IsEnabled() {
		return nil, fmt.Errorf("market client is not configured")
	}

	key := strings.ToLower(name) + "|" + strings.ToLower(setName)
	if cached, ok := c.cache.Get(key); ok && time.Since(cached.fetchedAt) < marketCacheTTL {
		metrics.MarketCacheHits.Inc()
		return cached.price, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/v1/prices?%s", c.baseURL, url.Values{
		"name": {name},
		"set":  {setName},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	metrics.MarketRequestsTotal.Inc()
	resp, err := c.client.Do(req)
	if err != nil {
		metrics.MarketErrorsTotal.WithLabelValues("network").Inc()
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		// Unknown card: cache the miss so we don't hammer the backend
		c.cache.Add(key, cachedPrice{price: nil, fetchedAt: time.Now()})
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		metrics.MarketErrorsTotal.WithLabelValues("status").Inc()
		return nil, fmt.Errorf("market backend returned status %d", resp.StatusCode)
	}

	var priceResp marketPriceResponse
	if err := json.NewDecoder(resp.Body).Decode(&priceResp); err != nil {
		metrics.MarketErrorsTotal.WithLabelValues("parse").Inc()
		return nil, fmt.Errorf("failed to decode market response: %w", err)
	}

	c.cache.Add(key, cachedPrice{price: priceResp.MarketPrice, fetchedAt: time.Now()})
	return priceResp.MarketPrice, nil
}
