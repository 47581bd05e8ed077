package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/essensfindung/essensfindung/internal/domain"
)

const defaultGeocodeAPIURL = "https://maps.googleapis.com/maps/api/geocode/json"

var (
	// ErrLookup is returned when the geocoding request fails.
	ErrLookup = errors.New("error when trying to geocode location")
	// ErrLocationNotFound is returned when geocoding yields zero results.
	ErrLocationNotFound = errors.New("location not found")
)

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client resolves free-text addresses to coordinates.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	apiKey     string
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithBaseURL replaces the default endpoint.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a geocoding client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultGeocodeAPIURL,
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type geocodeResponse struct {
	Results []struct {
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
	Status string `json:"status"`
}

// Get resolves an address to coordinates.
func (c *Client) Get(ctx context.Context, address string) (domain.Location, error) {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)
	requestURL := c.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return domain.Location{}, fmt.Errorf("build request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Location{}, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return domain.Location{}, fmt.Errorf("%w: status=%d", ErrLookup, res.StatusCode)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return domain.Location{}, fmt.Errorf("%w: %v", ErrLookup, err)
	}
	if payload.Status == "ZERO_RESULTS" || len(payload.Results) == 0 {
		return domain.Location{}, fmt.Errorf("%w: %q", ErrLocationNotFound, address)
	}
	if payload.Status != "OK" {
		return domain.Location{}, fmt.Errorf("%w: status=%s", ErrLookup, payload.Status)
	}
	return domain.Location{
		Lat: payload.Results[0].Geometry.Location.Lat,
		Lng: payload.Results[0].Geometry.Location.Lng,
	}, nil
}
