package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/essensfindung/essensfindung/internal/domain"
)

const (
	defaultNearbySearchAPIURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	defaultPlaceDetailsAPIURL = "https://maps.googleapis.com/maps/api/place/details/json"
	defaultLanguage           = "de"

	// The nearby search endpoint never hands out more than two follow-up
	// pages; the cap keeps a misbehaving upstream from looping forever.
	maxNearbyPages = 3
)

// ErrUpstream indicates a places API failure.
var ErrUpstream = errors.New("error when trying to get response from the places api")

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints stores upstream endpoint urls.
type Endpoints struct {
	NearbySearch string
	PlaceDetails string
}

// Client queries the places API.
type Client struct {
	httpClient     HTTPClient
	endpoints      Endpoints
	apiKey         string
	language       string
	minRequestGap  time.Duration
	requestWindowM sync.Mutex
	nextRequestAt  time.Time
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoints replaces the default endpoint set.
func WithEndpoints(endpoints Endpoints) Option {
	return func(c *Client) {
		c.endpoints = endpoints
	}
}

// WithLanguage sets the language parameter sent upstream.
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

// WithRequestMinInterval limits request burst by enforcing a minimum delay
// between upstream calls. Follow-up pages of a nearby search need a short
// gap before their page token becomes valid.
func WithRequestMinInterval(interval time.Duration) Option {
	return func(c *Client) {
		if interval < 0 {
			interval = 0
		}
		c.minRequestGap = interval
	}
}

// NewClient creates a production places client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 20 * time.Second},
		endpoints: Endpoints{
			NearbySearch: defaultNearbySearchAPIURL,
			PlaceDetails: defaultPlaceDetailsAPIURL,
		},
		apiKey:   apiKey,
		language: defaultLanguage,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NearbyQuery describes one nearby search.
type NearbyQuery struct {
	Keyword  string
	Location domain.Location
	Radius   int
	MaxPrice int
	OpenNow  bool
}

type nearbyResult struct {
	PlaceID  string   `json:"place_id"`
	Name     string   `json:"name"`
	Rating   *float64 `json:"rating"`
	Vicinity string   `json:"vicinity"`
	Geometry struct {
		Location struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"location"`
	} `json:"geometry"`
}

type nearbyResponse struct {
	Results       []nearbyResult `json:"results"`
	NextPageToken string         `json:"next_page_token"`
	Status        string         `json:"status"`
}

type detailsResponse struct {
	Result struct {
		Website          string `json:"website"`
		URL              string `json:"url"`
		Phone            string `json:"international_phone_number"`
		FormattedAddress string `json:"formatted_address"`
	} `json:"result"`
	Status string `json:"status"`
}

// NearbySearch returns every restaurant the places API knows for one query,
// following pagination tokens up to the page cap.
func (c *Client) NearbySearch(ctx context.Context, query NearbyQuery) ([]domain.Restaurant, error) {
	restaurants := make([]domain.Restaurant, 0)
	pageToken := ""
	for page := 0; page < maxNearbyPages; page++ {
		params := url.Values{}
		params.Set("keyword", query.Keyword)
		params.Set("location", fmt.Sprintf("%f,%f", query.Location.Lat, query.Location.Lng))
		params.Set("radius", strconv.Itoa(query.Radius))
		params.Set("maxprice", strconv.Itoa(query.MaxPrice))
		params.Set("type", "restaurant")
		params.Set("language", c.language)
		if query.OpenNow {
			params.Set("opennow", "true")
		}
		if pageToken != "" {
			params.Set("pagetoken", pageToken)
		}

		var payload nearbyResponse
		if err := c.getJSON(ctx, c.endpoints.NearbySearch, params, &payload); err != nil {
			return nil, err
		}
		if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
			return nil, &UpstreamRequestError{
				URL:  c.endpoints.NearbySearch,
				Body: fmt.Sprintf("status=%s", payload.Status),
			}
		}
		for _, result := range payload.Results {
			restaurants = append(restaurants, domain.Restaurant{
				PlaceID: result.PlaceID,
				Name:    result.Name,
				Rating:  result.Rating,
				Location: domain.RestaurantLocation{
					Location: domain.Location{
						Lat: result.Geometry.Location.Lat,
						Lng: result.Geometry.Location.Lng,
					},
					Address: result.Vicinity,
				},
			})
		}
		if payload.NextPageToken == "" {
			break
		}
		pageToken = payload.NextPageToken
	}
	return restaurants, nil
}

// Details fetches the extended fields for one place.
func (c *Client) Details(ctx context.Context, placeID string) (domain.PlaceDetails, error) {
	params := url.Values{}
	params.Set("place_id", placeID)

	var payload detailsResponse
	if err := c.getJSON(ctx, c.endpoints.PlaceDetails, params, &payload); err != nil {
		return domain.PlaceDetails{}, err
	}
	if payload.Status != "OK" {
		return domain.PlaceDetails{}, &UpstreamRequestError{
			URL:  c.endpoints.PlaceDetails,
			Body: fmt.Sprintf("status=%s", payload.Status),
		}
	}
	return domain.PlaceDetails{
		Homepage: payload.Result.Website,
		MapsURL:  payload.Result.URL,
		Phone:    payload.Result.Phone,
		Address:  payload.Result.FormattedAddress,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	requestURL := rawURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if err := c.waitForRequestSlot(ctx); err != nil {
		return err
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return &UpstreamRequestError{
			URL:   rawURL,
			Cause: err,
		}
	}
	defer func() {
		_ = res.Body.Close()
	}()

	rawResponse, err := io.ReadAll(res.Body)
	if err != nil {
		return &UpstreamRequestError{
			URL:        rawURL,
			StatusCode: res.StatusCode,
			Cause:      fmt.Errorf("read response body: %w", err),
		}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &UpstreamRequestError{
			URL:        rawURL,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
		}
	}
	if err := json.Unmarshal(rawResponse, out); err != nil {
		return &UpstreamRequestError{
			URL:        rawURL,
			StatusCode: res.StatusCode,
			Body:       string(rawResponse),
			Cause:      fmt.Errorf("decode response body: %w", err),
		}
	}
	return nil
}

func (c *Client) waitForRequestSlot(ctx context.Context) error {
	interval := c.minRequestGap
	if interval <= 0 {
		return nil
	}
	for {
		c.requestWindowM.Lock()
		wait := time.Until(c.nextRequestAt)
		if wait <= 0 {
			c.nextRequestAt = time.Now().Add(interval)
			c.requestWindowM.Unlock()
			return nil
		}
		c.requestWindowM.Unlock()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
}
