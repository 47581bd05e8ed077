package places

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/essensfindung/essensfindung/internal/domain"
)

type scriptedHTTPClient struct {
	requests  []*http.Request
	responses []string
	status    int
	doErr     error
}

func (c *scriptedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.requests = append(c.requests, req)
	if c.doErr != nil {
		return nil, c.doErr
	}
	body := `{"status":"OK","results":[]}`
	if len(c.responses) > 0 {
		body = c.responses[0]
		c.responses = c.responses[1:]
	}
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func testEndpoints() Endpoints {
	return Endpoints{
		NearbySearch: "https://example.test/nearby",
		PlaceDetails: "https://example.test/details",
	}
}

func TestNearbySearchBuildsQueryParameters(t *testing.T) {
	httpClient := &scriptedHTTPClient{}
	client := NewClient("test-key",
		WithHTTPClient(httpClient),
		WithEndpoints(testEndpoints()),
		WithLanguage("de"),
	)

	_, err := client.NearbySearch(context.Background(), NearbyQuery{
		Keyword:  "Pizza",
		Location: domain.Location{Lat: 48.137, Lng: 11.575},
		Radius:   5000,
		MaxPrice: 2,
		OpenNow:  true,
	})
	if err != nil {
		t.Fatalf("nearby search returned error: %v", err)
	}
	if len(httpClient.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(httpClient.requests))
	}

	query := httpClient.requests[0].URL.Query()
	if got := query.Get("keyword"); got != "Pizza" {
		t.Fatalf("expected keyword Pizza, got %q", got)
	}
	if got := query.Get("location"); got != "48.137000,11.575000" {
		t.Fatalf("expected formatted location, got %q", got)
	}
	if got := query.Get("radius"); got != "5000" {
		t.Fatalf("expected radius 5000, got %q", got)
	}
	if got := query.Get("maxprice"); got != "2" {
		t.Fatalf("expected maxprice 2, got %q", got)
	}
	if got := query.Get("type"); got != "restaurant" {
		t.Fatalf("expected type restaurant, got %q", got)
	}
	if got := query.Get("language"); got != "de" {
		t.Fatalf("expected language de, got %q", got)
	}
	if got := query.Get("opennow"); got != "true" {
		t.Fatalf("expected opennow true, got %q", got)
	}
	if got := query.Get("key"); got != "test-key" {
		t.Fatalf("expected api key in query, got %q", got)
	}
}

func TestNearbySearchMapsResults(t *testing.T) {
	httpClient := &scriptedHTTPClient{responses: []string{
		`{"status":"OK","results":[
			{"place_id":"p1","name":"Luigi","rating":4.5,"vicinity":"Musterweg 1","geometry":{"location":{"lat":48.1,"lng":11.5}}},
			{"place_id":"p2","name":"Mario"}
		]}`,
	}}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	restaurants, err := client.NearbySearch(context.Background(), NearbyQuery{Keyword: "Pizza"})
	if err != nil {
		t.Fatalf("nearby search returned error: %v", err)
	}

	if len(restaurants) != 2 {
		t.Fatalf("expected 2 restaurants, got %d", len(restaurants))
	}
	first := restaurants[0]
	if first.PlaceID != "p1" || first.Name != "Luigi" {
		t.Fatalf("unexpected first restaurant: %+v", first)
	}
	if first.Rating == nil || *first.Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", first.Rating)
	}
	if first.Location.Address != "Musterweg 1" || first.Location.Lat != 48.1 {
		t.Fatalf("unexpected location: %+v", first.Location)
	}
	if restaurants[1].Rating != nil {
		t.Fatal("expected missing rating to stay nil")
	}
}

func TestNearbySearchFollowsPageTokens(t *testing.T) {
	httpClient := &scriptedHTTPClient{responses: []string{
		`{"status":"OK","next_page_token":"t1","results":[{"place_id":"p1","name":"One"}]}`,
		`{"status":"OK","next_page_token":"t2","results":[{"place_id":"p2","name":"Two"}]}`,
		`{"status":"OK","results":[{"place_id":"p3","name":"Three"}]}`,
	}}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	restaurants, err := client.NearbySearch(context.Background(), NearbyQuery{Keyword: "Pizza"})
	if err != nil {
		t.Fatalf("nearby search returned error: %v", err)
	}

	if len(restaurants) != 3 {
		t.Fatalf("expected results from all pages, got %d", len(restaurants))
	}
	if len(httpClient.requests) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(httpClient.requests))
	}
	if got := httpClient.requests[1].URL.Query().Get("pagetoken"); got != "t1" {
		t.Fatalf("expected second request to carry page token t1, got %q", got)
	}
	if got := httpClient.requests[2].URL.Query().Get("pagetoken"); got != "t2" {
		t.Fatalf("expected third request to carry page token t2, got %q", got)
	}
}

func TestNearbySearchStopsAtPageCap(t *testing.T) {
	page := `{"status":"OK","next_page_token":"again","results":[{"place_id":"p","name":"Loop"}]}`
	httpClient := &scriptedHTTPClient{responses: []string{page, page, page, page, page}}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	restaurants, err := client.NearbySearch(context.Background(), NearbyQuery{Keyword: "Pizza"})
	if err != nil {
		t.Fatalf("nearby search returned error: %v", err)
	}

	if len(httpClient.requests) != maxNearbyPages {
		t.Fatalf("expected requests capped at %d, got %d", maxNearbyPages, len(httpClient.requests))
	}
	if len(restaurants) != maxNearbyPages {
		t.Fatalf("expected one result per fetched page, got %d", len(restaurants))
	}
}

func TestNearbySearchZeroResults(t *testing.T) {
	httpClient := &scriptedHTTPClient{responses: []string{`{"status":"ZERO_RESULTS","results":[]}`}}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	restaurants, err := client.NearbySearch(context.Background(), NearbyQuery{Keyword: "Pizza"})
	if err != nil {
		t.Fatalf("nearby search returned error: %v", err)
	}
	if len(restaurants) != 0 {
		t.Fatalf("expected empty result set, got %d", len(restaurants))
	}
}

func TestNearbySearchRejectsErrorStatus(t *testing.T) {
	httpClient := &scriptedHTTPClient{responses: []string{`{"status":"REQUEST_DENIED","results":[]}`}}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	_, err := client.NearbySearch(context.Background(), NearbyQuery{Keyword: "Pizza"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	if !strings.Contains(err.Error(), "REQUEST_DENIED") {
		t.Fatalf("expected the upstream status in the error, got %q", err.Error())
	}
}

func TestNearbySearchWrapsHTTPFailures(t *testing.T) {
	httpClient := &scriptedHTTPClient{doErr: errors.New("connection refused")}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	_, err := client.NearbySearch(context.Background(), NearbyQuery{Keyword: "Pizza"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}

func TestNearbySearchRejectsBadStatusCode(t *testing.T) {
	httpClient := &scriptedHTTPClient{status: http.StatusInternalServerError}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	_, err := client.NearbySearch(context.Background(), NearbyQuery{Keyword: "Pizza"})
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
	var upstreamErr *UpstreamRequestError
	if !errors.As(err, &upstreamErr) {
		t.Fatalf("expected UpstreamRequestError, got %T", err)
	}
	if upstreamErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("expected status 500 recorded, got %d", upstreamErr.StatusCode)
	}
}

func TestUpstreamErrorMessageCompactsBody(t *testing.T) {
	err := &UpstreamRequestError{
		URL:        "https://upstream.test/nearby",
		StatusCode: http.StatusBadGateway,
		Body:       "bad\n  gateway\r\n" + strings.Repeat("x", bodySnippetLimit),
	}

	msg := err.Error()
	if !strings.Contains(msg, "status=502") {
		t.Fatalf("expected the status code in the message, got %q", msg)
	}
	if !strings.Contains(msg, "bad gateway") {
		t.Fatalf("expected the body collapsed onto one line, got %q", msg)
	}
	if !strings.Contains(msg, "(truncated)") {
		t.Fatalf("expected an oversized body to be truncated, got %q", msg)
	}
}

func TestDetailsMapsResult(t *testing.T) {
	httpClient := &scriptedHTTPClient{responses: []string{
		`{"status":"OK","result":{
			"website":"https://luigi.example",
			"url":"https://maps.example/p1",
			"international_phone_number":"+49 89 1234",
			"formatted_address":"Musterweg 1, Muenchen"
		}}`,
	}}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	details, err := client.Details(context.Background(), "p1")
	if err != nil {
		t.Fatalf("details returned error: %v", err)
	}

	if details.Homepage != "https://luigi.example" {
		t.Fatalf("expected website mapped, got %q", details.Homepage)
	}
	if details.MapsURL != "https://maps.example/p1" {
		t.Fatalf("expected maps url mapped, got %q", details.MapsURL)
	}
	if details.Phone != "+49 89 1234" {
		t.Fatalf("expected phone mapped, got %q", details.Phone)
	}
	if details.Address != "Musterweg 1, Muenchen" {
		t.Fatalf("expected address mapped, got %q", details.Address)
	}
	if got := httpClient.requests[0].URL.Query().Get("place_id"); got != "p1" {
		t.Fatalf("expected place_id parameter, got %q", got)
	}
}

func TestDetailsRejectsErrorStatus(t *testing.T) {
	httpClient := &scriptedHTTPClient{responses: []string{`{"status":"NOT_FOUND"}`}}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithEndpoints(testEndpoints()))

	_, err := client.Details(context.Background(), "p1")
	if !errors.Is(err, ErrUpstream) {
		t.Fatalf("expected ErrUpstream, got %v", err)
	}
}
