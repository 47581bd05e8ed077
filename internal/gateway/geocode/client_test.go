package geocode

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

type cannedHTTPClient struct {
	request      *http.Request
	status       int
	responseBody string
	doErr        error
}

func (c *cannedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.request = req
	if c.doErr != nil {
		return nil, c.doErr
	}
	status := c.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(c.responseBody)),
		Header:     make(http.Header),
		Request:    req,
	}, nil
}

func TestGetResolvesAddress(t *testing.T) {
	httpClient := &cannedHTTPClient{
		responseBody: `{"status":"OK","results":[{"geometry":{"location":{"lat":52.52,"lng":13.405}}}]}`,
	}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithBaseURL("https://example.test/geocode"))

	location, err := client.Get(context.Background(), "Berlin")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}

	if location.Lat != 52.52 || location.Lng != 13.405 {
		t.Fatalf("unexpected location: %+v", location)
	}
	query := httpClient.request.URL.Query()
	if got := query.Get("address"); got != "Berlin" {
		t.Fatalf("expected address parameter, got %q", got)
	}
	if got := query.Get("key"); got != "test-key" {
		t.Fatalf("expected api key parameter, got %q", got)
	}
}

func TestGetZeroResults(t *testing.T) {
	httpClient := &cannedHTTPClient{responseBody: `{"status":"ZERO_RESULTS","results":[]}`}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithBaseURL("https://example.test/geocode"))

	_, err := client.Get(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "nowhere at all") {
		t.Fatalf("expected the address in the error, got %q", err.Error())
	}
}

func TestGetEmptyResultsWithOKStatus(t *testing.T) {
	httpClient := &cannedHTTPClient{responseBody: `{"status":"OK","results":[]}`}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithBaseURL("https://example.test/geocode"))

	_, err := client.Get(context.Background(), "Berlin")
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("expected ErrLocationNotFound, got %v", err)
	}
}

func TestGetErrorStatus(t *testing.T) {
	httpClient := &cannedHTTPClient{responseBody: `{"status":"REQUEST_DENIED","results":[]}`}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithBaseURL("https://example.test/geocode"))

	_, err := client.Get(context.Background(), "Berlin")
	if !errors.Is(err, ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
}

func TestGetHTTPFailure(t *testing.T) {
	httpClient := &cannedHTTPClient{doErr: errors.New("connection refused")}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithBaseURL("https://example.test/geocode"))

	_, err := client.Get(context.Background(), "Berlin")
	if !errors.Is(err, ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
}

func TestGetBadStatusCode(t *testing.T) {
	httpClient := &cannedHTTPClient{status: http.StatusBadGateway}
	client := NewClient("test-key", WithHTTPClient(httpClient), WithBaseURL("https://example.test/geocode"))

	_, err := client.Get(context.Background(), "Berlin")
	if !errors.Is(err, ErrLookup) {
		t.Fatalf("expected ErrLookup, got %v", err)
	}
}
