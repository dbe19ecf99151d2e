//go:build integration

package integration

import (
	"net/http"
	"regexp"
	"testing"
)

var uuidPattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)

func TestRequestIDAssigned(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	id := resp.Header.Get("X-Request-ID")
	if !uuidPattern.MatchString(id) {
		t.Errorf("X-Request-ID: got %q, want a UUID", id)
	}
}

func TestRateLimitHeaders(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.Header.Get("X-RateLimit-Limit") == "" {
		t.Error("missing X-RateLimit-Limit header")
	}
	if resp.Header.Get("X-RateLimit-Remaining") == "" {
		t.Error("missing X-RateLimit-Remaining header")
	}
}

func TestCORSPreflight(t *testing.T) {
	req, err := http.NewRequest(http.MethodOptions, baseURL+"/api/products", nil)
	if err != nil {
		t.Fatalf("create request: %v", err)
	}
	req.Header.Set("Origin", "https://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()

	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("missing Access-Control-Allow-Origin header")
	}
}
