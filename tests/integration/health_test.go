//go:build integration

package integration

import (
	"net/http"
	"strconv"
	"testing"
)

// itoa keeps call sites short.
func itoa(v int64) string { return strconv.FormatInt(v, 10) }

func TestLiveness(t *testing.T) {
	resp := doGet(t, "/livez")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[healthResponse](t, resp)
	if body.Status != "ok" {
		t.Errorf("status: got %q, want ok", body.Status)
	}
}

func TestReadiness(t *testing.T) {
	resp := doGet(t, "/readyz")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body := decodeJSON[healthResponse](t, resp)
	if body.Checks["postgres"] != "ok" {
		t.Errorf("postgres check: got %q, want ok", body.Checks["postgres"])
	}
}
