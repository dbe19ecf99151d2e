//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func applyVoucher(t *testing.T, code string, cartTotal float64, userID string) *http.Response {
	t.Helper()
	return doRequest(t, http.MethodPost, "/api/vouchers/apply",
		map[string]any{"code": code, "cartTotal": cartTotal}, userID, "")
}

func TestApplyVoucher_Preview(t *testing.T) {
	resp := applyVoucher(t, "SAVE10", 200000, "120")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	app := decodeJSON[applyVoucherResponse](t, resp)
	if app.DiscountAmount != 15000 {
		t.Errorf("discount: got %v, want 15000", app.DiscountAmount)
	}
	if app.FinalTotal != 185000 {
		t.Errorf("final: got %v, want 185000", app.FinalTotal)
	}
}

func TestApplyVoucher_DoesNotConsume(t *testing.T) {
	// Preview twice with the same user: both succeed, nothing is spent.
	for range 2 {
		resp := applyVoucher(t, "SAVE10", 200000, "121")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestApplyVoucher_UnknownCode(t *testing.T) {
	resp := applyVoucher(t, "DOESNOTEXIST", 200000, "122")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestApplyVoucher_BelowMinimum(t *testing.T) {
	resp := applyVoucher(t, "SAVE10", 50000, "123")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	body := decodeJSON[errorResponse](t, resp)
	if body.Message == "" {
		t.Error("expected a rejection message")
	}
}

func TestApplyVoucher_NoAuth(t *testing.T) {
	resp := doRequest(t, http.MethodPost, "/api/vouchers/apply",
		map[string]any{"code": "SAVE10", "cartTotal": 200000}, "", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}
