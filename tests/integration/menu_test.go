//go:build integration

package integration

import (
	"net/http"
	"testing"
)

func TestListProducts(t *testing.T) {
	resp := doGet(t, "/api/products")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	products := decodeJSON[[]productResponse](t, resp)
	if len(products) != 6 {
		t.Fatalf("expected 6 products, got %d", len(products))
	}
	for _, p := range products {
		if p.Price <= 0 {
			t.Errorf("product %d has non-positive price %v", p.ID, p.Price)
		}
	}
}

func TestListCombos_SeededPricing(t *testing.T) {
	resp := doGet(t, "/api/combos")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	combos := decodeJSON[[]comboResponse](t, resp)
	if len(combos) < 2 {
		t.Fatalf("expected at least 2 combos, got %d", len(combos))
	}

	for _, c := range combos {
		if c.FinalPrice != c.OriginalPrice-c.DiscountAmount {
			t.Errorf("combo %d: final %v != original %v - discount %v",
				c.ID, c.FinalPrice, c.OriginalPrice, c.DiscountAmount)
		}
	}
}

func TestComboAdminCRUD(t *testing.T) {
	body := map[string]any{
		"name":           "Test Snack Pair",
		"available":      true,
		"discountAmount": 5000,
		"items": []map[string]any{
			{"productId": 3, "quantity": 1},
			{"productId": 5, "quantity": 1},
		},
	}

	resp := doRequest(t, http.MethodPost, "/api/admin/combos", body, "1", "admin")
	if resp.StatusCode != http.StatusCreated {
		resp.Body.Close()
		t.Fatalf("create: expected 201, got %d", resp.StatusCode)
	}
	created := decodeJSON[comboResponse](t, resp)
	resp.Body.Close()

	// Fries 30,000 + Cola 15,000 - 5,000.
	if created.FinalPrice != 40000 {
		t.Errorf("final price: got %v, want 40000", created.FinalPrice)
	}

	resp = doRequest(t, http.MethodDelete,
		"/api/admin/combos/"+itoa(created.ID), nil, "1", "admin")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", resp.StatusCode)
	}
}

func TestComboAdmin_Forbidden(t *testing.T) {
	resp := doRequest(t, http.MethodPost, "/api/admin/combos", map[string]any{}, "110", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
