// Package api is the HTTP adapter over the domain services: request
// decoding, identity extraction, and domain-error-to-status mapping.
// Business rules live in internal/domain.
package api

import (
	"net/http"
	"strconv"

	"github.com/fastbite/fastbite-api/internal/domain/combo"
	"github.com/fastbite/fastbite-api/internal/domain/order"
	"github.com/fastbite/fastbite-api/internal/domain/product"
	"github.com/fastbite/fastbite-api/internal/domain/voucher"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// Handler exposes the checkout, voucher, order, product and combo surface.
type Handler struct {
	products product.Repository
	vouchers *voucher.PreviewService
	orders   *order.Service
	combos   *combo.Service
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	vouchers *voucher.PreviewService,
	orders *order.Service,
	combos *combo.Service,
) *Handler {
	return &Handler{
		products: products,
		vouchers: vouchers,
		orders:   orders,
		combos:   combos,
	}
}

// Register attaches all routes to the mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.listProducts)

	mux.HandleFunc("GET /api/combos", h.listCombos)
	mux.HandleFunc("GET /api/combos/{id}", h.getCombo)

	mux.HandleFunc("POST /api/vouchers/apply", requireUser(h.applyVoucher))

	mux.HandleFunc("POST /api/orders", requireUser(h.placeOrder))
	mux.HandleFunc("GET /api/orders/mine", requireUser(h.listMyOrders))
	mux.HandleFunc("GET /api/orders/{id}", requireUser(h.getOrder))
	mux.HandleFunc("PUT /api/orders/{id}/cancel", requireUser(h.cancelOrder))
	mux.HandleFunc("PUT /api/orders/{id}/paid", h.markOrderPaid)

	mux.HandleFunc("GET /api/admin/orders", requireAdmin(h.adminListOrders))
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", requireAdmin(h.updateOrderStatus))

	mux.HandleFunc("GET /api/admin/combos", requireAdmin(h.adminListCombos))
	mux.HandleFunc("POST /api/admin/combos", requireAdmin(h.createCombo))
	mux.HandleFunc("PUT /api/admin/combos/{id}", requireAdmin(h.updateCombo))
	mux.HandleFunc("DELETE /api/admin/combos/{id}", requireAdmin(h.deleteCombo))
}

// pathID parses the {id} segment; zero means absent or malformed.
func pathID(r *http.Request) int64 {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

// pagination reads limit/offset from query params, clamped to sane bounds.
func pagination(r *http.Request) order.Page {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > maxPageLimit {
		limit = defaultPageLimit
	}
	offset, _ := strconv.Atoi(q.Get("offset"))
	if offset < 0 {
		offset = 0
	}
	return order.Page{Limit: limit, Offset: offset}
}
