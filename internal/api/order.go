package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastbite/fastbite-api/internal/domain/order"
)

type orderItemRequest struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

type placeOrderRequest struct {
	Items            []orderItemRequest `json:"items"`
	ShippingFullName string             `json:"shippingFullName"`
	ShippingAddress  string             `json:"shippingAddress"`
	ShippingPhone    string             `json:"shippingPhone"`
	PaymentMethod    string             `json:"paymentMethod"`
	ShippingMethod   string             `json:"shippingMethod"`
	ItemsPrice       float64            `json:"itemsPrice"`
	ShippingPrice    float64            `json:"shippingPrice"`
	Note             string             `json:"note"`
	VoucherCode      string             `json:"voucherCode"`
}

type placeOrderResponse struct {
	OrderID int64 `json:"orderId"`
}

type orderItemResponse struct {
	ProductID int64   `json:"productId"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

type orderResponse struct {
	ID               int64               `json:"id"`
	UserID           int64               `json:"userId"`
	VoucherID        *int64              `json:"voucherId,omitempty"`
	ShippingFullName string              `json:"shippingFullName"`
	ShippingAddress  string              `json:"shippingAddress"`
	ShippingPhone    string              `json:"shippingPhone"`
	PaymentMethod    string              `json:"paymentMethod"`
	ShippingMethod   string              `json:"shippingMethod"`
	ItemsPrice       float64             `json:"itemsPrice"`
	ShippingPrice    float64             `json:"shippingPrice"`
	DiscountAmount   float64             `json:"discountAmount"`
	TotalPrice       float64             `json:"totalPrice"`
	Paid             bool                `json:"paid"`
	PaidAt           *time.Time          `json:"paidAt,omitempty"`
	Note             string              `json:"note,omitempty"`
	Status           string              `json:"status"`
	CreatedAt        time.Time           `json:"createdAt"`
	Items            []orderItemResponse `json:"items,omitempty"`
}

type orderListResponse struct {
	Data  []orderResponse `json:"data"`
	Total int             `json:"total"`
}

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	paymentMethod, err := order.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		respondError(w, r, err)
		return
	}
	shippingMethod, err := order.ParseShippingMethod(req.ShippingMethod)
	if err != nil {
		respondError(w, r, err)
		return
	}

	items := make([]order.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = order.Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: decimal.NewFromFloat(item.Price),
		}
	}

	orderID, err := h.orders.PlaceOrder(r.Context(), order.PlaceOrderRequest{
		UserID: identityFrom(r.Context()).UserID,
		Items:  items,
		Shipping: order.ShippingInfo{
			FullName: req.ShippingFullName,
			Address:  req.ShippingAddress,
			Phone:    req.ShippingPhone,
		},
		PaymentMethod:  paymentMethod,
		ShippingMethod: shippingMethod,
		ItemsPrice:     decimal.NewFromFloat(req.ItemsPrice),
		ShippingPrice:  decimal.NewFromFloat(req.ShippingPrice),
		Note:           req.Note,
		VoucherCode:    req.VoucherCode,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, placeOrderResponse{OrderID: orderID})
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	userID := identityFrom(r.Context()).UserID
	if identityFrom(r.Context()).Role == "admin" {
		userID = 0 // admins may inspect any order
	}

	o, err := h.orders.GetOrder(r.Context(), id, userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *Handler) listMyOrders(w http.ResponseWriter, r *http.Request) {
	orders, total, err := h.orders.ListMyOrders(r.Context(),
		identityFrom(r.Context()).UserID, pagination(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(orders, total))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	err := h.orders.CancelOrder(r.Context(), id, identityFrom(r.Context()).UserID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "order cancelled"})
}

// markOrderPaid is the payment-gateway callback seam. The gateway adapter
// that verifies the VNPay signature calls it after a successful return;
// repeated confirmations are harmless.
func (h *Handler) markOrderPaid(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	if err := h.orders.MarkPaid(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "payment recorded"})
}

func (h *Handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var filter order.AdminFilter
	if s := q.Get("status"); s != "" {
		st, err := order.ParseStatus(s)
		if err != nil {
			respondError(w, r, err)
			return
		}
		filter.Status = st
	}
	if s := q.Get("id"); s != "" {
		filter.OrderID, _ = strconv.ParseInt(s, 10, 64)
	}
	filter.Date = q.Get("date")

	orders, total, err := h.orders.ListOrders(r.Context(), filter, pagination(r))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderListResponse(orders, total))
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	st, err := order.ParseStatus(req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if err := h.orders.UpdateStatus(r.Context(), id, st); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "status updated"})
}

func toOrderResponse(o *order.Order) orderResponse {
	items := make([]orderItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = orderItemResponse{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice.InexactFloat64(),
		}
	}
	return orderResponse{
		ID:               o.ID,
		UserID:           o.UserID,
		VoucherID:        o.VoucherID,
		ShippingFullName: o.Shipping.FullName,
		ShippingAddress:  o.Shipping.Address,
		ShippingPhone:    o.Shipping.Phone,
		PaymentMethod:    string(o.PaymentMethod),
		ShippingMethod:   string(o.ShippingMethod),
		ItemsPrice:       o.ItemsPrice.InexactFloat64(),
		ShippingPrice:    o.ShippingPrice.InexactFloat64(),
		DiscountAmount:   o.DiscountAmount.InexactFloat64(),
		TotalPrice:       o.TotalPrice.InexactFloat64(),
		Paid:             o.Paid,
		PaidAt:           o.PaidAt,
		Note:             o.Note,
		Status:           string(o.Status),
		CreatedAt:        o.CreatedAt,
		Items:            items,
	}
}

func toOrderListResponse(orders []order.Order, total int) orderListResponse {
	data := make([]orderResponse, len(orders))
	for i := range orders {
		data[i] = toOrderResponse(&orders[i])
	}
	return orderListResponse{Data: data, Total: total}
}
