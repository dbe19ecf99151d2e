package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/fastbite/fastbite-api/internal/domain/combo"
	"github.com/fastbite/fastbite-api/internal/domain/order"
	"github.com/fastbite/fastbite-api/internal/domain/product"
	"github.com/fastbite/fastbite-api/internal/domain/voucher"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Code: status, Message: message})
}

// respondError maps domain errors to HTTP responses. Every expected
// rejection gets its own distinct message so clients can react to it;
// anything unexpected is logged and surfaced as a generic 500.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	if status, msg, ok := mapDomainError(err); ok {
		writeError(w, status, msg)
		return
	}

	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal server error")
}

func mapDomainError(err error) (status int, msg string, ok bool) {
	switch {
	case errors.Is(err, order.ErrUnauthenticated):
		return http.StatusUnauthorized, order.ErrUnauthenticated.Error(), true
	case errors.Is(err, order.ErrEmptyCart):
		return http.StatusBadRequest, order.ErrEmptyCart.Error(), true
	case errors.Is(err, order.ErrNotFound):
		return http.StatusNotFound, order.ErrNotFound.Error(), true
	case errors.Is(err, order.ErrInvalidTransition):
		return http.StatusBadRequest, "order can no longer be cancelled", true
	case errors.Is(err, order.ErrInvalidStatus):
		return http.StatusBadRequest, order.ErrInvalidStatus.Error(), true
	case errors.Is(err, order.ErrUnknownPaymentMethod):
		return http.StatusBadRequest, order.ErrUnknownPaymentMethod.Error(), true
	case errors.Is(err, order.ErrUnknownShippingMethod):
		return http.StatusBadRequest, order.ErrUnknownShippingMethod.Error(), true

	case errors.Is(err, voucher.ErrNotFound):
		return http.StatusNotFound, voucher.ErrNotFound.Error(), true
	case errors.Is(err, voucher.ErrInactive),
		errors.Is(err, voucher.ErrNotYetStarted),
		errors.Is(err, voucher.ErrExpired),
		errors.Is(err, voucher.ErrExhausted),
		errors.Is(err, voucher.ErrBelowMinimum),
		errors.Is(err, voucher.ErrAlreadyUsed):
		return http.StatusBadRequest, voucherMessage(err), true

	case errors.Is(err, product.ErrNotFound):
		return http.StatusNotFound, product.ErrNotFound.Error(), true
	case errors.Is(err, combo.ErrNotFound):
		return http.StatusNotFound, combo.ErrNotFound.Error(), true
	case errors.Is(err, combo.ErrEmptyItems):
		return http.StatusBadRequest, combo.ErrEmptyItems.Error(), true
	case errors.Is(err, combo.ErrInvalidDiscount):
		return http.StatusBadRequest, combo.ErrInvalidDiscount.Error(), true
	}

	var iqErr *order.InvalidQuantityError
	if errors.As(err, &iqErr) {
		return http.StatusUnprocessableEntity, iqErr.Error(), true
	}
	var upErr *combo.UnknownProductError
	if errors.As(err, &upErr) {
		return http.StatusUnprocessableEntity, upErr.Error(), true
	}
	return 0, "", false
}

// voucherMessage returns the root sentinel's message even when the error
// has been wrapped with context along the way.
func voucherMessage(err error) string {
	for _, sentinel := range []error{
		voucher.ErrInactive, voucher.ErrNotYetStarted, voucher.ErrExpired,
		voucher.ErrExhausted, voucher.ErrBelowMinimum, voucher.ErrAlreadyUsed,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
