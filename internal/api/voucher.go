package api

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
)

type applyVoucherRequest struct {
	Code      string  `json:"code"`
	CartTotal float64 `json:"cartTotal"`
}

type applyVoucherResponse struct {
	VoucherID      int64   `json:"voucherId"`
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalTotal     float64 `json:"finalTotal"`
}

// applyVoucher is the non-committing preview: it reports what the code
// would save without consuming a use. Checkout re-validates under a row
// lock before anything is spent.
func (h *Handler) applyVoucher(w http.ResponseWriter, r *http.Request) {
	var req applyVoucherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Code == "" || req.CartTotal <= 0 {
		writeError(w, http.StatusBadRequest, "code and cartTotal are required")
		return
	}

	app, err := h.vouchers.Apply(r.Context(), req.Code,
		identityFrom(r.Context()).UserID, decimal.NewFromFloat(req.CartTotal))
	if err != nil {
		respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, applyVoucherResponse{
		VoucherID:      app.VoucherID,
		Code:           app.Code,
		DiscountAmount: app.DiscountAmount.InexactFloat64(),
		FinalTotal:     app.FinalTotal.InexactFloat64(),
	})
}
