package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastbite/fastbite-api/internal/domain/combo"
)

type comboItemPayload struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type comboDraftRequest struct {
	Name           string             `json:"name"`
	Description    string             `json:"description"`
	ImageURL       string             `json:"imageUrl"`
	Available      bool               `json:"available"`
	DiscountAmount float64            `json:"discountAmount"`
	Items          []comboItemPayload `json:"items"`
}

type comboResponse struct {
	ID             int64              `json:"id"`
	Name           string             `json:"name"`
	Description    string             `json:"description,omitempty"`
	ImageURL       string             `json:"imageUrl"`
	Available      bool               `json:"available"`
	OriginalPrice  float64            `json:"originalPrice"`
	DiscountAmount float64            `json:"discountAmount"`
	FinalPrice     float64            `json:"finalPrice"`
	Items          []comboItemPayload `json:"items,omitempty"`
	CreatedAt      time.Time          `json:"createdAt"`
}

func (h *Handler) listCombos(w http.ResponseWriter, r *http.Request) {
	h.respondComboList(w, r, true)
}

func (h *Handler) adminListCombos(w http.ResponseWriter, r *http.Request) {
	h.respondComboList(w, r, false)
}

func (h *Handler) respondComboList(w http.ResponseWriter, r *http.Request, availableOnly bool) {
	combos, err := h.combos.List(r.Context(), availableOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	resp := make([]comboResponse, len(combos))
	for i := range combos {
		resp[i] = toComboResponse(&combos[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) getCombo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		writeError(w, http.StatusBadRequest, "invalid combo id")
		return
	}

	c, err := h.combos.Get(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComboResponse(c))
}

func (h *Handler) createCombo(w http.ResponseWriter, r *http.Request) {
	d, ok := decodeComboDraft(w, r)
	if !ok {
		return
	}

	c, err := h.combos.Create(r.Context(), d)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toComboResponse(c))
}

func (h *Handler) updateCombo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		writeError(w, http.StatusBadRequest, "invalid combo id")
		return
	}
	d, ok := decodeComboDraft(w, r)
	if !ok {
		return
	}

	c, err := h.combos.Update(r.Context(), id, d)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toComboResponse(c))
}

func (h *Handler) deleteCombo(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == 0 {
		writeError(w, http.StatusBadRequest, "invalid combo id")
		return
	}

	if err := h.combos.Delete(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "combo deleted"})
}

func decodeComboDraft(w http.ResponseWriter, r *http.Request) (combo.Draft, bool) {
	var req comboDraftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return combo.Draft{}, false
	}
	if req.Name == "" || len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "name and items are required")
		return combo.Draft{}, false
	}

	items := make([]combo.Item, len(req.Items))
	for i, item := range req.Items {
		items[i] = combo.Item{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return combo.Draft{
		Name:           req.Name,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		Available:      req.Available,
		DiscountAmount: decimal.NewFromFloat(req.DiscountAmount),
		Items:          items,
	}, true
}

func toComboResponse(c *combo.Combo) comboResponse {
	items := make([]comboItemPayload, len(c.Items))
	for i, item := range c.Items {
		items[i] = comboItemPayload{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return comboResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		ImageURL:       c.ImageURL,
		Available:      c.Available,
		OriginalPrice:  c.OriginalPrice.InexactFloat64(),
		DiscountAmount: c.DiscountAmount.InexactFloat64(),
		FinalPrice:     c.FinalPrice.InexactFloat64(),
		Items:          items,
		CreatedAt:      c.CreatedAt,
	}
}
