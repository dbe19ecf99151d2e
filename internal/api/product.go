package api

import "net/http"

type productResponse struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	ImageURL    string  `json:"imageUrl"`
	Available   bool    `json:"available"`
}

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.List(r.Context(), true)
	if err != nil {
		respondError(w, r, err)
		return
	}

	resp := make([]productResponse, len(products))
	for i, p := range products {
		resp[i] = productResponse{
			ID:          p.ID,
			Name:        p.Name,
			Description: p.Description,
			Price:       p.Price.InexactFloat64(),
			Category:    p.Category,
			ImageURL:    p.ImageURL,
			Available:   p.Available,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
