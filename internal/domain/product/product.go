package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product represents a menu item available for purchase.
type Product struct {
	ID          int64
	Name        string
	Description string
	Price       decimal.Decimal
	Category    string
	ImageURL    string
	Available   bool
}

// Repository defines read operations for the product catalog.
type Repository interface {
	// List returns catalog products. When availableOnly is true, items
	// flagged as unavailable are excluded.
	List(ctx context.Context, availableOnly bool) ([]Product, error)
	GetByID(ctx context.Context, id int64) (*Product, error)
	// GetByIDs returns products matching any of the given IDs in one query.
	// Unknown IDs are silently absent from the result.
	GetByIDs(ctx context.Context, ids []int64) ([]Product, error)
}

// Prices resolves live catalog prices for a set of products in a single
// batch. It is the read-only seam pricing code depends on.
func Prices(ctx context.Context, repo Repository, ids []int64) (map[int64]decimal.Decimal, error) {
	products, err := repo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Wrap(err, "get products")
	}
	prices := make(map[int64]decimal.Decimal, len(products))
	for _, p := range products {
		prices[p.ID] = p.Price
	}
	return prices, nil
}
