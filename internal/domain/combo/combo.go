package combo

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound is returned when a requested combo does not exist.
	ErrNotFound = errors.New("combo not found")
	// ErrEmptyItems is returned when a combo is created or updated with no
	// products.
	ErrEmptyItems = errors.New("combo must contain at least one product")
	// ErrInvalidDiscount is returned when the admin-supplied discount
	// exceeds the combo's computed original price.
	ErrInvalidDiscount = errors.New("discount cannot exceed the combo's original price")
)

// UnknownProductError indicates a combo line references a product that does
// not exist in the catalog.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("product %d does not exist or has no price", e.ProductID)
}

// Item is one (product, quantity) line of a combo.
type Item struct {
	ProductID int64
	Quantity  int
}

// Combo is a bundled product set sold at a derived price. OriginalPrice is
// recomputed from live catalog prices on every create/update; it is never
// user-supplied. FinalPrice = OriginalPrice - DiscountAmount.
type Combo struct {
	ID             int64
	Name           string
	Description    string
	ImageURL       string
	Available      bool
	OriginalPrice  decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalPrice     decimal.Decimal
	Items          []Item
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Repository defines persistence for combos. Create and Update run inside
// one transaction; Update replaces the item list wholesale.
type Repository interface {
	Create(ctx context.Context, c *Combo) (int64, error)
	Update(ctx context.Context, c *Combo) error
	GetByID(ctx context.Context, id int64) (*Combo, error)
	List(ctx context.Context, availableOnly bool) ([]Combo, error)
	Delete(ctx context.Context, id int64) error
}
