package combo

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/fastbite/fastbite-api/internal/domain/product"
)

// Draft is the admin-supplied input for creating or updating a combo.
// Price fields are deliberately absent: the service derives them from the
// live catalog so a stale or hostile client cannot set them.
type Draft struct {
	Name           string
	Description    string
	ImageURL       string
	Available      bool
	DiscountAmount decimal.Decimal
	Items          []Item
}

// Service owns combo management: it recomputes the derived prices from the
// catalog on every write and delegates persistence to the Repository.
type Service struct {
	products product.Repository
	combos   Repository
}

// NewService creates a combo Service.
func NewService(products product.Repository, combos Repository) *Service {
	return &Service{products: products, combos: combos}
}

// Create prices the draft against the live catalog and persists it.
func (s *Service) Create(ctx context.Context, d Draft) (*Combo, error) {
	c, err := s.priced(ctx, d)
	if err != nil {
		return nil, err
	}
	id, err := s.combos.Create(ctx, c)
	if err != nil {
		return nil, errors.Wrap(err, "create combo")
	}
	c.ID = id
	return c, nil
}

// Update reprices the draft and replaces the stored combo, including a full
// replacement of its item list.
func (s *Service) Update(ctx context.Context, id int64, d Draft) (*Combo, error) {
	c, err := s.priced(ctx, d)
	if err != nil {
		return nil, err
	}
	c.ID = id
	if err := s.combos.Update(ctx, c); err != nil {
		return nil, errors.Wrap(err, "update combo")
	}
	return c, nil
}

// priced turns a draft into a Combo with derived price fields.
func (s *Service) priced(ctx context.Context, d Draft) (*Combo, error) {
	if len(d.Items) == 0 {
		return nil, ErrEmptyItems
	}

	ids := make([]int64, len(d.Items))
	for i, item := range d.Items {
		ids[i] = item.ProductID
	}
	prices, err := product.Prices(ctx, s.products, ids)
	if err != nil {
		return nil, err
	}

	q, err := ComputePrice(d.Items, prices, d.DiscountAmount)
	if err != nil {
		return nil, err
	}

	return &Combo{
		Name:           d.Name,
		Description:    d.Description,
		ImageURL:       d.ImageURL,
		Available:      d.Available,
		OriginalPrice:  q.OriginalPrice,
		DiscountAmount: q.DiscountAmount,
		FinalPrice:     q.FinalPrice,
		Items:          d.Items,
	}, nil
}

// Get returns a combo with its items.
func (s *Service) Get(ctx context.Context, id int64) (*Combo, error) {
	return s.combos.GetByID(ctx, id)
}

// List returns combos; availableOnly hides unavailable ones from customers.
func (s *Service) List(ctx context.Context, availableOnly bool) ([]Combo, error) {
	return s.combos.List(ctx, availableOnly)
}

// Delete removes a combo. Returns ErrNotFound when it does not exist.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.combos.Delete(ctx, id)
}
