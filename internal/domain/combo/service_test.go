package combo

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastbite/fastbite-api/internal/domain/product"
)

type mockProductRepo struct {
	byID map[int64]product.Product
}

func (m *mockProductRepo) List(context.Context, bool) ([]product.Product, error) {
	return nil, nil
}

func (m *mockProductRepo) GetByID(_ context.Context, id int64) (*product.Product, error) {
	p, ok := m.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	return &p, nil
}

func (m *mockProductRepo) GetByIDs(_ context.Context, ids []int64) ([]product.Product, error) {
	var out []product.Product
	for _, id := range ids {
		if p, ok := m.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type mockComboRepo struct {
	last   *Combo
	nextID int64
	err    error
}

func (m *mockComboRepo) Create(_ context.Context, c *Combo) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.last = c
	m.nextID++
	return m.nextID, nil
}

func (m *mockComboRepo) Update(_ context.Context, c *Combo) error {
	if m.err != nil {
		return m.err
	}
	m.last = c
	return nil
}

func (m *mockComboRepo) GetByID(context.Context, int64) (*Combo, error) { return nil, ErrNotFound }
func (m *mockComboRepo) List(context.Context, bool) ([]Combo, error)    { return nil, nil }
func (m *mockComboRepo) Delete(context.Context, int64) error            { return nil }

func newTestService(repo *mockComboRepo) *Service {
	products := &mockProductRepo{byID: map[int64]product.Product{
		1: {ID: 1, Name: "Classic Beef Burger", Price: decimal.NewFromInt(50000)},
		2: {ID: 2, Name: "French Fries", Price: decimal.NewFromInt(30000)},
	}}
	return NewService(products, repo)
}

func TestCreateCombo(t *testing.T) {
	repo := &mockComboRepo{}
	svc := newTestService(repo)

	c, err := svc.Create(context.Background(), Draft{
		Name:           "Burger Lunch Set",
		Available:      true,
		DiscountAmount: decimal.NewFromInt(20000),
		Items: []Item{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), c.ID)
	assert.True(t, decimal.NewFromInt(130000).Equal(c.OriginalPrice))
	assert.True(t, decimal.NewFromInt(110000).Equal(c.FinalPrice))
	require.NotNil(t, repo.last)
}

func TestCreateCombo_EmptyItems(t *testing.T) {
	svc := newTestService(&mockComboRepo{})

	_, err := svc.Create(context.Background(), Draft{Name: "Empty"})
	require.ErrorIs(t, err, ErrEmptyItems)
}

func TestCreateCombo_UnknownProduct(t *testing.T) {
	svc := newTestService(&mockComboRepo{})

	_, err := svc.Create(context.Background(), Draft{
		Name:  "Ghost Set",
		Items: []Item{{ProductID: 99, Quantity: 1}},
	})

	var upErr *UnknownProductError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, int64(99), upErr.ProductID)
}

func TestCreateCombo_DiscountTooLarge(t *testing.T) {
	svc := newTestService(&mockComboRepo{})

	_, err := svc.Create(context.Background(), Draft{
		Name:           "Too Cheap",
		DiscountAmount: decimal.NewFromInt(200000),
		Items: []Item{
			{ProductID: 1, Quantity: 2},
			{ProductID: 2, Quantity: 1},
		},
	})
	require.ErrorIs(t, err, ErrInvalidDiscount)
}

func TestUpdateCombo_Reprices(t *testing.T) {
	repo := &mockComboRepo{}
	svc := newTestService(repo)

	c, err := svc.Update(context.Background(), 5, Draft{
		Name:           "Burger Lunch Set",
		DiscountAmount: decimal.NewFromInt(10000),
		Items:          []Item{{ProductID: 1, Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5), c.ID)
	assert.True(t, decimal.NewFromInt(50000).Equal(c.OriginalPrice))
	assert.True(t, decimal.NewFromInt(40000).Equal(c.FinalPrice))
}
