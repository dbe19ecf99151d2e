package combo

import "github.com/shopspring/decimal"

// Quote is the derived price breakdown for a combo.
type Quote struct {
	OriginalPrice  decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalPrice     decimal.Decimal
}

// ComputePrice derives a combo's price fields from live catalog prices.
// originalPrice = Σ price_i × qty_i over the given items; finalPrice is the
// original minus the admin-supplied discount. Fails with
// UnknownProductError when an item's product has no price in the lookup,
// and with ErrInvalidDiscount when the discount exceeds the original price
// (which would make the combo's final price negative).
func ComputePrice(items []Item, prices map[int64]decimal.Decimal, discount decimal.Decimal) (Quote, error) {
	if len(items) == 0 {
		return Quote{}, ErrEmptyItems
	}
	if discount.IsNegative() {
		return Quote{}, ErrInvalidDiscount
	}

	original := decimal.Zero
	for _, item := range items {
		price, ok := prices[item.ProductID]
		if !ok {
			return Quote{}, &UnknownProductError{ProductID: item.ProductID}
		}
		original = original.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	if discount.GreaterThan(original) {
		return Quote{}, ErrInvalidDiscount
	}

	return Quote{
		OriginalPrice:  original,
		DiscountAmount: discount,
		FinalPrice:     original.Sub(discount),
	}, nil
}
