package voucher

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func activeVoucher() *Voucher {
	return &Voucher{
		ID:            1,
		Code:          "SAVE10",
		DiscountType:  DiscountPercent,
		DiscountValue: decimal.NewFromInt(10),
		MaxDiscount:   decimal.NewNullDecimal(decimal.NewFromInt(15000)),
		MinOrderValue: decimal.NewFromInt(100000),
		UsageLimit:    100,
		UsedCount:     0,
		Active:        true,
		StartsAt:      testNow.AddDate(0, -1, 0),
		EndsAt:        testNow.AddDate(0, 1, 0),
	}
}

func TestCheck(t *testing.T) {
	cart := decimal.NewFromInt(200000)

	tests := []struct {
		name   string
		mutate func(v *Voucher)
		cart   decimal.Decimal
		want   error
	}{
		{
			name:   "valid",
			mutate: func(*Voucher) {},
			cart:   cart,
		},
		{
			name:   "inactive",
			mutate: func(v *Voucher) { v.Active = false },
			cart:   cart,
			want:   ErrInactive,
		},
		{
			name:   "not yet started",
			mutate: func(v *Voucher) { v.StartsAt = testNow.AddDate(0, 0, 1) },
			cart:   cart,
			want:   ErrNotYetStarted,
		},
		{
			name:   "expired",
			mutate: func(v *Voucher) { v.EndsAt = testNow.AddDate(0, 0, -1) },
			cart:   cart,
			want:   ErrExpired,
		},
		{
			name:   "exhausted",
			mutate: func(v *Voucher) { v.UsedCount = v.UsageLimit },
			cart:   cart,
			want:   ErrExhausted,
		},
		{
			name:   "zero limit means unlimited",
			mutate: func(v *Voucher) { v.UsageLimit = 0; v.UsedCount = 1_000_000 },
			cart:   cart,
		},
		{
			name:   "below minimum",
			mutate: func(*Voucher) {},
			cart:   decimal.NewFromInt(99999),
			want:   ErrBelowMinimum,
		},
		{
			name: "inactive wins over expired",
			mutate: func(v *Voucher) {
				v.Active = false
				v.EndsAt = testNow.AddDate(0, 0, -1)
			},
			cart: cart,
			want: ErrInactive,
		},
		{
			name: "expired wins over exhausted",
			mutate: func(v *Voucher) {
				v.EndsAt = testNow.AddDate(0, 0, -1)
				v.UsedCount = v.UsageLimit
			},
			cart: cart,
			want: ErrExpired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := activeVoucher()
			tt.mutate(v)

			err := Check(v, testNow, tt.cart)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDiscount_Fixed(t *testing.T) {
	v := activeVoucher()
	v.DiscountType = DiscountFixed
	v.DiscountValue = decimal.NewFromInt(30000)
	v.MaxDiscount = decimal.NullDecimal{}

	got := Discount(v, decimal.NewFromInt(200000))
	assert.True(t, decimal.NewFromInt(30000).Equal(got))
}

func TestDiscount_PercentCapped(t *testing.T) {
	// 10% of 200,000 is 20,000, capped at 15,000.
	v := activeVoucher()

	got := Discount(v, decimal.NewFromInt(200000))
	assert.True(t, decimal.NewFromInt(15000).Equal(got))
}

func TestDiscount_PercentUnderCap(t *testing.T) {
	// 10% of 120,000 is 12,000, below the 15,000 cap.
	v := activeVoucher()

	got := Discount(v, decimal.NewFromInt(120000))
	assert.True(t, decimal.NewFromInt(12000).Equal(got))
}

func TestDiscount_PercentNoCap(t *testing.T) {
	v := activeVoucher()
	v.MaxDiscount = decimal.NullDecimal{}

	got := Discount(v, decimal.NewFromInt(200000))
	assert.True(t, decimal.NewFromInt(20000).Equal(got))
}

func TestDiscount_ClampedToCartTotal(t *testing.T) {
	v := activeVoucher()
	v.DiscountType = DiscountFixed
	v.DiscountValue = decimal.NewFromInt(500000)

	cart := decimal.NewFromInt(80000)
	got := Discount(v, cart)
	assert.True(t, cart.Equal(got))
}

func TestDiscount_NeverNegative(t *testing.T) {
	v := activeVoucher()
	v.DiscountType = DiscountFixed
	v.DiscountValue = decimal.NewFromInt(10000)

	got := Discount(v, decimal.Zero)
	assert.True(t, got.IsZero())
}
