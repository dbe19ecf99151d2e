package voucher

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Check runs the eligibility checks that depend only on the voucher row
// itself: active flag, validity window, global usage budget, and minimum
// order value. The first failing check wins, in this order, so user-facing
// messages stay stable. Per-user redemption history is checked separately
// by the caller, which knows the requesting user.
//
// Check never mutates the voucher; the same logic runs both for the
// non-committing preview endpoint and inside the checkout transaction
// against the locked row.
func Check(v *Voucher, now time.Time, cartTotal decimal.Decimal) error {
	if !v.Active {
		return ErrInactive
	}
	if now.Before(v.StartsAt) {
		return ErrNotYetStarted
	}
	if now.After(v.EndsAt) {
		return ErrExpired
	}
	if v.UsageLimit > 0 && v.UsedCount >= v.UsageLimit {
		return ErrExhausted
	}
	if cartTotal.LessThan(v.MinOrderValue) {
		return ErrBelowMinimum
	}
	return nil
}

// Discount computes the discount amount the voucher grants on the given
// cart total. Fixed vouchers grant their value; percent vouchers grant
// value% of the total, capped at MaxDiscount when set. The result is
// always clamped to the cart total so an order can never go negative.
func Discount(v *Voucher, cartTotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch v.DiscountType {
	case DiscountFixed:
		amount = v.DiscountValue
	case DiscountPercent:
		amount = cartTotal.Mul(v.DiscountValue).Div(hundred)
		if v.MaxDiscount.Valid && amount.GreaterThan(v.MaxDiscount.Decimal) {
			amount = v.MaxDiscount.Decimal
		}
	}
	if amount.GreaterThan(cartTotal) {
		amount = cartTotal
	}
	if amount.IsNegative() {
		amount = decimal.Zero
	}
	return amount
}
