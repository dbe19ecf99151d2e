package voucher

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// DiscountType enumerates the supported voucher discount strategies.
type DiscountType string

const (
	// DiscountFixed subtracts a fixed amount from the cart subtotal.
	DiscountFixed DiscountType = "fixed"
	// DiscountPercent subtracts a percentage of the cart subtotal,
	// optionally capped at MaxDiscount.
	DiscountPercent DiscountType = "percent"
)

// Rejection reasons, one per failed eligibility check. Each maps to a
// distinct user-facing message at the API boundary.
var (
	ErrNotFound      = errors.New("voucher code does not exist")
	ErrInactive      = errors.New("voucher is locked")
	ErrNotYetStarted = errors.New("voucher is not active yet")
	ErrExpired       = errors.New("voucher has expired")
	ErrExhausted     = errors.New("voucher usage limit reached")
	ErrBelowMinimum  = errors.New("order does not meet the voucher minimum")
	ErrAlreadyUsed   = errors.New("voucher already used by this user")
)

// Voucher is a discount code with usage and validity constraints.
type Voucher struct {
	ID            int64
	Code          string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	// MaxDiscount caps percent discounts. Invalid means no cap.
	MaxDiscount   decimal.NullDecimal
	MinOrderValue decimal.Decimal
	// UsageLimit is the global redemption budget. Zero means unlimited.
	UsageLimit int
	UsedCount  int
	Active     bool
	StartsAt   time.Time
	EndsAt     time.Time
}

// Repository provides read access to vouchers and their redemption history.
// Mutation (used_count increment, redemption rows) happens only inside the
// checkout transaction and is owned by the order store.
type Repository interface {
	// FindByCode looks up a voucher by code (case-insensitive).
	// Returns ErrNotFound when no such voucher exists.
	FindByCode(ctx context.Context, code string) (*Voucher, error)
	// Redeemed reports whether the user has already redeemed the voucher.
	Redeemed(ctx context.Context, userID, voucherID int64) (bool, error)
}
