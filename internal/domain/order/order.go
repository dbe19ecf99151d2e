package order

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/fastbite/fastbite-api/internal/domain/voucher"
)

// PaymentMethod is the closed set of supported payment options.
type PaymentMethod string

const (
	// PaymentCOD is cash on delivery.
	PaymentCOD PaymentMethod = "cod"
	// PaymentVNPay is the online gateway redirect flow.
	PaymentVNPay PaymentMethod = "vnpay"
)

// ShippingMethod is the closed set of supported delivery options.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

var (
	// ErrUnauthenticated is returned when checkout is attempted without a user.
	ErrUnauthenticated = errors.New("login required to place an order")
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrNotFound is returned when a requested order does not exist or does
	// not belong to the requesting user.
	ErrNotFound = errors.New("order not found")

	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrUnknownShippingMethod = errors.New("unknown shipping method")
)

// InvalidQuantityError indicates a line item with a non-positive quantity.
type InvalidQuantityError struct {
	ProductID int64
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("quantity must be greater than 0 for product %d", e.ProductID)
}

// ParsePaymentMethod converts a wire string into a PaymentMethod.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentCOD, PaymentVNPay:
		return PaymentMethod(s), nil
	}
	return "", errors.Wrapf(ErrUnknownPaymentMethod, "%q", s)
}

// ParseShippingMethod converts a wire string into a ShippingMethod.
func ParseShippingMethod(s string) (ShippingMethod, error) {
	switch ShippingMethod(s) {
	case ShippingStandard, ShippingExpress:
		return ShippingMethod(s), nil
	}
	return "", errors.Wrapf(ErrUnknownShippingMethod, "%q", s)
}

// ShippingInfo is the delivery contact captured at checkout.
type ShippingInfo struct {
	FullName string
	Address  string
	Phone    string
}

// Item is a single order line. UnitPrice is the price snapshot captured at
// purchase time; it never changes when the catalog price does.
type Item struct {
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
}

// Order is a placed customer order with its pricing breakdown.
// TotalPrice always equals ItemsPrice + ShippingPrice - DiscountAmount.
type Order struct {
	ID             int64
	UserID         int64
	VoucherID      *int64
	Shipping       ShippingInfo
	PaymentMethod  PaymentMethod
	ShippingMethod ShippingMethod
	ItemsPrice     decimal.Decimal
	ShippingPrice  decimal.Decimal
	DiscountAmount decimal.Decimal
	TotalPrice     decimal.Decimal
	Paid           bool
	PaidAt         *time.Time
	Note           string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Items          []Item
}

// Page is a limit/offset pagination window.
type Page struct {
	Limit  int
	Offset int
}

// AdminFilter narrows the admin order listing.
type AdminFilter struct {
	Status  Status // empty matches all
	OrderID int64  // zero matches all
	Date    string // YYYY-MM-DD, empty matches all
}

// Store is the persistence surface for orders outside the checkout
// transaction.
type Store interface {
	GetByID(ctx context.Context, id int64) (*Order, error)
	ListByUser(ctx context.Context, userID int64, p Page) ([]Order, int, error)
	List(ctx context.Context, f AdminFilter, p Page) ([]Order, int, error)
	// UpdateStatus sets the status unconditionally (admin action).
	// Returns ErrNotFound when the order does not exist.
	UpdateStatus(ctx context.Context, id int64, st Status) error
	// CancelPending flips a pending order owned by userID to cancelled.
	// Reports whether a row was actually updated.
	CancelPending(ctx context.Context, id, userID int64) (bool, error)
	// MarkPaid records gateway payment confirmation: paid flag, paid
	// timestamp (set once), status to processing. Calling it on an
	// already-paid order is a no-op. Returns ErrNotFound for unknown ids.
	MarkPaid(ctx context.Context, id int64) error
}

// CheckoutTx is the set of statements available inside a single checkout
// transaction. Implementations bind every call to the same database
// transaction; any error aborts the whole thing.
type CheckoutTx interface {
	// LockVoucher acquires an exclusive row lock on the voucher with the
	// given code, blocking concurrent redemptions of the same code until
	// this transaction finishes. Returns voucher.ErrNotFound when the code
	// does not exist.
	LockVoucher(ctx context.Context, code string) (*voucher.Voucher, error)
	VoucherRedeemed(ctx context.Context, userID, voucherID int64) (bool, error)
	ConsumeVoucherUse(ctx context.Context, voucherID int64) error
	InsertOrder(ctx context.Context, o *Order) (int64, error)
	InsertItems(ctx context.Context, orderID int64, items []Item) error
	InsertRedemption(ctx context.Context, userID, voucherID, orderID int64) error
}

// CheckoutStore runs fn inside one transaction: commit on nil, full
// rollback on error.
type CheckoutStore interface {
	Checkout(ctx context.Context, fn func(tx CheckoutTx) error) error
}
