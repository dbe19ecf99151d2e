package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/fastbite/fastbite-api/internal/domain/voucher"
)

// PlaceOrderRequest holds the checkout input. ItemsPrice, ShippingPrice and
// the per-item UnitPrice are the client-submitted snapshot; they are
// persisted as-is rather than re-derived from the catalog. That seam lives
// entirely in this request type, so server-side re-pricing can be added
// here without touching the transaction orchestration below.
type PlaceOrderRequest struct {
	UserID         int64
	Items          []Item
	Shipping       ShippingInfo
	PaymentMethod  PaymentMethod
	ShippingMethod ShippingMethod
	ItemsPrice     decimal.Decimal
	ShippingPrice  decimal.Decimal
	Note           string
	VoucherCode    string
}

// Service owns order placement and lifecycle operations.
type Service struct {
	store    Store
	checkout CheckoutStore
	now      func() time.Time
}

// NewService creates an order Service over the given stores.
func NewService(store Store, checkout CheckoutStore) *Service {
	return &Service{store: store, checkout: checkout, now: time.Now}
}

// PlaceOrder runs the whole checkout as one atomic transaction: lock the
// voucher row (if a code was supplied), re-validate it under the lock,
// consume one use, compute the final total, insert the order with its
// items, and record the redemption. Any failure rolls everything back:
// no partial order, no partial voucher consumption.
//
// Re-validating inside the lock is mandatory: a prior unlocked preview may
// have approved a voucher that another transaction exhausted in the
// meantime. The second redeemer blocks on the row lock, re-reads the
// incremented used_count, and fails with voucher.ErrExhausted.
func (s *Service) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (int64, error) {
	if req.UserID <= 0 {
		return 0, ErrUnauthenticated
	}
	if len(req.Items) == 0 {
		return 0, ErrEmptyCart
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return 0, &InvalidQuantityError{ProductID: item.ProductID}
		}
	}

	var orderID int64
	err := s.checkout.Checkout(ctx, func(tx CheckoutTx) error {
		now := s.now()

		discount := decimal.Zero
		var voucherID *int64
		if req.VoucherCode != "" {
			v, err := tx.LockVoucher(ctx, req.VoucherCode)
			if err != nil {
				return err
			}
			if err := voucher.Check(v, now, req.ItemsPrice); err != nil {
				return err
			}
			used, err := tx.VoucherRedeemed(ctx, req.UserID, v.ID)
			if err != nil {
				return errors.Wrap(err, "check redemption history")
			}
			if used {
				return voucher.ErrAlreadyUsed
			}
			if err := tx.ConsumeVoucherUse(ctx, v.ID); err != nil {
				return errors.Wrap(err, "consume voucher use")
			}
			discount = voucher.Discount(v, req.ItemsPrice)
			voucherID = &v.ID
		}

		total := req.ItemsPrice.Add(req.ShippingPrice).Sub(discount)
		// Discount is clamped to the subtotal above, so this cannot fire;
		// re-assert anyway rather than persist a negative total.
		if total.IsNegative() {
			return errors.Errorf("total price must not be negative, got %s", total)
		}

		o := &Order{
			UserID:         req.UserID,
			VoucherID:      voucherID,
			Shipping:       req.Shipping,
			PaymentMethod:  req.PaymentMethod,
			ShippingMethod: req.ShippingMethod,
			ItemsPrice:     req.ItemsPrice,
			ShippingPrice:  req.ShippingPrice,
			DiscountAmount: discount,
			TotalPrice:     total,
			Note:           req.Note,
		}
		applyInitialPaymentState(o, now)

		id, err := tx.InsertOrder(ctx, o)
		if err != nil {
			return errors.Wrap(err, "insert order")
		}
		if err := tx.InsertItems(ctx, id, req.Items); err != nil {
			return errors.Wrap(err, "insert order items")
		}
		if voucherID != nil {
			if err := tx.InsertRedemption(ctx, req.UserID, *voucherID, id); err != nil {
				return errors.Wrap(err, "insert redemption")
			}
		}
		orderID = id
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// applyInitialPaymentState sets the initial status and paid fields from the
// payment method. COD orders start processing and unpaid. Gateway orders
// start pending and are marked paid at creation time, before the redirect
// completes, which is the behavior the payment flow was built around. The
// MarkPaid seam stays idempotent so the gateway callback can confirm
// without double effects.
func applyInitialPaymentState(o *Order, now time.Time) {
	if o.PaymentMethod == PaymentCOD {
		o.Status = StatusProcessing
		o.Paid = false
		return
	}
	o.Status = StatusPending
	o.Paid = true
	o.PaidAt = &now
}

// CancelOrder is the self-service cancellation: only the owner, only while
// the order is still pending. Returns ErrInvalidTransition once the order
// has moved on.
func (s *Service) CancelOrder(ctx context.Context, orderID, userID int64) error {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return err
	}
	if o.UserID != userID {
		return ErrNotFound
	}
	if !o.Status.UserCancellable() {
		return ErrInvalidTransition
	}

	// The update re-checks status in SQL, so a concurrent admin action
	// between the read above and here cannot be overwritten.
	updated, err := s.store.CancelPending(ctx, orderID, userID)
	if err != nil {
		return err
	}
	if !updated {
		return ErrInvalidTransition
	}
	return nil
}

// UpdateStatus is the admin-driven transition. The target must be one of
// the enumerated statuses; parsing at the API boundary makes anything else
// unrepresentable, but the service re-checks to keep the guard local.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, st Status) error {
	if _, ok := statuses[st]; !ok {
		return errors.Wrapf(ErrInvalidStatus, "%q", st)
	}
	return s.store.UpdateStatus(ctx, orderID, st)
}

// MarkPaid records the payment-gateway confirmation for an order.
// It is idempotent: confirming an already-paid order changes nothing.
func (s *Service) MarkPaid(ctx context.Context, orderID int64) error {
	return s.store.MarkPaid(ctx, orderID)
}

// GetOrder returns an order with its items, restricted to the owner.
// Admin callers pass userID 0 to skip the ownership check.
func (s *Service) GetOrder(ctx context.Context, orderID, userID int64) (*Order, error) {
	o, err := s.store.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if userID != 0 && o.UserID != userID {
		return nil, ErrNotFound
	}
	return o, nil
}

// ListMyOrders returns the user's orders, newest first, with the total count.
func (s *Service) ListMyOrders(ctx context.Context, userID int64, p Page) ([]Order, int, error) {
	return s.store.ListByUser(ctx, userID, p)
}

// ListOrders is the admin listing with optional status/id/date filters.
func (s *Service) ListOrders(ctx context.Context, f AdminFilter, p Page) ([]Order, int, error) {
	return s.store.List(ctx, f, p)
}
