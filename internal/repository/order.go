package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastbite/fastbite-api/internal/domain/order"
	"github.com/fastbite/fastbite-api/internal/domain/voucher"
)

const (
	orderColumns = `id, user_id, voucher_id, shipping_full_name, shipping_address,
		shipping_phone, payment_method, shipping_method, items_price, shipping_price,
		discount_amount, total_price, is_paid, paid_at, note, status, created_at, updated_at`

	getOrderByIDSQL = `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	getOrderItemsSQL = `SELECT product_id, quantity, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`

	listOrdersByUserSQL = `SELECT ` + orderColumns + ` FROM orders
		WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	countOrdersByUserSQL = `SELECT COUNT(*) FROM orders WHERE user_id = $1`

	updateOrderStatusSQL = `UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`

	cancelPendingOrderSQL = `UPDATE orders SET status = 'cancelled', updated_at = now()
		WHERE id = $1 AND user_id = $2 AND status = 'pending'`

	// paid_at is set only on the first confirmation; the is_paid guard makes
	// repeated gateway callbacks no-ops.
	markOrderPaidSQL = `UPDATE orders
		SET is_paid = TRUE, status = 'processing', paid_at = now(), updated_at = now()
		WHERE id = $1 AND NOT is_paid`

	orderExistsSQL = `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`

	insertOrderSQL = `INSERT INTO orders (
			user_id, voucher_id, shipping_full_name, shipping_address, shipping_phone,
			payment_method, shipping_method, items_price, shipping_price,
			discount_amount, total_price, is_paid, paid_at, note, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`

	lockVoucherByCodeSQL = `SELECT ` + voucherColumns + `
		FROM vouchers WHERE UPPER(code) = UPPER($1) FOR UPDATE`

	consumeVoucherUseSQL = `UPDATE vouchers SET used_count = used_count + 1 WHERE id = $1`

	insertRedemptionSQL = `INSERT INTO voucher_redemptions (user_id, voucher_id, order_id)
		VALUES ($1, $2, $3)`
)

var _ order.Store = (*OrderRepository)(nil)

// OrderRepository implements order.Store backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// GetByID returns an order with its items.
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %d: %w", id, err)
	}

	itemRows, err := r.pool.Query(ctx, getOrderItemsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting items of order %d: %w", id, err)
	}
	o.Items, err = pgx.CollectRows(itemRows, scanOrderItem)
	if err != nil {
		return nil, fmt.Errorf("getting items of order %d: %w", id, err)
	}
	return &o, nil
}

// ListByUser returns the user's orders newest first plus the total count.
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64, p order.Page) ([]order.Order, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, countOrdersByUserSQL, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders of user %d: %w", userID, err)
	}

	rows, err := r.pool.Query(ctx, listOrdersByUserSQL, userID, p.Limit, p.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders of user %d: %w", userID, err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders of user %d: %w", userID, err)
	}
	return orders, total, nil
}

// List is the admin listing with optional status/id/date filters.
func (r *OrderRepository) List(ctx context.Context, f order.AdminFilter, p order.Page) ([]order.Order, int, error) {
	var (
		conds []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}
	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.OrderID != 0 {
		conds = append(conds, "id = "+arg(f.OrderID))
	}
	if f.Date != "" {
		conds = append(conds, "created_at::date = "+arg(f.Date))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM orders"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	listSQL := fmt.Sprintf("SELECT %s FROM orders%s ORDER BY created_at DESC LIMIT %s OFFSET %s",
		orderColumns, where, arg(p.Limit), arg(p.Offset))
	rows, err := r.pool.Query(ctx, listSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	orders, err := pgx.CollectRows(rows, scanOrder)
	if err != nil {
		return nil, 0, fmt.Errorf("listing orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus sets the status unconditionally.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, st order.Status) error {
	tag, err := r.pool.Exec(ctx, updateOrderStatusSQL, id, st)
	if err != nil {
		return fmt.Errorf("updating status of order %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}
	return nil
}

// CancelPending cancels a still-pending order owned by userID.
func (r *OrderRepository) CancelPending(ctx context.Context, id, userID int64) (bool, error) {
	tag, err := r.pool.Exec(ctx, cancelPendingOrderSQL, id, userID)
	if err != nil {
		return false, fmt.Errorf("cancelling order %d: %w", id, err)
	}
	return tag.RowsAffected() > 0, nil
}

// MarkPaid records gateway payment confirmation, idempotently.
func (r *OrderRepository) MarkPaid(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, markOrderPaidSQL, id)
	if err != nil {
		return fmt.Errorf("marking order %d paid: %w", id, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	// Zero rows means either already paid (fine) or no such order.
	var exists bool
	if err := r.pool.QueryRow(ctx, orderExistsSQL, id).Scan(&exists); err != nil {
		return fmt.Errorf("marking order %d paid: %w", id, err)
	}
	if !exists {
		return order.ErrNotFound
	}
	return nil
}

var _ order.CheckoutStore = (*CheckoutStore)(nil)

// CheckoutStore runs checkout transactions. All statements issued through
// the order.CheckoutTx it hands out share one database transaction, so the
// voucher row lock taken by LockVoucher is held until commit or rollback.
type CheckoutStore struct {
	pool *pgxpool.Pool
}

// NewCheckoutStore returns a CheckoutStore that uses the given pool.
func NewCheckoutStore(pool *pgxpool.Pool) *CheckoutStore {
	return &CheckoutStore{pool: pool}
}

// Checkout runs fn inside one transaction, committing on nil and rolling
// back on error or panic.
func (s *CheckoutStore) Checkout(ctx context.Context, fn func(tx order.CheckoutTx) error) error {
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(&checkoutTx{tx: tx})
	})
}

type checkoutTx struct {
	tx pgx.Tx
}

// LockVoucher reads the voucher row under FOR UPDATE. Concurrent checkouts
// redeeming the same code serialize here; the loser re-reads the
// incremented used_count once the winner commits.
func (t *checkoutTx) LockVoucher(ctx context.Context, code string) (*voucher.Voucher, error) {
	rows, err := t.tx.Query(ctx, lockVoucherByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("locking voucher %q: %w", code, err)
	}

	v, err := pgx.CollectExactlyOneRow(rows, scanVoucher)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, voucher.ErrNotFound
		}
		return nil, fmt.Errorf("locking voucher %q: %w", code, err)
	}
	return &v, nil
}

func (t *checkoutTx) VoucherRedeemed(ctx context.Context, userID, voucherID int64) (bool, error) {
	var used bool
	err := t.tx.QueryRow(ctx, voucherRedeemedSQL, userID, voucherID).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("checking redemption for voucher %d: %w", voucherID, err)
	}
	return used, nil
}

func (t *checkoutTx) ConsumeVoucherUse(ctx context.Context, voucherID int64) error {
	if _, err := t.tx.Exec(ctx, consumeVoucherUseSQL, voucherID); err != nil {
		return fmt.Errorf("incrementing used_count of voucher %d: %w", voucherID, err)
	}
	return nil
}

func (t *checkoutTx) InsertOrder(ctx context.Context, o *order.Order) (int64, error) {
	var id int64
	err := t.tx.QueryRow(ctx, insertOrderSQL,
		o.UserID, o.VoucherID, o.Shipping.FullName, o.Shipping.Address, o.Shipping.Phone,
		o.PaymentMethod, o.ShippingMethod, o.ItemsPrice, o.ShippingPrice,
		o.DiscountAmount, o.TotalPrice, o.Paid, o.PaidAt, o.Note, o.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}
	return id, nil
}

// InsertItems bulk-inserts the order lines via COPY.
func (t *checkoutTx) InsertItems(ctx context.Context, orderID int64, items []order.Item) error {
	_, err := t.tx.CopyFrom(ctx,
		pgx.Identifier{"order_items"},
		[]string{"order_id", "product_id", "quantity", "unit_price"},
		pgx.CopyFromSlice(len(items), func(i int) ([]any, error) {
			item := items[i]
			return []any{orderID, item.ProductID, item.Quantity, item.UnitPrice}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("inserting items of order %d: %w", orderID, err)
	}
	return nil
}

func (t *checkoutTx) InsertRedemption(ctx context.Context, userID, voucherID, orderID int64) error {
	if _, err := t.tx.Exec(ctx, insertRedemptionSQL, userID, voucherID, orderID); err != nil {
		return fmt.Errorf("recording redemption of voucher %d: %w", voucherID, err)
	}
	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var o order.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.VoucherID, &o.Shipping.FullName, &o.Shipping.Address,
		&o.Shipping.Phone, &o.PaymentMethod, &o.ShippingMethod, &o.ItemsPrice,
		&o.ShippingPrice, &o.DiscountAmount, &o.TotalPrice, &o.Paid, &o.PaidAt,
		&o.Note, &o.Status, &o.CreatedAt, &o.UpdatedAt,
	)
	return o, err
}

func scanOrderItem(row pgx.CollectableRow) (order.Item, error) {
	var it order.Item
	err := row.Scan(&it.ProductID, &it.Quantity, &it.UnitPrice)
	return it, err
}
