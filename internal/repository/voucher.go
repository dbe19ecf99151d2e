package repository

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastbite/fastbite-api/internal/domain/voucher"
)

const (
	voucherColumns = `id, code, discount_type, discount_value, max_discount_amount,
		min_order_value, usage_limit, used_count, is_active, starts_at, ends_at`

	getVoucherByCodeSQL = `SELECT ` + voucherColumns + `
		FROM vouchers WHERE UPPER(code) = UPPER($1)`

	voucherRedeemedSQL = `SELECT EXISTS (
		SELECT 1 FROM voucher_redemptions WHERE user_id = $1 AND voucher_id = $2)`
)

var _ voucher.Repository = (*VoucherRepository)(nil)

// VoucherRepository implements voucher.Repository backed by PostgreSQL.
// It is strictly read-only: redemption writes happen inside the checkout
// transaction owned by CheckoutStore.
type VoucherRepository struct {
	pool *pgxpool.Pool
}

// NewVoucherRepository returns a VoucherRepository that uses the given pool.
func NewVoucherRepository(pool *pgxpool.Pool) *VoucherRepository {
	return &VoucherRepository{pool: pool}
}

// FindByCode looks up a voucher by its code (case-insensitive).
// Returns voucher.ErrNotFound when no such voucher exists.
func (r *VoucherRepository) FindByCode(ctx context.Context, code string) (*voucher.Voucher, error) {
	rows, err := r.pool.Query(ctx, getVoucherByCodeSQL, code)
	if err != nil {
		return nil, fmt.Errorf("finding voucher by code %q: %w", code, err)
	}

	v, err := pgx.CollectExactlyOneRow(rows, scanVoucher)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, voucher.ErrNotFound
		}
		return nil, fmt.Errorf("finding voucher by code %q: %w", code, err)
	}
	return &v, nil
}

// Redeemed reports whether the user already has a redemption row for the
// voucher.
func (r *VoucherRepository) Redeemed(ctx context.Context, userID, voucherID int64) (bool, error) {
	var used bool
	err := r.pool.QueryRow(ctx, voucherRedeemedSQL, userID, voucherID).Scan(&used)
	if err != nil {
		return false, fmt.Errorf("checking redemption for voucher %d: %w", voucherID, err)
	}
	return used, nil
}

func scanVoucher(row pgx.CollectableRow) (voucher.Voucher, error) {
	var v voucher.Voucher
	err := row.Scan(
		&v.ID, &v.Code, &v.DiscountType, &v.DiscountValue, &v.MaxDiscount,
		&v.MinOrderValue, &v.UsageLimit, &v.UsedCount, &v.Active,
		&v.StartsAt, &v.EndsAt,
	)
	return v, err
}
