package voucher

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// Application is the outcome of successfully applying a voucher to a cart.
type Application struct {
	VoucherID      int64
	Code           string
	DiscountAmount decimal.Decimal
	FinalTotal     decimal.Decimal
}

// PreviewService answers "what would this code save me" without consuming
// anything. Checkout re-runs the same checks under a row lock before it
// commits, so a preview result is never authoritative.
type PreviewService struct {
	repo Repository
	now  func() time.Time
}

// NewPreviewService creates a PreviewService backed by the given Repository.
func NewPreviewService(repo Repository) *PreviewService {
	return &PreviewService{repo: repo, now: time.Now}
}

// Apply validates the code for the given user and cart total and returns
// the computed discount, or the specific rejection reason.
func (s *PreviewService) Apply(ctx context.Context, code string, userID int64, cartTotal decimal.Decimal) (*Application, error) {
	v, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "lookup voucher")
	}

	if err := Check(v, s.now(), cartTotal); err != nil {
		return nil, err
	}

	used, err := s.repo.Redeemed(ctx, userID, v.ID)
	if err != nil {
		return nil, errors.Wrap(err, "check redemption history")
	}
	if used {
		return nil, ErrAlreadyUsed
	}

	amount := Discount(v, cartTotal)
	return &Application{
		VoucherID:      v.ID,
		Code:           v.Code,
		DiscountAmount: amount,
		FinalTotal:     cartTotal.Sub(amount),
	}, nil
}
