package voucher

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	byCode      map[string]*Voucher
	redeemed    map[int64]bool
	findErr     error
	redeemedErr error
}

func (m *mockRepo) FindByCode(_ context.Context, code string) (*Voucher, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	v, ok := m.byCode[strings.ToUpper(code)]
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (m *mockRepo) Redeemed(_ context.Context, userID, _ int64) (bool, error) {
	if m.redeemedErr != nil {
		return false, m.redeemedErr
	}
	return m.redeemed[userID], nil
}

// newPreview pins the service clock to testNow so the fixture validity
// window stays meaningful.
func newPreview(repo *mockRepo) *PreviewService {
	svc := NewPreviewService(repo)
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestApply_Success(t *testing.T) {
	repo := &mockRepo{byCode: map[string]*Voucher{"SAVE10": activeVoucher()}}
	svc := newPreview(repo)

	app, err := svc.Apply(context.Background(), "SAVE10", 7, decimal.NewFromInt(200000))
	require.NoError(t, err)

	assert.Equal(t, int64(1), app.VoucherID)
	assert.Equal(t, "SAVE10", app.Code)
	assert.True(t, decimal.NewFromInt(15000).Equal(app.DiscountAmount))
	assert.True(t, decimal.NewFromInt(185000).Equal(app.FinalTotal))
}

func TestApply_CaseInsensitiveCode(t *testing.T) {
	repo := &mockRepo{byCode: map[string]*Voucher{"SAVE10": activeVoucher()}}
	svc := newPreview(repo)

	app, err := svc.Apply(context.Background(), "save10", 7, decimal.NewFromInt(200000))
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", app.Code)
}

func TestApply_UnknownCode(t *testing.T) {
	svc := newPreview(&mockRepo{byCode: map[string]*Voucher{}})

	_, err := svc.Apply(context.Background(), "NOPE", 7, decimal.NewFromInt(200000))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestApply_AlreadyUsed(t *testing.T) {
	repo := &mockRepo{
		byCode:   map[string]*Voucher{"SAVE10": activeVoucher()},
		redeemed: map[int64]bool{7: true},
	}
	svc := newPreview(repo)

	_, err := svc.Apply(context.Background(), "SAVE10", 7, decimal.NewFromInt(200000))
	require.ErrorIs(t, err, ErrAlreadyUsed)
}

func TestApply_BelowMinimum(t *testing.T) {
	repo := &mockRepo{byCode: map[string]*Voucher{"SAVE10": activeVoucher()}}
	svc := newPreview(repo)

	_, err := svc.Apply(context.Background(), "SAVE10", 7, decimal.NewFromInt(50000))
	require.ErrorIs(t, err, ErrBelowMinimum)
}

func TestApply_RepoError(t *testing.T) {
	repo := &mockRepo{findErr: errors.New("db down")}
	svc := newPreview(repo)

	_, err := svc.Apply(context.Background(), "SAVE10", 7, decimal.NewFromInt(200000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lookup voucher")
}

func TestApply_HistoryError(t *testing.T) {
	repo := &mockRepo{
		byCode:      map[string]*Voucher{"SAVE10": activeVoucher()},
		redeemedErr: errors.New("db down"),
	}
	svc := newPreview(repo)

	_, err := svc.Apply(context.Background(), "SAVE10", 7, decimal.NewFromInt(200000))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check redemption history")
}
