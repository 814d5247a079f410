package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

func TestRecordFeeDefaults(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := approveMember(t, svcs, repos, "payer")

	fee, err := svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID:      member.ID,
		Amount:        decimal.NewFromInt(1000),
		FinancialYear: "2082/83",
	})
	require.NoError(t, err)
	assert.Equal(t, types.PaymentPending, fee.PaymentStatus)
	assert.False(t, fee.PaymentDate.IsZero())
	require.NotNil(t, fee.TransactionID)
	assert.NotEmpty(t, *fee.TransactionID)
}

func TestRecordFeeValidation(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := approveMember(t, svcs, repos, "strict")

	_, err := svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.Zero, FinancialYear: "2082/83",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.NewFromInt(500),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.NewFromInt(500),
		FinancialYear: "2082/83", PaymentStatus: "REFUNDED",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRecordFeeRequiresActiveMember(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	pending := registerMember(t, svcs, repos, "unpaid")

	_, err := svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: pending.ID, Amount: decimal.NewFromInt(1000), FinancialYear: "2082/83",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: 999, Amount: decimal.NewFromInt(1000), FinancialYear: "2082/83",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRecordFeeDuplicateTransactionRef(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := approveMember(t, svcs, repos, "dup")

	_, err := svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.NewFromInt(1000),
		FinancialYear: "2082/83", TransactionID: strPtr("TXN-001"),
	})
	require.NoError(t, err)

	_, err = svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.NewFromInt(1000),
		FinancialYear: "2082/83", TransactionID: strPtr("TXN-001"),
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestVerifyFeeIdempotent(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := approveMember(t, svcs, repos, "verify")

	fee, err := svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.NewFromInt(1500), FinancialYear: "2082/83",
	})
	require.NoError(t, err)

	verified, err := svcs.Fee.Verify(ctx, fee.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentPaid, verified.PaymentStatus)

	again, err := svcs.Fee.Verify(ctx, fee.ID)
	require.NoError(t, err)
	assert.Equal(t, types.PaymentPaid, again.PaymentStatus)

	_, err = svcs.Fee.Verify(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeeTotalsByYearCountOnlyPaid(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := approveMember(t, svcs, repos, "totals")

	paid, err := svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.NewFromInt(1000), FinancialYear: "2082/83",
	})
	require.NoError(t, err)
	_, err = svcs.Fee.Verify(ctx, paid.ID)
	require.NoError(t, err)

	// Pending payment in the same year must not count
	_, err = svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.NewFromInt(2000), FinancialYear: "2082/83",
	})
	require.NoError(t, err)

	totals, err := svcs.Fee.TotalsByYear(ctx)
	require.NoError(t, err)
	require.Contains(t, totals, "2082/83")
	assert.True(t, totals["2082/83"].Equal(decimal.NewFromInt(1000)))
}

func TestFeeListFilterAndDelete(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := approveMember(t, svcs, repos, "lister")

	fee, err := svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: member.ID, Amount: decimal.NewFromInt(1000), FinancialYear: "2082/83",
	})
	require.NoError(t, err)

	_, err = svcs.Fee.List(ctx, repository.FeeFilter{PaymentStatus: strPtr("BOGUS")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	status := types.PaymentPending
	pending, err := svcs.Fee.List(ctx, repository.FeeFilter{PaymentStatus: &status})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	byMember, err := svcs.Fee.ListByMember(ctx, member.ID)
	require.NoError(t, err)
	assert.Len(t, byMember, 1)

	require.NoError(t, svcs.Fee.Delete(ctx, fee.ID))
	err = svcs.Fee.Delete(ctx, fee.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
