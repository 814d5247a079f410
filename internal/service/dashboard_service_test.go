package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/repository"
)

func TestDashboardStats(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	active := approveMember(t, svcs, repos, "dashactive")
	registerMember(t, svcs, repos, "dashpending")
	rejected := registerMember(t, svcs, repos, "dashrejected")
	_, err := svcs.Member.Reject(ctx, rejected.ID)
	require.NoError(t, err)

	registerStudent(t, svcs, repos, "dashstudent")

	fee, err := svcs.Fee.Record(ctx, &repository.MembershipFee{
		MemberID: active.ID, Amount: decimal.NewFromInt(1000), FinancialYear: "2082/83",
	})
	require.NoError(t, err)
	_, err = svcs.Fee.Verify(ctx, fee.ID)
	require.NoError(t, err)

	stats, err := svcs.Dashboard.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalMembers)
	assert.Equal(t, 1, stats.ActiveMembers)
	assert.Equal(t, 1, stats.PendingMembers)
	assert.Equal(t, 1, stats.RejectedMembers)
	assert.Equal(t, 1, stats.TotalStudents)
	assert.Equal(t, 1, stats.PendingStudents)
	assert.Equal(t, 8, stats.TotalChapters)
	assert.Equal(t, "1000.00", stats.FeesByYear["2082/83"])
	assert.False(t, stats.GeneratedAt.IsZero())
}

func TestMasterDataListAndValidate(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	levels, err := svcs.MasterData.List(ctx, "educational_level")
	require.NoError(t, err)
	assert.Contains(t, levels, "Bachelors")

	_, err = svcs.MasterData.List(ctx, "shoe_size")
	assert.ErrorIs(t, err, ErrInvalidInput)

	require.NoError(t, svcs.MasterData.Add(ctx, "working_sector", "Cooperative"))
	assert.NoError(t, svcs.MasterData.Validate(ctx, "working_sector", "Cooperative"))
	assert.ErrorIs(t, svcs.MasterData.Validate(ctx, "working_sector", "Piracy"), ErrInvalidInput)
}
