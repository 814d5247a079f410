package repository

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestUserUniqueness(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	require.NoError(t, repos.UserRepo.Create(ctx, &User{Username: "alice", Email: "alice@example.com"}, nil))

	err := repos.UserRepo.Create(ctx, &User{Username: "ALICE", Email: "other@example.com"}, nil)
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repos.UserRepo.Create(ctx, &User{Username: "alice2", Email: "Alice@Example.com"}, nil)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestSaveApprovalDuplicateCode(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	first := &Member{FullName: "First", MembershipStatus: "PENDING"}
	second := &Member{FullName: "Second", MembershipStatus: "PENDING"}
	require.NoError(t, repos.MemberRepo.Create(ctx, first))
	require.NoError(t, repos.MemberRepo.Create(ctx, second))

	first.MembershipCode = strPtr("SEWAM002")
	first.MembershipStatus = "ACTIVE"
	require.NoError(t, repos.MemberRepo.SaveApproval(ctx, first))

	// Same code on another row loses the uniqueness race
	second.MembershipCode = strPtr("SEWAM002")
	second.MembershipStatus = "ACTIVE"
	err := repos.MemberRepo.SaveApproval(ctx, second)
	assert.ErrorIs(t, err, ErrDuplicateCode)

	// A row keeps its own code on re-save
	require.NoError(t, repos.MemberRepo.SaveApproval(ctx, first))
}

func TestSaveApprovalActivatesOwningUser(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	user := &User{Username: "owner", Email: "owner@example.com", Active: false}
	require.NoError(t, repos.UserRepo.Create(ctx, user, nil))

	member := &Member{FullName: "Owner", UserID: intPtr(user.ID), MembershipStatus: "PENDING"}
	require.NoError(t, repos.MemberRepo.Create(ctx, member))

	member.MembershipCode = strPtr("SEWAM002")
	member.MembershipStatus = "ACTIVE"
	require.NoError(t, repos.MemberRepo.SaveApproval(ctx, member))

	stored, err := repos.UserRepo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.Active)
}

func TestFeeTransactionUniqueness(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	first := &MembershipFee{
		MemberID: 1, Amount: decimal.NewFromInt(1000),
		FinancialYear: "2082/83", TransactionID: strPtr("TXN-1"), PaymentStatus: "PENDING",
	}
	require.NoError(t, repos.FeeRepo.Create(ctx, first))

	err := repos.FeeRepo.Create(ctx, &MembershipFee{
		MemberID: 2, Amount: decimal.NewFromInt(500),
		FinancialYear: "2082/83", TransactionID: strPtr("TXN-1"), PaymentStatus: "PENDING",
	})
	assert.ErrorIs(t, err, ErrDuplicate)

	second := &MembershipFee{
		MemberID: 2, Amount: decimal.NewFromInt(500),
		FinancialYear: "2082/83", TransactionID: strPtr("TXN-2"), PaymentStatus: "PENDING",
	}
	require.NoError(t, repos.FeeRepo.Create(ctx, second))

	// Updating onto a taken reference also conflicts
	second.TransactionID = strPtr("TXN-1")
	assert.ErrorIs(t, repos.FeeRepo.Update(ctx, second), ErrDuplicate)
}

func TestChapterMemberPairUniqueness(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	require.NoError(t, repos.ChapterRepo.AssignMember(ctx, &ChapterMember{ChapterID: 1, MemberID: 1, RoleInChapter: "MEMBER"}))
	err := repos.ChapterRepo.AssignMember(ctx, &ChapterMember{ChapterID: 1, MemberID: 1, RoleInChapter: "MEMBER"})
	assert.ErrorIs(t, err, ErrDuplicate)

	require.NoError(t, repos.ChapterRepo.AssignMember(ctx, &ChapterMember{ChapterID: 2, MemberID: 1, RoleInChapter: "MEMBER"}))
}

func TestMemberFindAllExcludesSoftDeleted(t *testing.T) {
	repos := NewRepositories()
	ctx := context.Background()

	kept := &Member{FullName: "Kept", MembershipStatus: "PENDING"}
	gone := &Member{FullName: "Gone", MembershipStatus: "PENDING"}
	require.NoError(t, repos.MemberRepo.Create(ctx, kept))
	require.NoError(t, repos.MemberRepo.Create(ctx, gone))

	require.NoError(t, repos.MemberRepo.SoftDelete(ctx, gone.ID))

	members, err := repos.MemberRepo.FindAll(ctx, MemberFilter{})
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "Kept", members[0].FullName)

	counts, err := repos.MemberRepo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts["PENDING"])
}
