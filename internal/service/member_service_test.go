package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// flakyMemberRepo fails SaveApproval with ErrDuplicateCode a fixed number of
// times before delegating, simulating lost uniqueness races at commit time.
type flakyMemberRepo struct {
	repository.MemberRepository
	failures int
	calls    int
}

func (r *flakyMemberRepo) SaveApproval(ctx context.Context, m *repository.Member) error {
	r.calls++
	if r.calls <= r.failures {
		return repository.ErrDuplicateCode
	}
	return r.MemberRepository.SaveApproval(ctx, m)
}

func TestMemberApproveAssignsCodeAndActivatesLogin(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := registerMember(t, svcs, repos, "binod")

	approved, err := svcs.Member.Approve(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusActive, approved.MembershipStatus)
	require.NotNil(t, approved.MembershipCode)
	// First approval with no coded rows yet starts the sequence at 1.
	assert.Equal(t, types.MemberCodePrefix+"001", *approved.MembershipCode)

	user, err := repos.UserRepo.FindByID(ctx, *approved.UserID)
	require.NoError(t, err)
	assert.True(t, user.Active)
}

func TestMemberApproveIdempotent(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	approved := approveMember(t, svcs, repos, "kiran")
	first := *approved.MembershipCode

	again, err := svcs.Member.Approve(ctx, approved.ID)
	require.NoError(t, err)
	require.NotNil(t, again.MembershipCode)
	assert.Equal(t, first, *again.MembershipCode)
}

func TestMemberApproveProbesPastTakenCodes(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	first := registerMember(t, svcs, repos, "probe1")
	second := registerMember(t, svcs, repos, "probe2")

	// Approving out of order forces the second approval to probe past the
	// code derived from the highest id.
	approvedSecond, err := svcs.Member.Approve(ctx, second.ID)
	require.NoError(t, err)
	approvedFirst, err := svcs.Member.Approve(ctx, first.ID)
	require.NoError(t, err)

	require.NotNil(t, approvedFirst.MembershipCode)
	require.NotNil(t, approvedSecond.MembershipCode)
	assert.NotEqual(t, *approvedFirst.MembershipCode, *approvedSecond.MembershipCode)
}

func TestMemberApproveRetriesOnDuplicateCode(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := registerMember(t, svcs, repos, "racer")

	flaky := &flakyMemberRepo{MemberRepository: repos.MemberRepo, failures: 2}
	memberSvc := NewMemberService(testConfig(), flaky, repos.ChapterRepo, svcs.MasterData, nil)

	approved, err := memberSvc.Approve(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusActive, approved.MembershipStatus)
	assert.Equal(t, 3, flaky.calls)
}

func TestMemberApproveCodeExhausted(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := registerMember(t, svcs, repos, "unlucky")

	cfg := testConfig()
	cfg.CodeRetryLimit = 3
	flaky := &flakyMemberRepo{MemberRepository: repos.MemberRepo, failures: 100}
	memberSvc := NewMemberService(cfg, flaky, repos.ChapterRepo, svcs.MasterData, nil)

	_, err := memberSvc.Approve(ctx, member.ID)
	assert.ErrorIs(t, err, ErrCodeExhausted)
	assert.Equal(t, cfg.CodeRetryLimit, flaky.calls)
}

func TestMemberRejectLifecycle(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := registerMember(t, svcs, repos, "maya")

	rejected, err := svcs.Member.Reject(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusRejected, rejected.MembershipStatus)
	assert.Nil(t, rejected.MembershipCode)

	// Rejecting again is a no-op
	again, err := svcs.Member.Reject(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusRejected, again.MembershipStatus)

	// A rejected application cannot be approved
	_, err = svcs.Member.Approve(ctx, member.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMemberRejectAfterApprovalFails(t *testing.T) {
	svcs, repos := newTestServices(t)

	approved := approveMember(t, svcs, repos, "dipesh")

	_, err := svcs.Member.Reject(context.Background(), approved.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestMemberUpdateStatusBypassesTransitionRules(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := registerMember(t, svcs, repos, "repair")
	rejected, err := svcs.Member.Reject(ctx, member.ID)
	require.NoError(t, err)

	// Admin repair endpoint moves REJECTED back to PENDING directly
	repaired, err := svcs.Member.UpdateStatus(ctx, rejected.ID, types.StatusPending)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, repaired.MembershipStatus)

	_, err = svcs.Member.UpdateStatus(ctx, rejected.ID, "FROZEN")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMemberUpdatePreservesLifecycleFields(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	approved := approveMember(t, svcs, repos, "anita")
	code := *approved.MembershipCode

	update := &repository.Member{
		ID:               approved.ID,
		FullName:         "Anita Sharma",
		Phone:            strPtr("9841000000"),
		MembershipCode:   strPtr("SEWAM999"),
		MembershipStatus: types.StatusRejected,
	}
	updated, err := svcs.Member.Update(ctx, update)
	require.NoError(t, err)

	assert.Equal(t, "Anita Sharma", updated.FullName)
	require.NotNil(t, updated.MembershipCode)
	assert.Equal(t, code, *updated.MembershipCode)
	assert.Equal(t, types.StatusActive, updated.MembershipStatus)
}

func TestMemberUpdateValidatesMasterData(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := registerMember(t, svcs, repos, "edu")

	_, err := svcs.Member.Update(ctx, &repository.Member{
		ID:               member.ID,
		FullName:         member.FullName,
		EducationalLevel: strPtr("Bachelors"),
	})
	require.NoError(t, err)

	_, err = svcs.Member.Update(ctx, &repository.Member{
		ID:               member.ID,
		FullName:         member.FullName,
		EducationalLevel: strPtr("Diploma"),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Member.Update(ctx, &repository.Member{
		ID:        member.ID,
		FullName:  member.FullName,
		ChapterID: intPtr(999),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMemberSoftDelete(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	approved := approveMember(t, svcs, repos, "gone")

	require.NoError(t, svcs.Member.SoftDelete(ctx, approved.ID))

	_, err := svcs.Member.GetByID(ctx, approved.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	members, err := svcs.Member.List(ctx, repository.MemberFilter{})
	require.NoError(t, err)
	for _, m := range members {
		assert.NotEqual(t, approved.ID, m.ID)
	}

	// Deletion flags the profile only; the owning login stays active.
	user, err := repos.UserRepo.FindByID(ctx, *approved.UserID)
	require.NoError(t, err)
	assert.True(t, user.Active)
}

func TestMemberApproveKeepsExistingCode(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	// A pending record can carry a code from an earlier import; approval
	// must never replace it.
	seeded := &repository.Member{
		FullName:         "Imported Member",
		MembershipCode:   strPtr("SEWAM500"),
		MembershipStatus: types.StatusPending,
	}
	require.NoError(t, repos.MemberRepo.Create(ctx, seeded))

	approved, err := svcs.Member.Approve(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusActive, approved.MembershipStatus)
	require.NotNil(t, approved.MembershipCode)
	assert.Equal(t, "SEWAM500", *approved.MembershipCode)

	// Later approvals still generate fresh, distinct codes.
	other := registerMember(t, svcs, repos, "fresh")
	otherApproved, err := svcs.Member.Approve(ctx, other.ID)
	require.NoError(t, err)
	require.NotNil(t, otherApproved.MembershipCode)
	assert.NotEqual(t, "SEWAM500", *otherApproved.MembershipCode)
}

func TestMemberListFilters(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	approveMember(t, svcs, repos, "activeone")
	registerMember(t, svcs, repos, "pendingone")

	status := types.StatusActive
	active, err := svcs.Member.List(ctx, repository.MemberFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, types.StatusActive, active[0].MembershipStatus)

	pending, err := svcs.Member.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Test pendingone", pending[0].FullName)

	_, err = svcs.Member.List(ctx, repository.MemberFilter{Status: strPtr("BOGUS")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	byName, err := svcs.Member.List(ctx, repository.MemberFilter{Query: strPtr("activeone")})
	require.NoError(t, err)
	require.Len(t, byName, 1)
}

func TestConcurrentApprovalsYieldDistinctCodes(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	const n = 8
	ids := make([]int, n)
	for i := 0; i < n; i++ {
		member := registerMember(t, svcs, repos, "bulk"+string(rune('a'+i)))
		ids[i] = member.ID
	}

	var wg sync.WaitGroup
	errs := make([]error, n)
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			_, errs[i] = svcs.Member.Approve(ctx, id)
		}(i, id)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}

	seen := make(map[string]bool, n)
	for _, id := range ids {
		member, err := svcs.Member.GetByID(ctx, id)
		require.NoError(t, err)
		require.NotNil(t, member.MembershipCode)
		assert.False(t, seen[*member.MembershipCode], "code %s assigned twice", *member.MembershipCode)
		seen[*member.MembershipCode] = true
	}
}
