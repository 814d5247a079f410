package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

func TestStudentApproveAssignsCodeAndActivatesLogin(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	student := registerStudent(t, svcs, repos, "stud1")
	assert.Equal(t, types.StatusPending, student.Status)

	approved, err := svcs.Student.Approve(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusActive, approved.Status)
	require.NotNil(t, approved.MembershipCode)
	assert.Equal(t, types.StudentCodePrefix+"001", *approved.MembershipCode)

	user, err := repos.UserRepo.FindByID(ctx, *approved.UserID)
	require.NoError(t, err)
	assert.True(t, user.Active)

	roles, err := repos.UserRepo.FindRoleNames(ctx, user.ID)
	require.NoError(t, err)
	assert.Contains(t, roles, types.RoleStudent)
}

func TestStudentRejectTransitions(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	student := registerStudent(t, svcs, repos, "stud2")

	rejected, err := svcs.Student.Reject(ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusRejected, rejected.Status)
	assert.Nil(t, rejected.MembershipCode)

	_, err = svcs.Student.Approve(ctx, student.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	active := registerStudent(t, svcs, repos, "stud3")
	_, err = svcs.Student.Approve(ctx, active.ID)
	require.NoError(t, err)
	_, err = svcs.Student.Reject(ctx, active.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestStudentUpdatePreservesLifecycleFields(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	student := registerStudent(t, svcs, repos, "stud4")
	approved, err := svcs.Student.Approve(ctx, student.ID)
	require.NoError(t, err)
	code := *approved.MembershipCode

	updated, err := svcs.Student.Update(ctx, &repository.Student{
		ID:        student.ID,
		FullName:  "Updated Name",
		Institute: strPtr("Tribhuvan University"),
		Status:    types.StatusRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated Name", updated.FullName)
	assert.Equal(t, types.StatusActive, updated.Status)
	require.NotNil(t, updated.MembershipCode)
	assert.Equal(t, code, *updated.MembershipCode)

	_, err = svcs.Student.Update(ctx, &repository.Student{
		ID:        student.ID,
		FullName:  "Updated Name",
		ChapterID: intPtr(999),
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestStudentSoftDelete(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	student := registerStudent(t, svcs, repos, "stud5")
	require.NoError(t, svcs.Student.SoftDelete(ctx, student.ID))

	_, err := svcs.Student.GetByID(ctx, student.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deletion flags the profile only; the owning login stays active.
	user, err := repos.UserRepo.FindByID(ctx, *student.UserID)
	require.NoError(t, err)
	assert.True(t, user.Active)
}

func TestStudentApproveKeepsExistingCode(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	seeded := &repository.Student{
		FullName:       "Imported Student",
		MembershipCode: strPtr("SEWAS500"),
		Status:         types.StatusPending,
	}
	require.NoError(t, repos.StudentRepo.Create(ctx, seeded))

	approved, err := svcs.Student.Approve(ctx, seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusActive, approved.Status)
	require.NotNil(t, approved.MembershipCode)
	assert.Equal(t, "SEWAS500", *approved.MembershipCode)
}
