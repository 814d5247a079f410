package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/repository"
)

func TestChapterCRUD(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	seeded, err := svcs.Chapter.List(ctx)
	require.NoError(t, err)
	assert.Len(t, seeded, 8)

	created, err := svcs.Chapter.Create(ctx, &repository.Chapter{
		ChapterName: "Janakpur Chapter",
		Location:    strPtr("Janakpur"),
		ChapterType: "REGIONAL",
	})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	fetched, err := svcs.Chapter.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Janakpur Chapter", fetched.ChapterName)

	fetched.ChapterName = "Janakpur Regional Chapter"
	updated, err := svcs.Chapter.Update(ctx, fetched)
	require.NoError(t, err)
	assert.Equal(t, "Janakpur Regional Chapter", updated.ChapterName)

	_, err = svcs.Chapter.Create(ctx, &repository.Chapter{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Chapter.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChapterMemberAssignmentFlow(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := approveMember(t, svcs, repos, "affiliate")

	cm, err := svcs.Chapter.AssignMember(ctx, 1, member.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "MEMBER", cm.RoleInChapter)

	// Same pair again conflicts; a second chapter is fine
	_, err = svcs.Chapter.AssignMember(ctx, 1, member.ID, "")
	assert.ErrorIs(t, err, ErrConflict)
	_, err = svcs.Chapter.AssignMember(ctx, 2, member.ID, "COORDINATOR")
	require.NoError(t, err)

	promoted, err := svcs.Chapter.UpdateMemberRole(ctx, 1, member.ID, "SECRETARY")
	require.NoError(t, err)
	assert.Equal(t, "SECRETARY", promoted.RoleInChapter)

	roster, err := svcs.Chapter.ListMembers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, roster, 1)
	assert.Equal(t, "SECRETARY", roster[0].RoleInChapter)

	require.NoError(t, svcs.Chapter.RemoveMember(ctx, 1, member.ID))
	err = svcs.Chapter.RemoveMember(ctx, 1, member.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAssignMemberRequiresActiveMembership(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	pending := registerMember(t, svcs, repos, "notyet")

	_, err := svcs.Chapter.AssignMember(ctx, 1, pending.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Chapter.AssignMember(ctx, 999, pending.ID, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svcs.Chapter.AssignMember(ctx, 1, 999, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateMemberRoleValidation(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	member := approveMember(t, svcs, repos, "roleless")

	_, err := svcs.Chapter.UpdateMemberRole(ctx, 1, member.ID, "SECRETARY")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svcs.Chapter.UpdateMemberRole(ctx, 1, member.ID, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
