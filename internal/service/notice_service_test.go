package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/repository"
)

func TestNoticePublishLifecycle(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	draft, err := svcs.Notice.Create(ctx, &repository.Notice{
		Title:     "Annual general meeting",
		Body:      "The AGM will be held next month.",
		CreatedBy: intPtr(1),
	})
	require.NoError(t, err)

	published, err := svcs.Notice.ListPublished(ctx)
	require.NoError(t, err)
	assert.Empty(t, published)

	live, err := svcs.Notice.Publish(ctx, draft.ID)
	require.NoError(t, err)
	assert.True(t, live.Published)

	// Publishing again is a no-op
	_, err = svcs.Notice.Publish(ctx, draft.ID)
	require.NoError(t, err)

	published, err = svcs.Notice.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Annual general meeting", published[0].Title)
}

func TestExpiredNoticesHiddenFromPublishedList(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	expired := time.Now().Add(-time.Hour)
	_, err := svcs.Notice.Create(ctx, &repository.Notice{
		Title:      "Old notice",
		Body:       "This one has lapsed.",
		Published:  true,
		ExpiryDate: &expired,
	})
	require.NoError(t, err)

	future := time.Now().Add(24 * time.Hour)
	_, err = svcs.Notice.Create(ctx, &repository.Notice{
		Title:      "Current notice",
		Body:       "This one is still live.",
		Published:  true,
		ExpiryDate: &future,
	})
	require.NoError(t, err)

	published, err := svcs.Notice.ListPublished(ctx)
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "Current notice", published[0].Title)

	all, err := svcs.Notice.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNoticeUpdatePreservesCreator(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	notice, err := svcs.Notice.Create(ctx, &repository.Notice{
		Title:     "Original",
		Body:      "Body",
		CreatedBy: intPtr(1),
	})
	require.NoError(t, err)

	updated, err := svcs.Notice.Update(ctx, &repository.Notice{
		ID:        notice.ID,
		Title:     "Edited",
		Body:      "Body",
		CreatedBy: intPtr(42),
	})
	require.NoError(t, err)
	require.NotNil(t, updated.CreatedBy)
	assert.Equal(t, 1, *updated.CreatedBy)
}

func TestNoticeValidation(t *testing.T) {
	svcs, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svcs.Notice.Create(ctx, &repository.Notice{Title: "No body"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Notice.GetByID(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svcs.Notice.Delete(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
