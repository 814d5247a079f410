package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sewa-org/sewa-backend/internal/repository"
	"github.com/sewa-org/sewa-backend/internal/types"
)

// twoUsers approves two members and returns their user ids.
func twoUsers(t *testing.T, svcs *Services, repos *repository.Repositories) (int, int) {
	t.Helper()
	a := approveMember(t, svcs, repos, "sender")
	b := approveMember(t, svcs, repos, "receiver")
	require.NotNil(t, a.UserID)
	require.NotNil(t, b.UserID)
	return *a.UserID, *b.UserID
}

func TestSendMessageAndInbox(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	sender, receiver := twoUsers(t, svcs, repos)

	msg, err := svcs.Message.Send(ctx, sender, "Hello", "Welcome to the association.", []int{receiver})
	require.NoError(t, err)
	assert.NotZero(t, msg.ID)

	inbox, err := svcs.Message.Inbox(ctx, receiver)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, "Hello", inbox[0].Subject)

	sent, err := svcs.Message.Sent(ctx, sender)
	require.NoError(t, err)
	assert.Len(t, sent, 1)

	recipients, err := svcs.Message.Recipients(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.False(t, recipients[0].Read)
	assert.Nil(t, recipients[0].ReadAt)
}

func TestSendMessageRecipientRules(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	sender, receiver := twoUsers(t, svcs, repos)

	// Duplicates collapse and self is skipped
	msg, err := svcs.Message.Send(ctx, sender, "Dup", "Body", []int{receiver, receiver, sender})
	require.NoError(t, err)
	recipients, err := svcs.Message.Recipients(ctx, msg.ID)
	require.NoError(t, err)
	assert.Len(t, recipients, 1)

	// Self-only leaves nobody to deliver to
	_, err = svcs.Message.Send(ctx, sender, "Self", "Body", []int{sender})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svcs.Message.Send(ctx, sender, "Ghost", "Body", []int{999})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svcs.Message.Send(ctx, sender, "", "Body", []int{receiver})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkReadOnlyRecipient(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	sender, receiver := twoUsers(t, svcs, repos)
	msg, err := svcs.Message.Send(ctx, sender, "Read me", "Body", []int{receiver})
	require.NoError(t, err)

	senderClaims := claimsFor("sender", sender, []string{types.RoleMember}, nil)
	err = svcs.Message.MarkRead(ctx, senderClaims, msg.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	receiverClaims := claimsFor("receiver", receiver, []string{types.RoleMember}, nil)
	require.NoError(t, svcs.Message.MarkRead(ctx, receiverClaims, msg.ID))

	recipients, err := svcs.Message.Recipients(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, recipients, 1)
	assert.True(t, recipients[0].Read)
	assert.NotNil(t, recipients[0].ReadAt)
}

func TestMessageAccessControl(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	sender, receiver := twoUsers(t, svcs, repos)
	outsider := approveMember(t, svcs, repos, "outsider")

	msg, err := svcs.Message.Send(ctx, sender, "Private", "Body", []int{receiver})
	require.NoError(t, err)

	_, err = svcs.Message.GetByID(ctx, claimsFor("sender", sender, nil, nil), msg.ID)
	require.NoError(t, err)
	_, err = svcs.Message.GetByID(ctx, claimsFor("receiver", receiver, nil, nil), msg.ID)
	require.NoError(t, err)

	_, err = svcs.Message.GetByID(ctx, claimsFor("outsider", *outsider.UserID, nil, nil), msg.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	adminClaims := claimsFor("admin", *outsider.UserID, []string{types.RoleAdmin}, nil)
	_, err = svcs.Message.GetByID(ctx, adminClaims, msg.ID)
	require.NoError(t, err)
}

func TestDeleteMessageSenderOrAdmin(t *testing.T) {
	svcs, repos := newTestServices(t)
	ctx := context.Background()

	sender, receiver := twoUsers(t, svcs, repos)
	msg, err := svcs.Message.Send(ctx, sender, "Bye", "Body", []int{receiver})
	require.NoError(t, err)

	err = svcs.Message.Delete(ctx, claimsFor("receiver", receiver, nil, nil), msg.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svcs.Message.Delete(ctx, claimsFor("sender", sender, nil, nil), msg.ID))

	err = svcs.Message.Delete(ctx, claimsFor("sender", sender, nil, nil), msg.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
