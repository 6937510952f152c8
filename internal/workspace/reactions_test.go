package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func setupMessage(t *testing.T, svc *Service) (alice, bob Session, channelID, messageID int64) {
	t.Helper()
	ctx := context.Background()
	alice = registerUser(t, svc, "Alice", "Nguyen")
	bob = registerUser(t, svc, "Bob", "Okafor")

	channelID, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	require.NoError(t, svc.JoinChannel(ctx, bob, channelID))
	messageID, err = svc.Send(ctx, alice, channelID, "hello")
	require.NoError(t, err)
	return alice, bob, channelID, messageID
}

func TestReact(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, bob, _, msgID := setupMessage(t, svc)

	err := svc.React(ctx, bob, msgID, 2)
	requireKind(t, err, KindBadRequest)
	err = svc.React(ctx, bob, 999, 1)
	requireKind(t, err, KindBadRequest)

	require.NoError(t, svc.React(ctx, bob, msgID, 1))
	err = svc.React(ctx, bob, msgID, 1)
	requireKind(t, err, KindBadRequest)
}

func TestUnreactThenReactAgain(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, bob, _, msgID := setupMessage(t, svc)

	// No reaction records at all yet.
	err := svc.Unreact(ctx, bob, msgID, 1)
	requireKind(t, err, KindBadRequest)

	require.NoError(t, svc.React(ctx, bob, msgID, 1))
	require.NoError(t, svc.Unreact(ctx, bob, msgID, 1))

	// The record is soft-removed, so the same user can react again.
	require.NoError(t, svc.React(ctx, bob, msgID, 1))

	// And only one of the records is active to unreact.
	require.NoError(t, svc.Unreact(ctx, bob, msgID, 1))
	err = svc.Unreact(ctx, bob, msgID, 1)
	requireKind(t, err, KindBadRequest)
}

func TestReactRequiresMembership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	_, _, _, msgID := setupMessage(t, svc)
	carol := registerUser(t, svc, "Carol", "Diaz")

	err := svc.React(ctx, carol, msgID, 1)
	requireKind(t, err, KindBadRequest)
}

func TestPinToggle(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice, bob, _, msgID := setupMessage(t, svc)

	// Bob is a plain member and may not pin.
	err := svc.Pin(ctx, bob, msgID)
	requireKind(t, err, KindForbidden)

	err = svc.Unpin(ctx, alice, msgID)
	requireKind(t, err, KindBadRequest)

	require.NoError(t, svc.Pin(ctx, alice, msgID))
	err = svc.Pin(ctx, alice, msgID)
	requireKind(t, err, KindBadRequest)

	page, err := svc.Messages(ctx, alice, 1, 0)
	require.NoError(t, err)
	require.True(t, page.Messages[0].Pinned)

	require.NoError(t, svc.Unpin(ctx, alice, msgID))
	err = svc.Unpin(ctx, alice, msgID)
	requireKind(t, err, KindBadRequest)
}

func TestPinInDMRequiresCreator(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	dmID, err := svc.CreateDM(ctx, bob, []int64{alice.UserID})
	require.NoError(t, err)
	msgID, err := svc.SendDM(ctx, alice, dmID, "hello")
	require.NoError(t, err)

	// Alice is a global owner, but DM moderation belongs to the creator only.
	err = svc.Pin(ctx, alice, msgID)
	requireKind(t, err, KindForbidden)
	require.NoError(t, svc.Pin(ctx, bob, msgID))
}
