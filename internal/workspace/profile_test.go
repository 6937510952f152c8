package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProfileUpdates(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")

	require.NoError(t, svc.SetName(ctx, alice, "Alicia", "Tran"))
	require.NoError(t, svc.SetEmail(ctx, alice, "alicia@example.com"))
	require.NoError(t, svc.SetHandle(ctx, alice, "alicia"))

	profile, err := svc.Profile(ctx, alice, alice.UserID)
	require.NoError(t, err)
	require.Equal(t, "Alicia", profile.NameFirst)
	require.Equal(t, "Tran", profile.NameLast)
	require.Equal(t, "alicia@example.com", profile.Email)
	require.Equal(t, "alicia", profile.Handle)

	_, err = svc.Profile(ctx, alice, 999)
	requireKind(t, err, KindBadRequest)
}

func TestSetEmailValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	registerUser(t, svc, "Bob", "Okafor")

	err := svc.SetEmail(ctx, alice, "not-an-email")
	requireKind(t, err, KindBadRequest)
	err = svc.SetEmail(ctx, alice, "Bob.Okafor@example.com")
	requireKind(t, err, KindBadRequest)
	// Keeping your own email is fine.
	require.NoError(t, svc.SetEmail(ctx, alice, "Alice.Nguyen@example.com"))
}

func TestSetHandleValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	registerUser(t, svc, "Bob", "Okafor")

	err := svc.SetHandle(ctx, alice, "ab")
	requireKind(t, err, KindBadRequest)
	err = svc.SetHandle(ctx, alice, "this-has-hyphens")
	requireKind(t, err, KindBadRequest)
	err = svc.SetHandle(ctx, alice, "averyveryverylonghandle")
	requireKind(t, err, KindBadRequest)
	// Taken handles are an error here, unlike registration.
	err = svc.SetHandle(ctx, alice, "bobokafor")
	requireKind(t, err, KindBadRequest)
}

func TestUserStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	stats, err := svc.Stats(ctx, alice)
	require.NoError(t, err)
	require.Zero(t, stats.ChannelsJoined)
	require.Zero(t, stats.InvolvementRate)

	chID, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	_, err = svc.CreateDM(ctx, alice, []int64{bob.UserID})
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice, chID, "hello")
	require.NoError(t, err)

	stats, err = svc.Stats(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ChannelsJoined)
	require.Equal(t, 1, stats.DMsJoined)
	require.Equal(t, 1, stats.MessagesSent)
	require.Equal(t, 1.0, stats.InvolvementRate)

	stats, err = svc.Stats(ctx, bob)
	require.NoError(t, err)
	require.Zero(t, stats.ChannelsJoined)
	require.Equal(t, 1, stats.DMsJoined)
	require.InDelta(t, 1.0/3.0, stats.InvolvementRate, 1e-9)
}

func TestWorkspaceStats(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	registerUser(t, svc, "Bob", "Okafor")

	chID, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice, chID, "hello")
	require.NoError(t, err)

	stats, err := svc.WorkspaceStats(ctx, alice)
	require.NoError(t, err)
	require.Equal(t, 1, stats.ChannelsExist)
	require.Zero(t, stats.DMsExist)
	require.Equal(t, 1, stats.MessagesExist)
	// One of two users is in a container.
	require.Equal(t, 0.5, stats.UtilizationRate)
}
