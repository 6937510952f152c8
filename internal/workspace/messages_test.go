package workspace

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/tanvi-28/huddle/internal/models"
)

func TestSendValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	id, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)

	_, err = svc.Send(ctx, alice, id, "")
	requireKind(t, err, KindBadRequest)
	_, err = svc.Send(ctx, alice, id, strings.Repeat("x", 1001))
	requireKind(t, err, KindBadRequest)
	_, err = svc.Send(ctx, alice, 999, "hello")
	requireKind(t, err, KindBadRequest)
	_, err = svc.Send(ctx, bob, id, "hello")
	requireKind(t, err, KindForbidden)
}

func TestMessageIDsAreGloballyUnique(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	chID, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	dmID, err := svc.CreateDM(ctx, alice, []int64{bob.UserID})
	require.NoError(t, err)

	first, err := svc.Send(ctx, alice, chID, "one")
	require.NoError(t, err)
	second, err := svc.SendDM(ctx, alice, dmID, "two")
	require.NoError(t, err)
	third, err := svc.Send(ctx, alice, chID, "three")
	require.NoError(t, err)

	require.Equal(t, int64(1), first)
	require.Equal(t, int64(2), second)
	require.Equal(t, int64(3), third)
}

func TestPagination(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")

	id, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	for i := 0; i < 51; i++ {
		_, err := svc.Send(ctx, alice, id, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	first, err := svc.Messages(ctx, alice, id, 0)
	require.NoError(t, err)
	require.Len(t, first.Messages, 50)
	require.Equal(t, int64(50), first.End)
	require.Equal(t, "message 50", first.Messages[0].Text)
	require.Equal(t, "message 1", first.Messages[49].Text)

	second, err := svc.Messages(ctx, alice, id, 50)
	require.NoError(t, err)
	require.Len(t, second.Messages, 1)
	require.Equal(t, models.None, second.End)
	require.Equal(t, "message 0", second.Messages[0].Text)

	// start equal to the count is an empty page, one past it is an error.
	empty, err := svc.Messages(ctx, alice, id, 51)
	require.NoError(t, err)
	require.Empty(t, empty.Messages)
	require.Equal(t, models.None, empty.End)

	_, err = svc.Messages(ctx, alice, id, 52)
	requireKind(t, err, KindBadRequest)
}

func TestPaginationPartition(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")

	id, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	for i := 0; i < 120; i++ {
		_, err := svc.Send(ctx, alice, id, fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	seen := map[int64]bool{}
	var start int64
	for {
		page, err := svc.Messages(ctx, alice, id, start)
		require.NoError(t, err)
		for i, m := range page.Messages {
			require.False(t, seen[m.ID], "message %d returned twice", m.ID)
			seen[m.ID] = true
			if i > 0 {
				require.Greater(t, page.Messages[i-1].ID, m.ID)
			}
		}
		if page.End == models.None {
			break
		}
		start = page.End
	}
	require.Len(t, seen, 120)
}

func TestEditMessage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")
	carol := registerUser(t, svc, "Carol", "Diaz")

	id, err := svc.CreateChannel(ctx, bob, "general", true)
	require.NoError(t, err)
	require.NoError(t, svc.JoinChannel(ctx, carol, id))

	msgID, err := svc.Send(ctx, carol, id, "hello")
	require.NoError(t, err)

	// Alice is not a member, so the message is not addressable by her.
	err = svc.EditMessage(ctx, alice, msgID, "hax")
	requireKind(t, err, KindBadRequest)

	// The author may edit.
	require.NoError(t, svc.EditMessage(ctx, carol, msgID, "hello again"))
	// The channel owner may edit someone else's message.
	require.NoError(t, svc.EditMessage(ctx, bob, msgID, "moderated"))

	otherID, err := svc.Send(ctx, bob, id, "owner message")
	require.NoError(t, err)
	err = svc.EditMessage(ctx, carol, otherID, "nope")
	requireKind(t, err, KindForbidden)

	// Editing to empty removes the message.
	require.NoError(t, svc.EditMessage(ctx, carol, msgID, ""))
	page, err := svc.Messages(ctx, carol, id, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	require.Equal(t, "owner message", page.Messages[0].Text)
}

func TestRemoveMessage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	dmID, err := svc.CreateDM(ctx, alice, []int64{bob.UserID})
	require.NoError(t, err)
	msgID, err := svc.SendDM(ctx, alice, dmID, "hello")
	require.NoError(t, err)

	// A plain participant cannot remove another's message in a DM.
	err = svc.RemoveMessage(ctx, bob, msgID)
	requireKind(t, err, KindForbidden)

	require.NoError(t, svc.RemoveMessage(ctx, alice, msgID))
	err = svc.RemoveMessage(ctx, alice, msgID)
	requireKind(t, err, KindBadRequest)
}

func TestShareMessage(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	chID, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	dmID, err := svc.CreateDM(ctx, alice, []int64{bob.UserID})
	require.NoError(t, err)

	msgID, err := svc.Send(ctx, alice, chID, "original")
	require.NoError(t, err)

	// Exactly one target.
	_, err = svc.ShareMessage(ctx, alice, msgID, "", chID, dmID)
	requireKind(t, err, KindBadRequest)
	_, err = svc.ShareMessage(ctx, alice, msgID, "", models.None, models.None)
	requireKind(t, err, KindBadRequest)

	// The sharer must belong to the target.
	otherDM, err := svc.CreateDM(ctx, bob, nil)
	require.NoError(t, err)
	_, err = svc.ShareMessage(ctx, alice, msgID, "", models.None, otherDM)
	requireKind(t, err, KindForbidden)

	sharedID, err := svc.ShareMessage(ctx, alice, msgID, " +1", models.None, dmID)
	require.NoError(t, err)
	require.NotEqual(t, msgID, sharedID)

	page, err := svc.DMMessages(ctx, bob, dmID, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	require.Equal(t, "original +1", page.Messages[0].Text)
}

func TestSendLaterRejectsPastDue(t *testing.T) {
	now := time.Now()
	svc := newTestService(t, fixedClock(now))
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")

	id, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)

	_, err = svc.SendLater(ctx, alice, id, "later", now.Unix()-10)
	requireKind(t, err, KindBadRequest)
}

func TestSendLaterReservesMessageID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")

	id, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)

	deferredID, err := svc.SendLater(ctx, alice, id, "later", time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	require.Equal(t, int64(1), deferredID)

	// An ordinary send in the interim must not collide with the reserved id.
	nextID, err := svc.Send(ctx, alice, id, "now")
	require.NoError(t, err)
	require.Equal(t, int64(2), nextID)
}

func TestSendLaterDelivers(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")

	id, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)

	deferredID, err := svc.SendLater(ctx, alice, id, "from the past", time.Now().Unix()+1)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		page, err := svc.Messages(ctx, alice, id, 0)
		return err == nil && len(page.Messages) == 1 && page.Messages[0].ID == deferredID
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSearch(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	chID, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	dmID, err := svc.CreateDM(ctx, alice, []int64{bob.UserID})
	require.NoError(t, err)

	_, err = svc.Send(ctx, alice, chID, "Deploy is done")
	require.NoError(t, err)
	_, err = svc.SendDM(ctx, bob, dmID, "did the deploy work?")
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice, chID, "unrelated")
	require.NoError(t, err)

	// Case-insensitive, across every container the caller belongs to.
	found, err := svc.Search(ctx, alice, "DEPLOY")
	require.NoError(t, err)
	require.Len(t, found, 2)

	// Bob is not in the channel, so only the DM message matches for him.
	found, err = svc.Search(ctx, bob, "deploy")
	require.NoError(t, err)
	require.Len(t, found, 1)

	_, err = svc.Search(ctx, alice, "")
	requireKind(t, err, KindBadRequest)
	_, err = svc.Search(ctx, alice, strings.Repeat("x", 1001))
	requireKind(t, err, KindBadRequest)
}

func TestPaginationRejectsNegativeStart(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	chID, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	_, err = svc.Send(ctx, alice, chID, "hello")
	require.NoError(t, err)

	_, err = svc.Messages(ctx, alice, chID, -1)
	requireKind(t, err, KindBadRequest)

	dmID, err := svc.CreateDM(ctx, alice, []int64{bob.UserID})
	require.NoError(t, err)
	_, err = svc.DMMessages(ctx, alice, dmID, -1)
	requireKind(t, err, KindBadRequest)
}

func TestShareFromForeignContainer(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	chID, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	msgID, err := svc.Send(ctx, alice, chID, "original")
	require.NoError(t, err)

	bobCh, err := svc.CreateChannel(ctx, bob, "side", true)
	require.NoError(t, err)

	// Membership is required in the target only, not the source.
	sharedID, err := svc.ShareMessage(ctx, bob, msgID, "", bobCh, models.None)
	require.NoError(t, err)
	require.NotEqual(t, msgID, sharedID)

	page, err := svc.Messages(ctx, bob, bobCh, 0)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	require.Equal(t, "original", page.Messages[0].Text)
}
