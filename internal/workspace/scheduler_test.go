package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/models"
	"github.com/tanvi-28/huddle/internal/snapshot"
)

func TestRecoverFiresPersistedTasks(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	// First service: schedule a send and shut down before it fires.
	first := NewService(store, zap.NewNop())
	alice := registerUser(t, first, "Alice", "Nguyen")
	id, err := first.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	deferredID, err := first.SendLater(ctx, alice, id, "survives restarts", time.Now().Unix()+1)
	require.NoError(t, err)
	first.Shutdown()

	// Second service over the same snapshot picks the task back up.
	second := NewService(store, zap.NewNop())
	t.Cleanup(second.Shutdown)
	require.NoError(t, second.Recover(ctx))

	require.Eventually(t, func() bool {
		page, err := second.Messages(ctx, alice, id, 0)
		return err == nil && len(page.Messages) == 1 && page.Messages[0].ID == deferredID
	}, 3*time.Second, 10*time.Millisecond)

	// The fired task row is gone.
	err = store.View(ctx, func(st *models.State) error {
		require.Empty(t, st.Tasks)
		return nil
	})
	require.NoError(t, err)
}

func TestDeferredSendDroppedWhenAuthorLeft(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	first := NewService(store, zap.NewNop())
	alice := registerUser(t, first, "Alice", "Nguyen")
	bob := registerUser(t, first, "Bob", "Okafor")
	id, err := first.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	require.NoError(t, first.JoinChannel(ctx, bob, id))

	_, err = first.SendLater(ctx, bob, id, "from a ghost", time.Now().Unix()+1)
	require.NoError(t, err)
	first.Shutdown()

	// Bob leaves before the task fires.
	require.NoError(t, first.LeaveChannel(ctx, bob, id))

	second := NewService(store, zap.NewNop())
	t.Cleanup(second.Shutdown)
	require.NoError(t, second.Recover(ctx))

	require.Eventually(t, func() bool {
		var pending int
		err := store.View(ctx, func(st *models.State) error {
			pending = len(st.Tasks)
			return nil
		})
		return err == nil && pending == 0
	}, 3*time.Second, 10*time.Millisecond)

	page, err := second.Messages(ctx, alice, id, 0)
	require.NoError(t, err)
	require.Empty(t, page.Messages)
}

func TestDeferredSendDroppedWhenChannelGone(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	svc := NewService(store, zap.NewNop())
	t.Cleanup(svc.Shutdown)
	alice := registerUser(t, svc, "Alice", "Nguyen")
	bob := registerUser(t, svc, "Bob", "Okafor")

	dmID, err := svc.CreateDM(ctx, alice, []int64{bob.UserID})
	require.NoError(t, err)
	_, err = svc.SendLaterDM(ctx, bob, dmID, "into the void", time.Now().Unix()+1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveDM(ctx, alice, dmID))

	require.Eventually(t, func() bool {
		var pending int
		err := store.View(ctx, func(st *models.State) error {
			pending = len(st.Tasks)
			return nil
		})
		return err == nil && pending == 0
	}, 3*time.Second, 10*time.Millisecond)
}

func TestShutdownLeavesTasksPersisted(t *testing.T) {
	store := snapshot.NewMemoryStore()
	ctx := context.Background()

	svc := NewService(store, zap.NewNop())
	alice := registerUser(t, svc, "Alice", "Nguyen")
	id, err := svc.CreateChannel(ctx, alice, "general", true)
	require.NoError(t, err)
	_, err = svc.SendLater(ctx, alice, id, "later", time.Now().Add(time.Hour).Unix())
	require.NoError(t, err)
	svc.Shutdown()

	err = store.View(ctx, func(st *models.State) error {
		require.Len(t, st.Tasks, 1)
		require.Equal(t, models.TaskSendLater, st.Tasks[0].Kind)
		return nil
	})
	require.NoError(t, err)
}
