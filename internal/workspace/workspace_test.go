package workspace

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/models"
	"github.com/tanvi-28/huddle/internal/snapshot"
)

// recordingNotifier captures realtime pushes for assertions.
type recordingNotifier struct {
	pushed map[int64][]models.Notification
}

func (n *recordingNotifier) Push(userID int64, entry models.Notification) {
	if n.pushed == nil {
		n.pushed = map[int64][]models.Notification{}
	}
	n.pushed[userID] = append(n.pushed[userID], entry)
}

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	svc := NewService(snapshot.NewMemoryStore(), zap.NewNop(), opts...)
	t.Cleanup(svc.Shutdown)
	return svc
}

// registerUser registers a fresh user with a distinct email and name pair
// and returns their session.
func registerUser(t *testing.T, svc *Service, first, last string) Session {
	t.Helper()
	email := fmt.Sprintf("%s.%s@example.com", first, last)
	res, err := svc.Register(context.Background(), email, "hunter22", first, last)
	require.NoError(t, err)
	return Session{UserID: res.UserID, TokenID: res.SessionID}
}

func requireKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	require.Error(t, err)
	got, ok := KindOf(err)
	require.True(t, ok, "expected a domain error, got %v", err)
	require.Equal(t, kind, got, "wrong error kind: %v", err)
}

func fixedClock(at time.Time) Option {
	return WithClock(func() time.Time { return at })
}
