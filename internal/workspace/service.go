// Package workspace implements the workspace state and notification engine:
// the user/channel/DM graph, message logs with pagination, reactions and
// pins, tag notifications, and standup aggregation. All state lives in a
// single snapshot behind snapshot.Store; every operation is one atomic
// read-modify-write against it.
package workspace

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/models"
	"github.com/tanvi-28/huddle/internal/snapshot"
)

// Session identifies the authenticated caller of an operation. The auth
// middleware produces it from a bearer token; TokenID must still be present
// in the user's persisted session set or the operation fails as
// unauthenticated.
type Session struct {
	UserID  int64
	TokenID string
}

// Notifier receives notification entries as they are appended to the ledger,
// for realtime delivery. Implementations must not block.
type Notifier interface {
	Push(userID int64, n models.Notification)
}

// Mailer delivers password-reset codes. Email delivery is an external
// collaborator; the engine only hands it a code.
type Mailer interface {
	SendPasswordReset(ctx context.Context, email, code string) error
}

// Service is the workspace engine. Zero-value clock and collaborators are
// filled in by NewService; tests swap them through options.
type Service struct {
	store  snapshot.Store
	log    *zap.Logger
	now    func() time.Time
	notify Notifier
	mailer Mailer
	sched  *Scheduler
}

// Option configures a Service.
type Option func(*Service)

// WithClock replaces the wall clock, letting tests pin timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithNotifier attaches a realtime notification sink.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// WithMailer attaches a password-reset mail collaborator.
func WithMailer(m Mailer) Option {
	return func(s *Service) { s.mailer = m }
}

func NewService(store snapshot.Store, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		store: store,
		log:   logger,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.sched = newScheduler(s)
	return s
}

// Recover re-arms every persisted scheduled task. Call once on startup,
// after the store is ready.
func (s *Service) Recover(ctx context.Context) error {
	return s.sched.recover(ctx)
}

// Shutdown stops pending timers. Tasks stay in the snapshot and fire after
// the next Recover.
func (s *Service) Shutdown() {
	s.sched.stop()
}

// requireSession is the "not authenticated" check every operation runs
// first: the token's session id must still be live for that user.
func requireSession(st *models.State, sess Session) (*models.User, error) {
	u := userByID(st, sess.UserID)
	if u == nil {
		return nil, errNotAuthenticated
	}
	for _, id := range u.Sessions {
		if id == sess.TokenID {
			return u, nil
		}
	}
	return nil, errNotAuthenticated
}

func userByID(st *models.State, id int64) *models.User {
	for i := range st.Users {
		if st.Users[i].ID == id {
			return &st.Users[i]
		}
	}
	return nil
}

func userByHandle(st *models.State, handle string) *models.User {
	for i := range st.Users {
		if st.Users[i].Handle == handle {
			return &st.Users[i]
		}
	}
	return nil
}

func channelByID(st *models.State, id int64) *models.Channel {
	for i := range st.Channels {
		if st.Channels[i].ID == id {
			return &st.Channels[i]
		}
	}
	return nil
}

func dmByID(st *models.State, id int64) *models.DM {
	for i := range st.DMs {
		if st.DMs[i].ID == id {
			return &st.DMs[i]
		}
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func removeID(ids []int64, id int64) []int64 {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// isGlobalOwner reports workspace-owner standing. The very first registered
// user (id 1) is implicitly a global owner until the permission set is
// populated.
func isGlobalOwner(st *models.State, uid int64) bool {
	if len(st.GlobalOwners) == 0 {
		return uid == 1
	}
	return containsID(st.GlobalOwners, uid)
}

// nextMessageID mints a globally unique, strictly increasing message id:
// max over every channel and DM log, plus ids already reserved by pending
// send-later tasks, plus one.
func nextMessageID(st *models.State) int64 {
	var max int64
	for i := range st.Channels {
		for _, m := range st.Channels[i].Messages {
			if m.ID > max {
				max = m.ID
			}
		}
	}
	for i := range st.DMs {
		for _, m := range st.DMs[i].Messages {
			if m.ID > max {
				max = m.ID
			}
		}
	}
	for _, t := range st.Tasks {
		if t.MessageID > max {
			max = t.MessageID
		}
	}
	return max + 1
}

func summaries(st *models.State, ids []int64) []models.UserSummary {
	out := make([]models.UserSummary, 0, len(ids))
	for _, id := range ids {
		if u := userByID(st, id); u != nil {
			out = append(out, u.Summary())
		}
	}
	return out
}

func (s *Service) epoch() int64 {
	return s.now().Unix()
}
