package workspace

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/models"
)

// StandupStatus reports whether a channel's standup window is open and when
// it closes. FinishAt is models.None while idle.
type StandupStatus struct {
	Active   bool  `json:"isActive"`
	FinishAt int64 `json:"timeFinish"`
}

// StandupStart opens a standup window on a channel for length seconds.
// While the window is open, channel sends are buffered; at the finish time
// the buffer is flushed as one message authored by the starter. The flush
// is a durable task and survives restarts.
func (s *Service) StandupStart(ctx context.Context, sess Session, channelID, length int64) (int64, error) {
	if length < 0 {
		return models.None, badRequest("standup length cannot be negative")
	}
	finishAt := s.epoch() + length

	var task models.Task
	err := s.store.Update(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("channel %d does not exist", channelID)
		}
		if !containsID(ch.MemberIDs, u.ID) {
			return forbidden("user is not a member of channel %d", channelID)
		}
		if ch.Standup.Active {
			return badRequest("a standup is already active in channel %d", channelID)
		}

		ch.Standup = models.Standup{
			Active:    true,
			FinishAt:  finishAt,
			StarterID: u.ID,
		}
		task = models.Task{
			ID:        uuid.NewString(),
			Kind:      models.TaskStandupFlush,
			DueAt:     finishAt,
			ChannelID: channelID,
			DMID:      models.None,
			AuthorID:  u.ID,
		}
		st.Tasks = append(st.Tasks, task)
		return nil
	})
	if err != nil {
		return models.None, err
	}

	s.sched.arm(task)
	s.log.Debug("standup started",
		zap.Int64("channelId", channelID),
		zap.Int64("finishAt", finishAt))
	return finishAt, nil
}

// StandupActive reports a channel's standup window state.
func (s *Service) StandupActive(ctx context.Context, sess Session, channelID int64) (StandupStatus, error) {
	var out StandupStatus

	err := s.store.View(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("channel %d does not exist", channelID)
		}
		if !containsID(ch.MemberIDs, u.ID) {
			return forbidden("user is not a member of channel %d", channelID)
		}
		out = StandupStatus{Active: ch.Standup.Active, FinishAt: models.None}
		if ch.Standup.Active {
			out.FinishAt = ch.Standup.FinishAt
		}
		return nil
	})
	return out, err
}

// StandupSend appends a line to a channel's open standup buffer. Rejected
// while no standup is active.
func (s *Service) StandupSend(ctx context.Context, sess Session, channelID int64, message string) error {
	if len(message) > maxMessageLen {
		return badRequest("message length must be at most %d", maxMessageLen)
	}

	return s.store.Update(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("channel %d does not exist", channelID)
		}
		if !containsID(ch.MemberIDs, u.ID) {
			return forbidden("user is not a member of channel %d", channelID)
		}
		if !ch.Standup.Active {
			return badRequest("no standup is active in channel %d", channelID)
		}
		ch.Standup.Buffer += u.Handle + ": " + message + "\n"
		return nil
	})
}
