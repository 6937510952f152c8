package workspace

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/models"
)

const (
	maxMessageLen = 1000
	pageSize      = 50
)

// MessagePage is one window of a container's log, most recent first. End is
// the start index of the next page, or models.None when this page reaches
// the oldest message.
type MessagePage struct {
	Messages []models.Message `json:"messages"`
	Start    int64            `json:"start"`
	End      int64            `json:"end"`
}

func validMessageText(text string) error {
	if len(text) < 1 || len(text) > maxMessageLen {
		return badRequest("message length must be between 1 and %d", maxMessageLen)
	}
	return nil
}

// appendMessage mints an id, appends to c's log, and fans out tag
// notifications. Caller has already checked membership and text length.
func (s *Service) appendMessage(st *models.State, c container, authorID int64, text string) int64 {
	id := nextMessageID(st)
	log := c.log()
	*log = append(*log, models.Message{
		ID:       id,
		AuthorID: authorID,
		Text:     text,
		SentAt:   s.epoch(),
	})
	s.notifyTags(st, c, authorID, text)
	return id
}

// Send posts a message to a channel. While a standup is active in the
// channel the text is diverted into the standup buffer instead of the log,
// and no message id is minted.
func (s *Service) Send(ctx context.Context, sess Session, channelID int64, text string) (int64, error) {
	if err := validMessageText(text); err != nil {
		return models.None, err
	}

	messageID := models.None
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
			ch.Standup.Buffer += u.Handle + ": " + text + "\n"
			return nil
		}
		messageID = s.appendMessage(st, channelContainer{ch: ch}, u.ID, text)
		return nil
	})
	return messageID, err
}

// SendDM posts a message to a DM.
func (s *Service) SendDM(ctx context.Context, sess Session, dmID int64, text string) (int64, error) {
	if err := validMessageText(text); err != nil {
		return models.None, err
	}

	messageID := models.None
	err := s.store.Update(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		dm := dmByID(st, dmID)
		if dm == nil {
			return badRequest("dm %d does not exist", dmID)
		}
		if !containsID(dm.MemberIDs, u.ID) {
			return forbidden("user is not a member of dm %d", dmID)
		}
		messageID = s.appendMessage(st, dmContainer{dm: dm}, u.ID, text)
		return nil
	})
	return messageID, err
}

// page windows a log most-recent-first starting at start. start equal to
// the log length yields an empty final page; start beyond it is an error.
func page(log []models.Message, start int64) (MessagePage, error) {
	n := int64(len(log))
	if start < 0 {
		return MessagePage{}, badRequest("start %d is negative", start)
	}
	if start > n {
		return MessagePage{}, badRequest("start %d is greater than the number of messages %d", start, n)
	}

	out := MessagePage{Start: start, End: models.None}
	end := start + pageSize
	if end < n {
		out.End = end
	} else {
		end = n
	}
	out.Messages = make([]models.Message, 0, end-start)
	for i := start; i < end; i++ {
		out.Messages = append(out.Messages, log[n-1-i])
	}
	return out, nil
}

// Messages returns one page of a channel's log.
func (s *Service) Messages(ctx context.Context, sess Session, channelID, start int64) (MessagePage, error) {
	var out MessagePage

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
		out, err = page(ch.Messages, start)
		return err
	})
	return out, err
}

// DMMessages returns one page of a DM's log.
func (s *Service) DMMessages(ctx context.Context, sess Session, dmID, start int64) (MessagePage, error) {
	var out MessagePage

	err := s.store.View(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		dm := dmByID(st, dmID)
		if dm == nil {
			return badRequest("dm %d does not exist", dmID)
		}
		if !containsID(dm.MemberIDs, u.ID) {
			return forbidden("user is not a member of dm %d", dmID)
		}
		out, err = page(dm.Messages, start)
		return err
	})
	return out, err
}

// EditMessage replaces a message's text. Only the author or someone with
// moderation standing in the host container may edit; an empty replacement
// removes the message.
func (s *Service) EditMessage(ctx context.Context, sess Session, messageID int64, text string) error {
	if len(text) > maxMessageLen {
		return badRequest("message length must be at most %d", maxMessageLen)
	}

	return s.store.Update(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		c, idx, ok := visibleMessage(st, u.ID, messageID)
		if !ok {
			return badRequest("message %d does not exist", messageID)
		}
		if !isAuthor(c, idx, u.ID) && !c.canModerate(st, u.ID) {
			return forbidden("user may not edit message %d", messageID)
		}
		log := c.log()
		if text == "" {
			*log = append((*log)[:idx], (*log)[idx+1:]...)
			return nil
		}
		(*log)[idx].Text = text
		s.notifyTags(st, c, u.ID, text)
		return nil
	})
}

// RemoveMessage deletes a message outright. Same standing rule as edit.
func (s *Service) RemoveMessage(ctx context.Context, sess Session, messageID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		c, idx, ok := visibleMessage(st, u.ID, messageID)
		if !ok {
			return badRequest("message %d does not exist", messageID)
		}
		if !isAuthor(c, idx, u.ID) && !c.canModerate(st, u.ID) {
			return forbidden("user may not remove message %d", messageID)
		}
		log := c.log()
		*log = append((*log)[:idx], (*log)[idx+1:]...)
		return nil
	})
}

// ShareMessage copies a message's text, plus an optional annotation, into
// exactly one target container. Pass models.None for the side not used.
func (s *Service) ShareMessage(ctx context.Context, sess Session, messageID int64, annotation string, channelID, dmID int64) (int64, error) {
	if (channelID == models.None) == (dmID == models.None) {
		return models.None, badRequest("exactly one of channelId and dmId must be set")
	}
	if len(annotation) > maxMessageLen {
		return models.None, badRequest("annotation length must be at most %d", maxMessageLen)
	}

	sharedID := models.None
	err := s.store.Update(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}

		var target container
		if channelID != models.None {
			ch := channelByID(st, channelID)
			if ch == nil {
				return badRequest("channel %d does not exist", channelID)
			}
			target = channelContainer{ch: ch}
		} else {
			dm := dmByID(st, dmID)
			if dm == nil {
				return badRequest("dm %d does not exist", dmID)
			}
			target = dmContainer{dm: dm}
		}
		if !target.isMember(u.ID) {
			return forbidden("user is not a member of the target")
		}

		src, idx := findMessage(st, messageID)
		if src == nil {
			return badRequest("message %d does not exist", messageID)
		}
		text := (*src.log())[idx].Text
		if annotation != "" {
			text += annotation
		}
		sharedID = s.appendMessage(st, target, u.ID, text)
		return nil
	})
	return sharedID, err
}

// SendLater schedules a one-shot deferred channel send. The message id is
// minted now so it stays unique against everything sent in the interim; the
// task survives restarts and fires after the next Recover.
func (s *Service) SendLater(ctx context.Context, sess Session, channelID int64, text string, dueAt int64) (int64, error) {
	return s.sendLater(ctx, sess, channelID, models.None, text, dueAt)
}

// SendLaterDM schedules a one-shot deferred DM send.
func (s *Service) SendLaterDM(ctx context.Context, sess Session, dmID int64, text string, dueAt int64) (int64, error) {
	return s.sendLater(ctx, sess, models.None, dmID, text, dueAt)
}

func (s *Service) sendLater(ctx context.Context, sess Session, channelID, dmID int64, text string, dueAt int64) (int64, error) {
	if err := validMessageText(text); err != nil {
		return models.None, err
	}
	if dueAt < s.epoch() {
		return models.None, badRequest("due time is in the past")
	}

	var task models.Task
	err := s.store.Update(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}

		var c container
		if channelID != models.None {
			ch := channelByID(st, channelID)
			if ch == nil {
				return badRequest("channel %d does not exist", channelID)
			}
			c = channelContainer{ch: ch}
		} else {
			dm := dmByID(st, dmID)
			if dm == nil {
				return badRequest("dm %d does not exist", dmID)
			}
			c = dmContainer{dm: dm}
		}
		if !c.isMember(u.ID) {
			return forbidden("user is not a member of the target")
		}

		task = models.Task{
			ID:        uuid.NewString(),
			Kind:      models.TaskSendLater,
			DueAt:     dueAt,
			ChannelID: channelID,
			DMID:      dmID,
			AuthorID:  u.ID,
			Text:      text,
			MessageID: nextMessageID(st),
		}
		st.Tasks = append(st.Tasks, task)
		return nil
	})
	if err != nil {
		return models.None, err
	}

	s.sched.arm(task)
	s.log.Debug("deferred send scheduled",
		zap.String("taskId", task.ID),
		zap.Int64("messageId", task.MessageID),
		zap.Int64("dueAt", dueAt))
	return task.MessageID, nil
}

// Search returns every message containing the query, case-insensitively,
// across all channels and DMs the caller belongs to.
func (s *Service) Search(ctx context.Context, sess Session, query string) ([]models.Message, error) {
	if len(query) < 1 || len(query) > maxMessageLen {
		return nil, badRequest("query length must be between 1 and %d", maxMessageLen)
	}
	needle := strings.ToLower(query)

	var out []models.Message
	err := s.store.View(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		out = []models.Message{}
		match := func(msgs []models.Message) {
			for _, m := range msgs {
				if strings.Contains(strings.ToLower(m.Text), needle) {
					out = append(out, m)
				}
			}
		}
		for i := range st.Channels {
			if containsID(st.Channels[i].MemberIDs, u.ID) {
				match(st.Channels[i].Messages)
			}
		}
		for i := range st.DMs {
			if containsID(st.DMs[i].MemberIDs, u.ID) {
				match(st.DMs[i].Messages)
			}
		}
		return nil
	})
	return out, err
}
