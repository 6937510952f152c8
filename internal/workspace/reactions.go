package workspace

import (
	"context"

	"github.com/tanvi-28/huddle/internal/models"
)

// reactionThumbsUp is the only reaction kind currently defined.
const reactionThumbsUp int64 = 1

func validReactionKind(kind int64) error {
	if kind != reactionThumbsUp {
		return badRequest("reaction kind %d is not valid", kind)
	}
	return nil
}

// React records a reaction on a message the caller can see. A user can hold
// at most one active reaction of a kind per message; the author is notified.
func (s *Service) React(ctx context.Context, sess Session, messageID, kind int64) error {
	if err := validReactionKind(kind); err != nil {
		return err
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
		msg := &(*c.log())[idx]
		for _, r := range msg.Reactions {
			if r.Kind == kind && r.UserID == u.ID && r.Active {
				return badRequest("user already reacted to message %d", messageID)
			}
		}
		msg.Reactions = append(msg.Reactions, models.Reaction{
			Kind:   kind,
			UserID: u.ID,
			Active: true,
		})
		s.notifyReaction(st, c, u.ID, msg.AuthorID)
		return nil
	})
}

// Unreact deactivates the caller's first matching active reaction. A message
// with no reaction records at all is an error.
func (s *Service) Unreact(ctx context.Context, sess Session, messageID, kind int64) error {
	if err := validReactionKind(kind); err != nil {
		return err
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
		msg := &(*c.log())[idx]
		if len(msg.Reactions) == 0 {
			return badRequest("message %d has no reactions", messageID)
		}
		for i := range msg.Reactions {
			r := &msg.Reactions[i]
			if r.Kind == kind && r.UserID == u.ID && r.Active {
				r.Active = false
				return nil
			}
		}
		return badRequest("user has no active reaction on message %d", messageID)
	})
}

// Pin marks a message. Requires moderation standing in the host container;
// pinning an already pinned message fails.
func (s *Service) Pin(ctx context.Context, sess Session, messageID int64) error {
	return s.setPin(ctx, sess, messageID, true)
}

// Unpin clears a message's pin. Same standing rule as Pin; unpinning a
// message that is not pinned fails.
func (s *Service) Unpin(ctx context.Context, sess Session, messageID int64) error {
	return s.setPin(ctx, sess, messageID, false)
}

func (s *Service) setPin(ctx context.Context, sess Session, messageID int64, pinned bool) error {
	return s.store.Update(ctx, func(st *models.State) error {
		u, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		c, idx, ok := visibleMessage(st, u.ID, messageID)
		if !ok {
			return badRequest("message %d does not exist", messageID)
		}
		if !c.canModerate(st, u.ID) {
			return forbidden("user may not pin or unpin in %s", c.name())
		}
		msg := &(*c.log())[idx]
		if msg.Pinned == pinned {
			if pinned {
				return badRequest("message %d is already pinned", messageID)
			}
			return badRequest("message %d is not pinned", messageID)
		}
		msg.Pinned = pinned
		return nil
	})
}
