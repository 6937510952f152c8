package workspace

import (
	"context"
	"fmt"
	"strings"

	"github.com/tanvi-28/huddle/internal/models"
)

// notificationCap bounds how many entries a retrieval returns.
const notificationCap = 20

// tagPreviewLen is how much of the message text a tag notification quotes.
const tagPreviewLen = 20

func isAlnumRune(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

// isTagged reports whether text mentions handle as "@handle". The mention
// counts only when the character after the handle is non-alphanumeric or
// the string ends there, so "@alicex" never matches handle "alice".
func isTagged(text, handle string) bool {
	tag := "@" + handle
	for from := 0; ; {
		i := strings.Index(text[from:], tag)
		if i < 0 {
			return false
		}
		end := from + i + len(tag)
		if end == len(text) {
			return true
		}
		next := []rune(text[end:])[0]
		if !isAlnumRune(next) {
			return true
		}
		from = end
	}
}

// taggedMembers resolves every valid mention in text to a recipient:
// matched handles, deduplicated by user id, filtered to members of the
// target container.
func taggedMembers(st *models.State, c container, text string) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for i := range st.Users {
		u := &st.Users[i]
		if !isTagged(text, u.Handle) {
			continue
		}
		if seen[u.ID] || !c.isMember(u.ID) {
			continue
		}
		seen[u.ID] = true
		out = append(out, u.ID)
	}
	return out
}

// appendNotification lands an entry in the recipient's ledger and forwards
// it to the realtime notifier when one is attached.
func (s *Service) appendNotification(st *models.State, userID int64, n models.Notification) {
	if st.Notifications == nil {
		st.Notifications = map[int64][]models.Notification{}
	}
	st.Notifications[userID] = append(st.Notifications[userID], n)
	if s.notify != nil {
		s.notify.Push(userID, n)
	}
}

// notifyTags fans a send/edit/share out to every validly tagged member.
func (s *Service) notifyTags(st *models.State, c container, senderID int64, text string) {
	recipients := taggedMembers(st, c, text)
	if len(recipients) == 0 {
		return
	}

	sender := userByID(st, senderID)
	if sender == nil {
		return
	}
	preview := text
	if runes := []rune(preview); len(runes) > tagPreviewLen {
		preview = string(runes[:tagPreviewLen])
	}
	msg := fmt.Sprintf("%s tagged you in %s: %s", sender.Handle, c.name(), preview)
	for _, uid := range recipients {
		s.appendNotification(st, uid, c.entry(msg))
	}
}

// notifyAdded tells newly added members about a channel invite or DM
// creation.
func (s *Service) notifyAdded(st *models.State, c container, fromID int64, toIDs []int64) {
	from := userByID(st, fromID)
	if from == nil {
		return
	}
	msg := fmt.Sprintf("%s added you to %s", from.Handle, c.name())
	for _, uid := range toIDs {
		s.appendNotification(st, uid, c.entry(msg))
	}
}

// notifyReaction tells a message's author someone reacted.
func (s *Service) notifyReaction(st *models.State, c container, fromID, authorID int64) {
	from := userByID(st, fromID)
	if from == nil {
		return
	}
	msg := fmt.Sprintf("%s reacted to your message in %s", from.Handle, c.name())
	s.appendNotification(st, authorID, c.entry(msg))
}

// Notifications returns the caller's entries, most recent first, capped at
// twenty.
func (s *Service) Notifications(ctx context.Context, sess Session) ([]models.Notification, error) {
	var out []models.Notification

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		ledger := st.Notifications[sess.UserID]
		out = make([]models.Notification, 0, notificationCap)
		for i := len(ledger) - 1; i >= 0 && len(out) < notificationCap; i-- {
			out = append(out, ledger[i])
		}
		return nil
	})
	return out, err
}
