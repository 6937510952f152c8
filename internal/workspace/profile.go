package workspace

import (
	"context"

	"github.com/tanvi-28/huddle/internal/models"
)

// Profile returns the public view of any user, including removed users,
// whose retained identity stays referenceable from historical messages.
func (s *Service) Profile(ctx context.Context, sess Session, userID int64) (models.UserSummary, error) {
	var out models.UserSummary

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		if u := userByID(st, userID); u != nil {
			out = u.Summary()
			return nil
		}
		for i := range st.RemovedUsers {
			if st.RemovedUsers[i].ID == userID {
				out = st.RemovedUsers[i].Summary()
				return nil
			}
		}
		return badRequest("invalid uId")
	})
	return out, err
}

// AllUsers lists every active user.
func (s *Service) AllUsers(ctx context.Context, sess Session) ([]models.UserSummary, error) {
	var out []models.UserSummary

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		out = make([]models.UserSummary, 0, len(st.Users))
		for i := range st.Users {
			out = append(out, st.Users[i].Summary())
		}
		return nil
	})
	return out, err
}

// SetName updates the caller's display names.
func (s *Service) SetName(ctx context.Context, sess Session, nameFirst, nameLast string) error {
	if len(nameFirst) < 1 || len(nameFirst) > maxNameLen {
		return badRequest("invalid first name")
	}
	if len(nameLast) < 1 || len(nameLast) > maxNameLen {
		return badRequest("invalid last name")
	}

	return s.store.Update(ctx, func(st *models.State) error {
		user, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		user.NameFirst = nameFirst
		user.NameLast = nameLast
		return nil
	})
}

// SetEmail updates the caller's email, enforcing format and uniqueness.
func (s *Service) SetEmail(ctx context.Context, sess Session, email string) error {
	if !validEmail(email) {
		return badRequest("invalid email")
	}

	return s.store.Update(ctx, func(st *models.State) error {
		user, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		for i := range st.Users {
			if st.Users[i].ID != user.ID && st.Users[i].Email == email {
				return badRequest("email is already being used by another user")
			}
		}
		user.Email = email
		return nil
	})
}

// SetHandle updates the caller's handle: 3-20 alphanumeric characters,
// unique across the workspace. Unlike registration there is no automatic
// collision resolution here; a taken handle is an error.
func (s *Service) SetHandle(ctx context.Context, sess Session, handle string) error {
	if len(handle) < 3 || len(handle) > maxHandleLen {
		return badRequest("length of handleStr is not between 3 and %d characters inclusive", maxHandleLen)
	}
	if !isAlnum(handle) {
		return badRequest("handleStr contains non-alphanumeric characters")
	}

	return s.store.Update(ctx, func(st *models.State) error {
		user, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		for i := range st.Users {
			if st.Users[i].ID != user.ID && st.Users[i].Handle == handle {
				return badRequest("the handleStr is already used by another user")
			}
		}
		user.Handle = handle
		return nil
	})
}

// UserStats reports the caller's involvement: containers joined, messages
// sent, and the ratio of those to everything that exists.
type UserStats struct {
	ChannelsJoined  int     `json:"numChannelsJoined"`
	DMsJoined       int     `json:"numDmsJoined"`
	MessagesSent    int     `json:"numMessagesSent"`
	InvolvementRate float64 `json:"involvementRate"`
}

func (s *Service) Stats(ctx context.Context, sess Session) (UserStats, error) {
	var out UserStats

	err := s.store.View(ctx, func(st *models.State) error {
		user, err := requireSession(st, sess)
		if err != nil {
			return err
		}

		totalMessages := 0
		for i := range st.Channels {
			ch := &st.Channels[i]
			totalMessages += len(ch.Messages)
			if containsID(ch.MemberIDs, user.ID) {
				out.ChannelsJoined++
			}
			for _, m := range ch.Messages {
				if m.AuthorID == user.ID {
					out.MessagesSent++
				}
			}
		}
		for i := range st.DMs {
			dm := &st.DMs[i]
			totalMessages += len(dm.Messages)
			if containsID(dm.MemberIDs, user.ID) {
				out.DMsJoined++
			}
			for _, m := range dm.Messages {
				if m.AuthorID == user.ID {
					out.MessagesSent++
				}
			}
		}

		denominator := len(st.Channels) + len(st.DMs) + totalMessages
		if denominator == 0 {
			denominator = 1
		}
		out.InvolvementRate = float64(out.ChannelsJoined+out.DMsJoined+out.MessagesSent) / float64(denominator)
		if out.InvolvementRate > 1 {
			out.InvolvementRate = 1
		}
		return nil
	})
	return out, err
}

// WorkspaceStats reports workspace-wide counts and the share of users in at
// least one container.
type WorkspaceStats struct {
	ChannelsExist   int     `json:"numChannelsExist"`
	DMsExist        int     `json:"numDmsExist"`
	MessagesExist   int     `json:"numMessagesExist"`
	UtilizationRate float64 `json:"utilizationRate"`
}

func (s *Service) WorkspaceStats(ctx context.Context, sess Session) (WorkspaceStats, error) {
	var out WorkspaceStats

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}

		out.ChannelsExist = len(st.Channels)
		out.DMsExist = len(st.DMs)
		for i := range st.Channels {
			out.MessagesExist += len(st.Channels[i].Messages)
		}
		for i := range st.DMs {
			out.MessagesExist += len(st.DMs[i].Messages)
		}

		if len(st.Users) == 0 {
			return nil
		}
		active := 0
		for i := range st.Users {
			uid := st.Users[i].ID
			joined := false
			for j := range st.Channels {
				if containsID(st.Channels[j].MemberIDs, uid) {
					joined = true
					break
				}
			}
			if !joined {
				for j := range st.DMs {
					if containsID(st.DMs[j].MemberIDs, uid) {
						joined = true
						break
					}
				}
			}
			if joined {
				active++
			}
		}
		out.UtilizationRate = float64(active) / float64(len(st.Users))
		return nil
	})
	return out, err
}
