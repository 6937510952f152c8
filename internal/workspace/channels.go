package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/models"
)

const maxChannelNameLen = 20

// ChannelSummary is the list-view shape of a channel.
type ChannelSummary struct {
	ID   int64  `json:"channelId"`
	Name string `json:"name"`
}

// ChannelDetails is the member-view shape of a channel.
type ChannelDetails struct {
	Name     string               `json:"name"`
	IsPublic bool                 `json:"isPublic"`
	Owners   []models.UserSummary `json:"ownerMembers"`
	Members  []models.UserSummary `json:"allMembers"`
}

// CreateChannel creates a channel with the caller as its first owner and
// member. Owners are always members; every owner mutation maintains that.
func (s *Service) CreateChannel(ctx context.Context, sess Session, name string, isPublic bool) (int64, error) {
	if len(name) < 1 || len(name) > maxChannelNameLen {
		return 0, badRequest("length of name is less than 1 or more than %d characters", maxChannelNameLen)
	}

	var channelID int64
	err := s.store.Update(ctx, func(st *models.State) error {
		user, err := requireSession(st, sess)
		if err != nil {
			return err
		}

		st.LastChannelID++
		st.Channels = append(st.Channels, models.Channel{
			ID:        st.LastChannelID,
			Name:      name,
			IsPublic:  isPublic,
			OwnerIDs:  []int64{user.ID},
			MemberIDs: []int64{user.ID},
			Messages:  []models.Message{},
		})
		channelID = st.LastChannelID
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("channel created", zap.Int64("channel_id", channelID), zap.Int64("owner", sess.UserID))
	return channelID, nil
}

// ListChannels returns the channels the caller belongs to.
func (s *Service) ListChannels(ctx context.Context, sess Session) ([]ChannelSummary, error) {
	var out []ChannelSummary

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		out = make([]ChannelSummary, 0)
		for i := range st.Channels {
			if containsID(st.Channels[i].MemberIDs, sess.UserID) {
				out = append(out, ChannelSummary{ID: st.Channels[i].ID, Name: st.Channels[i].Name})
			}
		}
		return nil
	})
	return out, err
}

// ListAllChannels returns every channel, public and private alike.
func (s *Service) ListAllChannels(ctx context.Context, sess Session) ([]ChannelSummary, error) {
	var out []ChannelSummary

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		out = make([]ChannelSummary, 0, len(st.Channels))
		for i := range st.Channels {
			out = append(out, ChannelSummary{ID: st.Channels[i].ID, Name: st.Channels[i].Name})
		}
		return nil
	})
	return out, err
}

// ChannelDetails returns a channel's membership; the caller must belong to it.
func (s *Service) ChannelDetails(ctx context.Context, sess Session, channelID int64) (ChannelDetails, error) {
	var out ChannelDetails

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("invalid channelId")
		}
		if !containsID(ch.MemberIDs, sess.UserID) {
			return forbidden("authorised user not in channel")
		}
		out = ChannelDetails{
			Name:     ch.Name,
			IsPublic: ch.IsPublic,
			Owners:   summaries(st, ch.OwnerIDs),
			Members:  summaries(st, ch.MemberIDs),
		}
		return nil
	})
	return out, err
}

// JoinChannel adds the caller as a member. Private channels admit only
// global owners this way; everyone else needs an invite.
func (s *Service) JoinChannel(ctx context.Context, sess Session, channelID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		user, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("invalid channelId")
		}
		if containsID(ch.MemberIDs, user.ID) {
			return badRequest("already a member of the channel")
		}
		if !ch.IsPublic && !isGlobalOwner(st, user.ID) {
			return forbidden("channel is private")
		}
		ch.MemberIDs = append(ch.MemberIDs, user.ID)
		return nil
	})
}

// InviteToChannel adds another user as a member. The inviter must already
// belong to the channel; the invitee must not. The invitee gets an
// "added you" notification.
func (s *Service) InviteToChannel(ctx context.Context, sess Session, channelID, userID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		inviter, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("invalid channelId")
		}
		invitee := userByID(st, userID)
		if invitee == nil {
			return badRequest("invited user does not exist")
		}
		if containsID(ch.MemberIDs, userID) {
			return badRequest("invited user already in channel")
		}
		if !containsID(ch.MemberIDs, inviter.ID) {
			return forbidden("authorised user not in channel")
		}

		ch.MemberIDs = append(ch.MemberIDs, userID)
		s.notifyAdded(st, channelContainer{ch: ch}, inviter.ID, []int64{userID})
		return nil
	})
}

// LeaveChannel removes the caller from both the member and owner sets.
// Leaving a channel you are not in is an error.
func (s *Service) LeaveChannel(ctx context.Context, sess Session, channelID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		user, err := requireSession(st, sess)
		if err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("invalid channelId")
		}
		if !containsID(ch.MemberIDs, user.ID) {
			return badRequest("authorised user not in channel")
		}
		ch.MemberIDs = removeID(ch.MemberIDs, user.ID)
		ch.OwnerIDs = removeID(ch.OwnerIDs, user.ID)
		return nil
	})
}

// AddChannelOwner promotes a member to owner. The actor needs owner
// standing on the channel (channel owner, global owner, or the bootstrap
// workspace owner).
func (s *Service) AddChannelOwner(ctx context.Context, sess Session, channelID, userID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("invalid channelId")
		}
		if userByID(st, userID) == nil {
			return badRequest("invalid uId")
		}
		if containsID(ch.OwnerIDs, userID) {
			return badRequest("user is already an owner")
		}
		if !containsID(ch.MemberIDs, userID) {
			return badRequest("user is not a member of the channel")
		}
		if !(channelContainer{ch: ch}).canModerate(st, sess.UserID) {
			return forbidden("authorised user lacks owner permissions")
		}
		ch.OwnerIDs = append(ch.OwnerIDs, userID)
		return nil
	})
}

// RemoveChannelOwner demotes an owner back to plain member. The last
// remaining owner cannot be removed.
func (s *Service) RemoveChannelOwner(ctx context.Context, sess Session, channelID, userID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		ch := channelByID(st, channelID)
		if ch == nil {
			return badRequest("invalid channelId")
		}
		if userByID(st, userID) == nil {
			return badRequest("invalid uId")
		}
		if !containsID(ch.OwnerIDs, userID) {
			return badRequest("user is not an owner")
		}
		if len(ch.OwnerIDs) == 1 {
			return badRequest("cannot remove the only owner")
		}
		if !(channelContainer{ch: ch}).canModerate(st, sess.UserID) {
			return forbidden("authorised user lacks owner permissions")
		}
		ch.OwnerIDs = removeID(ch.OwnerIDs, userID)
		return nil
	})
}
