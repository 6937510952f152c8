package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/tanvi-28/huddle/internal/models"
)

// Permission change actions.
const (
	PermissionGrant  int64 = 1
	PermissionRevoke int64 = 2
)

const removedSentinel = "Removed user"

// seedGlobalOwners materializes the implicit bootstrap rule: before anyone
// has touched the permission set, the first registered user is the owner.
func seedGlobalOwners(st *models.State) {
	if len(st.GlobalOwners) == 0 && len(st.Users) > 0 {
		st.GlobalOwners = append(st.GlobalOwners, st.Users[0].ID)
	}
}

// PermissionChange grants (1) or revokes (2) workspace-owner standing.
// Only an existing global owner may act; the sole remaining owner cannot be
// revoked; granting to an owner or revoking from a non-owner is an error.
func (s *Service) PermissionChange(ctx context.Context, sess Session, userID, permissionID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		if permissionID != PermissionGrant && permissionID != PermissionRevoke {
			return badRequest("invalid permissionId")
		}
		if userByID(st, userID) == nil {
			return badRequest("invalid uId")
		}

		seedGlobalOwners(st)

		if !containsID(st.GlobalOwners, sess.UserID) {
			return forbidden("authorised user is not a global owner")
		}

		isOwner := containsID(st.GlobalOwners, userID)
		switch permissionID {
		case PermissionGrant:
			if isOwner {
				return badRequest("user already has owner permissions")
			}
			st.GlobalOwners = append(st.GlobalOwners, userID)
		case PermissionRevoke:
			if !isOwner {
				return badRequest("user does not have owner permissions")
			}
			if len(st.GlobalOwners) == 1 {
				return badRequest("cannot demote the only global owner")
			}
			st.GlobalOwners = removeID(st.GlobalOwners, userID)
		}
		return nil
	})
}

// RemoveUser retires an account: the identity moves to the retained list
// with its names replaced by a sentinel, authored message texts are
// rewritten, memberships drop everywhere, and all sessions are revoked. The
// id stays referenceable so old message authorship still resolves.
func (s *Service) RemoveUser(ctx context.Context, sess Session, userID int64) error {
	err := s.store.Update(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}

		seedGlobalOwners(st)

		if !containsID(st.GlobalOwners, sess.UserID) {
			return forbidden("authorised user is not a global owner")
		}
		if len(st.GlobalOwners) == 1 && containsID(st.GlobalOwners, userID) {
			return badRequest("cannot remove the only global owner")
		}

		idx := -1
		for i := range st.Users {
			if st.Users[i].ID == userID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return badRequest("invalid uId")
		}

		removed := st.Users[idx]
		removed.NameFirst = "Removed"
		removed.NameLast = "user"
		removed.Sessions = []string{}
		st.RemovedUsers = append(st.RemovedUsers, removed)
		st.Users = append(st.Users[:idx], st.Users[idx+1:]...)

		for i := range st.Channels {
			ch := &st.Channels[i]
			ch.MemberIDs = removeID(ch.MemberIDs, userID)
			ch.OwnerIDs = removeID(ch.OwnerIDs, userID)
			for j := range ch.Messages {
				if ch.Messages[j].AuthorID == userID {
					ch.Messages[j].Text = removedSentinel
				}
			}
		}
		for i := range st.DMs {
			dm := &st.DMs[i]
			dm.MemberIDs = removeID(dm.MemberIDs, userID)
			if dm.CreatorID == userID {
				dm.CreatorID = 0
			}
			for j := range dm.Messages {
				if dm.Messages[j].AuthorID == userID {
					dm.Messages[j].Text = removedSentinel
				}
			}
		}

		st.GlobalOwners = removeID(st.GlobalOwners, userID)
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("user removed", zap.Int64("user_id", userID), zap.Int64("by", sess.UserID))
	return nil
}
