package workspace

import (
	"context"
	"sort"
	"strings"

	"github.com/tanvi-28/huddle/internal/models"
)

// DMSummary is the list-view shape of a DM.
type DMSummary struct {
	ID   int64  `json:"dmId"`
	Name string `json:"name"`
}

// DMDetails is the member-view shape of a DM.
type DMDetails struct {
	Name    string               `json:"name"`
	Members []models.UserSummary `json:"members"`
}

// dmName derives the fixed DM name: every participant's handle (creator
// included), sorted, joined with ", ". The name never changes afterwards,
// even when people leave.
func dmName(st *models.State, memberIDs []int64) string {
	handles := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if u := userByID(st, id); u != nil {
			handles = append(handles, u.Handle)
		}
	}
	sort.Strings(handles)
	return strings.Join(handles, ", ")
}

// CreateDM creates a direct-message group between the caller and userIDs.
// Every invited user gets an "added you" notification.
func (s *Service) CreateDM(ctx context.Context, sess Session, userIDs []int64) (int64, error) {
	var dmID int64

	err := s.store.Update(ctx, func(st *models.State) error {
		creator, err := requireSession(st, sess)
		if err != nil {
			return err
		}

		seen := map[int64]bool{creator.ID: true}
		for _, id := range userIDs {
			if userByID(st, id) == nil {
				return badRequest("any uId in uIds does not refer to a valid user")
			}
			if seen[id] {
				return badRequest("there are duplicate uId in uIds")
			}
			seen[id] = true
		}

		members := append([]int64{}, userIDs...)
		members = append(members, creator.ID)

		st.LastDMID++
		dm := models.DM{
			ID:        st.LastDMID,
			Name:      dmName(st, members),
			MemberIDs: members,
			CreatorID: creator.ID,
			Messages:  []models.Message{},
		}
		st.DMs = append(st.DMs, dm)
		dmID = dm.ID

		s.notifyAdded(st, dmContainer{dm: &st.DMs[len(st.DMs)-1]}, creator.ID, userIDs)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return dmID, nil
}

// ListDMs returns the DMs the caller participates in.
func (s *Service) ListDMs(ctx context.Context, sess Session) ([]DMSummary, error) {
	var out []DMSummary

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		out = make([]DMSummary, 0)
		for i := range st.DMs {
			if containsID(st.DMs[i].MemberIDs, sess.UserID) {
				out = append(out, DMSummary{ID: st.DMs[i].ID, Name: st.DMs[i].Name})
			}
		}
		return nil
	})
	return out, err
}

// DMDetails returns a DM's name and membership; the caller must participate.
func (s *Service) DMDetails(ctx context.Context, sess Session, dmID int64) (DMDetails, error) {
	var out DMDetails

	err := s.store.View(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		dm := dmByID(st, dmID)
		if dm == nil {
			return badRequest("invalid dmId")
		}
		if !containsID(dm.MemberIDs, sess.UserID) {
			return forbidden("authorised user not in dm")
		}
		out = DMDetails{Name: dm.Name, Members: summaries(st, dm.MemberIDs)}
		return nil
	})
	return out, err
}

// RemoveDM deletes a DM and its whole log. Only the original creator may do
// this, and only while still a participant.
func (s *Service) RemoveDM(ctx context.Context, sess Session, dmID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}

		idx := -1
		for i := range st.DMs {
			if st.DMs[i].ID == dmID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return badRequest("invalid dmId")
		}

		dm := &st.DMs[idx]
		if dm.CreatorID != sess.UserID {
			return forbidden("authorised user is not the original DM creator")
		}
		if !containsID(dm.MemberIDs, sess.UserID) {
			return forbidden("authorised user is no longer in the DM")
		}

		st.DMs = append(st.DMs[:idx], st.DMs[idx+1:]...)
		return nil
	})
}

// LeaveDM removes the caller from the DM. If the leaver is the creator, the
// creator reference is cleared and the DM permanently has no creator.
func (s *Service) LeaveDM(ctx context.Context, sess Session, dmID int64) error {
	return s.store.Update(ctx, func(st *models.State) error {
		if _, err := requireSession(st, sess); err != nil {
			return err
		}
		dm := dmByID(st, dmID)
		if dm == nil {
			return badRequest("invalid dmId")
		}
		if !containsID(dm.MemberIDs, sess.UserID) {
			return forbidden("authorised user not in dm")
		}

		dm.MemberIDs = removeID(dm.MemberIDs, sess.UserID)
		if dm.CreatorID == sess.UserID {
			dm.CreatorID = 0
		}
		return nil
	})
}
