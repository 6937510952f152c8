package workspace

import "github.com/tanvi-28/huddle/internal/models"

// container is the uniform view over the two message-hosting entity kinds.
// Channel and DM dispatch used to be stringly typed in callers; everything
// that works "per channel or DM" goes through this interface instead.
type container interface {
	id() int64
	name() string
	isMember(uid int64) bool
	log() *[]models.Message
	// canModerate reports pin/unpin/edit-others'-messages standing:
	// channel owners, global owners, and the bootstrap workspace owner for
	// channels; only the original creator for DMs.
	canModerate(st *models.State, uid int64) bool
	// entry builds a notification carrying this container's identity, with
	// the other side set to models.None.
	entry(msg string) models.Notification
}

type channelContainer struct {
	ch *models.Channel
}

func (c channelContainer) id() int64   { return c.ch.ID }
func (c channelContainer) name() string { return c.ch.Name }

func (c channelContainer) isMember(uid int64) bool {
	return containsID(c.ch.MemberIDs, uid)
}

func (c channelContainer) log() *[]models.Message { return &c.ch.Messages }

func (c channelContainer) canModerate(st *models.State, uid int64) bool {
	return containsID(c.ch.OwnerIDs, uid) || isGlobalOwner(st, uid) || uid == 1
}

func (c channelContainer) entry(msg string) models.Notification {
	return models.Notification{ChannelID: c.ch.ID, DMID: models.None, Message: msg}
}

type dmContainer struct {
	dm *models.DM
}

func (d dmContainer) id() int64   { return d.dm.ID }
func (d dmContainer) name() string { return d.dm.Name }

func (d dmContainer) isMember(uid int64) bool {
	return containsID(d.dm.MemberIDs, uid)
}

func (d dmContainer) log() *[]models.Message { return &d.dm.Messages }

func (d dmContainer) canModerate(st *models.State, uid int64) bool {
	return d.dm.CreatorID != 0 && d.dm.CreatorID == uid
}

func (d dmContainer) entry(msg string) models.Notification {
	return models.Notification{ChannelID: models.None, DMID: d.dm.ID, Message: msg}
}

// findMessage locates a message anywhere in the workspace and returns its
// container and index within the log.
func findMessage(st *models.State, messageID int64) (container, int) {
	for i := range st.Channels {
		for j := range st.Channels[i].Messages {
			if st.Channels[i].Messages[j].ID == messageID {
				return channelContainer{ch: &st.Channels[i]}, j
			}
		}
	}
	for i := range st.DMs {
		for j := range st.DMs[i].Messages {
			if st.DMs[i].Messages[j].ID == messageID {
				return dmContainer{dm: &st.DMs[i]}, j
			}
		}
	}
	return nil, -1
}

// visibleMessage reports whether the message lives in a container the user
// belongs to. Message ids are only addressable from inside.
func visibleMessage(st *models.State, uid, messageID int64) (container, int, bool) {
	c, idx := findMessage(st, messageID)
	if c == nil || !c.isMember(uid) {
		return nil, -1, false
	}
	return c, idx, true
}

// isAuthor reports whether uid wrote the message at idx in c's log.
func isAuthor(c container, idx int, uid int64) bool {
	return (*c.log())[idx].AuthorID == uid
}
