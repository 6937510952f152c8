package models

// None marks the absent side of a channel/DM pair on records that can
// originate from either, such as notification entries.
const None int64 = -1

// UserSummary is the public slice of a user that gets embedded in channel
// and DM detail payloads.
type UserSummary struct {
	ID        int64  `json:"uId"`
	Email     string `json:"email"`
	NameFirst string `json:"nameFirst"`
	NameLast  string `json:"nameLast"`
	Handle    string `json:"handleStr"`
}

// User is a registered account. IDs are assigned sequentially and never
// reused, even after removal; historical message authorship keeps pointing
// at the old id.
//
// Sessions holds the ids of live login sessions. Logout and password reset
// drop entries here, which is what actually invalidates a bearer token.
type User struct {
	ID            int64    `json:"uId"`
	Email         string   `json:"email"`
	NameFirst     string   `json:"nameFirst"`
	NameLast      string   `json:"nameLast"`
	Handle        string   `json:"handleStr"`
	PasswordHash  string   `json:"password"`
	Sessions      []string `json:"sessions"`
	ProfileImgURL string   `json:"profileImgUrl,omitempty"`
	ResetCode     string   `json:"resetCode,omitempty"`
}

// Summary returns the public view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Email:     u.Email,
		NameFirst: u.NameFirst,
		NameLast:  u.NameLast,
		Handle:    u.Handle,
	}
}

// Reaction is one user's reaction to a message. Removal is soft: the record
// stays but Active flips to false, so the same user can react again later.
type Reaction struct {
	Kind   int64 `json:"reactId"`
	UserID int64 `json:"authUId"`
	Active bool  `json:"reacting"`
}

// Message is a single entry in a channel or DM log. Ids are unique and
// strictly increasing across the whole workspace.
type Message struct {
	ID        int64      `json:"messageId"`
	AuthorID  int64      `json:"uId"`
	Text      string     `json:"message"`
	SentAt    int64      `json:"timeSent"`
	Pinned    bool       `json:"pin"`
	Reactions []Reaction `json:"reactInfo,omitempty"`
}

// Standup is the per-channel standup window state. While Active, channel
// sends are buffered instead of becoming individual messages.
type Standup struct {
	Active    bool   `json:"active"`
	FinishAt  int64  `json:"finishAt"`
	StarterID int64  `json:"starterId"`
	Buffer    string `json:"buffer"`
}

// Channel is a chat room. OwnerIDs is always a subset of MemberIDs.
type Channel struct {
	ID        int64     `json:"channelId"`
	Name      string    `json:"name"`
	IsPublic  bool      `json:"isPublic"`
	OwnerIDs  []int64   `json:"ownerMembers"`
	MemberIDs []int64   `json:"allMembers"`
	Messages  []Message `json:"messages"`
	Standup   Standup   `json:"standup"`
}

// DM is a direct-message group. Name is derived from the sorted handles of
// all participants at creation time, never chosen. CreatorID is 0 once the
// creator has left.
type DM struct {
	ID        int64     `json:"dmId"`
	Name      string    `json:"name"`
	MemberIDs []int64   `json:"uIds"`
	CreatorID int64     `json:"creatorId"`
	Messages  []Message `json:"messages"`
}

// Notification is one entry in a recipient's ledger. Exactly one of
// ChannelID and DMID is set; the other is None.
type Notification struct {
	ChannelID int64  `json:"channelId"`
	DMID      int64  `json:"dmId"`
	Message   string `json:"notificationMessage"`
}

// Task kinds for the durable scheduler.
const (
	TaskSendLater    = "send_later"
	TaskStandupFlush = "standup_flush"
)

// Task is a persisted deferred operation. Tasks survive restarts: the
// scheduler re-arms every row on startup. For send_later the message id is
// minted at schedule time so the caller can refer to it immediately.
type Task struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	DueAt     int64  `json:"dueAt"`
	ChannelID int64  `json:"channelId"`
	DMID      int64  `json:"dmId"`
	AuthorID  int64  `json:"authorId"`
	Text      string `json:"text"`
	MessageID int64  `json:"messageId"`
}

// State is the whole workspace snapshot. Every operation reads it in full
// and, on success, writes it back in full through snapshot.Store. Keeping
// the notification ledger and the task table inside the same snapshot means
// a single atomic update covers all of an operation's writes.
type State struct {
	Users         []User                   `json:"users"`
	RemovedUsers  []User                   `json:"removedUsers"`
	Channels      []Channel                `json:"channels"`
	DMs           []DM                     `json:"dms"`
	GlobalOwners  []int64                  `json:"permissions"`
	Notifications map[int64][]Notification `json:"notifications"`
	Tasks         []Task                   `json:"tasks"`

	LastUserID    int64 `json:"lastUserId"`
	LastChannelID int64 `json:"lastChannelId"`
	LastDMID      int64 `json:"lastDmId"`
}

// NewState returns an empty snapshot with initialized collections.
func NewState() *State {
	return &State{
		Users:         []User{},
		RemovedUsers:  []User{},
		Channels:      []Channel{},
		DMs:           []DM{},
		GlobalOwners:  []int64{},
		Notifications: map[int64][]Notification{},
		Tasks:         []Task{},
	}
}
