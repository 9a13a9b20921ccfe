package room

import "github.com/watchroom/server/internal/domain"

type GetOrCreateParams struct {
	RoomId  string
	HostId  string
	Default domain.Video
}

type AddMemberParams struct {
	RoomId string
	Member domain.Member
}

type UpdateVideoParams struct {
	RoomId   string
	SenderId string
	Apply    func(video *domain.Video)
}

// LeaveResult describes the effect of removing a member from one room during
// a disconnect sweep. Room is the post-removal snapshot and is zero when the
// room was deleted.
type LeaveResult struct {
	RoomId      string
	Removed     domain.Member
	HostChanged bool
	NewHostId   string
	RoomDeleted bool
	Room        domain.Room
}

// Summary is the display-safe projection of a live room used for directory
// broadcasts.
type Summary struct {
	Id        string   `json:"id"`
	Title     string   `json:"title"`
	Platform  string   `json:"platform"`
	Thumbnail string   `json:"thumbnail"`
	UserCount int      `json:"users"`
	Avatars   []string `json:"avatars"`
}
