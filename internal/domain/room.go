package domain

// Member is a participant of a room, keyed by its connection id. Connection
// ids are not stable across reconnects.
type Member struct {
	Id       string
	Username string
	Avatar   string
}

// Room is a named synchronization domain: an ordered member list (insertion
// order is the host-failover priority) and one authoritative playback state.
type Room struct {
	Id      string
	HostId  string
	Members []Member
	Video   Video
}

func NewRoom(id, hostId string, video Video) *Room {
	return &Room{
		Id:     id,
		HostId: hostId,
		Video:  video,
	}
}

// AddMember appends the member, or replaces the existing record when a member
// with the same id is already present (idempotent re-join).
func (r *Room) AddMember(member Member) {
	for i, m := range r.Members {
		if m.Id == member.Id {
			r.Members[i] = member
			return
		}
	}

	r.Members = append(r.Members, member)
}

// RemoveMember removes the member with the given id. If the member held host
// authority, the earliest remaining member becomes host immediately. The
// second result reports whether the host changed; ok is false when the id is
// not a member.
func (r *Room) RemoveMember(memberId string) (removed Member, hostChanged bool, ok bool) {
	for i, m := range r.Members {
		if m.Id != memberId {
			continue
		}

		r.Members = append(r.Members[:i], r.Members[i+1:]...)

		if r.HostId == memberId && len(r.Members) > 0 {
			r.HostId = r.Members[0].Id
			hostChanged = true
		}

		return m, hostChanged, true
	}

	return Member{}, false, false
}

func (r Room) IsHost(memberId string) bool {
	return r.HostId == memberId
}

func (r Room) Avatars() []string {
	avatars := make([]string, 0, len(r.Members))
	for _, m := range r.Members {
		avatars = append(avatars, m.Avatar)
	}

	return avatars
}
