package room

import "errors"

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrNotHost        = errors.New("sender is not the room host")
	ErrMemberNotFound = errors.New("member not found")
)
