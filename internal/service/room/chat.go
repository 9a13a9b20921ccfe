package room

import (
	"context"
	"fmt"

	"github.com/watchroom/server/internal/repository/connection"
)

type SendMessageParams struct {
	RoomId   string
	SenderId string
	Message  string
	Username string
	Avatar   string
}

type SendMessageResponse struct {
	Message ChatMessage
	Conns   []*connection.Conn
}

// SendMessage stamps the message and addresses it to the whole room, sender
// included so multi-device echo stays consistent. Content is opaque.
func (s *service) SendMessage(ctx context.Context, params *SendMessageParams) (SendMessageResponse, error) {
	existing, err := s.roomRepo.Get(ctx, params.RoomId)
	if err != nil {
		return SendMessageResponse{}, fmt.Errorf("failed to get room: %w", s.mapRepoErr(err))
	}

	return SendMessageResponse{
		Message: ChatMessage{
			Id:       s.nextMessageId(),
			SenderId: params.SenderId,
			User:     params.Username,
			Text:     params.Message,
			Avatar:   params.Avatar,
		},
		Conns: s.connsForRoom(ctx, existing, ""),
	}, nil
}

// nextMessageId returns wall-clock milliseconds, bumped past the previous id
// when two messages land in the same millisecond.
func (s *service) nextMessageId() int64 {
	now := s.nowFn().UnixMilli()
	for {
		last := s.lastMessageId.Load()
		id := now
		if id <= last {
			id = last + 1
		}
		if s.lastMessageId.CompareAndSwap(last, id) {
			return id
		}
	}
}
