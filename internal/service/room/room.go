package room

import (
	"context"
	"errors"
	"fmt"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/connection"
	"github.com/watchroom/server/internal/repository/room"
)

type ConnectParams struct {
	Conn     *connection.Conn
	ClientId string
}

func (s *service) Connect(ctx context.Context, params *ConnectParams) error {
	if err := s.connRepo.Add(params.Conn, params.ClientId); err != nil {
		return fmt.Errorf("failed to add connection: %w", err)
	}

	return nil
}

type InitialVideo struct {
	URL       *string
	Title     *string
	Thumbnail *string
}

type JoinRoomParams struct {
	RoomId       string
	SenderId     string
	Username     string
	Avatar       string
	Platform     *string
	InitialVideo *InitialVideo
}

type JoinRoomResponse struct {
	Room  Room
	Sync  SyncVideo
	Conns []*connection.Conn
}

// JoinRoom creates the room on first join (the joiner becomes host) and adds
// or refreshes the member record. The response carries the room snapshot for
// the inclusive room_data broadcast and the projected sync for the joiner.
func (s *service) JoinRoom(ctx context.Context, params *JoinRoomParams) (JoinRoomResponse, error) {
	now := s.nowFn()

	var url, title, thumbnail *string
	if params.InitialVideo != nil {
		url = params.InitialVideo.URL
		title = params.InitialVideo.Title
		thumbnail = params.InitialVideo.Thumbnail
	}

	if _, err := s.roomRepo.GetOrCreate(ctx, &room.GetOrCreateParams{
		RoomId:  params.RoomId,
		HostId:  params.SenderId,
		Default: domain.NewVideo(params.Platform, url, title, thumbnail, now),
	}); err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to get or create room: %w", err)
	}

	joined, err := s.roomRepo.AddMember(ctx, &room.AddMemberParams{
		RoomId: params.RoomId,
		Member: domain.Member{
			Id:       params.SenderId,
			Username: params.Username,
			Avatar:   params.Avatar,
		},
	})
	if err != nil {
		return JoinRoomResponse{}, fmt.Errorf("failed to add member: %w", s.mapRepoErr(err))
	}

	return JoinRoomResponse{
		Room:  roomModel(joined),
		Sync:  syncVideoModel(joined.Video, ActionLoad, now),
		Conns: s.connsForRoom(ctx, joined, ""),
	}, nil
}

type RoomUpdate struct {
	Room  Room
	Conns []*connection.Conn
}

type DisconnectResponse struct {
	Rooms   []RoomUpdate
	Changed bool
}

// Disconnect removes the client's connection and sweeps every room for its
// membership. Rooms left empty are deleted; otherwise host authority falls
// to the earliest remaining member.
func (s *service) Disconnect(ctx context.Context, clientId string) (DisconnectResponse, error) {
	if err := s.connRepo.RemoveByClientId(clientId); err != nil && !errors.Is(err, connection.ErrNotFound) {
		s.logger.InfoContext(ctx, "failed to remove connection", "client_id", clientId, "error", err)
	}

	results, err := s.roomRepo.RemoveMemberEverywhere(ctx, clientId)
	if err != nil {
		return DisconnectResponse{}, fmt.Errorf("failed to remove member: %w", err)
	}

	resp := DisconnectResponse{Changed: len(results) > 0}
	for _, result := range results {
		if result.HostChanged {
			s.logger.DebugContext(ctx, "host reassigned",
				"room_id", result.RoomId,
				"new_host_id", result.NewHostId,
			)
		}
		if result.RoomDeleted {
			continue
		}

		resp.Rooms = append(resp.Rooms, RoomUpdate{
			Room:  roomModel(result.Room),
			Conns: s.connsForRoom(ctx, result.Room, ""),
		})
	}

	return resp, nil
}

type RoomListResponse struct {
	List  []room.Summary
	Conns []*connection.Conn
}

// RoomList is the directory snapshot, addressed to every connected
// subscriber rather than any one room.
func (s *service) RoomList(ctx context.Context) (RoomListResponse, error) {
	summaries, err := s.roomRepo.Summaries(ctx)
	if err != nil {
		return RoomListResponse{}, fmt.Errorf("failed to get summaries: %w", err)
	}

	if summaries == nil {
		summaries = []room.Summary{}
	}

	return RoomListResponse{
		List:  summaries,
		Conns: s.connRepo.Conns(),
	}, nil
}
