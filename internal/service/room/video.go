package room

import (
	"context"
	"fmt"
	"math"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/connection"
	"github.com/watchroom/server/internal/repository/room"
)

type ChangeVideoParams struct {
	RoomId    string
	SenderId  string
	Action    string
	URL       *string
	Title     *string
	Thumbnail *string
	Platform  *string
	Time      *float64
}

// ChangeVideoResponse tells the caller what to fan out. Sync is nil for the
// heartbeat (never broadcast). Room is non-nil only for load, the one
// playback action delivered inclusively and the one that changes the
// directory.
type ChangeVideoResponse struct {
	Action string
	Sync   *SyncVideo
	Conns  []*connection.Conn
	Room   *Room
}

// sanitizeTime drops values no client could mean: negatives, NaN, infinities.
func sanitizeTime(t *float64) *float64 {
	if t == nil || math.IsNaN(*t) || math.IsInf(*t, 0) || *t < 0 {
		return nil
	}

	return t
}

// ChangeVideo runs a host-gated playback transition. Every action refreshes
// the authoritative clock; which connections hear about it depends on the
// action.
func (s *service) ChangeVideo(ctx context.Context, params *ChangeVideoParams) (ChangeVideoResponse, error) {
	now := s.nowFn()
	t := sanitizeTime(params.Time)

	var apply func(v *domain.Video)
	switch params.Action {
	case ActionLoad:
		apply = func(v *domain.Video) { v.Load(params.URL, params.Title, params.Thumbnail, params.Platform, now) }
	case ActionPlay:
		apply = func(v *domain.Video) { v.Play(t, now) }
	case ActionPause:
		apply = func(v *domain.Video) { v.Pause(t, now) }
	case ActionSeek:
		apply = func(v *domain.Video) { v.Seek(t, now) }
	case ActionTime:
		if t == nil {
			return ChangeVideoResponse{}, ErrInvalidTime
		}
		apply = func(v *domain.Video) { v.SetTime(*t, now) }
	default:
		return ChangeVideoResponse{}, ErrUnknownAction
	}

	updated, err := s.roomRepo.UpdateVideo(ctx, &room.UpdateVideoParams{
		RoomId:   params.RoomId,
		SenderId: params.SenderId,
		Apply:    apply,
	})
	if err != nil {
		return ChangeVideoResponse{}, fmt.Errorf("failed to update video: %w", s.mapRepoErr(err))
	}

	resp := ChangeVideoResponse{Action: params.Action}
	switch params.Action {
	case ActionTime:
		// heartbeat: clock refreshed, nothing to deliver
	case ActionLoad:
		sync := syncVideoModel(updated.Video, ActionLoad, now)
		model := roomModel(updated)
		resp.Sync = &sync
		resp.Room = &model
		resp.Conns = s.connsForRoom(ctx, updated, "")
	default:
		// the actor already holds its own new state
		sync := syncVideoModel(updated.Video, params.Action, now)
		resp.Sync = &sync
		resp.Conns = s.connsForRoom(ctx, updated, params.SenderId)
	}

	return resp, nil
}

type ResyncParams struct {
	RoomId   string
	SenderId string
}

type ResyncResponse struct {
	Sync SyncVideo
}

// Resync projects the current position for the requester only. Read-only and
// open to any participant.
func (s *service) Resync(ctx context.Context, params *ResyncParams) (ResyncResponse, error) {
	existing, err := s.roomRepo.Get(ctx, params.RoomId)
	if err != nil {
		return ResyncResponse{}, fmt.Errorf("failed to get room: %w", s.mapRepoErr(err))
	}

	return ResyncResponse{
		Sync: syncVideoModel(existing.Video, ActionSync, s.nowFn()),
	}, nil
}
