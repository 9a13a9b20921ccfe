package inmemory

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/room"
)

const fallbackThumbnail = "https://picsum.photos/300/200"

// repo is the process-wide room registry. A single mutex guards the whole
// table so every inbound event mutates a room run-to-completion, never
// interleaving with another mutation of the same room. Lifetime is the
// process's lifetime.
type repo struct {
	rooms  map[string]*domain.Room
	mu     sync.RWMutex
	logger *slog.Logger
}

func NewRepo(logger *slog.Logger) *repo {
	return &repo{
		rooms:  make(map[string]*domain.Room),
		logger: logger,
	}
}

func snapshot(r *domain.Room) domain.Room {
	s := *r
	s.Members = slices.Clone(r.Members)
	return s
}

// GetOrCreate returns the room, creating it with the supplied default video
// iff absent. Defaults are ignored on an existing room: the first joiner's
// media choice seeds the room, and the host is fixed to the creator.
func (r *repo) GetOrCreate(ctx context.Context, params *room.GetOrCreateParams) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rooms[params.RoomId]
	if ok {
		return snapshot(existing), nil
	}

	created := domain.NewRoom(params.RoomId, params.HostId, params.Default)
	r.rooms[params.RoomId] = created
	r.logger.DebugContext(ctx, "room created", "room_id", params.RoomId, "host_id", params.HostId)

	return snapshot(created), nil
}

func (r *repo) Get(ctx context.Context, roomId string) (domain.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	existing, ok := r.rooms[roomId]
	if !ok {
		return domain.Room{}, room.ErrRoomNotFound
	}

	return snapshot(existing), nil
}

func (r *repo) AddMember(ctx context.Context, params *room.AddMemberParams) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rooms[params.RoomId]
	if !ok {
		return domain.Room{}, room.ErrRoomNotFound
	}

	existing.AddMember(params.Member)

	return snapshot(existing), nil
}

// UpdateVideo applies a playback transition under the registry lock. Only the
// room host may mutate the video.
func (r *repo) UpdateVideo(ctx context.Context, params *room.UpdateVideoParams) (domain.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.rooms[params.RoomId]
	if !ok {
		return domain.Room{}, room.ErrRoomNotFound
	}

	if !existing.IsHost(params.SenderId) {
		return domain.Room{}, room.ErrNotHost
	}

	params.Apply(&existing.Video)

	return snapshot(existing), nil
}

// RemoveMemberEverywhere scans every room for the member and removes it,
// deleting rooms that become empty atomically with the departure. O(rooms)
// per disconnect; fine at the scale this registry is built for.
func (r *repo) RemoveMemberEverywhere(ctx context.Context, memberId string) ([]room.LeaveResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []room.LeaveResult
	for roomId, existing := range r.rooms {
		removed, hostChanged, ok := existing.RemoveMember(memberId)
		if !ok {
			continue
		}

		result := room.LeaveResult{
			RoomId:      roomId,
			Removed:     removed,
			HostChanged: hostChanged,
			NewHostId:   existing.HostId,
		}

		if len(existing.Members) == 0 {
			delete(r.rooms, roomId)
			result.RoomDeleted = true
			r.logger.DebugContext(ctx, "room deleted", "room_id", roomId)
		} else {
			result.Room = snapshot(existing)
		}

		results = append(results, result)
	}

	return results, nil
}

// Summaries projects every live room for the directory broadcast. No ordering
// guarantee.
func (r *repo) Summaries(ctx context.Context) ([]room.Summary, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	summaries := make([]room.Summary, 0, len(r.rooms))
	for _, existing := range r.rooms {
		thumbnail := existing.Video.Thumbnail
		if thumbnail == "" {
			thumbnail = fallbackThumbnail
		}

		summaries = append(summaries, room.Summary{
			Id:        existing.Id,
			Title:     existing.Video.Title,
			Platform:  existing.Video.Platform,
			Thumbnail: thumbnail,
			UserCount: len(existing.Members),
			Avatars:   existing.Avatars(),
		})
	}

	return summaries, nil
}
