package room

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/connection"
	"github.com/watchroom/server/internal/repository/room"
)

// Reasons an inbound event was dropped. The wire stays silent on all of
// these; they exist so callers and tests are not left with absence of a
// broadcast as the only signal.
var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrNotHost       = errors.New("sender is not the room host")
	ErrInvalidTime   = errors.New("invalid time value")
	ErrUnknownAction = errors.New("unknown action")
)

type iRoomRepo interface {
	GetOrCreate(context.Context, *room.GetOrCreateParams) (domain.Room, error)
	Get(context.Context, string) (domain.Room, error)
	AddMember(context.Context, *room.AddMemberParams) (domain.Room, error)
	UpdateVideo(context.Context, *room.UpdateVideoParams) (domain.Room, error)
	RemoveMemberEverywhere(context.Context, string) ([]room.LeaveResult, error)
	Summaries(context.Context) ([]room.Summary, error)
}

type iConnRepo interface {
	Add(*connection.Conn, string) error
	RemoveByClientId(string) error
	GetConn(string) (*connection.Conn, error)
	Conns() []*connection.Conn
}

type service struct {
	roomRepo      iRoomRepo
	connRepo      iConnRepo
	logger        *slog.Logger
	nowFn         func() time.Time
	lastMessageId atomic.Int64
}

func NewService(roomRepo iRoomRepo, connRepo iConnRepo, logger *slog.Logger) *service {
	return &service{
		roomRepo: roomRepo,
		connRepo: connRepo,
		logger:   logger,
		nowFn:    time.Now,
	}
}

func (s *service) mapRepoErr(err error) error {
	switch {
	case errors.Is(err, room.ErrRoomNotFound):
		return ErrRoomNotFound
	case errors.Is(err, room.ErrNotHost):
		return ErrNotHost
	}

	return err
}
