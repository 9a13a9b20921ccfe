package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/watchroom/server/internal/service/room"
	"github.com/watchroom/server/pkg/validator"
	"github.com/watchroom/server/pkg/wsrouter"
	"github.com/watchroom/server/pkg/ytsearch"
)

type iRoomService interface {
	Connect(context.Context, *room.ConnectParams) error
	JoinRoom(context.Context, *room.JoinRoomParams) (room.JoinRoomResponse, error)
	ChangeVideo(context.Context, *room.ChangeVideoParams) (room.ChangeVideoResponse, error)
	Resync(context.Context, *room.ResyncParams) (room.ResyncResponse, error)
	SendMessage(context.Context, *room.SendMessageParams) (room.SendMessageResponse, error)
	Disconnect(context.Context, string) (room.DisconnectResponse, error)
	RoomList(context.Context) (room.RoomListResponse, error)
}

type iSearchService interface {
	Search(ctx context.Context, query string) []ytsearch.Video
}

type controller struct {
	roomService   iRoomService
	searchService iSearchService
	upgrader      websocket.Upgrader
	validate      *validator.Validator
	wsmux         *wsrouter.WSRouter
	logger        *slog.Logger
}

func NewController(roomService iRoomService, searchService iSearchService, logger *slog.Logger) *controller {
	c := &controller{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		roomService:   roomService,
		searchService: searchService,
		validate:      validator.NewValidator(),
		logger:        logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
