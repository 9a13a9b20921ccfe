package controller

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/watchroom/server/internal/repository/connection"
	"github.com/watchroom/server/internal/service/room"
)

// serveWS upgrades the connection, assigns it a connection id and pumps its
// messages until the transport drops, then runs the disconnect sweep.
func (c controller) serveWS(w http.ResponseWriter, r *http.Request) {
	ws, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}

	conn := connection.NewConn(ws)
	defer conn.Close()

	clientId := uuid.NewString()
	ctx := context.WithValue(r.Context(), clientIdCtxKey, clientId)

	if err := c.roomService.Connect(ctx, &room.ConnectParams{
		Conn:     conn,
		ClientId: clientId,
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to connect client", "error", err)
		return
	}

	c.broadcastRoomList(ctx)

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "connection closed", "error", err)
	}

	c.disconnect(ctx, clientId)
}

func (c controller) disconnect(ctx context.Context, clientId string) {
	disconnectResp, err := c.roomService.Disconnect(ctx, clientId)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to disconnect client", "error", err)
		return
	}

	for _, update := range disconnectResp.Rooms {
		c.broadcast(ctx, update.Conns, &Output{
			Type:    "room_data",
			Payload: update.Room,
		})
	}

	if disconnectResp.Changed {
		c.broadcastRoomList(ctx)
	}
}
