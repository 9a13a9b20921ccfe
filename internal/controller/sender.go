package controller

import (
	"context"

	"github.com/watchroom/server/internal/repository/connection"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// connWriter is satisfied by *connection.Conn and by the router's conn; both
// serialize concurrent writes.
type connWriter interface {
	WriteJSON(v any) error
}

func (c controller) writeToConn(ctx context.Context, conn connWriter, output *Output) {
	if err := conn.WriteJSON(output); err != nil {
		c.logger.DebugContext(ctx, "failed to write to conn", "type", output.Type, "error", err)
	}
}

// broadcast is best effort: a dead peer never aborts delivery to the rest.
func (c controller) broadcast(ctx context.Context, conns []*connection.Conn, output *Output) {
	for _, conn := range conns {
		c.writeToConn(ctx, conn, output)
	}
}

// broadcastRoomList sends the directory snapshot to every connected
// subscriber. Fires on connect and after every join, leave and load.
func (c controller) broadcastRoomList(ctx context.Context) {
	roomListResp, err := c.roomService.RoomList(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "failed to get room list", "error", err)
		return
	}

	c.broadcast(ctx, roomListResp.Conns, &Output{
		Type:    "room_list_update",
		Payload: roomListResp.List,
	})
}
