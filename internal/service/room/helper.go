package room

import (
	"context"

	"github.com/watchroom/server/internal/domain"
	"github.com/watchroom/server/internal/repository/connection"
)

// connsForRoom resolves the connections of a room's members, best effort:
// members without a live connection are skipped. An empty excludeId means
// inclusive delivery.
func (s *service) connsForRoom(ctx context.Context, r domain.Room, excludeId string) []*connection.Conn {
	conns := make([]*connection.Conn, 0, len(r.Members))
	for _, m := range r.Members {
		if excludeId != "" && m.Id == excludeId {
			continue
		}

		conn, err := s.connRepo.GetConn(m.Id)
		if err != nil {
			s.logger.DebugContext(ctx, "failed to get conn", "client_id", m.Id, "error", err)
			continue
		}

		conns = append(conns, conn)
	}

	return conns
}
