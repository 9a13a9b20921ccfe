package inmemory

import (
	"sync"

	"github.com/watchroom/server/internal/repository/connection"
)

// repo is a bidirectional conn <-> client-id map. It is the subscriber set
// for directory broadcasts.
type repo struct {
	connList map[*connection.Conn]string
	idList   map[string]*connection.Conn
	mu       sync.RWMutex
}

func NewRepo() *repo {
	return &repo{
		connList: make(map[*connection.Conn]string),
		idList:   make(map[string]*connection.Conn),
	}
}

func (r *repo) Add(conn *connection.Conn, clientId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.connList[conn] != "" || r.idList[clientId] != nil {
		return connection.ErrAlreadyExists
	}

	r.connList[conn] = clientId
	r.idList[clientId] = conn

	return nil
}

func (r *repo) RemoveByClientId(clientId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	conn, ok := r.idList[clientId]
	if !ok {
		return connection.ErrNotFound
	}

	delete(r.connList, conn)
	delete(r.idList, clientId)

	return nil
}

func (r *repo) GetConn(clientId string) (*connection.Conn, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conn, ok := r.idList[clientId]
	if !ok {
		return nil, connection.ErrNotFound
	}

	return conn, nil
}

// Conns returns every connected subscriber.
func (r *repo) Conns() []*connection.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conns := make([]*connection.Conn, 0, len(r.connList))
	for conn := range r.connList {
		conns = append(conns, conn)
	}

	return conns
}
