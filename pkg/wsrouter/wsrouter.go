package wsrouter

import (
	"context"
	"encoding/json"
	"fmt"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Conn is the connection surface the router needs. WriteJSON must be safe for
// concurrent use; ReadJSON is only ever called from ServeConn's loop.
type Conn interface {
	ReadJSON(v any) error
	WriteJSON(v any) error
}

type HandlerFunc[T any] func(ctx context.Context, conn Conn, payload T) error

type Middleware func(next HandlerFunc[any]) HandlerFunc[any]

type WSRouter struct {
	routes      map[string]func(ctx context.Context, conn Conn, raw json.RawMessage) error
	middlewares []Middleware
}

func New() *WSRouter {
	return &WSRouter{
		routes: make(map[string]func(ctx context.Context, conn Conn, raw json.RawMessage) error),
	}
}

// Use appends middleware applied to every handler, in registration order.
func (r *WSRouter) Use(mw ...Middleware) {
	r.middlewares = append(r.middlewares, mw...)
}

// Handle registers a typed handler for a message type. The payload is decoded
// into T before the middleware chain runs.
func Handle[T any](r *WSRouter, messageType string, handler HandlerFunc[T]) {
	r.routes[messageType] = func(ctx context.Context, conn Conn, raw json.RawMessage) error {
		var payload T
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return fmt.Errorf("failed to unmarshal payload: %w", err)
			}
		}

		next := HandlerFunc[any](func(ctx context.Context, conn Conn, p any) error {
			return handler(ctx, conn, p.(T))
		})
		for i := len(r.middlewares) - 1; i >= 0; i-- {
			next = r.middlewares[i](next)
		}

		return next(ctx, conn, payload)
	}
}

// ServeConn reads messages until the connection fails. Unknown message types
// and handler errors never terminate the connection; malformed input is
// dropped.
func (r *WSRouter) ServeConn(ctx context.Context, conn Conn) error {
	for {
		var msg message
		if err := conn.ReadJSON(&msg); err != nil {
			return err
		}

		route, ok := r.routes[msg.Type]
		if !ok {
			continue
		}

		mctx := context.WithValue(ctx, messageTypeKey, msg.Type)
		_ = route(mctx, conn, msg.Payload)
	}
}
