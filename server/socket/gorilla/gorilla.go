// Package gorilla implements a websocket connection by wrapping gorilla/websocket.
package gorilla

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/jacobpatterson1549/picture-puzzle/server/socket"
)

type (
	// Upgrader creates websocket connections from http requests.
	Upgrader struct {
		upgrader *websocket.Upgrader
	}

	// Conn implements the socket.Conn interface by wrapping a gorilla/websocket connection.
	Conn struct {
		*websocket.Conn
	}
)

// NewUpgrader returns a upgrader that creates gorilla websocket connections.
func NewUpgrader() *Upgrader {
	u := Upgrader{
		upgrader: new(websocket.Upgrader),
	}
	return &u
}

// Upgrade creates a Conn from the http request.
func (u *Upgrader) Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
	c, err := u.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return &Conn{c}, nil
}

// WritePing writes a ping message on the connection.
func (c *Conn) WritePing() error {
	return c.Conn.WriteMessage(websocket.PingMessage, nil)
}

// WriteClose writes a close message on the connection.  The connection is NOT closed.
func (c *Conn) WriteClose(reason string) error {
	data := websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason)
	return c.Conn.WriteMessage(websocket.CloseMessage, data)
}

// IsNormalClose determines if the error message is not an unexpected close error.
func (*Conn) IsNormalClose(err error) bool {
	var closeErr *websocket.CloseError // only errors from gorilla can be normal close errors
	return errors.As(err, &closeErr) &&
		!websocket.IsUnexpectedCloseError(closeErr, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived)
}

var _ socket.Conn = (*Conn)(nil)
