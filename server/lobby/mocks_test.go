package lobby

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/jacobpatterson1549/picture-puzzle/puzzle/message"
	"github.com/jacobpatterson1549/picture-puzzle/server/socket"
)

type mockUpgrader func(w http.ResponseWriter, r *http.Request) (socket.Conn, error)

func (m mockUpgrader) Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error) {
	return m(w, r)
}

// mockRunner records the messages it reads and replies to PuzzleInfos requests.
type mockRunner struct {
	received chan message.Message
}

func newMockRunner() *mockRunner {
	r := mockRunner{
		received: make(chan message.Message, 10),
	}
	return &r
}

func (r *mockRunner) Run(ctx context.Context, in <-chan message.Message) <-chan message.Message {
	out := make(chan message.Message)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case m := <-in:
				r.received <- m
				if m.Type != message.PuzzleInfos {
					continue
				}
				m2 := message.Message{
					Type:       message.PuzzleInfos,
					PlayerName: m.PlayerName,
				}
				select {
				case <-ctx.Done():
					return
				case out <- m2:
				}
			}
		}
	}()
	return out
}

// mockConn is a connection that reads messages from a channel and records messages that are written.
type mockConn struct {
	reads    chan message.Message
	writes   chan message.Message
	closeMu  sync.Mutex
	closed   chan struct{}
	isClosed bool
}

var errMockConnClosed = errors.New("mock connection closed")

func newMockConn() *mockConn {
	c := mockConn{
		reads:  make(chan message.Message),
		writes: make(chan message.Message, 10),
		closed: make(chan struct{}),
	}
	return &c
}

func (c *mockConn) ReadJSON(v interface{}) error {
	select {
	case <-c.closed:
		return errMockConnClosed
	case m, ok := <-c.reads:
		if !ok {
			return errMockConnClosed
		}
		*v.(*message.Message) = m
		return nil
	}
}

func (c *mockConn) WriteJSON(v interface{}) error {
	c.writes <- v.(message.Message)
	return nil
}

func (*mockConn) SetReadDeadline(t time.Time) error {
	return nil
}

func (*mockConn) SetWriteDeadline(t time.Time) error {
	return nil
}

func (*mockConn) SetPongHandler(h func(appData string) error) {}

func (c *mockConn) Close() error {
	c.closeMu.Lock()
	defer c.closeMu.Unlock()
	if c.isClosed {
		return errMockConnClosed
	}
	c.isClosed = true
	close(c.closed)
	return nil
}

func (*mockConn) WritePing() error {
	return nil
}

func (*mockConn) WriteClose(reason string) error {
	return nil
}

func (*mockConn) IsNormalClose(err error) bool {
	return err == errMockConnClosed
}
