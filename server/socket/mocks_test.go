package socket

import (
	"errors"
	"sync"
	"time"

	"github.com/jacobpatterson1549/picture-puzzle/puzzle/message"
)

// mockConn is a connection that reads messages from a channel and records messages that are written.
type mockConn struct {
	reads         chan message.Message
	writes        chan message.Message
	closeMu       sync.Mutex
	closed        chan struct{}
	isClosed      bool
	closeCause    chan string
	WritePingFunc func() error
}

var errMockConnClosed = errors.New("mock connection closed")

func newMockConn() *mockConn {
	c := mockConn{
		reads:         make(chan message.Message),
		writes:        make(chan message.Message, 10),
		closed:        make(chan struct{}),
		closeCause:    make(chan string, 1),
		WritePingFunc: func() error {
			return nil
		},
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

func (c *mockConn) WritePing() error {
	return c.WritePingFunc()
}

func (c *mockConn) WriteClose(reason string) error {
	c.closeCause <- reason
	return nil
}

func (*mockConn) IsNormalClose(err error) bool {
	return err == errMockConnClosed
}
