// Package socket handles communication with a player using a websocket connection.
package socket

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jacobpatterson1549/picture-puzzle/puzzle/message"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/player"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
	"github.com/jacobpatterson1549/picture-puzzle/server/runner"
)

type (
	// Socket reads and writes messages to the browsers.
	Socket struct {
		log        log.Logger
		Conn       Conn
		PlayerName player.Name
		Addr       message.Addr
		runner     runner.Runner
		// active is set when a message is read.  The socket is closed if it stays unset for an idle period.
		active atomic.Bool
		Config
	}

	// Config contains commonly shared Socket properties.
	Config struct {
		// Debug is a flag that causes the socket to log the types of non-ping/pong messages that are read/written.
		Debug bool
		// TimeFunc is a function which should supply the current time.
		// Used to set read and write deadlines.
		TimeFunc func() time.Time
		// ReadWait is the amount of time that can pass between receiving client messages before timing out.
		ReadWait time.Duration
		// WriteWait is the amount of time that the socket can take to write a message.
		WriteWait time.Duration
		// PingPeriod is how often ping messages should be sent.  Should be less than ReadWait.
		PingPeriod time.Duration
		// IdlePeriod is the amount of time that can pass between handling messages that are not pings before the connection is idle and will be disconnected.
		IdlePeriod time.Duration
		// HTTPPingPeriod is the amount of time between asking the browser to make a http request to keep the server awake.
		HTTPPingPeriod time.Duration
	}

	// Conn is the connection that backs the socket.
	Conn interface {
		// ReadJSON reads the next json message from the connection.
		ReadJSON(v interface{}) error
		// WriteJSON writes the message as json to the connection.
		WriteJSON(v interface{}) error
		// SetReadDeadline sets when reading from the connection times out.
		SetReadDeadline(t time.Time) error
		// SetWriteDeadline sets when writing to the connection times out.
		SetWriteDeadline(t time.Time) error
		// SetPongHandler is called when a pong is read from the connection.
		SetPongHandler(h func(appData string) error)
		// Close closes the connection.
		Close() error
		// WritePing writes a ping message on the connection.
		WritePing() error
		// WriteClose writes a close message on the connection.  The connection is NOT closed.
		WriteClose(reason string) error
		// IsNormalClose determines if the error message is not an unexpected close error.
		IsNormalClose(err error) bool
	}
)

// NewSocket creates a socket for the player.
func (cfg Config) NewSocket(log log.Logger, conn Conn, pn player.Name, addr message.Addr) (*Socket, error) {
	if err := cfg.validate(log, conn, pn, addr); err != nil {
		return nil, fmt.Errorf("creating socket: validation: %w", err)
	}
	s := Socket{
		log:        log,
		Conn:       conn,
		PlayerName: pn,
		Addr:       addr,
		Config:     cfg,
	}
	return &s, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(log log.Logger, conn Conn, pn player.Name, addr message.Addr) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case conn == nil:
		return fmt.Errorf("websocket connection required")
	case len(pn) == 0:
		return fmt.Errorf("player name required")
	case len(addr) == 0:
		return fmt.Errorf("address required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.ReadWait <= 0:
		return fmt.Errorf("positive read wait period required")
	case cfg.WriteWait <= 0:
		return fmt.Errorf("positive write wait period required")
	case cfg.PingPeriod <= 0:
		return fmt.Errorf("positive ping period required")
	case cfg.IdlePeriod <= 0:
		return fmt.Errorf("positive idle period required")
	case cfg.HTTPPingPeriod <= 0:
		return fmt.Errorf("positive http ping period required")
	case cfg.PingPeriod >= cfg.ReadWait:
		return fmt.Errorf("ping period should be less than read wait")
	}
	return nil
}

// Run reads messages from the connection onto the "out" channel and writes messages from the "in" channel to the connection on separate goroutines.
// The socket runs until the connection fails, it becomes idle, or the context is cancelled.
// When reading stops, a PlayerRemove message with the socket's address is sent on the "out" channel.
func (s *Socket) Run(ctx context.Context, wg *sync.WaitGroup, in <-chan message.Message, out chan<- message.Message) error {
	if err := s.runner.Run(); err != nil {
		return fmt.Errorf("running socket: %w", err)
	}
	socketCtx, cancelFunc := context.WithCancel(ctx)
	s.Conn.SetPongHandler(s.refreshReadDeadline)
	wg.Add(2)
	go s.readMessages(ctx, socketCtx, cancelFunc, wg, out)
	go s.writeMessages(socketCtx, cancelFunc, wg, in)
	return nil
}

// readMessages receives messages from the connected socket and writes them to the out channel.
// The parent context is used to notify the reader of the out channel that the socket has closed.
func (s *Socket) readMessages(parentCtx, ctx context.Context, cancelFunc context.CancelFunc, wg *sync.WaitGroup, out chan<- message.Message) {
	defer wg.Done()
	defer func() {
		cancelFunc()
		m := message.Message{
			Type:       message.PlayerRemove,
			PlayerName: s.PlayerName,
			Addr:       s.Addr,
		}
		select {
		case <-parentCtx.Done():
		case out <- m:
		}
	}()
	for { // BLOCKING
		m, err := s.readMessage()
		if err != nil {
			select {
			case <-ctx.Done():
			default:
				s.log.Printf("reading socket messages stopped for player %v: %v", s.PlayerName, err)
			}
			return
		}
		s.active.Store(true)
		select {
		case <-ctx.Done():
			return
		case out <- *m:
		}
	}
}

// writeMessages sends messages from the in channel to the connected socket.
// The connection is closed when writing stops.
func (s *Socket) writeMessages(ctx context.Context, cancelFunc context.CancelFunc, wg *sync.WaitGroup, in <-chan message.Message) {
	pingTicker := time.NewTicker(s.PingPeriod)
	httpPingTicker := time.NewTicker(s.HTTPPingPeriod)
	idleTicker := time.NewTicker(s.IdlePeriod)
	var closeReason string
	defer func() {
		pingTicker.Stop()
		httpPingTicker.Stop()
		idleTicker.Stop()
		cancelFunc()
		s.writeClose(closeReason)
		s.runner.Finish()
		wg.Done()
	}()
	for { // BLOCKING
		var err error
		select {
		case <-ctx.Done():
			closeReason = "socket closed"
			return
		case m, ok := <-in:
			if !ok {
				closeReason = "socket closed"
				return
			}
			err = s.writeMessage(m)
		case <-pingTicker.C:
			err = s.writePing()
		case <-httpPingTicker.C:
			m := message.Message{
				Type: message.SocketHTTPPing,
			}
			err = s.writeMessage(m)
		case <-idleTicker.C:
			if !s.active.Swap(false) {
				closeReason = "closing socket due to inactivity"
				return
			}
		}
		if err != nil {
			closeReason = err.Error()
			s.log.Printf("writing socket messages stopped for player %v: %v", s.PlayerName, err)
			return
		}
	}
}

// readMessage reads the next message from the connection, adding the player name and address of the socket to it.
func (s *Socket) readMessage() (*message.Message, error) {
	if err := s.refreshReadDeadline(""); err != nil {
		return nil, err
	}
	var m message.Message
	if err := s.Conn.ReadJSON(&m); err != nil { // BLOCKING
		if s.Conn.IsNormalClose(err) {
			return nil, fmt.Errorf("connection closed: %w", err)
		}
		return nil, fmt.Errorf("unexpected socket closure: %w", err)
	}
	if s.Debug {
		s.log.Printf("socket reading message with type %v", m.Type)
	}
	m.PlayerName = s.PlayerName
	m.Addr = s.Addr
	return &m, nil
}

// writeMessage writes a message to the connection.
func (s *Socket) writeMessage(m message.Message) error {
	if s.Debug {
		s.log.Printf("socket writing message with type %v", m.Type)
	}
	if err := s.Conn.SetWriteDeadline(s.TimeFunc().Add(s.WriteWait)); err != nil {
		return fmt.Errorf("setting write deadline: %w", err)
	}
	if err := s.Conn.WriteJSON(m); err != nil {
		return fmt.Errorf("writing socket message: %w", err)
	}
	return nil
}

// writePing writes a ping message to the connection.
func (s *Socket) writePing() error {
	if err := s.Conn.SetWriteDeadline(s.TimeFunc().Add(s.WriteWait)); err != nil {
		return fmt.Errorf("setting ping deadline: %w", err)
	}
	if err := s.Conn.WritePing(); err != nil {
		return fmt.Errorf("writing ping message: %w", err)
	}
	return nil
}

// writeClose writes a close message with the reason and closes the connection.
func (s *Socket) writeClose(reason string) {
	if err := s.Conn.SetWriteDeadline(s.TimeFunc().Add(s.WriteWait)); err == nil {
		s.Conn.WriteClose(reason)
	}
	if err := s.Conn.Close(); err != nil && s.Debug {
		s.log.Printf("closing socket for player %v: %v", s.PlayerName, err)
	}
}

// refreshReadDeadline extends the time the connection can be read from.  It is also the pong handler.
func (s *Socket) refreshReadDeadline(appData string) error {
	if err := s.Conn.SetReadDeadline(s.TimeFunc().Add(s.ReadWait)); err != nil {
		return fmt.Errorf("setting read deadline: %w", err)
	}
	return nil
}
