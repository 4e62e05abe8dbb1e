// Package lobby connects players' sockets to the puzzle runner.
package lobby

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/message"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/player"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
	"github.com/jacobpatterson1549/picture-puzzle/server/runner"
	"github.com/jacobpatterson1549/picture-puzzle/server/socket"
)

type (
	// Lobby is the place users connect to solve puzzles.
	Lobby struct {
		log      log.Logger
		upgrader Upgrader
		runner   Runner
		once     runner.Runner
		// socketsMu guards the sockets, which are written to when adding/removing sockets and read from when sending messages.
		socketsMu      sync.Mutex
		sockets        map[player.Name]socketHandler
		addSockets     chan playerSocket
		socketMessages chan message.Message
		// done is closed when the lobby stops running.
		done chan struct{}
		Config
	}

	// Config contains the properties to create a lobby.
	Config struct {
		// Debug is a flag that causes the lobby to log the types messages that are read.
		Debug bool
		// MaxSockets is the maximum number of sockets the lobby supports.
		MaxSockets int
		// SocketBufferSize is the number of messages that can be queued for a socket before sending blocks.
		SocketBufferSize int
		// SocketConfig is used to create new sockets.
		SocketConfig socket.Config
	}

	// Upgrader turns a http request into a websocket.
	Upgrader interface {
		// Upgrade creates a Conn from the HTTP request.
		Upgrade(w http.ResponseWriter, r *http.Request) (socket.Conn, error)
	}

	// Runner handles the puzzle messages from sockets.
	Runner interface {
		// Run consumes messages from the "in" channel, responding with messages for players on the returned channel.
		Run(ctx context.Context, in <-chan message.Message) <-chan message.Message
	}

	// playerSocket is used to add players from http requests.
	playerSocket struct {
		playerName player.Name
		w          http.ResponseWriter
		r          *http.Request
		result     chan<- error
	}

	// socketHandler is a channel that can write messages to a socket and be cancelled.
	socketHandler struct {
		addr   message.Addr
		in     chan<- message.Message
		done   <-chan struct{}
		cancel context.CancelFunc
	}
)

// ErrNotRunning is returned when users are added or removed from a lobby that is not running.
var ErrNotRunning = errors.New("lobby not running")

// NewLobby creates a new puzzle lobby.
func (cfg Config) NewLobby(log log.Logger, u Upgrader, r Runner) (*Lobby, error) {
	if err := cfg.validate(log, u, r); err != nil {
		return nil, fmt.Errorf("creating lobby: validation: %w", err)
	}
	l := Lobby{
		log:            log,
		upgrader:       u,
		runner:         r,
		sockets:        make(map[player.Name]socketHandler, cfg.MaxSockets),
		addSockets:     make(chan playerSocket),
		socketMessages: make(chan message.Message),
		done:           make(chan struct{}),
		Config:         cfg,
	}
	return &l, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(log log.Logger, u Upgrader, r Runner) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case u == nil:
		return fmt.Errorf("upgrader required")
	case r == nil:
		return fmt.Errorf("puzzle runner required")
	case cfg.MaxSockets < 1:
		return fmt.Errorf("must allow at least one socket")
	case cfg.SocketBufferSize < 0:
		return fmt.Errorf("nonnegative socket buffer size required")
	}
	return nil
}

// Run runs the lobby until the context is closed.
// The wait group is done when the lobby, the runner, and all sockets have stopped.
func (l *Lobby) Run(ctx context.Context, wg *sync.WaitGroup) error {
	if err := l.once.Run(); err != nil {
		return fmt.Errorf("running lobby: %w", err)
	}
	runnerIn := make(chan message.Message)
	runnerOut := l.runner.Run(ctx, runnerIn)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer close(l.done)
		defer l.once.Finish()
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case ps := <-l.addSockets:
				l.addSocket(ctx, wg, ps, runnerIn)
			case m := <-l.socketMessages:
				l.handleSocketMessage(ctx, m, runnerIn)
			}
		}
	}()
	go func() {
		defer wg.Done()
		for m := range runnerOut { // BLOCKING
			l.sendSocketMessage(ctx, m)
		}
	}()
	return nil
}

// AddUser adds a user to the lobby, opening a new websocket for the username.
// An existing socket for the user is closed.
func (l *Lobby) AddUser(username string, w http.ResponseWriter, r *http.Request) error {
	result := make(chan error, 1)
	ps := playerSocket{
		playerName: player.Name(username),
		w:          w,
		r:          r,
		result:     result,
	}
	ctx := r.Context()
	if !l.once.IsRunning() {
		return ErrNotRunning
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrNotRunning
	case l.addSockets <- ps:
	}
	return <-result
}

// RemoveUser closes the user's socket and deletes their puzzles.
func (l *Lobby) RemoveUser(ctx context.Context, username string) error {
	if !l.once.IsRunning() {
		return ErrNotRunning
	}
	m := message.Message{
		Type:       message.PlayerRemove,
		PlayerName: player.Name(username),
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrNotRunning
	case l.socketMessages <- m:
	}
	return nil
}

// addSocket upgrades the request, adding the socket to the lobby.
// The player is sent the list of their puzzles.
func (l *Lobby) addSocket(ctx context.Context, wg *sync.WaitGroup, ps playerSocket, runnerIn chan<- message.Message) {
	conn, err := l.upgrader.Upgrade(ps.w, ps.r)
	if err != nil {
		ps.result <- fmt.Errorf("upgrading to websocket connection: %w", err)
		return
	}
	if err := l.startSocket(ctx, wg, conn, ps.playerName); err != nil {
		conn.WriteClose(err.Error())
		conn.Close()
		ps.result <- err
		return
	}
	ps.result <- nil
	m := message.Message{
		Type:       message.PuzzleInfos,
		PlayerName: ps.playerName,
	}
	l.sendRunnerMessage(ctx, m, runnerIn)
}

// startSocket creates and runs a socket for the player, replacing the player's previous socket.
func (l *Lobby) startSocket(ctx context.Context, wg *sync.WaitGroup, conn socket.Conn, pn player.Name) error {
	addr := message.Addr(uuid.NewString())
	s, err := l.SocketConfig.NewSocket(l.log, conn, pn, addr)
	if err != nil {
		return err
	}
	l.socketsMu.Lock()
	defer l.socketsMu.Unlock()
	previous, replacing := l.sockets[pn]
	if !replacing && len(l.sockets) >= l.MaxSockets {
		return fmt.Errorf("lobby full")
	}
	socketCtx, cancelFunc := context.WithCancel(ctx)
	in := make(chan message.Message, l.SocketBufferSize)
	if err := s.Run(socketCtx, wg, in, l.socketMessages); err != nil {
		cancelFunc()
		return err
	}
	if replacing {
		l.log.Printf("replacing socket for %v", pn)
		previous.cancel()
	}
	l.sockets[pn] = socketHandler{
		addr:   addr,
		in:     in,
		done:   socketCtx.Done(),
		cancel: cancelFunc,
	}
	return nil
}

// handleSocketMessage sends the message from the socket to the runner or performs special handling.
func (l *Lobby) handleSocketMessage(ctx context.Context, m message.Message, runnerIn chan<- message.Message) {
	if l.Debug {
		l.log.Printf("lobby reading socket message with type %v", m.Type)
	}
	switch m.Type {
	case message.PlayerRemove:
		l.removeSocket(m)
		if len(m.Addr) != 0 {
			return // the socket closed, but the player might reconnect
		}
	case message.SocketHTTPPing:
		return
	}
	l.sendRunnerMessage(ctx, m, runnerIn)
}

// removeSocket removes the player's socket.
// If the message has an address, the socket is only removed if it has the same address.
func (l *Lobby) removeSocket(m message.Message) {
	l.socketsMu.Lock()
	defer l.socketsMu.Unlock()
	sh, ok := l.sockets[m.PlayerName]
	switch {
	case !ok:
		return
	case len(m.Addr) != 0 && m.Addr != sh.addr:
		return
	}
	delete(l.sockets, m.PlayerName)
	sh.cancel()
}

// sendRunnerMessage sends the message to the runner.
func (l *Lobby) sendRunnerMessage(ctx context.Context, m message.Message, runnerIn chan<- message.Message) {
	select {
	case <-ctx.Done():
	case runnerIn <- m:
	}
}

// sendSocketMessage sends a message to the socket for the player the message is for.
func (l *Lobby) sendSocketMessage(ctx context.Context, m message.Message) {
	if l.Debug {
		l.log.Printf("lobby reading runner message with type %v", m.Type)
	}
	l.socketsMu.Lock()
	sh, ok := l.sockets[m.PlayerName]
	l.socketsMu.Unlock()
	if !ok {
		if l.Debug {
			l.log.Printf("no socket for player named '%v' to send message to: %v", m.PlayerName, m.Type)
		}
		return
	}
	select {
	case <-ctx.Done():
	case <-sh.done:
	case sh.in <- m:
	}
}
