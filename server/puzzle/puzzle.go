// Package puzzle controls the logic to run a picture puzzle for a player.
package puzzle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jacobpatterson1549/picture-puzzle/puzzle"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/board"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/message"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/player"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
)

type (
	// Puzzle contains the logic for a player to solve a picture puzzle.
	// The puzzle's goroutine is the only writer of the board.
	Puzzle struct {
		log       log.Logger
		id        puzzle.ID
		player    player.Name
		createdAt int64
		status    puzzle.Status
		board     *board.Board
		userDao   UserDao
		puzzleCfg puzzle.Config
		// infoChanged is called with a description of the puzzle, without its board, whenever the player is sent its state.
		infoChanged func(i puzzle.Info)
		Config
	}

	// Config contains the properties to create similar puzzles.
	Config struct {
		// Debug is a flag that causes the puzzle to log the types messages that are read.
		Debug bool
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used for the created at timestamp.
		TimeFunc func() int64
		// IntNFunc is used to shuffle the tiles.  It should return a uniformly random number in [0,n).
		IntNFunc func(n int) int
		// IdlePeriod is the amount of time that can pass between messages before the puzzle is idle and will delete itself.
		IdlePeriod time.Duration
		// WinPoints is the number of points added to the player's account when the puzzle is solved.
		WinPoints int
		// ReshuffleUnsolvable causes shuffles to be repeated until the tiles can be put back by sliding them into the empty slot.
		ReshuffleUnsolvable bool
	}

	// UserDao makes changes to the stored state of users when they solve puzzles.
	UserDao interface {
		// UpdatePointsIncrement increments points for the specified usernames.
		UpdatePointsIncrement(ctx context.Context, userPoints map[string]int) error
	}

	// messageHandler is a function which handles message.Messages, returning responses to the output channel.
	messageHandler func(ctx context.Context, m message.Message, send messageSender) error

	// messageSender is a function that sends a message somewhere.
	messageSender func(m message.Message)
)

// maxReshuffles limits the shuffles when looking for a solvable arrangement.
const maxReshuffles = 64

// NewPuzzle creates a new, shuffled puzzle for the player.
func (cfg Config) NewPuzzle(log log.Logger, id puzzle.ID, pn player.Name, puzzleCfg puzzle.Config, ud UserDao) (*Puzzle, error) {
	if err := cfg.validate(log, id, pn, puzzleCfg, ud); err != nil {
		return nil, fmt.Errorf("creating puzzle: validation: %w", err)
	}
	b, err := board.New(puzzleCfg.Dimension)
	if err != nil {
		return nil, fmt.Errorf("creating puzzle: %w", err)
	}
	p := Puzzle{
		log:       log,
		id:        id,
		player:    pn,
		createdAt: cfg.TimeFunc(),
		status:    puzzle.NotStarted,
		board:     b,
		userDao:   ud,
		puzzleCfg: puzzleCfg,
		Config:    cfg,
	}
	b.OnSolved(p.markSolved)
	p.shuffle()
	return &p, nil
}

// validate ensures the configuration has no errors.
func (cfg Config) validate(log log.Logger, id puzzle.ID, pn player.Name, puzzleCfg puzzle.Config, ud UserDao) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case id <= 0:
		return fmt.Errorf("positive id required")
	case len(pn) == 0:
		return fmt.Errorf("player required")
	case ud == nil:
		return fmt.Errorf("user dao required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.IntNFunc == nil:
		return fmt.Errorf("random int func required")
	case cfg.IdlePeriod <= 0:
		return fmt.Errorf("positive idle period required")
	case cfg.WinPoints < 0:
		return fmt.Errorf("nonnegative win points required")
	}
	return puzzleCfg.Validate()
}

// Run runs the puzzle until the context is closed, the in channel is closed, or the puzzle is deleted.
// The puzzle deletes itself if no messages are received for its idle period.
func (p *Puzzle) Run(ctx context.Context, in <-chan message.Message, out chan<- message.Message) {
	idleTicker := time.NewTicker(p.IdlePeriod)
	defer idleTicker.Stop()
	active := false
	send := p.sendMessage(ctx, out)
	messageHandlers := map[message.Type]messageHandler{
		message.JoinPuzzle:     p.handleJoin,
		message.RefreshPuzzle:  p.handleRefresh,
		message.ShufflePuzzle:  p.handleShuffle,
		message.MovePuzzleTile: p.handleMove,
		message.DeletePuzzle:   p.handleDelete,
	}
	for { // BLOCKING
		select {
		case <-ctx.Done():
			return
		case m, ok := <-in:
			if !ok {
				return
			}
			p.handleMessage(ctx, m, send, messageHandlers)
			active = true
			if p.status == puzzle.Deleted {
				return
			}
		case <-idleTicker.C:
			if !active {
				p.log.Printf("deleted puzzle %v due to inactivity", p.id)
				m := message.Message{
					Type:       message.DeletePuzzle,
					PlayerName: p.player,
				}
				p.handleDelete(ctx, m, send)
				return
			}
			active = false
		}
	}
}

// sendMessage creates a messageSender that adds the puzzle id to the message before sending it on the out channel.
func (p *Puzzle) sendMessage(ctx context.Context, out chan<- message.Message) messageSender {
	return func(m message.Message) {
		if m.Puzzle == nil {
			m.Puzzle = &puzzle.Info{}
		}
		m.Puzzle.ID = p.id
		message.Send(ctx, m, out, p.Debug, p.log)
	}
}

// handleMessage handles the message with the appropriate message handler.
func (p *Puzzle) handleMessage(ctx context.Context, m message.Message, send messageSender, messageHandlers map[message.Type]messageHandler) {
	if p.Debug {
		p.log.Printf("puzzle reading message with type %v", m.Type)
	}
	var err error
	if mh, ok := messageHandlers[m.Type]; !ok {
		err = fmt.Errorf("puzzle does not know how to handle MessageType %v", m.Type)
	} else if m.PlayerName != p.player {
		err = puzzleWarning("puzzle belongs to another player")
	} else {
		err = mh(ctx, m, send)
	}
	if err != nil {
		mt := message.SocketError
		switch err.(type) {
		case puzzleWarning:
			mt = message.SocketWarning
		default:
			p.log.Printf("puzzle error: %v", err)
		}
		m2 := message.Message{
			Type:       mt,
			PlayerName: m.PlayerName,
			Info:       err.Error(),
		}
		send(m2)
	}
}

// handleJoin starts the puzzle if needed and sends the player the puzzle.
func (p *Puzzle) handleJoin(ctx context.Context, m message.Message, send messageSender) error {
	if p.status == puzzle.NotStarted {
		p.status = puzzle.InProgress
	}
	send(p.infoMessage(message.JoinPuzzle, "joining puzzle"))
	return nil
}

// handleRefresh sends the player the current state of the puzzle.
func (p *Puzzle) handleRefresh(ctx context.Context, m message.Message, send messageSender) error {
	send(p.infoMessage(message.RefreshPuzzle, ""))
	return nil
}

// handleShuffle rearranges the tiles and starts the puzzle again.
func (p *Puzzle) handleShuffle(ctx context.Context, m message.Message, send messageSender) error {
	p.shuffle()
	p.status = puzzle.InProgress
	info := "shuffled tiles"
	if !p.board.Solvable() {
		info += ", but they cannot be slid back into place"
	}
	send(p.infoMessage(message.RefreshPuzzle, info))
	return nil
}

// handleMove slides a tile into the empty slot.
// When the move solves the puzzle, the player is notified and their points are incremented.
func (p *Puzzle) handleMove(ctx context.Context, m message.Message, send messageSender) error {
	if p.status != puzzle.InProgress {
		return puzzleWarning("tiles can only be moved while the puzzle is in progress")
	}
	if m.Move == nil {
		return puzzleWarning("missing move")
	}
	var moved bool
	var err error
	switch {
	case m.Move.Tile != nil:
		moved, err = p.board.MoveTile(*m.Move.Tile)
	case len(m.Move.Slots) == 2:
		moved, err = p.board.Move(m.Move.Slots[0], m.Move.Slots[1])
	default:
		return puzzleWarning("move requires a tile or two slots")
	}
	switch {
	case errors.Is(err, board.ErrInvalidSlot):
		return puzzleWarning("moving tile: " + err.Error())
	case err != nil:
		return fmt.Errorf("moving tile: %w", err)
	case !moved:
		return puzzleWarning("tile must be next to the empty slot to move")
	}
	if p.status != puzzle.Solved {
		send(p.infoMessage(message.MovePuzzleTile, ""))
		return nil
	}
	send(p.infoMessage(message.PuzzleSolved, "puzzle solved!"))
	if p.WinPoints == 0 {
		return nil
	}
	userPoints := map[string]int{
		string(p.player): p.WinPoints,
	}
	if err := p.userDao.UpdatePointsIncrement(ctx, userPoints); err != nil {
		return fmt.Errorf("incrementing points for solving puzzle: %w", err)
	}
	return nil
}

// handleDelete stops the puzzle and tells the player to leave it.
func (p *Puzzle) handleDelete(ctx context.Context, m message.Message, send messageSender) error {
	p.status = puzzle.Deleted
	m2 := message.Message{
		Type:       message.LeavePuzzle,
		PlayerName: p.player,
		Info:       "puzzle deleted",
	}
	send(m2)
	return nil
}

// markSolved is called by the board when the player moves the last tile into place.
func (p *Puzzle) markSolved() {
	p.status = puzzle.Solved
}

// shuffle randomly arranges the tiles on the board.
func (p *Puzzle) shuffle() {
	p.board.Shuffle(p.IntNFunc)
	if !p.ReshuffleUnsolvable {
		return
	}
	for i := 1; i < maxReshuffles && !p.board.Solvable(); i++ {
		p.board.Shuffle(p.IntNFunc)
	}
}

// infoMessage creates a message for the player with the state of the puzzle.
func (p *Puzzle) infoMessage(t message.Type, info string) message.Message {
	puzzleInfo := p.Info()
	if p.infoChanged != nil {
		i := puzzleInfo
		i.Board = nil
		p.infoChanged(i)
	}
	m := message.Message{
		Type:       t,
		PlayerName: p.player,
		Info:       info,
		Puzzle:     &puzzleInfo,
	}
	return m
}

// Info describes the puzzle.  The board is a copy.
func (p *Puzzle) Info() puzzle.Info {
	puzzleCfg := p.puzzleCfg
	i := puzzle.Info{
		ID:        p.id,
		Status:    p.status,
		Board:     p.board.Clone(),
		Solvable:  p.board.Solvable(),
		Player:    string(p.player),
		CreatedAt: p.createdAt,
		Config:    &puzzleCfg,
	}
	return i
}
