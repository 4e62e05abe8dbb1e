package puzzle

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/jacobpatterson1549/picture-puzzle/puzzle"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/message"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/player"
	"github.com/jacobpatterson1549/picture-puzzle/server/log"
)

type (
	// Runner runs puzzles.
	Runner struct {
		log log.Logger
		// puzzles maps puzzle ids to the running puzzles.
		puzzles map[puzzle.ID]runningPuzzle
		// lastID is the ID of the most recently created puzzle.  The next new puzzle should get a larger ID.
		lastID puzzle.ID
		// the UserDao increments user points when a puzzle is solved.
		userDao UserDao
		// RunnerConfig contains configuration properties of the Runner.
		RunnerConfig
	}

	// RunnerConfig is used to create a puzzle Runner.
	RunnerConfig struct {
		// Debug is a flag that causes the runner to log the types of messages that are read.
		Debug bool
		// The maximum number of puzzles.
		MaxPuzzles int
		// PuzzleConfig is the default shape of new puzzles.
		PuzzleConfig puzzle.Config
		// The config for creating new puzzles.
		Config Config
	}

	// runningPuzzle is a puzzle that is being run on a separate goroutine.
	runningPuzzle struct {
		// in is the channel the puzzle listens to for incoming messages.
		in chan<- message.Message
		// done is closed when the puzzle stops running.
		done <-chan struct{}
		// info is the latest description of the puzzle.  It does not include the board.
		info *runningInfo
	}

	// runningInfo is a puzzle description that is written by the puzzle's goroutine and read by the runner.
	runningInfo struct {
		mu   sync.Mutex
		info puzzle.Info
	}
)

// get returns the latest puzzle description.
func (ri *runningInfo) get() puzzle.Info {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	return ri.info
}

// set stores the puzzle description.
func (ri *runningInfo) set(i puzzle.Info) {
	ri.mu.Lock()
	defer ri.mu.Unlock()
	ri.info = i
}

// NewRunner creates a new puzzle runner from the config.
func (cfg RunnerConfig) NewRunner(log log.Logger, ud UserDao) (*Runner, error) {
	if err := cfg.validate(log, ud); err != nil {
		return nil, fmt.Errorf("creating puzzle runner: validation: %w", err)
	}
	r := Runner{
		log:          log,
		puzzles:      make(map[puzzle.ID]runningPuzzle, cfg.MaxPuzzles),
		userDao:      ud,
		RunnerConfig: cfg,
	}
	return &r, nil
}

// validate ensures the configuration has no errors.
func (cfg RunnerConfig) validate(log log.Logger, ud UserDao) error {
	switch {
	case log == nil:
		return fmt.Errorf("log required")
	case ud == nil:
		return fmt.Errorf("user dao required")
	case cfg.MaxPuzzles < 1:
		return fmt.Errorf("must be able to create at least one puzzle")
	}
	if err := cfg.PuzzleConfig.Validate(); err != nil {
		return fmt.Errorf("default puzzle config: %w", err)
	}
	return nil
}

// Run consumes messages from the "in" channel, processing them on a new goroutine until the "in" channel closes.
// The results of messages are sent on the "out" channel to be read by the subscriber.
// The out channel is closed after all of the puzzles have stopped.
func (r *Runner) Run(ctx context.Context, in <-chan message.Message) <-chan message.Message {
	ctx, cancelFunc := context.WithCancel(ctx)
	out := make(chan message.Message)
	finished := make(chan puzzle.ID)
	var wg sync.WaitGroup
	go func() {
		defer close(out)
		defer wg.Wait()
		defer cancelFunc()
		for { // BLOCKING
			select {
			case <-ctx.Done():
				return
			case m, ok := <-in:
				if !ok {
					return
				}
				r.handleMessage(ctx, &wg, m, out, finished)
			case id := <-finished:
				delete(r.puzzles, id)
			}
		}
	}()
	return out
}

// handleMessage takes appropriate actions for different message types.
func (r *Runner) handleMessage(ctx context.Context, wg *sync.WaitGroup, m message.Message, out chan<- message.Message, finished chan<- puzzle.ID) {
	if r.Debug {
		r.log.Printf("puzzle runner reading message with type %v", m.Type)
	}
	switch m.Type {
	case message.CreatePuzzle:
		r.createPuzzle(ctx, wg, m, out, finished)
	case message.DeletePuzzle:
		r.deletePuzzle(ctx, m, out)
	case message.PuzzleInfos:
		r.sendPuzzleInfos(ctx, m, out)
	case message.PlayerRemove:
		r.removePlayer(ctx, m)
	default:
		r.handlePuzzleMessage(ctx, m, out)
	}
}

// createPuzzle allocates a new puzzle, adding it to the running puzzles.
func (r *Runner) createPuzzle(ctx context.Context, wg *sync.WaitGroup, m message.Message, out chan<- message.Message, finished chan<- puzzle.ID) {
	if len(r.puzzles) >= r.MaxPuzzles {
		err := fmt.Errorf("the maximum number of puzzles have already been created (%v)", r.MaxPuzzles)
		r.sendError(ctx, err, m.PlayerName, out)
		return
	}
	puzzleCfg := r.PuzzleConfig
	if m.Puzzle != nil && m.Puzzle.Config != nil && m.Puzzle.Config.Dimension != 0 {
		puzzleCfg = *m.Puzzle.Config
	}
	id := r.lastID + 1
	p, err := r.Config.NewPuzzle(r.log, id, m.PlayerName, puzzleCfg, r.userDao)
	if err != nil {
		r.sendError(ctx, err, m.PlayerName, out)
		return
	}
	r.lastID = id
	in := make(chan message.Message)
	done := make(chan struct{})
	info := p.Info()
	info.Board = nil
	ri := &runningInfo{info: info}
	p.infoChanged = ri.set
	r.puzzles[id] = runningPuzzle{
		in:   in,
		done: done,
		info: ri,
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		p.Run(ctx, in, out) // all puzzles publish to the same "out" channel
		close(done)
		select {
		case <-ctx.Done():
		case finished <- id:
		}
	}()
	m.Type = message.JoinPuzzle
	r.sendToPuzzle(ctx, r.puzzles[id], m)
}

// deletePuzzle removes a puzzle from the runner, notifying the puzzle that it is being deleted so it can notify the player.
func (r *Runner) deletePuzzle(ctx context.Context, m message.Message, out chan<- message.Message) {
	rp, err := r.getPuzzle(m)
	if err != nil {
		r.sendError(ctx, err, m.PlayerName, out)
		return
	}
	if rp.info.get().Player != string(m.PlayerName) {
		r.sendError(ctx, puzzleWarning("puzzle belongs to another player"), m.PlayerName, out)
		return
	}
	delete(r.puzzles, m.Puzzle.ID)
	r.sendToPuzzle(ctx, rp, m)
}

// sendPuzzleInfos sends the player a description of each of their puzzles.
func (r *Runner) sendPuzzleInfos(ctx context.Context, m message.Message, out chan<- message.Message) {
	infos := make([]puzzle.Info, 0, len(r.puzzles))
	for _, rp := range r.puzzles {
		if info := rp.info.get(); info.Player == string(m.PlayerName) {
			infos = append(infos, info)
		}
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].ID < infos[j].ID
	})
	m2 := message.Message{
		Type:       message.PuzzleInfos,
		PlayerName: m.PlayerName,
		Puzzles:    infos,
	}
	message.Send(ctx, m2, out, r.Debug, r.log)
}

// removePlayer deletes all of the player's puzzles.
func (r *Runner) removePlayer(ctx context.Context, m message.Message) {
	for id, rp := range r.puzzles {
		if rp.info.get().Player != string(m.PlayerName) {
			continue
		}
		delete(r.puzzles, id)
		m2 := message.Message{
			Type:       message.DeletePuzzle,
			PlayerName: m.PlayerName,
		}
		r.sendToPuzzle(ctx, rp, m2)
	}
}

// handlePuzzleMessage passes a message to the puzzle it is for.
func (r *Runner) handlePuzzleMessage(ctx context.Context, m message.Message, out chan<- message.Message) {
	rp, err := r.getPuzzle(m)
	if err != nil {
		r.sendError(ctx, err, m.PlayerName, out)
		return
	}
	r.sendToPuzzle(ctx, rp, m)
}

// sendToPuzzle sends the message to the puzzle unless it has stopped running.
func (r *Runner) sendToPuzzle(ctx context.Context, rp runningPuzzle, m message.Message) {
	select {
	case <-ctx.Done():
	case <-rp.done:
	case rp.in <- m:
	}
}

// getPuzzle retrieves the puzzle from the runner for the message, if the runner has a puzzle for the message's puzzle ID.
func (r *Runner) getPuzzle(m message.Message) (runningPuzzle, error) {
	if m.Puzzle == nil {
		return runningPuzzle{}, errors.New("no puzzle for runner to handle in message")
	}
	rp, ok := r.puzzles[m.Puzzle.ID]
	if !ok {
		return runningPuzzle{}, fmt.Errorf("no puzzle with id %v, please refresh list of puzzles", m.Puzzle.ID)
	}
	return rp, nil
}

// sendError sends an error message to the player.
func (r *Runner) sendError(ctx context.Context, err error, pn player.Name, out chan<- message.Message) {
	mt := message.SocketError
	var pw puzzleWarning
	if errors.As(err, &pw) {
		mt = message.SocketWarning
	} else {
		r.log.Printf("puzzle runner error: %v", err)
	}
	m := message.Message{
		Type:       mt,
		Info:       err.Error(),
		PlayerName: pn,
	}
	message.Send(ctx, m, out, r.Debug, r.log)
}
