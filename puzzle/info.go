package puzzle

import "github.com/jacobpatterson1549/picture-puzzle/puzzle/board"

// Info contains information about a puzzle.
type Info struct {
	// ID is unique among the other puzzles that currently exist.
	ID ID `json:"id,omitempty"`
	// Status is the state of the puzzle.
	Status Status `json:"status,omitempty"`
	// Board is the arrangement of the tiles.
	Board *board.Board `json:"board,omitempty"`
	// Solvable is true when the board can be solved by sliding tiles into the empty slot.
	Solvable bool `json:"solvable,omitempty"`
	// Player is the name of the player solving the puzzle.
	Player string `json:"player,omitempty"`
	// CreatedAt is the puzzle's creation time in seconds since the unix epoch.
	CreatedAt int64 `json:"createdAt,omitempty"`
	// Config is the options used to create the puzzle.
	Config *Config `json:"config,omitempty"`
}

// CanMove indicates whether or not the tiles of the puzzle can be moved.
func (i Info) CanMove() bool {
	return i.Status == InProgress
}
