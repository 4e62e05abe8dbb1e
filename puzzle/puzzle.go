// Package puzzle contains communication structures for the puzzle controller, lobby, and socket to use.
package puzzle

import (
	"fmt"

	"github.com/jacobpatterson1549/picture-puzzle/puzzle/board"
)

type (
	// ID is the id of a puzzle.
	ID int

	// Config is the options a player picks when creating a puzzle.
	Config struct {
		// Dimension is the number of rows and columns the picture is cut into.
		Dimension int `json:"dimension,omitempty"`
	}
)

const (
	// MinDimension is the smallest number of rows and columns a puzzle can have.
	MinDimension = 2
	// MaxDimension is the largest number of rows and columns a puzzle can have.
	MaxDimension = 10
)

// Validate returns an error if the puzzle cannot be created with the config.
func (cfg Config) Validate() error {
	if cfg.Dimension < MinDimension || cfg.Dimension > MaxDimension {
		return fmt.Errorf("%w: must be between %v and %v: %v", board.ErrInvalidDimension, MinDimension, MaxDimension, cfg.Dimension)
	}
	return nil
}

// Rules describes how to play.
func (cfg Config) Rules() []string {
	rules := []string{
		"Create a puzzle from the Lobby.  The picture is cut into a grid of tiles and shuffled.",
		"The bottom-right tile of the picture is left out, leaving one empty slot.",
		"Click a tile next to the empty slot (above, below, left, or right) to slide it into the empty slot.",
		"The puzzle is solved when every tile is back in its place.  The missing tile is then shown.",
		"Solving a puzzle adds points to your account.",
		"Some shuffles cannot be solved by sliding tiles.  The puzzle tells you if it is solvable; shuffle again to get a new arrangement.",
	}
	if cfg.Dimension != 0 {
		n := cfg.Dimension * cfg.Dimension
		rules = append(rules, fmt.Sprintf("The picture is cut into %d rows and %d columns, making %d tiles.", cfg.Dimension, cfg.Dimension, n-1))
	}
	return rules
}
