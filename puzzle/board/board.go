// Package board stores the arrangement of a puzzle's tiles and handles moving them.
package board

import (
	"errors"
	"fmt"

	"github.com/jacobpatterson1549/picture-puzzle/puzzle/tile"
)

type (
	// Board is the arrangement of tiles of a picture puzzle.  The index of a tile in the arrangement is its slot.
	// A board is not safe for concurrent use.
	Board struct {
		dimension int
		tiles     []tile.Tile
		// completed is set when a swap solves the board.  No tiles can be moved after that until the board is shuffled.
		completed      bool
		solvedHandlers []func()
	}
)

const (
	minDimension = 2
	// maxDimension limits the number of tiles a board can have.
	maxDimension = 256
)

var (
	// ErrInvalidDimension is returned when a board is too small.
	ErrInvalidDimension = errors.New("invalid dimension")
	// ErrInvalidSlot is returned when an index is not on the board.
	ErrInvalidSlot = errors.New("invalid slot")
	// ErrInvariantViolation is returned when the tiles are not a single permutation with one empty tile.
	ErrInvariantViolation = errors.New("invariant violation")
	// ErrCompleted is returned when tiles are swapped after the board was solved.
	ErrCompleted = errors.New("board completed")
)

// New creates a solved board with dimension*dimension tiles.
func New(dimension int) (*Board, error) {
	if dimension < minDimension || dimension > maxDimension {
		return nil, fmt.Errorf("creating board: %w: must be between %v and %v: %v", ErrInvalidDimension, minDimension, maxDimension, dimension)
	}
	n := dimension * dimension
	tiles := make([]tile.Tile, n)
	for i := range tiles {
		t, err := tile.New(tile.Index(i), dimension)
		if err != nil {
			return nil, fmt.Errorf("creating board: %w", err)
		}
		tiles[i] = *t
	}
	b := Board{
		dimension: dimension,
		tiles:     tiles,
	}
	return &b, nil
}

// Dimension is the number of rows and columns of the board.
func (b Board) Dimension() int {
	return b.dimension
}

// Tiles returns a copy of the tiles in slot order.
func (b Board) Tiles() []tile.Tile {
	tiles := make([]tile.Tile, len(b.tiles))
	copy(tiles, b.tiles)
	return tiles
}

// Clone creates a copy of the board's arrangement.  Solved handlers are not copied.
func (b Board) Clone() *Board {
	b2 := Board{
		dimension: b.dimension,
		tiles:     b.Tiles(),
		completed: b.completed,
	}
	return &b2
}

// OnSolved registers a function to call when a swap solves the board.
// The functions are called once per shuffle.
func (b *Board) OnSolved(f func()) {
	b.solvedHandlers = append(b.solvedHandlers, f)
}

// Shuffle randomly rearranges all of the tiles, including the empty one.
// The intN function should return a uniformly random number in [0,n).
// The solved handlers are not called, even if the shuffle happens to leave the board solved.
func (b *Board) Shuffle(intN func(n int) int) {
	for i := len(b.tiles) - 1; i > 0; i-- {
		j := intN(i + 1)
		b.swap(tile.Index(i), tile.Index(j))
	}
	b.completed = false
}

// PositionOf finds the slot of the tile with the home index.
func (b Board) PositionOf(homeIndex tile.Index) (tile.Index, error) {
	if !b.hasSlot(homeIndex) {
		return 0, fmt.Errorf("%w: no tile with home index %v", ErrInvalidSlot, homeIndex)
	}
	for i, t := range b.tiles {
		if t.HomeIndex == homeIndex {
			return tile.Index(i), nil
		}
	}
	return 0, fmt.Errorf("%w: tile with home index %v not found", ErrInvariantViolation, homeIndex)
}

// EmptySlot finds the slot of the empty tile.
func (b Board) EmptySlot() tile.Index {
	for i, t := range b.tiles {
		if t.Empty {
			return tile.Index(i)
		}
	}
	panic(fmt.Errorf("%w: board has no empty tile", ErrInvariantViolation))
}

// Swap exchanges the tiles in the slots without checking if the move is legal.
// The solved handlers are called if the swap solves the board.
func (b *Board) Swap(slotA, slotB tile.Index) error {
	switch {
	case !b.hasSlot(slotA):
		return fmt.Errorf("%w: %v", ErrInvalidSlot, slotA)
	case !b.hasSlot(slotB):
		return fmt.Errorf("%w: %v", ErrInvalidSlot, slotB)
	case b.completed:
		return ErrCompleted
	}
	b.swap(slotA, slotB)
	if b.IsSolved() {
		b.completed = true
		for _, f := range b.solvedHandlers {
			f()
		}
	}
	return nil
}

// IsAdjacent determines if the slots are next to each other in the same row or column.
// Slots that are not on the board are not adjacent to anything.
func (b Board) IsAdjacent(slotA, slotB tile.Index) bool {
	if !b.hasSlot(slotA) || !b.hasSlot(slotB) {
		return false
	}
	x1, y1 := tile.Coordinates(slotA, b.dimension)
	x2, y2 := tile.Coordinates(slotB, b.dimension)
	return (x1 == x2 || y1 == y2) && (abs(int(x1-x2)) == 1 || abs(int(y1-y2)) == 1)
}

// Move swaps the tiles in the slots if one of them is empty and they are adjacent.
// Returns true if the tiles were swapped.
// The error is only returned for slots that are not on the board.
func (b *Board) Move(slotA, slotB tile.Index) (bool, error) {
	switch {
	case !b.hasSlot(slotA):
		return false, fmt.Errorf("%w: %v", ErrInvalidSlot, slotA)
	case !b.hasSlot(slotB):
		return false, fmt.Errorf("%w: %v", ErrInvalidSlot, slotB)
	case b.completed,
		!b.tiles[slotA].Empty && !b.tiles[slotB].Empty,
		!b.IsAdjacent(slotA, slotB):
		return false, nil
	}
	if err := b.Swap(slotA, slotB); err != nil {
		return false, err
	}
	return true, nil
}

// MoveTile slides the tile with the home index into the empty slot if it is next to it.
// Returns true if the tile was moved.
func (b *Board) MoveTile(homeIndex tile.Index) (bool, error) {
	slot, err := b.PositionOf(homeIndex)
	if err != nil {
		return false, err
	}
	return b.Move(slot, b.EmptySlot())
}

// IsSolved determines if every tile is in its home slot.
func (b Board) IsSolved() bool {
	for i, t := range b.tiles {
		if t.HomeIndex != tile.Index(i) {
			return false
		}
	}
	return true
}

// Solvable determines if the board can be solved by only moving tiles into the empty slot.
// Each such move is a transposition that moves the empty tile one step,
// so the parity of the arrangement must equal the parity of the empty tile's distance from its home slot.
func (b Board) Solvable() bool {
	emptySlot := b.EmptySlot()
	x, y := tile.Coordinates(emptySlot, b.dimension)
	homeX, homeY := tile.Coordinates(tile.Index(len(b.tiles)-1), b.dimension)
	distance := abs(int(homeX-x)) + abs(int(homeY-y))
	return b.permutationParity() == distance%2
}

// permutationParity is 0 if the arrangement is an even permutation of the home indexes, 1 if it is odd.
func (b Board) permutationParity() int {
	seen := make([]bool, len(b.tiles))
	cycles := 0
	for i := range b.tiles {
		if seen[i] {
			continue
		}
		cycles++
		for j := i; !seen[j]; j = int(b.tiles[j].HomeIndex) {
			seen[j] = true
		}
	}
	return (len(b.tiles) - cycles) % 2
}

// swap exchanges the tiles.  The slots must be valid.
func (b *Board) swap(slotA, slotB tile.Index) {
	b.tiles[slotA], b.tiles[slotB] = b.tiles[slotB], b.tiles[slotA]
}

// hasSlot determines if the index is on the board.
func (b Board) hasSlot(i tile.Index) bool {
	return 0 <= i && int(i) < len(b.tiles)
}

func abs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
