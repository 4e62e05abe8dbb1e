// Package tile contains the pieces of a picture puzzle.
package tile

import (
	"fmt"
	"strconv"
)

type (
	// Tile is one cell of the picture.
	// The HomeIndex is both the part of the image the tile shows and the slot the tile is in when the puzzle is solved.
	Tile struct {
		HomeIndex Index `json:"home"`
		Empty     bool  `json:"empty,omitempty"`
	}

	// Index is a position in the grid, read left to right, top to bottom.
	Index int
	// X is the column of an index.
	X int
	// Y is the row of an index.
	Y int
)

// New creates the tile for the home index on a grid with the dimension.
// The tile with the last home index is the empty tile.
func New(homeIndex Index, dimension int) (*Tile, error) {
	n := Index(dimension * dimension)
	if homeIndex < 0 || homeIndex >= n {
		return nil, fmt.Errorf("home index must be between 0 and %v: %v", n-1, homeIndex)
	}
	t := Tile{
		HomeIndex: homeIndex,
		Empty:     homeIndex == n-1,
	}
	return &t, nil
}

// Coordinates splits the index into the column and row on a grid with the dimension.
func Coordinates(i Index, dimension int) (X, Y) {
	x := int(i) % dimension
	y := int(i) / dimension
	return X(x), Y(y)
}

// Home is the column and row of the part of the image the tile shows.
func (t Tile) Home(dimension int) (X, Y) {
	return Coordinates(t.HomeIndex, dimension)
}

// Label is the number drawn on the tile, counting from one.  The empty tile has no label.
func (t Tile) Label() string {
	if t.Empty {
		return ""
	}
	return strconv.Itoa(int(t.HomeIndex) + 1)
}
