package board

import (
	"encoding/json"
	"fmt"

	"github.com/jacobpatterson1549/picture-puzzle/puzzle/tile"
)

// jsonBoard is used for serialization with the json/encoding package
type jsonBoard struct {
	Dimension int          `json:"dimension"`
	Tiles     []tile.Index `json:"tiles"`
}

// MarshalJSON implements the encoding/json.Marshaler interface.
// Returns an object with the dimension and the home indexes of the tiles in slot order.
func (b Board) MarshalJSON() ([]byte, error) {
	homeIndexes := make([]tile.Index, len(b.tiles))
	for i, t := range b.tiles {
		homeIndexes[i] = t.HomeIndex
	}
	jb := jsonBoard{
		Dimension: b.dimension,
		Tiles:     homeIndexes,
	}
	return json.Marshal(jb)
}

// UnmarshalJSON implements the encoding/json.Unmarshaler interface.
// The home indexes must be a permutation of the board's slots.
func (b *Board) UnmarshalJSON(d []byte) error {
	var jb jsonBoard
	if err := json.Unmarshal(d, &jb); err != nil {
		return err
	}
	b2, err := jb.Board()
	if err != nil {
		return err
	}
	*b = *b2
	return nil
}

// Board creates a new Board from the jsonBoard.
// The tile count is checked before the board is allocated.
func (jb jsonBoard) Board() (*Board, error) {
	if jb.Dimension < minDimension || jb.Dimension > maxDimension {
		return nil, fmt.Errorf("%w: must be between %v and %v: %v", ErrInvalidDimension, minDimension, maxDimension, jb.Dimension)
	}
	if n := jb.Dimension * jb.Dimension; len(jb.Tiles) != n {
		return nil, fmt.Errorf("%w: wanted %v tiles, got %v", ErrInvariantViolation, n, len(jb.Tiles))
	}
	b, err := New(jb.Dimension)
	if err != nil {
		return nil, err
	}
	seen := make(map[tile.Index]struct{}, len(jb.Tiles))
	for i, homeIndex := range jb.Tiles {
		t, err := tile.New(homeIndex, jb.Dimension)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvariantViolation, err)
		}
		if _, ok := seen[homeIndex]; ok {
			return nil, fmt.Errorf("%w: duplicate home index %v", ErrInvariantViolation, homeIndex)
		}
		seen[homeIndex] = struct{}{}
		b.tiles[i] = *t
	}
	return b, nil
}
