// Package message contains structures to pass between the ui and server.
package message

import (
	"github.com/jacobpatterson1549/picture-puzzle/puzzle"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/player"
	"github.com/jacobpatterson1549/picture-puzzle/puzzle/tile"
)

type (
	// Type represents what the purpose of a message.
	Type int

	// Message contains information to or from a socket for a puzzle/lobby.
	Message struct {
		// Type is the purpose of the message.
		Type Type `json:"type"`
		// Info is a message to show to the player.
		Info string `json:"info,omitempty"`
		// Puzzle is the info for the current puzzle the player is solving.
		Puzzle *puzzle.Info `json:"puzzle,omitempty"`
		// Puzzles contains the information about the player's puzzles.
		Puzzles []puzzle.Info `json:"puzzles,omitempty"`
		// Move is the tile the player wants to move.
		Move *Move `json:"move,omitempty"`
		// PlayerName is the name of the player the message is to/from.
		PlayerName player.Name `json:"-"`
		// Addr is the socket remote address text the message is from.
		Addr Addr `json:"-"`
	}

	// Move identifies tiles to move.  Either the tile or the two slots to swap are specified.
	Move struct {
		// Tile is the home index of the tile to slide into the empty slot.
		Tile *tile.Index `json:"tile,omitempty"`
		// Slots are the two slots to swap, one of which should hold the empty tile.
		Slots []tile.Index `json:"slots,omitempty"`
	}

	// Addr identifies the source of a message.
	Addr string
)

const (
	_ Type = iota
	// CreatePuzzle is a MessageType that users send to cut a new picture into tiles.
	CreatePuzzle
	// JoinPuzzle is a MessageType that users send to open a puzzle or the server sends to have the user load a puzzle.
	JoinPuzzle
	// LeavePuzzle is a MessageType that the server sends to indicate that a user can no longer be in the current puzzle.
	LeavePuzzle
	// DeletePuzzle is a MessageType that users send to remove a puzzle from the server.
	DeletePuzzle
	// ShufflePuzzle is a MessageType that users send to randomly rearrange the tiles of the puzzle.
	ShufflePuzzle
	// MovePuzzleTile is a MessageType that users send to slide a tile into the empty slot.
	MovePuzzleTile
	// RefreshPuzzle is a MessageType that users send to get the current state of the puzzle.
	RefreshPuzzle
	// PuzzleSolved is a MessageType the server sends when the player puts the picture back together.
	PuzzleSolved
	// PuzzleInfos is a MessageType that users send to list their puzzles.  The server replies with the same type.
	PuzzleInfos
	// SocketWarning is a MessageType that servers send to inform users that a request is invalid.
	SocketWarning
	// SocketError is a MessageType that servers send to users to report an unexpected state.
	SocketError
	// SocketHTTPPing is a MessageType the server sends to the user to request a http request to the site to keep it active.  Some environments shut down after a period of HTTP inactivity has passed.
	SocketHTTPPing
	// PlayerRemove is a MessageType that gets sent from the lobby to inform that the socket of the player should be closed.
	PlayerRemove // keep last for tests
)

