// Package player contains the identity of the people solving puzzles.
package player

// Name uniquely identifies a player.
type Name string
