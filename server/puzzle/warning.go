package puzzle

// puzzleWarning is an error that is caused by a player trying to do something that is not allowed.
// It is sent back to the player, but not logged.
type puzzleWarning string

// Error implements the error interface.
func (pw puzzleWarning) Error() string {
	return string(pw)
}
