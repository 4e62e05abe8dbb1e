package puzzle

// Status is the state of the puzzle.
type Status int

const (
	_ Status = iota
	// NotStarted is the status of a puzzle that has been created but the player has not joined it yet.
	NotStarted
	// InProgress is the status of a puzzle that has been shuffled and is being solved.
	InProgress
	// Solved is the status of a puzzle that the player has put back together.  Tiles cannot be moved until the puzzle is shuffled again.
	Solved
	// Deleted is the status of a puzzle that has been removed.
	Deleted
)

// String returns the display value for the status.
func (s Status) String() string {
	switch s {
	case NotStarted:
		return "Not Started"
	case InProgress:
		return "In Progress"
	case Solved:
		return "Solved"
	}
	return "?"
}
