package session

// Classification describes the input buffer relative to the current target word.
type Classification int

const (
	// Empty means the buffer holds only whitespace.
	Empty Classification = iota
	// Correct means the buffer equals the target word.
	Correct
	// InProgress means the buffer is a proper prefix of the target word.
	InProgress
	// Incorrect means the buffer diverges from the target word.
	Incorrect
	// SessionCompleted means there is no target word left.
	SessionCompleted
)

func (c Classification) String() string {
	switch c {
	case Empty:
		return "empty"
	case Correct:
		return "correct"
	case InProgress:
		return "in_progress"
	case Incorrect:
		return "incorrect"
	case SessionCompleted:
		return "session_completed"
	default:
		return "unknown"
	}
}
