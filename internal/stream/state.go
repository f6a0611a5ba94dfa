package stream

// State is the lifecycle state of a Loop.
type State int32

const (
	// Idle is the initial state, and the state after a refused device.
	Idle State = iota
	// AwaitingPermission is held while the source is being opened.
	AwaitingPermission
	// Streaming means ticks are running.
	Streaming
	// Stopped is terminal.
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case AwaitingPermission:
		return "awaiting_permission"
	case Streaming:
		return "streaming"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}
