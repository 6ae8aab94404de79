package syncer

import "fmt"

// EventKind identifies an engine lifecycle signal.
type EventKind int

const (
	EventReady EventKind = iota
	EventInfo
	EventError
	EventSynced
)

func (k EventKind) String() string {
	switch k {
	case EventReady:
		return "ready"
	case EventInfo:
		return "info"
	case EventError:
		return "error"
	case EventSynced:
		return "synced"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is a lifecycle signal emitted by the engine.
type Event struct {
	Kind    EventKind
	Height  uint64
	Message string
	Err     error
}
