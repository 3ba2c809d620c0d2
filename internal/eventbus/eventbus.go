package eventbus

// Event is any value published on the untyped bus.
type Event = any

// EventBus is the untyped publish/subscribe contract used by the engine so
// that several event kinds can share one bus.
type EventBus interface {
	Publish(Event)
	Subscribe() <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// Bus is the default EventBus implementation.
type Bus = TypedBus[Event]

// New creates a new Bus.
func New() *Bus { return NewTyped[Event]() }

var _ EventBus = (*Bus)(nil)
