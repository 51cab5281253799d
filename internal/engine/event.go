package engine

// Event is a Unity-style multi-cast event system.
// Allows multiple listeners to subscribe to a single event.
type Event struct {
	listeners []func()
}

// AddListener adds a callback to be invoked when the event fires
func (e *Event) AddListener(callback func()) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

// RemoveAllListeners clears all listeners
func (e *Event) RemoveAllListeners() {
	e.listeners = nil
}

// Invoke calls all registered listeners
func (e *Event) Invoke() {
	for _, listener := range e.listeners {
		listener()
	}
}

// GetListenerCount returns the number of registered listeners (for debugging)
func (e *Event) GetListenerCount() int {
	return len(e.listeners)
}

// EventWithArg is a generic event with one argument
type EventWithArg[T any] struct {
	listeners []func(T)
}

func (e *EventWithArg[T]) AddListener(callback func(T)) {
	if callback == nil {
		return
	}
	e.listeners = append(e.listeners, callback)
}

func (e *EventWithArg[T]) RemoveAllListeners() {
	e.listeners = nil
}

func (e *EventWithArg[T]) Invoke(arg T) {
	for _, listener := range e.listeners {
		listener(arg)
	}
}

// IsBound reports whether anyone is listening
func (e *EventWithArg[T]) IsBound() bool {
	return len(e.listeners) > 0
}

func (e *EventWithArg[T]) GetListenerCount() int {
	return len(e.listeners)
}

// BeginOverlapEvent is broadcast when a tracer starts overlapping something.
// Self is the component whose listeners receive the event.
type BeginOverlapEvent struct {
	Self           Component
	Other          *GameObject
	OtherComponent Component
	OtherItem      int
	FromSweep      bool
	Hit            HitResult
}

// EndOverlapEvent is broadcast when an overlap ends
type EndOverlapEvent struct {
	Self           Component
	Other          *GameObject
	OtherComponent Component
	OtherItem      int
}

// OverlapEvents is embedded by components that can be the target of a trace
// and want to hear about it.
type OverlapEvents struct {
	GenerateOverlapEvents bool
	OnBeginOverlap        EventWithArg[BeginOverlapEvent]
	OnEndOverlap          EventWithArg[EndOverlapEvent]
}

// Overlaps exposes the embedded events through OverlapNotifier
func (o *OverlapEvents) Overlaps() *OverlapEvents {
	return o
}

// OverlapNotifier is implemented by anything embedding OverlapEvents
type OverlapNotifier interface {
	Overlaps() *OverlapEvents
}
