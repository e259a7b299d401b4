package event

import "reflect"

// Bus is a double-buffered event queue. Events emitted during tick N are
// dispatched at the start of tick N+1 (EventDispatchSystem, PreUpdate).
// Accessed only from the game-loop goroutine — no locks.
type Bus struct {
	current  []any
	pending  []any
	handlers map[reflect.Type][]func(any)
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[reflect.Type][]func(any))}
}

// SwapBuffers moves pending events into the current dispatch buffer.
func (b *Bus) SwapBuffers() {
	b.current, b.pending = b.pending, b.current[:0]
}

// DispatchAll invokes subscribers for every event in the current buffer.
// Events emitted by a handler land in the pending buffer for next tick.
func (b *Bus) DispatchAll() {
	for _, ev := range b.current {
		for _, fn := range b.handlers[reflect.TypeOf(ev)] {
			fn(ev)
		}
	}
	b.current = b.current[:0]
}

// Subscribe registers fn for events of concrete type T.
func Subscribe[T any](b *Bus, fn func(T)) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	b.handlers[t] = append(b.handlers[t], func(ev any) { fn(ev.(T)) })
}

// Emit queues ev for dispatch on the next tick.
func Emit[T any](b *Bus, ev T) {
	b.pending = append(b.pending, ev)
}
