package packet

// Stateful is implemented by net.Session; the registry only needs the
// session's protocol state to gate dispatch.
type Stateful interface {
	State() SessionState
}

// HandlerFunc processes one decoded packet. sess is always a
// *net.Session; typed as any to keep this package free of a net import.
type HandlerFunc func(sess any, r *Reader)

type entry struct {
	states map[SessionState]struct{}
	fn     HandlerFunc
}

// Registry maps opcodes to handlers with the session states they are
// legal in. Populated once at boot, read-only afterwards.
type Registry struct {
	entries map[byte]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[byte]entry)}
}

// Register binds fn to opcode for the given session states.
func (reg *Registry) Register(opcode byte, states []SessionState, fn HandlerFunc) {
	set := make(map[SessionState]struct{}, len(states))
	for _, s := range states {
		set[s] = struct{}{}
	}
	reg.entries[opcode] = entry{states: set, fn: fn}
}

// DispatchResult reports why a packet was or was not handled.
type DispatchResult int

const (
	Dispatched DispatchResult = iota
	UnknownOpcode
	WrongState
)

// Dispatch decodes the opcode byte and invokes the registered handler
// if the session's state permits it. Empty payloads are ignored.
func (reg *Registry) Dispatch(sess Stateful, payload []byte) DispatchResult {
	if len(payload) == 0 {
		return UnknownOpcode
	}
	e, ok := reg.entries[payload[0]]
	if !ok {
		return UnknownOpcode
	}
	if _, allowed := e.states[sess.State()]; !allowed {
		return WrongState
	}
	e.fn(sess, NewReader(payload[1:]))
	return Dispatched
}
