package system

import "time"

// Phase orders system execution within a tick. Lower phases run first.
type Phase int

const (
	// PhaseInput (0): drain session in-queues and dispatch packet handlers.
	PhaseInput Phase = iota
	// PhasePreUpdate (1): event bus swap/dispatch.
	PhasePreUpdate
	// PhaseUpdate (2): deferred game-logic queues.
	PhaseUpdate
	// PhasePostUpdate (3): periodic world maintenance (merge/despawn sweeps).
	PhasePostUpdate
	// PhaseOutput (4): flush buffered session output.
	PhaseOutput
	// PhasePersist (5): batched persistence (WAL flush).
	PhasePersist
)

// System is one unit of per-tick work. Update runs on the game-loop
// goroutine; dt is the wall time elapsed since the previous tick.
type System interface {
	Phase() Phase
	Update(dt time.Duration)
}

// Manager holds all registered systems in phase order.
type Manager struct {
	systems []System
}

func NewManager() *Manager {
	return &Manager{}
}

// Register adds a system, keeping the slice sorted by phase.
// Registration order is preserved within a phase.
func (m *Manager) Register(s System) {
	i := len(m.systems)
	for i > 0 && m.systems[i-1].Phase() > s.Phase() {
		i--
	}
	m.systems = append(m.systems, nil)
	copy(m.systems[i+1:], m.systems[i:])
	m.systems[i] = s
}

// Tick runs every system once, in phase order.
func (m *Manager) Tick(dt time.Duration) {
	for _, s := range m.systems {
		s.Update(dt)
	}
}
