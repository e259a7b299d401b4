package system

import (
	"time"

	"github.com/skybase/server/internal/core/event"
	coresys "github.com/skybase/server/internal/core/system"
)

// EventDispatchSystem flips the bus double-buffer and delivers pending
// item-economy events to their subscribers — the WAL audit batcher and
// the obs bridge. Phase 1 (PreUpdate): pickup and drop emissions from
// Input are delivered after the whole input phase has been applied, so
// subscribers only ever see a settled registry; emissions from later
// phases (maintenance sweeps) and from subscribers themselves carry
// over to the next tick.
type EventDispatchSystem struct {
	bus *event.Bus
}

func NewEventDispatchSystem(bus *event.Bus) *EventDispatchSystem {
	return &EventDispatchSystem{bus: bus}
}

func (s *EventDispatchSystem) Phase() coresys.Phase { return coresys.PhasePreUpdate }

func (s *EventDispatchSystem) Update(_ time.Duration) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
}
