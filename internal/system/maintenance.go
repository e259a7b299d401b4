package system

import (
	"time"

	"github.com/skybase/server/internal/core/event"
	coresys "github.com/skybase/server/internal/core/system"
	"github.com/skybase/server/internal/handler"
)

// ItemMaintenanceSystem runs the periodic merge and despawn sweeps over
// the ground-item registry and broadcasts the results. Phase 3
// (PostUpdate). Both sweeps share one cadence (≈1s of ticks).
type ItemMaintenanceSystem struct {
	deps      *handler.Deps
	tickCount int
	interval  int // sweep every N ticks
}

func NewItemMaintenanceSystem(deps *handler.Deps, intervalTicks int) *ItemMaintenanceSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	return &ItemMaintenanceSystem{deps: deps, interval: intervalTicks}
}

func (s *ItemMaintenanceSystem) Phase() coresys.Phase { return coresys.PhasePostUpdate }

func (s *ItemMaintenanceSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0

	ws := s.deps.World

	for _, m := range ws.MergeSweep() {
		handler.BroadcastRemoveObject(s.deps, m.AbsorbedID)
		handler.BroadcastItemCount(s.deps, m.Target.ID, m.Target.Count)
		event.Emit(s.deps.Bus, event.ItemsMerged{
			TargetID:   m.Target.ID,
			AbsorbedID: m.AbsorbedID,
			Kind:       m.Target.Kind,
			NewCount:   m.Target.Count,
		})
	}

	for _, it := range ws.DespawnSweep() {
		handler.BroadcastRemoveObject(s.deps, it.ID)
		event.Emit(s.deps.Bus, event.ItemDespawned{
			ItemID: it.ID,
			Kind:   it.Kind,
			Count:  it.Count,
		})
	}
}
