package handler

import (
	"github.com/skybase/server/internal/core/event"
	"github.com/skybase/server/internal/world"
)

// SpawnItem is the entry point for every server-side item spawn: block
// breaks, death scatter, and the drop admission path. It validates the
// kind against the catalog, runs the spawn/merge engine, broadcasts the
// outcome, and emits the lifecycle event. grid converts block-grid
// coordinates to the cell center; a nil vel gets the randomized
// upward-biased default.
func SpawnItem(deps *Deps, kind, count int32, pos world.Vec3, vel *world.Vec3, grid bool) (world.SpawnResult, bool) {
	if deps.Items.Get(kind) == nil {
		return world.SpawnResult{}, false
	}
	res, ok := deps.World.SpawnItem(kind, count, pos, vel, grid)
	if !ok {
		return world.SpawnResult{}, false
	}

	BroadcastSpawnResult(deps, res)

	if res.Item != nil {
		it := res.Item
		event.Emit(deps.Bus, event.ItemSpawned{
			ItemID: it.ID,
			Kind:   it.Kind,
			Count:  it.Count,
			X:      it.Pos.X, Y: it.Pos.Y, Z: it.Pos.Z,
		})
	} else {
		m := res.Merge
		event.Emit(deps.Bus, event.ItemsMerged{
			TargetID: m.Target.ID,
			Kind:     m.Kind,
			NewCount: m.Target.Count,
		})
	}
	return res, true
}
