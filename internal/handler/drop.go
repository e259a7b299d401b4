package handler

import (
	"go.uber.org/zap"

	"github.com/skybase/server/internal/core/event"
	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
)

// Drop request flags.
const (
	dropFlagNamedSlot = 0x01 // slot field names the source slot
)

// HandleDropItem processes C_DROP. Inventory removal is enforced
// strictly before the entity spawns, so a failed removal can never
// duplicate items — and removal is never skippable from the wire.
// Server flows that already hold the contents (block breaks, death
// scatter) go through SpawnItem directly and never carry this opcode;
// a client claiming its contents were staged elsewhere gets no
// exemption. Undefined flag bits are ignored.
//
// Wire body: kind (D), count (D), flags (C), slot (H).
func HandleDropItem(sess *net.Session, r *packet.Reader, deps *Deps) {
	kind := r.ReadD()
	count := r.ReadD()
	flags := r.ReadC()
	slot := int(r.ReadH())

	ws := deps.World
	if count <= 0 || count > ws.Tuning.MaxStack {
		return
	}
	def := deps.Items.Get(kind)
	if def == nil || !def.Droppable {
		return
	}
	player := ws.GetBySession(sess.ID)
	if player == nil {
		return
	}
	anchor, ok := deps.Anchors.GetAnchorPosition(sess.ID)
	if !ok {
		return
	}

	removed := false
	if flags&dropFlagNamedSlot != 0 {
		removed = deps.Inventory.RemoveItemFromSlot(sess.ID, slot, kind, count)
	} else {
		removed = deps.Inventory.RemoveItem(sess.ID, kind, count)
	}
	if !removed {
		return
	}

	// Project the stack in front of the dropper's facing.
	dir := headingVec(player.Heading)
	pos := anchor.Add(dir.Scale(ws.Tuning.DropDistance))
	vel := dir.Scale(0.25)
	vel.Y = 0.2

	res, ok := SpawnItem(deps, kind, count, pos, &vel, false)
	if !ok {
		// Unreachable after the count/kind validation above; if it ever
		// trips, the removal has happened and must be surfaced loudly.
		deps.Log.Error("drop spawn refused after inventory removal",
			zap.Uint64("session_id", sess.ID),
			zap.Int32("kind", kind),
			zap.Int32("count", count))
		return
	}

	droppedID := int32(0)
	if res.Item != nil {
		droppedID = res.Item.ID
	} else {
		droppedID = res.Merge.Target.ID
	}
	event.Emit(deps.Bus, event.ItemDropped{
		SessionID: sess.ID,
		ItemID:    droppedID,
		Kind:      kind,
		Count:     count,
	})

	deps.Log.Debug("item dropped",
		zap.Uint64("session_id", sess.ID),
		zap.Int32("kind", kind),
		zap.Int32("count", count),
		zap.Bool("merged", res.Merge != nil))
}
