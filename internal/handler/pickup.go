package handler

import (
	"go.uber.org/zap"

	"github.com/skybase/server/internal/core/event"
	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
	"github.com/skybase/server/internal/world"
)

// HandlePickupItem processes C_PICKUP. The admission checks run as a
// state machine with the item's Locked flag as the sole exclusivity
// mechanism: the lock is acquired before any collaborator call, and
// every later failure branch releases it. All rejections are silent to
// the claimant.
//
// Wire body: item id (D), has-reported-position (C), position (3×F).
func HandlePickupItem(sess *net.Session, r *packet.Reader, deps *Deps) {
	itemID := r.ReadD()
	hasPos := r.ReadC() == 1
	var reported world.Vec3
	if hasPos {
		reported = world.Vec3{X: r.ReadF(), Y: r.ReadF(), Z: r.ReadF()}
	}

	ws := deps.World
	now := ws.Clock()

	if ws.OnPickupCooldown(sess.ID, itemID, now) {
		reject(deps, sess.ID, itemID, "cooldown")
		return
	}

	// 1. Entity must exist. An unknown id is not an error: the item was
	// already granted to someone else or despawned.
	it := ws.Items.Get(itemID)
	if it == nil {
		reject(deps, sess.ID, itemID, "absent")
		return
	}

	// Attempts count against the cooldown whether or not they succeed.
	ws.StampPickupCooldown(sess.ID, itemID, now)

	// 2. Another pickup is in flight.
	if it.Locked {
		reject(deps, sess.ID, itemID, "locked")
		return
	}

	// 3. Post-spawn grace delay.
	if now.Before(it.PickupAt) {
		reject(deps, sess.ID, itemID, "grace")
		return
	}

	// 4. Acquire the lock before any call that may yield. From here on,
	// every failure path must roll the lock back.
	it.Locked = true

	// 5. Claimant location.
	anchor, ok := deps.Anchors.GetAnchorPosition(sess.ID)
	if !ok {
		it.Locked = false
		reject(deps, sess.ID, itemID, "no_anchor")
		return
	}

	// 6. Accept the client-simulated resting position when it is sane.
	if hasPos && reported.Dist(it.Pos) <= ws.Tuning.PositionTolerance {
		it.Pos = reported
	}

	// 7. Range check against the possibly updated position.
	if anchor.Dist(it.Pos) > ws.Tuning.PickupRadius {
		it.Locked = false
		reject(deps, sess.ID, itemID, "too_far")
		return
	}

	// 8. Commit: inventory first, then delete. A full inventory rolls
	// back and the item stays pickable.
	if !deps.Inventory.AddItem(sess.ID, it.Kind, it.Count) {
		it.Locked = false
		reject(deps, sess.ID, itemID, "inventory_full")
		return
	}

	ws.Items.Remove(it.ID)
	ws.ClearItemCooldowns(it.ID)

	sendPickupAck(sess, it.ID, it.Kind, it.Count)
	BroadcastRemoveObject(deps, it.ID)
	event.Emit(deps.Bus, event.ItemPickedUp{
		SessionID: sess.ID,
		ItemID:    it.ID,
		Kind:      it.Kind,
		Count:     it.Count,
	})

	deps.Log.Debug("pickup granted",
		zap.Uint64("session_id", sess.ID),
		zap.Int32("item_id", it.ID),
		zap.Int32("kind", it.Kind),
		zap.Int32("count", it.Count))
}

func reject(deps *Deps, sessionID uint64, itemID int32, reason string) {
	event.Emit(deps.Bus, event.PickupRejected{
		SessionID: sessionID,
		ItemID:    itemID,
		Reason:    reason,
	})
	deps.Log.Debug("pickup rejected",
		zap.Uint64("session_id", sessionID),
		zap.Int32("item_id", itemID),
		zap.String("reason", reason))
}
