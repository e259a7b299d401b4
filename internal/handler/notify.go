package handler

import (
	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
	"github.com/skybase/server/internal/world"
)

// The broadcast gateway: three notification kinds go to all in-world
// observers (item spawned / count changed / item removed); the pickup
// ack goes to the claimant only.

// notifyAll sends pkt to every in-world session.
func notifyAll(deps *Deps, pkt []byte) {
	deps.Sessions.ForEach(func(s *net.Session) {
		if s.State() == packet.StateInWorld {
			s.Send(pkt)
		}
	})
}

// itemSpawnPacket encodes full item state. mergeTarget is 0 for a real
// entity; a non-zero value marks a transient ghost that clients animate
// toward the target and discard.
func itemSpawnPacket(id, kind, count int32, pos, vel world.Vec3, mergeTarget int32) []byte {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_ITEM_SPAWN)
	w.WriteD(id)
	w.WriteD(kind)
	w.WriteD(count)
	w.WriteF(pos.X)
	w.WriteF(pos.Y)
	w.WriteF(pos.Z)
	w.WriteF(vel.X)
	w.WriteF(vel.Y)
	w.WriteF(vel.Z)
	w.WriteD(mergeTarget)
	return w.Bytes()
}

func itemCountPacket(id, count int32) []byte {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_ITEM_COUNT)
	w.WriteD(id)
	w.WriteD(count)
	return w.Bytes()
}

func removeObjectPacket(id int32) []byte {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_REMOVE_OBJECT)
	w.WriteD(id)
	return w.Bytes()
}

// BroadcastSpawnResult announces the outcome of one spawn request: a
// fresh entity, or a ghost flying into its merge target plus the
// target's new count.
func BroadcastSpawnResult(deps *Deps, res world.SpawnResult) {
	if res.Item != nil {
		it := res.Item
		notifyAll(deps, itemSpawnPacket(it.ID, it.Kind, it.Count, it.Pos, it.Vel, 0))
		return
	}
	m := res.Merge
	notifyAll(deps, itemSpawnPacket(m.GhostID, m.Kind, m.Count, m.GhostPos, world.Vec3{}, m.Target.ID))
	notifyAll(deps, itemCountPacket(m.Target.ID, m.Target.Count))
}

// BroadcastItemCount announces a count change on a live item.
func BroadcastItemCount(deps *Deps, id, count int32) {
	notifyAll(deps, itemCountPacket(id, count))
}

// BroadcastRemoveObject announces that an item no longer exists.
func BroadcastRemoveObject(deps *Deps, id int32) {
	notifyAll(deps, removeObjectPacket(id))
}

// sendPickupAck confirms a granted pickup to the claimant.
func sendPickupAck(sess *net.Session, itemID, kind, count int32) {
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_PICKUP_ACK)
	w.WriteD(itemID)
	w.WriteD(kind)
	w.WriteD(count)
	sess.Send(w.Bytes())
}

// SyncGroundItems replays a spawn packet for every live item to one
// newly joined session, with zero velocity so late joiners see settled
// stacks instead of replayed launches.
func SyncGroundItems(sess *net.Session, deps *Deps) {
	deps.World.Items.ForEach(func(it *world.GroundItem) {
		sess.Send(itemSpawnPacket(it.ID, it.Kind, it.Count, it.Pos, world.Vec3{}, 0))
	})
}
