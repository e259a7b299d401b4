package handler

import (
	"go.uber.org/zap"

	"github.com/skybase/server/internal/core/event"
	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
	"github.com/skybase/server/internal/world"
)

// protocolVersion is the minimum client protocol this server speaks.
const protocolVersion int32 = 1

// worldSpawn is where joining players appear, centered in the spawn cell.
var worldSpawn = world.Vec3{X: 0.5, Y: 64.0, Z: 0.5}

// HandleVersion processes C_VERSION. Too-old clients are disconnected
// without a reply.
func HandleVersion(sess *net.Session, r *packet.Reader, deps *Deps) {
	ver := r.ReadD()
	if ver < protocolVersion {
		deps.Log.Info("client version rejected",
			zap.Uint64("session_id", sess.ID), zap.Int32("version", ver))
		sess.Close()
		return
	}
	sess.SetState(packet.StateVersionOK)
	w := packet.NewWriterWithOpcode(packet.S_OPCODE_VERSION_OK)
	w.WriteD(int32(deps.Config.Server.ID))
	w.WriteS(deps.Config.Server.Name)
	sess.Send(w.Bytes())
}

// HandleJoin processes C_JOIN: the player enters the world and receives
// the full ground-item state so late joiners see the current world
// without replaying history.
func HandleJoin(sess *net.Session, r *packet.Reader, deps *Deps) {
	name := r.ReadS()
	if name == "" || len(name) > 24 {
		sess.Close()
		return
	}

	player := deps.World.AddPlayer(sess.ID, name, worldSpawn)
	sess.SetState(packet.StateInWorld)

	w := packet.NewWriterWithOpcode(packet.S_OPCODE_JOIN_OK)
	w.WriteF(player.Pos.X)
	w.WriteF(player.Pos.Y)
	w.WriteF(player.Pos.Z)
	sess.Send(w.Bytes())

	SyncGroundItems(sess, deps)

	event.Emit(deps.Bus, event.PlayerJoined{SessionID: sess.ID, Name: name})
	deps.Log.Info("player joined",
		zap.Uint64("session_id", sess.ID), zap.String("name", name))
}

// HandleQuit processes a clean C_QUIT.
func HandleQuit(sess *net.Session, r *packet.Reader, deps *Deps) {
	Disconnect(sess, deps)
}

// Disconnect tears down a session's world presence. Called for clean
// quits and by the game loop when a connection drops. Idempotent.
func Disconnect(sess *net.Session, deps *Deps) {
	if deps.Sessions.Get(sess.ID) == nil {
		return
	}
	if sess.State() == packet.StateInWorld {
		deps.World.RemovePlayer(sess.ID)
		event.Emit(deps.Bus, event.PlayerDisconnected{SessionID: sess.ID})
	}
	deps.Sessions.Remove(sess.ID)
	sess.SetState(packet.StateClosed)
	sess.Close()
	deps.Log.Info("session closed", zap.Uint64("session_id", sess.ID))
}
