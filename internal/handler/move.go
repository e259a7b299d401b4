package handler

import (
	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
	"github.com/skybase/server/internal/world"
)

// Direction deltas on the ground plane, indexed by heading (0-7),
// starting north and going clockwise.
var headingDX = [8]float64{0, 0.7071, 1, 0.7071, 0, -0.7071, -1, -0.7071}
var headingDZ = [8]float64{-1, -0.7071, 0, 0.7071, 1, 0.7071, 0, -0.7071}

func headingVec(h byte) world.Vec3 {
	return world.Vec3{X: headingDX[h&7], Z: headingDZ[h&7]}
}

// maxMoveStep bounds the accepted per-packet displacement. Movement is
// client-simulated; the server only needs the anchor to stay sane for
// pickup/drop range checks, so oversized jumps are dropped, not
// corrected.
const maxMoveStep = 25.0

// HandleMove processes C_MOVE: self-reported position plus heading.
// Wire body: position (3×F), heading (C).
func HandleMove(sess *net.Session, r *packet.Reader, deps *Deps) {
	pos := world.Vec3{X: r.ReadF(), Y: r.ReadF(), Z: r.ReadF()}
	heading := r.ReadC()
	if heading > 7 {
		return
	}

	player := deps.World.GetBySession(sess.ID)
	if player == nil {
		return
	}

	if player.Pos.Dist(pos) > maxMoveStep {
		return
	}
	player.Pos = pos
	player.Heading = heading
}
