package handler

import (
	"go.uber.org/zap"

	"github.com/skybase/server/internal/config"
	"github.com/skybase/server/internal/core/event"
	"github.com/skybase/server/internal/data"
	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
	"github.com/skybase/server/internal/world"
)

// InventoryService mutates claimant inventories. Every call is atomic
// from the caller's point of view: it applies fully or not at all.
// Implemented by world.State; tests substitute fakes to exercise the
// pickup lock protocol under reentrancy.
type InventoryService interface {
	AddItem(sessionID uint64, kind, count int32) bool
	RemoveItem(sessionID uint64, kind, count int32) bool
	RemoveItemFromSlot(sessionID uint64, slot int, kind, count int32) bool
}

// AnchorService resolves a claimant's current location. The second
// return is false for claimants that are gone (disconnected
// mid-request) — callers reject safely.
type AnchorService interface {
	GetAnchorPosition(sessionID uint64) (world.Vec3, bool)
}

// Deps holds shared dependencies injected into all packet handlers.
type Deps struct {
	Config    *config.Config
	Log       *zap.Logger
	World     *world.State
	Items     *data.ItemTable
	Sessions  *net.SessionStore
	Bus       *event.Bus
	Inventory InventoryService
	Anchors   AnchorService
}

// RegisterAll registers all packet handlers into the registry.
func RegisterAll(reg *packet.Registry, deps *Deps) {
	// Handshake phase
	reg.Register(packet.C_OPCODE_VERSION,
		[]packet.SessionState{packet.StateHandshake},
		func(sess any, r *packet.Reader) {
			HandleVersion(sess.(*net.Session), r, deps)
		},
	)

	// Version accepted, not yet in world
	reg.Register(packet.C_OPCODE_JOIN,
		[]packet.SessionState{packet.StateVersionOK},
		func(sess any, r *packet.Reader) {
			HandleJoin(sess.(*net.Session), r, deps)
		},
	)

	// In-world phase
	inWorldStates := []packet.SessionState{packet.StateInWorld}

	reg.Register(packet.C_OPCODE_MOVE, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleMove(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_OPCODE_PICKUP, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandlePickupItem(sess.(*net.Session), r, deps)
		},
	)
	reg.Register(packet.C_OPCODE_DROP, inWorldStates,
		func(sess any, r *packet.Reader) {
			HandleDropItem(sess.(*net.Session), r, deps)
		},
	)

	// Always allowed once the version is checked
	aliveStates := []packet.SessionState{packet.StateVersionOK, packet.StateInWorld}
	reg.Register(packet.C_OPCODE_ALIVE, aliveStates,
		func(sess any, r *packet.Reader) {
			s := sess.(*net.Session)
			w := packet.NewWriterWithOpcode(packet.S_OPCODE_PONG)
			s.Send(w.Bytes())
		},
	)
	reg.Register(packet.C_OPCODE_QUIT, aliveStates,
		func(sess any, r *packet.Reader) {
			HandleQuit(sess.(*net.Session), r, deps)
		},
	)
}
