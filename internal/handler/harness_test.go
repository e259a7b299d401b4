package handler

import (
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/skybase/server/internal/config"
	"github.com/skybase/server/internal/core/event"
	"github.com/skybase/server/internal/data"
	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
	"github.com/skybase/server/internal/world"
)

const testCatalog = `
items:
  - {kind: 1, name: wood, droppable: true}
  - {kind: 2, name: stone, droppable: true}
  - {kind: 8, name: soulbound_core, droppable: false}
`

type fixture struct {
	t    *testing.T
	deps *Deps
	ws   *world.State
	bus  *event.Bus
	now  *time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Defaults()
	items, err := data.ParseItemTable([]byte(testCatalog))
	if err != nil {
		t.Fatal(err)
	}
	ws := world.NewState(world.Tuning{
		MaxStack:          cfg.Items.MaxStack,
		MergeRadius:       cfg.Items.MergeRadius,
		PickupRadius:      cfg.Items.PickupRadius,
		PositionTolerance: cfg.Items.PositionTolerance,
		DropDistance:      cfg.Items.DropDistance,
		PickupDelay:       cfg.Items.PickupDelay,
		PickupCooldown:    cfg.Items.PickupCooldown,
		Lifetime:          cfg.Items.Lifetime,
		InventorySlots:    world.DefaultInventorySlots,
	})
	now := time.Unix(5000, 0)
	ws.Clock = func() time.Time { return now }

	bus := event.NewBus()
	deps := &Deps{
		Config:    cfg,
		Log:       zap.NewNop(),
		World:     ws,
		Items:     items,
		Sessions:  net.NewSessionStore(),
		Bus:       bus,
		Inventory: ws,
		Anchors:   ws,
	}
	return &fixture{t: t, deps: deps, ws: ws, bus: bus, now: &now}
}

// advance moves the injected clock forward.
func (f *fixture) advance(d time.Duration) {
	*f.now = f.now.Add(d)
}

// join puts a fresh in-world session + player at pos.
func (f *fixture) join(id uint64, pos world.Vec3) *net.Session {
	sess := net.NewSession(id, nil, net.Options{}, zap.NewNop())
	sess.SetState(packet.StateInWorld)
	f.deps.Sessions.Add(sess)
	f.ws.AddPlayer(id, fmt.Sprintf("player%d", id), pos)
	return sess
}

// spawnItem places a settled, grace-expired item on the ground.
func (f *fixture) spawnItem(kind, count int32, pos world.Vec3) *world.GroundItem {
	res, ok := f.ws.SpawnItem(kind, count, pos, &world.Vec3{}, false)
	if !ok || res.Item == nil {
		f.t.Fatalf("fixture spawn failed: %+v ok=%v", res, ok)
	}
	f.advance(f.ws.Tuning.PickupDelay)
	return res.Item
}

// dispatchEvents flips the bus so this tick's emissions reach subscribers.
func (f *fixture) dispatchEvents() {
	f.bus.SwapBuffers()
	f.bus.DispatchAll()
}

// rejections subscribes to PickupRejected; read after dispatchEvents.
func (f *fixture) rejections() *[]event.PickupRejected {
	var out []event.PickupRejected
	event.Subscribe(f.bus, func(ev event.PickupRejected) { out = append(out, ev) })
	return &out
}

func pickupReq(itemID int32, reported *world.Vec3) *packet.Reader {
	w := packet.NewWriterWithOpcode(packet.C_OPCODE_PICKUP)
	w.WriteD(itemID)
	if reported != nil {
		w.WriteC(1)
		w.WriteF(reported.X)
		w.WriteF(reported.Y)
		w.WriteF(reported.Z)
	} else {
		w.WriteC(0)
	}
	return packet.NewReader(w.Bytes()[1:])
}

func dropReq(kind, count int32, flags byte, slot uint16) *packet.Reader {
	w := packet.NewWriterWithOpcode(packet.C_OPCODE_DROP)
	w.WriteD(kind)
	w.WriteD(count)
	w.WriteC(flags)
	w.WriteH(slot)
	return packet.NewReader(w.Bytes()[1:])
}

// sentOpcodes lists the opcode of every packet buffered on sess this tick.
func sentOpcodes(sess *net.Session) []byte {
	var ops []byte
	for _, pkt := range sess.PendingOutput() {
		ops = append(ops, pkt[0])
	}
	return ops
}

func hasOpcode(sess *net.Session, opcode byte) bool {
	for _, op := range sentOpcodes(sess) {
		if op == opcode {
			return true
		}
	}
	return false
}
