package system

import (
	"testing"

	"go.uber.org/zap"

	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
	"github.com/skybase/server/internal/world"
)

func TestInputDispatchesQueuedPackets(t *testing.T) {
	deps, ws, _ := newMaintenanceFixture(t)
	reg := packet.NewRegistry()
	var handled [][]byte
	reg.Register(packet.C_OPCODE_MOVE, []packet.SessionState{packet.StateInWorld},
		func(sess any, r *packet.Reader) {
			handled = append(handled, []byte{r.ReadC()})
		})
	sys := NewInputSystem(deps.Sessions, reg, deps)

	sess := net.NewSession(1, nil, net.Options{}, zap.NewNop())
	sess.SetState(packet.StateInWorld)
	deps.Sessions.Add(sess)
	ws.AddPlayer(1, "ada", world.Vec3{})

	sess.InQueue <- []byte{packet.C_OPCODE_MOVE, 0x07}
	sess.InQueue <- []byte{packet.C_OPCODE_MOVE, 0x03}

	sys.Update(0)

	if len(handled) != 2 || handled[0][0] != 0x07 || handled[1][0] != 0x03 {
		t.Fatalf("handled = %v", handled)
	}
}

func TestInputCapsPacketsPerTick(t *testing.T) {
	deps, _, _ := newMaintenanceFixture(t)
	deps.Config.Network.MaxPacketsPerTick = 2
	deps.Config.RateLimit.Enabled = false
	reg := packet.NewRegistry()
	var calls int
	reg.Register(packet.C_OPCODE_ALIVE, []packet.SessionState{packet.StateInWorld},
		func(any, *packet.Reader) { calls++ })
	sys := NewInputSystem(deps.Sessions, reg, deps)

	sess := net.NewSession(1, nil, net.Options{InQueueSize: 8}, zap.NewNop())
	sess.SetState(packet.StateInWorld)
	deps.Sessions.Add(sess)
	for i := 0; i < 5; i++ {
		sess.InQueue <- []byte{packet.C_OPCODE_ALIVE}
	}

	sys.Update(0)
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	sys.Update(0)
	if calls != 4 {
		t.Fatalf("calls = %d after second tick, want 4", calls)
	}
}

func TestInputDisconnectsOverBudgetSession(t *testing.T) {
	deps, _, _ := newMaintenanceFixture(t)
	deps.Config.Network.MaxPacketsPerTick = 10
	deps.Config.RateLimit.Enabled = true
	deps.Config.RateLimit.PacketsPerSecond = 3
	reg := packet.NewRegistry()
	reg.Register(packet.C_OPCODE_ALIVE, []packet.SessionState{packet.StateInWorld},
		func(any, *packet.Reader) {})
	sys := NewInputSystem(deps.Sessions, reg, deps)

	sess := net.NewSession(1, nil, net.Options{InQueueSize: 8}, zap.NewNop())
	sess.SetState(packet.StateInWorld)
	deps.Sessions.Add(sess)
	for i := 0; i < 6; i++ {
		sess.InQueue <- []byte{packet.C_OPCODE_ALIVE}
	}

	sys.Update(0)

	if !sess.IsClosed() {
		t.Fatal("over-budget session not dropped")
	}
	if deps.Sessions.Get(1) != nil {
		t.Fatal("dropped session still in the store")
	}
}

func TestInputReapsClosedSessions(t *testing.T) {
	deps, ws, _ := newMaintenanceFixture(t)
	sys := NewInputSystem(deps.Sessions, packet.NewRegistry(), deps)

	sess := net.NewSession(1, nil, net.Options{}, zap.NewNop())
	sess.SetState(packet.StateInWorld)
	deps.Sessions.Add(sess)
	ws.AddPlayer(1, "ada", world.Vec3{})
	sess.Close()

	sys.Update(0)

	if deps.Sessions.Get(1) != nil {
		t.Fatal("closed session not reaped")
	}
	if ws.GetBySession(1) != nil {
		t.Fatal("player record survives a dead connection")
	}
}
