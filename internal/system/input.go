package system

import (
	"time"

	"go.uber.org/zap"

	coresys "github.com/skybase/server/internal/core/system"
	"github.com/skybase/server/internal/handler"
	"github.com/skybase/server/internal/net"
	"github.com/skybase/server/internal/net/packet"
)

// InputSystem drains each session's inbound queue and dispatches packet
// handlers. Phase 0 (Input). Dead connections discovered here are torn
// down before any game logic runs this tick.
type InputSystem struct {
	store    *net.SessionStore
	registry *packet.Registry
	deps     *handler.Deps
}

func NewInputSystem(store *net.SessionStore, registry *packet.Registry, deps *handler.Deps) *InputSystem {
	return &InputSystem{store: store, registry: registry, deps: deps}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ time.Duration) {
	maxPackets := s.deps.Config.Network.MaxPacketsPerTick
	rateLimit := 0
	if s.deps.Config.RateLimit.Enabled {
		rateLimit = s.deps.Config.RateLimit.PacketsPerSecond
	}
	now := time.Now()

	s.store.ForEach(func(sess *net.Session) {
		if sess.IsClosed() {
			handler.Disconnect(sess, s.deps)
			return
		}
		for i := 0; i < maxPackets; i++ {
			select {
			case payload := <-sess.InQueue:
				if !sess.AllowPacket(now, rateLimit) {
					s.deps.Log.Warn("session over packet budget, dropping client",
						zap.Uint64("session_id", sess.ID))
					handler.Disconnect(sess, s.deps)
					return
				}
				switch s.registry.Dispatch(sess, payload) {
				case packet.UnknownOpcode:
					s.deps.Log.Debug("unknown opcode",
						zap.Uint64("session_id", sess.ID),
						zap.Uint8("opcode", payload[0]))
				case packet.WrongState:
					s.deps.Log.Debug("opcode in wrong state",
						zap.Uint64("session_id", sess.ID),
						zap.Uint8("opcode", payload[0]))
				}
				if sess.IsClosed() {
					handler.Disconnect(sess, s.deps)
					return
				}
			default:
				return
			}
		}
	})
}
