package system

import (
	"time"

	coresys "github.com/skybase/server/internal/core/system"
	"github.com/skybase/server/internal/net"
)

// OutputSystem flushes buffered output packets for all sessions.
// Phase 4 (Output) — runs after all game logic, before persistence.
//
// During earlier phases, handlers and systems call sess.Send() which
// appends packets to a per-session buffer. OutputSystem drains these
// buffers into the write queues, where writeLoop goroutines pick them
// up for framing and TCP transmission. One flush point per tick keeps
// network I/O timing predictable and batches multiple packets into
// fewer channel operations.
type OutputSystem struct {
	store *net.SessionStore
}

func NewOutputSystem(store *net.SessionStore) *OutputSystem {
	return &OutputSystem{store: store}
}

func (s *OutputSystem) Phase() coresys.Phase { return coresys.PhaseOutput }

func (s *OutputSystem) Update(_ time.Duration) {
	s.store.ForEach(func(sess *net.Session) {
		sess.FlushOutput()
	})
}
