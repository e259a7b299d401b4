package system

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/skybase/server/internal/core/event"
	coresys "github.com/skybase/server/internal/core/system"
	"github.com/skybase/server/internal/persist"
)

// walQueueDepth bounds the flush batches waiting on the writer.
const walQueueDepth = 4

// WALBatchWriter is the sink for audit batches. Satisfied by
// persist.ItemWALRepo.
type WALBatchWriter interface {
	WriteBatch(ctx context.Context, entries []persist.ItemWALEntry) error
}

// WALFlushSystem batches item-economy audit entries from the event bus
// and hands them off every N ticks. Phase 5 (Persist). All batches flow
// through one writer goroutine, so a slow commit of an earlier batch
// can never land after a later one and entries keep their emission
// order end to end. When the writer falls behind, the current batch
// keeps accumulating until a queue slot opens; the game loop never
// blocks. The WAL is an audit trail, not a recovery log, so a failed
// batch costs forensics only.
type WALFlushSystem struct {
	repo      WALBatchWriter
	log       *zap.Logger
	queue     chan []persist.ItemWALEntry
	batch     []persist.ItemWALEntry
	tickCount int
	interval  int
}

func NewWALFlushSystem(repo WALBatchWriter, bus *event.Bus, intervalTicks int, log *zap.Logger) *WALFlushSystem {
	if intervalTicks < 1 {
		intervalTicks = 1
	}
	s := &WALFlushSystem{
		repo:     repo,
		log:      log,
		queue:    make(chan []persist.ItemWALEntry, walQueueDepth),
		interval: intervalTicks,
	}
	event.Subscribe(bus, func(ev event.ItemPickedUp) {
		s.batch = append(s.batch, persist.ItemWALEntry{
			TxType:    "pickup",
			SessionID: ev.SessionID,
			ItemID:    ev.ItemID,
			Kind:      ev.Kind,
			Count:     ev.Count,
			At:        time.Now(),
		})
	})
	event.Subscribe(bus, func(ev event.ItemDropped) {
		s.batch = append(s.batch, persist.ItemWALEntry{
			TxType:    "drop",
			SessionID: ev.SessionID,
			ItemID:    ev.ItemID,
			Kind:      ev.Kind,
			Count:     ev.Count,
			At:        time.Now(),
		})
	})
	go s.writeLoop()
	return s
}

func (s *WALFlushSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *WALFlushSystem) Update(_ time.Duration) {
	s.tickCount++
	if s.tickCount < s.interval || len(s.batch) == 0 {
		return
	}
	s.tickCount = 0

	select {
	case s.queue <- s.batch:
		s.batch = nil
	default:
		// Writer is behind. Keep the batch and retry next interval;
		// later entries append after the held ones, preserving order.
	}
}

func (s *WALFlushSystem) writeLoop() {
	for entries := range s.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := s.repo.WriteBatch(ctx, entries)
		cancel()
		if err != nil {
			s.log.Error("item wal flush failed",
				zap.Int("entries", len(entries)), zap.Error(err))
		}
	}
}
