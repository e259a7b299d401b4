package net

import (
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/skybase/server/internal/net/packet"
)

// Options carries the per-session tunables from config.Network.
type Options struct {
	InQueueSize  int
	OutQueueSize int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Session is one client connection. Field ownership:
//   - readLoop goroutine: conn reads, pushes frames into InQueue.
//   - game loop goroutine: state, outBuf, rate-limit window; drains
//     InQueue, appends output via Send, flushes via FlushOutput.
//   - writeLoop goroutine: drains outQueue onto the wire.
type Session struct {
	ID   uint64
	conn net.Conn
	log  *zap.Logger
	opts Options

	// InQueue carries decoded frame payloads from readLoop to the game
	// loop. Bounded; readLoop blocks when the loop falls behind.
	InQueue chan []byte

	state  packet.SessionState
	outBuf [][]byte

	outQueue chan []byte

	// rate-limit window, game-loop-owned
	rateWindow time.Time
	rateCount  int

	closeOnce sync.Once
	closed    chan struct{}
}

// NewSession wraps conn. conn may be nil in tests; pumps are only
// started by Start.
func NewSession(id uint64, conn net.Conn, opts Options, log *zap.Logger) *Session {
	if opts.InQueueSize <= 0 {
		opts.InQueueSize = 64
	}
	if opts.OutQueueSize <= 0 {
		opts.OutQueueSize = 256
	}
	return &Session{
		ID:       id,
		conn:     conn,
		log:      log,
		opts:     opts,
		InQueue:  make(chan []byte, opts.InQueueSize),
		outQueue: make(chan []byte, opts.OutQueueSize),
		closed:   make(chan struct{}),
	}
}

// Start launches the read and write pumps.
func (s *Session) Start() {
	go s.readLoop()
	go s.writeLoop()
}

// State returns the protocol state. Game loop only.
func (s *Session) State() packet.SessionState { return s.state }

// SetState advances the protocol state. Game loop only.
func (s *Session) SetState(st packet.SessionState) { s.state = st }

// Send buffers one packet for the end-of-tick flush. Game loop only.
func (s *Session) Send(pkt []byte) {
	s.outBuf = append(s.outBuf, pkt)
}

// PendingOutput exposes the unflushed output buffer. Game loop only;
// consumed by the output system and by tests.
func (s *Session) PendingOutput() [][]byte { return s.outBuf }

// FlushOutput drains the tick's buffered packets into the write queue.
// A full queue means the client cannot keep up; the session is closed
// rather than letting backpressure reach the game loop.
func (s *Session) FlushOutput() {
flush:
	for i, pkt := range s.outBuf {
		select {
		case s.outQueue <- pkt:
		default:
			s.log.Warn("session output queue full, dropping client",
				zap.Uint64("session_id", s.ID),
				zap.Int("undelivered", len(s.outBuf)-i))
			s.Close()
			break flush
		}
	}
	s.outBuf = s.outBuf[:0]
}

// AllowPacket enforces the per-second inbound packet budget.
// Game loop only.
func (s *Session) AllowPacket(now time.Time, maxPerSecond int) bool {
	if maxPerSecond <= 0 {
		return true
	}
	if now.Sub(s.rateWindow) >= time.Second {
		s.rateWindow = now
		s.rateCount = 0
	}
	s.rateCount++
	return s.rateCount <= maxPerSecond
}

// Close tears the session down. Safe to call from any goroutine,
// multiple times.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.closed)
		if s.conn != nil {
			s.conn.Close()
		}
	})
}

// IsClosed reports whether Close has been called.
func (s *Session) IsClosed() bool {
	select {
	case <-s.closed:
		return true
	default:
		return false
	}
}

func (s *Session) readLoop() {
	defer s.Close()
	for {
		if s.opts.ReadTimeout > 0 {
			s.conn.SetReadDeadline(time.Now().Add(s.opts.ReadTimeout))
		}
		payload, err := ReadFrame(s.conn)
		if err != nil {
			if !s.IsClosed() {
				s.log.Debug("session read ended",
					zap.Uint64("session_id", s.ID), zap.Error(err))
			}
			return
		}
		select {
		case s.InQueue <- payload:
		case <-s.closed:
			return
		}
	}
}

func (s *Session) writeLoop() {
	for {
		select {
		case pkt := <-s.outQueue:
			if s.opts.WriteTimeout > 0 {
				s.conn.SetWriteDeadline(time.Now().Add(s.opts.WriteTimeout))
			}
			if err := WriteFrame(s.conn, pkt); err != nil {
				s.Close()
				return
			}
		case <-s.closed:
			return
		}
	}
}
