package obs

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/skybase/server/internal/core/event"
	"github.com/skybase/server/internal/world"
)

// FeedEvent is one JSON message on the admin event feed.
type FeedEvent struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// Bridge exports the item economy to admin tooling: Prometheus metrics
// on /metrics and a live JSON event feed on /ws. Bus subscribers run on
// the game loop and hand events to the fan-out goroutine through a
// bounded channel; when admin consumers fall behind, feed events are
// dropped — never game-loop time.
type Bridge struct {
	log     *zap.Logger
	Metrics *Metrics

	feed chan FeedEvent

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewBridge(log *zap.Logger) *Bridge {
	return &Bridge{
		log:     log,
		Metrics: NewMetrics(),
		feed:    make(chan FeedEvent, 256),
		clients: make(map[*websocket.Conn]struct{}),
	}
}

// Attach wires the bridge to the event bus. Must be called before the
// game loop starts; the subscribers read st only from dispatch context.
func (b *Bridge) Attach(bus *event.Bus, st *world.State) {
	event.Subscribe(bus, func(ev event.ItemSpawned) {
		b.Metrics.ItemsSpawned.Inc()
		b.Metrics.LiveItems.Set(float64(st.Items.Len()))
		b.push("item_spawned", ev)
	})
	event.Subscribe(bus, func(ev event.ItemsMerged) {
		b.Metrics.ItemsMerged.Inc()
		b.Metrics.LiveItems.Set(float64(st.Items.Len()))
		b.push("items_merged", ev)
	})
	event.Subscribe(bus, func(ev event.ItemPickedUp) {
		b.Metrics.ItemsPickedUp.Inc()
		b.Metrics.LiveItems.Set(float64(st.Items.Len()))
		b.push("item_picked_up", ev)
	})
	event.Subscribe(bus, func(ev event.ItemDespawned) {
		b.Metrics.ItemsDespawned.Inc()
		b.Metrics.LiveItems.Set(float64(st.Items.Len()))
		b.push("item_despawned", ev)
	})
	event.Subscribe(bus, func(ev event.ItemDropped) {
		b.push("item_dropped", ev)
	})
	event.Subscribe(bus, func(ev event.PickupRejected) {
		b.Metrics.PickupRejected.WithLabelValues(ev.Reason).Inc()
	})
	event.Subscribe(bus, func(ev event.PlayerJoined) {
		b.Metrics.Players.Inc()
		b.push("player_joined", ev)
	})
	event.Subscribe(bus, func(ev event.PlayerDisconnected) {
		b.Metrics.Players.Dec()
		b.push("player_disconnected", ev)
	})
}

func (b *Bridge) push(kind string, data any) {
	select {
	case b.feed <- FeedEvent{Type: kind, At: time.Now(), Data: data}:
	default:
		// Feed full; admin consumers are behind. Drop.
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true }, // loopback bind
}

// Run serves the obs endpoints until the listener fails. Call in its
// own goroutine.
func (b *Bridge) Run(addr string) error {
	go b.fanOut()

	mux := http.NewServeMux()
	mux.Handle("/metrics", b.Metrics.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", b.handleWS)

	b.log.Info("obs endpoint listening", zap.String("addr", addr))
	return http.ListenAndServe(addr, mux)
}

func (b *Bridge) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.log.Warn("obs ws upgrade failed", zap.Error(err))
		return
	}
	b.mu.Lock()
	b.clients[conn] = struct{}{}
	b.mu.Unlock()

	// Reader drains control frames and detects close.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				b.drop(conn)
				return
			}
		}
	}()
}

func (b *Bridge) fanOut() {
	for ev := range b.feed {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		b.mu.Lock()
		for conn := range b.clients {
			conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				delete(b.clients, conn)
				conn.Close()
			}
		}
		b.mu.Unlock()
	}
}

func (b *Bridge) drop(conn *websocket.Conn) {
	b.mu.Lock()
	delete(b.clients, conn)
	b.mu.Unlock()
	conn.Close()
}
