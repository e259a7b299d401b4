package obs

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the item-economy instrumentation, registered on a
// private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	ItemsSpawned   prometheus.Counter
	ItemsMerged    prometheus.Counter
	ItemsPickedUp  prometheus.Counter
	ItemsDespawned prometheus.Counter
	PickupRejected *prometheus.CounterVec
	LiveItems      prometheus.Gauge
	Players        prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		ItemsSpawned: factory.NewCounter(prometheus.CounterOpts{
			Name: "skybase_items_spawned_total",
			Help: "Ground item entities created.",
		}),
		ItemsMerged: factory.NewCounter(prometheus.CounterOpts{
			Name: "skybase_items_merged_total",
			Help: "Stacks absorbed into a neighbor (spawn-merge and sweep).",
		}),
		ItemsPickedUp: factory.NewCounter(prometheus.CounterOpts{
			Name: "skybase_items_picked_up_total",
			Help: "Pickup requests granted.",
		}),
		ItemsDespawned: factory.NewCounter(prometheus.CounterOpts{
			Name: "skybase_items_despawned_total",
			Help: "Ground items removed by the lifetime sweep.",
		}),
		PickupRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "skybase_pickup_rejected_total",
			Help: "Pickup requests rejected, by admission-check reason.",
		}, []string{"reason"}),
		LiveItems: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skybase_live_items",
			Help: "Ground items currently in the registry.",
		}),
		Players: factory.NewGauge(prometheus.GaugeOpts{
			Name: "skybase_players",
			Help: "Players currently in world.",
		}),
	}
}

// Handler serves the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
