// Package metrics exposes prometheus collectors for the bidding and room
// engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Session and room kinds used as label values
const (
	KindAuction = "auction"
	KindChat    = "chat"
)

// Metrics groups the collectors recorded by sessions and the room registry
type Metrics struct {
	BidsAccepted      prometheus.Counter
	BidsRejected      *prometheus.CounterVec
	MessagesAppended  prometheus.Counter
	ActiveSessions    *prometheus.GaugeVec
	ActiveRooms       *prometheus.GaugeVec
	BroadcastFailures *prometheus.CounterVec
	AuthFailures      prometheus.Counter
}

// New creates the collectors and registers them with reg. A nil reg leaves
// them unregistered, which is what tests want.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		BidsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auction",
			Name:      "bids_accepted_total",
			Help:      "Bids accepted by the ledger.",
		}),
		BidsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auction",
			Name:      "bids_rejected_total",
			Help:      "Bids rejected, by reason.",
		}, []string{"reason"}),
		MessagesAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auction",
			Name:      "chat_messages_total",
			Help:      "Chat messages appended to the log.",
		}),
		ActiveSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "auction",
			Name:      "active_sessions",
			Help:      "Joined streaming sessions, by kind.",
		}, []string{"kind"}),
		ActiveRooms: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "auction",
			Name:      "active_rooms",
			Help:      "Rooms with at least one member, by kind.",
		}, []string{"kind"}),
		BroadcastFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "auction",
			Name:      "broadcast_failures_total",
			Help:      "Per-member delivery failures during broadcast.",
		}, []string{"kind"}),
		AuthFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "auction",
			Name:      "auth_failures_total",
			Help:      "Streaming connections rejected during authentication.",
		}),
	}

	if reg != nil {
		reg.MustRegister(
			m.BidsAccepted,
			m.BidsRejected,
			m.MessagesAppended,
			m.ActiveSessions,
			m.ActiveRooms,
			m.BroadcastFailures,
			m.AuthFailures,
		)
	}
	return m
}

// RoomObserver feeds registry events of one room kind into m
func (m *Metrics) RoomObserver(kind string) RoomObserver {
	return RoomObserver{metrics: m, kind: kind}
}

// RoomObserver implements rooms.Observer for one registry
type RoomObserver struct {
	metrics *Metrics
	kind    string
}

func (o RoomObserver) RoomOpened(string) {
	o.metrics.ActiveRooms.WithLabelValues(o.kind).Inc()
}

func (o RoomObserver) RoomClosed(string) {
	o.metrics.ActiveRooms.WithLabelValues(o.kind).Dec()
}

func (o RoomObserver) DeliveryFailed(string, error) {
	o.metrics.BroadcastFailures.WithLabelValues(o.kind).Inc()
}
