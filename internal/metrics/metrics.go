package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "connectfour"

const (
	ResultOK       = "ok"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// Metrics holds the collectors of the room server. They are registered on the
// registerer given to New, so tests can use a private registry.
type Metrics struct {
	RoomOperations *prometheus.CounterVec
	RoomsReaped    prometheus.Counter
	SweepErrors    prometheus.Counter
	GamesFinished  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RoomOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "room_operations_total",
				Help:      "Room operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		RoomsReaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rooms_reaped_total",
			Help:      "Rooms evicted by the reaper",
		}),
		SweepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reaper_sweep_errors_total",
			Help:      "Reaper sweeps that failed",
		}),
		GamesFinished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that ended with a winner",
		}),
	}

	reg.MustRegister(m.RoomOperations, m.RoomsReaped, m.SweepErrors, m.GamesFinished)

	return m
}

// ObserveOperation - counts one room operation, rejected is a caller error, anything else failed.
func (that *Metrics) ObserveOperation(operation string, err error, rejected bool) {
	result := ResultOK

	switch {
	case err == nil:
	case rejected:
		result = ResultRejected
	default:
		result = ResultError
	}

	that.RoomOperations.WithLabelValues(operation, result).Inc()
}

// RoomsGauge - exposes the current room count, computed on scrape.
func RoomsGauge(reg prometheus.Registerer, count func() float64) {
	reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "rooms",
		Help:      "Rooms currently held by the store",
	}, count))
}
