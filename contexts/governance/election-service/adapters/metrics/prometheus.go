package metrics

import (
	"strconv"

	"ballotbox/contexts/governance/election-service/ports"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus records election counters on a Prometheus registry.
type Prometheus struct {
	candidatesRegistered prometheus.Counter
	votesCast            prometheus.Counter
	votesRejected        *prometheus.CounterVec
	rankingMoves         prometheus.Histogram
	eventsRelayed        prometheus.Counter
	votesObserved        *prometheus.CounterVec
}

// NewPrometheus builds the collectors and registers them all on registerer.
func NewPrometheus(namespace string, registerer prometheus.Registerer) (*Prometheus, error) {
	m := &Prometheus{
		candidatesRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "election",
			Name:      "candidates_registered_total",
			Help:      "Number of candidates registered",
		}),
		votesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "election",
			Name:      "votes_cast_total",
			Help:      "Number of accepted votes",
		}),
		votesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "election",
			Name:      "votes_rejected_total",
			Help:      "Number of rejected votes by reason",
		},
			[]string{"reason"},
		),
		rankingMoves: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "election",
			Name:      "ranking_moved_positions",
			Help:      "Places a candidate moved up the ranking after a vote",
			Buckets:   []float64{0, 1, 2, 4, 8, 16, 32, 64},
		}),
		eventsRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "election",
			Name:      "events_relayed_total",
			Help:      "Number of events relayed from the outbox",
		}),
		votesObserved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "election",
			Name:      "votes_observed_total",
			Help:      "Votes seen on the event bus, by candidate",
		},
			[]string{"candidate_id"},
		),
	}

	if registerer != nil {
		for _, collector := range []prometheus.Collector{
			m.candidatesRegistered,
			m.votesCast,
			m.votesRejected,
			m.rankingMoves,
			m.eventsRelayed,
			m.votesObserved,
		} {
			if err := registerer.Register(collector); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Prometheus) CandidateRegistered() {
	m.candidatesRegistered.Inc()
}

func (m *Prometheus) VoteCast(moved int) {
	m.votesCast.Inc()
	m.rankingMoves.Observe(float64(moved))
}

func (m *Prometheus) VoteRejected(reason string) {
	m.votesRejected.WithLabelValues(reason).Inc()
}

func (m *Prometheus) EventsRelayed(count int) {
	m.eventsRelayed.Add(float64(count))
}

func (m *Prometheus) VoteObserved(candidateID uint64) {
	m.votesObserved.WithLabelValues(strconv.FormatUint(candidateID, 10)).Inc()
}

var _ ports.Metrics = (*Prometheus)(nil)
