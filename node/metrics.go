package node

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	MetricNameSpace = "vendue"
)

var (
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "operations_total",
			Help:      "ledger operations by op and result",
		},
		[]string{"op", "result"},
	)
	bidVolume = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "bid_volume_total",
			Help:      "sum of accepted bid amounts",
		},
	)
	settledProceeds = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "settled_proceeds_total",
			Help:      "sum of winning bids paid out to sellers",
		},
	)
	finalizedAuctions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: MetricNameSpace,
			Name:      "finalized_auctions_total",
			Help:      "finalized auctions by outcome",
		},
		[]string{"outcome"},
	)
	activeAuctions = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: MetricNameSpace,
			Name:      "active_auctions",
			Help:      "active auctions seen by the last keeper sweep",
		},
	)
)

func init() {
	prometheus.MustRegister(
		operationsTotal,
		bidVolume,
		settledProceeds,
		finalizedAuctions,
		activeAuctions,
	)
}

func metricOperation(op string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	operationsTotal.WithLabelValues(op, result).Inc()
}

func metricFinalized(proceeds uint64, sold bool) {
	outcome := "unsold"
	if sold {
		outcome = "sold"
		settledProceeds.Add(float64(proceeds))
	}
	finalizedAuctions.WithLabelValues(outcome).Inc()
}
