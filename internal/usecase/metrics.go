package usecase

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	staleRecalculations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pos_stale_recalculations_total",
			Help: "Recalculation responses dropped because the cart changed while in flight",
		},
	)

	documentServerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pos_document_server_errors_total",
			Help: "Failed calls to the document server",
		},
		[]string{"action"},
	)
)
