package storeserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	readsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_store_reads_total",
		Help: "Collection reads served, by key.",
	}, []string{"key"})

	replacesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kiosk_store_replaces_total",
		Help: "Whole-value replaces applied, by key.",
	}, []string{"key"})

	notificationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kiosk_store_notifications_total",
		Help: "Change notifications queued for broadcast.",
	})
)
