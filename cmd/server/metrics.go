package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "advisory_server_connected_clients",
		Help: "The number of currently connected websocket clients.",
	})

	rejectedUpdates = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_server_rejected_updates_total",
		Help: "The number of client updates rejected by catalog validation.",
	})

	pushedRects = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_server_pushed_rects_total",
		Help: "The number of leaf rectangles pushed to clients.",
	})

	pushedTextureBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisory_server_pushed_texture_bytes_total",
		Help: "The number of compressed texture bytes pushed to clients.",
	})
)
