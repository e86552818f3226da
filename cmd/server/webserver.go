package main

import (
	"net/http"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/coder/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// webServer serves the web client files from the static directory, the
// websocket endpoint backing it, health and metrics.
func webServer(conf config, t tables) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(conf, t))
	mux.HandleFunc("/healthz", handleHealthCheck)
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/", http.FileServer(http.Dir(conf.StaticDir)))

	return &http.Server{
		Addr:              conf.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// websocketHandler upgrades the connection and runs a viewer session on it
// until the client disconnects.
func websocketHandler(conf config, t tables) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: []string{"*"}, // TODO: tighten in prod
		})
		if err != nil {
			logs.Error(errors.New("accepting websocket connection").
				WithTag("remote_addr", r.RemoteAddr).
				Wrap(err))
			return
		}

		serveSession(r.Context(), c, t, conf.PushInterval)
	}
}

func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
