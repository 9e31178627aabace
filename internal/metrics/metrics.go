// Package metrics exposes the bot's prometheus counters and the optional
// /metrics listener.
package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ClaimsAttempted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourney_claims_attempted_total",
		Help: "Take-schedule button presses reaching the guard.",
	})
	ClaimsWon = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourney_claims_won_total",
		Help: "Claims that bound a judge.",
	})
	ClaimsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tourney_claims_rejected_total",
		Help: "Claims rejected by the guard, by reason.",
	}, []string{"reason"})
	RemindersFired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourney_reminders_fired_total",
		Help: "Pre-match reminders delivered.",
	})
	CleanupsRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourney_cleanups_run_total",
		Help: "Post-result cleanup tasks executed.",
	})
	SnapshotErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tourney_snapshot_errors_total",
		Help: "Failed event snapshot writes.",
	})
)

// Serve starts the /metrics listener on addr. No-op when addr is empty.
func Serve(addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Printf("[metrics] listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[metrics] listener error: %v", err)
		}
	}()
}
