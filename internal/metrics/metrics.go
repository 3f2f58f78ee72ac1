package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"route", "status"})
	LoginAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "login_attempts_total", Help: "Login attempts by kind and result",
	}, []string{"kind", "result"})
	RateLimited = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "rate_limited_total", Help: "Requests rejected by the rate limiter",
	})
	SnapshotWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "snapshot_writes_total", Help: "Whole-document writes by store and result",
	}, []string{"store", "result"})
	SnapshotWriteSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rollbook", Name: "snapshot_write_seconds", Help: "Whole-document write latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"store"})
	Submissions = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "attendance_submissions_total", Help: "Accepted attendance submissions",
	})
	Exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "exports_total", Help: "Generated attendance exports by format",
	}, []string{"format"})
	WorkerEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rollbook", Name: "worker_events_total", Help: "Queue events handled by the worker",
	}, []string{"type", "result"})
)

func init() {
	prometheus.MustRegister(HTTPRequests, LoginAttempts, RateLimited, SnapshotWrites,
		SnapshotWriteSeconds, Submissions, Exports, WorkerEvents)
}

func Handler() http.Handler { return promhttp.Handler() }

// ObserveSnapshotWrite records one whole-document write.
func ObserveSnapshotWrite(store string, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	SnapshotWrites.WithLabelValues(store, result).Inc()
	SnapshotWriteSeconds.WithLabelValues(store).Observe(d.Seconds())
}

func ObserveLogin(kind string, ok bool) {
	result := "success"
	if !ok {
		result = "failure"
	}
	LoginAttempts.WithLabelValues(kind, result).Inc()
}
