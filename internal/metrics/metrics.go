package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "itam",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	Mutations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itam",
		Name:      "inventory_mutations_total",
		Help:      "Committed inventory mutations by audit action.",
	}, []string{"action"})

	ImportRows = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "itam",
		Name:      "import_rows_total",
		Help:      "Spreadsheet rows processed by the bulk importer.",
	}, []string{"result"})

	EventsFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "itam",
		Name:      "events_publish_failures_total",
		Help:      "Audit events that could not be published.",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, Mutations, ImportRows, EventsFailed)
}

func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}

func RecordMutation(action string) {
	Mutations.WithLabelValues(action).Inc()
}

func RecordImportRow(ok bool) {
	if ok {
		ImportRows.WithLabelValues("ok").Inc()
		return
	}
	ImportRows.WithLabelValues("failed").Inc()
}
