package web

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	requests      *prometheus.CounterVec
	runsStarted   *prometheus.CounterVec
	runsFinished  *prometheus.CounterVec
	resumes       prometheus.Counter
	activeRuns    prometheus.Gauge
	nodesExplored *prometheus.HistogramVec
	searchRuntime *prometheus.HistogramVec
}

func newMetrics(registerer prometheus.Registerer) *metrics {
	factory := promauto.With(registerer)
	return &metrics{
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pathviz_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		runsStarted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pathviz_runs_started_total",
			Help: "Runs created by algorithm",
		}, []string{"algorithm"}),
		runsFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pathviz_runs_finished_total",
			Help: "Runs finished by algorithm and outcome",
		}, []string{"algorithm", "found"}),
		resumes: factory.NewCounter(prometheus.CounterOpts{
			Name: "pathviz_run_resumes_total",
			Help: "Resume calls across all runs",
		}),
		activeRuns: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pathviz_runs_active",
			Help: "Runs held by the server",
		}),
		nodesExplored: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathviz_nodes_explored",
			Help:    "Nodes explored per finished run",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}, []string{"algorithm"}),
		searchRuntime: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pathviz_search_runtime_seconds",
			Help:    "Time spent searching per finished run, excluding suspensions",
			Buckets: []float64{0.000001, 0.00001, 0.0001, 0.001, 0.01, 0.1},
		}, []string{"algorithm"}),
	}
}
