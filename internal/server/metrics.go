package server

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	solutions *prometheus.CounterVec
	cache     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosolve_http_requests_total",
				Help: "Total number of HTTP requests by route and status code",
			},
			[]string{"route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gosolve_http_request_duration_seconds",
				Help:    "Duration of HTTP requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		solutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosolve_solutions_total",
				Help: "Solved equations by solution kind",
			},
			[]string{"kind"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gosolve_cache_lookups_total",
				Help: "Solve cache lookups by result",
			},
			[]string{"result"},
		),
	}
	reg.MustRegister(m.requests, m.duration, m.solutions, m.cache)
	return m
}
