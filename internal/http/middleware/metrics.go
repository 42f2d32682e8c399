package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RLRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_requests_total",
			Help: "Total requests seen by the rate limiter",
		},
		[]string{"endpoint"},
	)
	RLBlocked = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rate_limiter_blocked_total",
			Help: "Total requests blocked by the rate limiter",
		},
		[]string{"endpoint"},
	)
	BoardOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "board_operations_total",
			Help: "Board, column and card mutations by operation",
		},
		[]string{"operation"},
	)
	SearchQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_search_queries_total",
			Help: "Task searches by surface (page or embed)",
		},
		[]string{"surface"},
	)
)

func init() {
	prometheus.MustRegister(RLRequests)
	prometheus.MustRegister(RLBlocked)
	prometheus.MustRegister(BoardOps)
	prometheus.MustRegister(SearchQueries)
}
