package mcp

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var rpcRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pizzaz_rpc_requests_total",
	Help: "JSON-RPC requests by method and status (ok, client_error, server_error).",
}, []string{"method", "status"})
