package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// RPCCallsTotal counts JSON-RPC calls by contract, method and result code (0 = success).
var RPCCallsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "rpc_calls_total",
		Help:      "Total number of JSON-RPC calls",
	},
	[]string{"contract", "method", "code"},
)

var rpcRegistered bool

// RegisterRPCMetrics registers JSON-RPC metrics. Must be called once from main.
func RegisterRPCMetrics() {
	if rpcRegistered {
		return
	}
	prometheus.MustRegister(RPCCallsTotal)
	rpcRegistered = true
}

// ObserveRPC records one dispatched call.
func ObserveRPC(contract, method string, code int) {
	RPCCallsTotal.WithLabelValues(contract, method, strconv.Itoa(code)).Inc()
}
