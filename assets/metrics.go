package assets

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assetFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzaz_asset_fetches_total",
		Help: "Backend asset fetches by stage (primary, fallback) and result (hit, miss, error).",
	}, []string{"stage", "result"})

	assetRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pizzaz_asset_requests_total",
		Help: "Asset requests by outcome (served, not_found, error).",
	}, []string{"outcome"})
)
