package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wilayah_requests_total",
		Help: "Total filter requests by route",
	}, []string{"route"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wilayah_request_duration_ms",
		Help:    "Filter request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	}, []string{"route"})
	UnavailableTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wilayah_unavailable_total",
		Help: "Requests refused because the dataset is loading or failed",
	}, []string{"status"})
	DanglingRefsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wilayah_dangling_refs_total",
		Help: "Query string ids dropped during resolve, by level",
	}, []string{"level"})
	DatasetLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "wilayah_dataset_loads_total",
		Help: "Dataset loads by source kind and result",
	}, []string{"kind", "result"})
	DatasetLoadDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "wilayah_dataset_load_duration_ms",
		Help:    "Dataset load duration in milliseconds",
		Buckets: []float64{5, 20, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"kind"})
	DatasetCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wilayah_dataset_cache_hits_total",
		Help: "Dataset documents served from redis",
	})
	DatasetCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wilayah_dataset_cache_misses_total",
		Help: "Dataset documents not found in redis",
	})
	DatasetEntities = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wilayah_dataset_entities",
		Help: "Entities in the current dataset snapshot by level",
	}, []string{"level"})
	RateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "wilayah_rate_limited_total",
		Help: "Requests rejected by the rate limiter",
	})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(UnavailableTotal)
	prometheus.MustRegister(DanglingRefsTotal)
	prometheus.MustRegister(DatasetLoadsTotal)
	prometheus.MustRegister(DatasetLoadDurationMs)
	prometheus.MustRegister(DatasetCacheHitsTotal)
	prometheus.MustRegister(DatasetCacheMissesTotal)
	prometheus.MustRegister(DatasetEntities)
	prometheus.MustRegister(RateLimitedTotal)
}

// 文档注释：返回 Prometheus 指标处理器，由主入口挂载到 {API_BASE}/metrics
func Handler() http.Handler { return promhttp.Handler() }
