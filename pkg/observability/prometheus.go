package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusHooks implements every hook interface with Prometheus
// collectors.
type PrometheusHooks struct {
	exports      *prometheus.CounterVec
	exportTime   prometheus.Histogram
	pages        *prometheus.CounterVec
	pageTime     prometheus.Histogram
	warnings     prometheus.Counter
	cacheEvents  *prometheus.CounterVec
	cacheBytes   *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpTime     *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec
}

// NewPrometheusHooks creates the collectors and registers them with reg.
// It panics if a collector is already registered, like
// [prometheus.MustRegister].
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	h := &PrometheusHooks{
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photobook", Name: "exports_total",
			Help: "Document exports by result.",
		}, []string{"result"}),
		exportTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "photobook", Name: "export_duration_seconds",
			Help:    "Time to export a whole document.",
			Buckets: prometheus.DefBuckets,
		}),
		pages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photobook", Name: "pages_rendered_total",
			Help: "Rendered pages by result.",
		}, []string{"result"}),
		pageTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "photobook", Name: "page_render_duration_seconds",
			Help:    "Time to render one page.",
			Buckets: prometheus.DefBuckets,
		}),
		warnings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "photobook", Name: "export_warnings_total",
			Help: "Non-fatal export warnings such as undecodable photos.",
		}),
		cacheEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photobook", Name: "cache_events_total",
			Help: "Cache hits, misses and writes by key type.",
		}, []string{"type", "event"}),
		cacheBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photobook", Name: "cache_written_bytes_total",
			Help: "Bytes written to the cache by key type.",
		}, []string{"type"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photobook", Name: "http_client_requests_total",
			Help: "Outgoing HTTP requests by host and status code.",
		}, []string{"host", "code"}),
		httpTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "photobook", Name: "http_client_duration_seconds",
			Help:    "Outgoing HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "photobook", Name: "http_client_errors_total",
			Help: "Outgoing HTTP requests that failed without a response.",
		}, []string{"host"}),
	}
	reg.MustRegister(h.exports, h.exportTime, h.pages, h.pageTime, h.warnings,
		h.cacheEvents, h.cacheBytes, h.httpRequests, h.httpTime, h.httpErrors)
	return h
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnExportStart(context.Context, string, int, []string) {}

func (h *PrometheusHooks) OnPageRendered(_ context.Context, _ int, d time.Duration, err error) {
	h.pages.WithLabelValues(result(err)).Inc()
	h.pageTime.Observe(d.Seconds())
}

func (h *PrometheusHooks) OnExportComplete(_ context.Context, _ string, d time.Duration, warnings int, err error) {
	h.exports.WithLabelValues(result(err)).Inc()
	h.exportTime.Observe(d.Seconds())
	h.warnings.Add(float64(warnings))
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	h.httpRequests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	h.httpTime.WithLabelValues(host).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpErrors.WithLabelValues(host).Inc()
}

var (
	_ ExportHooks = (*PrometheusHooks)(nil)
	_ CacheHooks  = (*PrometheusHooks)(nil)
	_ HTTPHooks   = (*PrometheusHooks)(nil)
)
